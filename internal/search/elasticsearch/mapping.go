package elasticsearch

// DefaultIndexName is the default Elasticsearch index used for product documents.
const DefaultIndexName = "catalog_products"

// buildIndexMapping returns the full JSON mapping for the products index.
// The suggest field backs the completion suggester; category_id is duplicated
// at the top level so term filters stay flat.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "id":          { "type": "long" },
      "name":        { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "description": { "type": "text" },
      "price":       { "type": "double" },
      "category": {
        "properties": {
          "id":   { "type": "long" },
          "name": { "type": "text", "fields": { "keyword": { "type": "keyword" } } }
        }
      },
      "category_id": { "type": "long" },
      "image":       { "type": "keyword", "index": false },
      "suggest":     { "type": "completion" }
    }
  }
}`
}
