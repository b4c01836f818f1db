package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/svetlov/catalog/internal/domain"
)

// suggesterName is the key under which the completion suggester is registered
// in suggest requests and responses.
const suggesterName = "product-suggest"

// esSuggestResponse is the structure used to decode completion suggester responses.
type esSuggestResponse struct {
	Suggest map[string][]struct {
		Options []struct {
			Text string `json:"text"`
		} `json:"options"`
	} `json:"suggest"`
}

// Suggest returns autocomplete options for the given name prefix using the
// completion suggester on the suggest field.
func (e *Engine) Suggest(ctx context.Context, query *domain.SuggestQuery) (*domain.SuggestResult, error) {
	body := map[string]interface{}{
		"suggest": map[string]interface{}{
			suggesterName: map[string]interface{}{
				"prefix": query.Query,
				"completion": map[string]interface{}{
					"field": "suggest",
					"size":  query.Size,
				},
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch suggest: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch suggest: unexpected status %s", res.Status())
	}

	var esResp esSuggestResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: decode response: %w", err)
	}

	options := []string{}
	for _, entry := range esResp.Suggest[suggesterName] {
		for _, opt := range entry.Options {
			options = append(options, opt.Text)
		}
	}

	return &domain.SuggestResult{
		Query:   query.Query,
		Options: options,
		Size:    query.Size,
	}, nil
}
