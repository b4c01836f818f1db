package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]any{"id": 42, "name": "Espresso Machine"}

	event, err := NewEvent("product.created", "42", "product", "catalog", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "product.created", event.EventType)
	assert.Equal(t, "42", event.AggregateID)
	assert.Equal(t, "product", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventRoundTrip(t *testing.T) {
	type productPayload struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	event, err := NewEvent("product.updated", "7", "product", "catalog", productPayload{ID: 7, Name: "Grinder"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1").WithMetadata("region", "eu")

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
	assert.Equal(t, "eu", decoded.Metadata["region"])

	var payload productPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, int64(7), payload.ID)
	assert.Equal(t, "Grinder", payload.Name)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "catalog.product.created", Topic("product", "created"))
	assert.Equal(t, "catalog.category.deleted", Topic("category", "deleted"))
}
