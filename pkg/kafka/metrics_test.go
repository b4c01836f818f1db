package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatherMetricNames collects all metric names from the default registry.
func gatherMetricNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	return names
}

func TestConsumerMetrics_Registered(t *testing.T) {
	expectedMetrics := []string{
		"kafka_consumer_messages_received_total",
		"kafka_consumer_messages_processed_total",
		"kafka_consumer_messages_failed_total",
		"kafka_consumer_processing_duration_seconds",
		"kafka_producer_messages_published_total",
		"kafka_producer_publish_errors_total",
	}

	// Counters with no observations may not appear in Gather() until they
	// receive at least one; touch each so it shows up.
	ConsumerMessagesReceived.WithLabelValues("test-topic", "test-group")
	ConsumerMessagesProcessed.WithLabelValues("test-topic", "test-group")
	ConsumerMessagesFailed.WithLabelValues("test-topic", "test-group")
	ConsumerProcessingDuration.WithLabelValues("test-topic", "test-group")
	ProducerMessagesPublished.WithLabelValues("test-topic")
	ProducerPublishErrors.WithLabelValues("test-topic")

	names := gatherMetricNames(t)
	for _, name := range expectedMetrics {
		assert.True(t, names[name], "metric %s not registered", name)
	}
}

func newTestConsumer(t *testing.T, handler Handler) *Consumer {
	t.Helper()
	c := NewConsumer(ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "metrics-test-group",
		Topic:   "catalog.test.topic",
	}, handler, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testMessage(t *testing.T, topic string) kafka.Message {
	t.Helper()
	event, err := NewEvent("test.happened", "1", "test", "test-service", map[string]string{"k": "v"})
	require.NoError(t, err)
	value, err := event.Marshal()
	require.NoError(t, err)
	return kafka.Message{Topic: topic, Value: value}
}

func TestProcessMessage_CountsSuccess(t *testing.T) {
	const topic = "catalog.metrics.success"
	calls := 0
	c := newTestConsumer(t, func(context.Context, *Event) error {
		calls++
		return nil
	})

	c.processMessage(context.Background(), testMessage(t, topic))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerMessagesReceived.WithLabelValues(topic, "metrics-test-group")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerMessagesProcessed.WithLabelValues(topic, "metrics-test-group")))
	assert.Equal(t, 0.0, testutil.ToFloat64(ConsumerMessagesFailed.WithLabelValues(topic, "metrics-test-group")))
}

func TestProcessMessage_CountsExhaustedRetries(t *testing.T) {
	const topic = "catalog.metrics.poison"
	calls := 0
	c := newTestConsumer(t, func(context.Context, *Event) error {
		calls++
		return errors.New("handler broken")
	})

	c.processMessage(context.Background(), testMessage(t, topic))

	assert.Equal(t, maxHandlerRetries, calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerMessagesFailed.WithLabelValues(topic, "metrics-test-group")))
	assert.Equal(t, 0.0, testutil.ToFloat64(ConsumerMessagesProcessed.WithLabelValues(topic, "metrics-test-group")))
}

func TestProcessMessage_CountsUnmarshalFailure(t *testing.T) {
	const topic = "catalog.metrics.garbage"
	c := newTestConsumer(t, func(context.Context, *Event) error {
		t.Fatal("handler must not run for undecodable messages")
		return nil
	})

	c.processMessage(context.Background(), kafka.Message{Topic: topic, Value: []byte("not json")})

	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerMessagesFailed.WithLabelValues(topic, "metrics-test-group")))
}
