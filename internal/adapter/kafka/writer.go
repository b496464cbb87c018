package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/forest-cover-service/internal/config"
	"github.com/couchcryptid/forest-cover-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes prediction events to a Kafka topic.
// It implements inference.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates an asynchronous Kafka producer for the predictions topic.
// WriteMessages returns once messages are queued; delivery failures are
// reported through the completion callback and logged.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &Writer{logger: logger}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaPredictionsTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
		Completion:   w.completed,
	}
	return w
}

// Publish serializes and queues events in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, events []domain.PredictionEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func (w *Writer) completed(msgs []kafkago.Message, err error) {
	if err != nil {
		w.logger.Error("prediction events not delivered",
			"error", err, "topic", w.writer.Topic, "messages", len(msgs))
	}
}

// serializeToMessage marshals a PredictionEvent into a Kafka message. Events
// from one request share a key so they land on the same partition in order.
func serializeToMessage(event domain.PredictionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction event: %w", err)
	}
	msg := kafkago.Message{
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(event.Source)},
			{Key: "predicted_at", Value: []byte(event.PredictedAt.Format(time.RFC3339))},
		},
	}
	if event.RequestID != "" {
		msg.Key = []byte(event.RequestID)
	}
	return msg, nil
}
