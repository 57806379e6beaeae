package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/config"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes dashboard views to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic. Views are
// keyed by session so one session's views stay ordered on a partition.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes views in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, views []engine.View) error {
	if len(views) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(views))
	for i := range views {
		msg, err := serializeToMessage(views[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a View into a Kafka message.
func serializeToMessage(view engine.View) (kafkago.Message, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize dashboard view: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(view.SessionID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "view_id", Value: []byte(view.ID)},
			{Key: "failed_panels", Value: []byte(fmt.Sprint(len(view.Dashboard.Errors)))},
			{Key: "generated_at", Value: []byte(view.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
