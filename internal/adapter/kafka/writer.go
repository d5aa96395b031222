package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/config"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageKey keeps every snapshot on one partition so consumers see them in order.
const messageKey = "dashboard"

// Writer publishes dashboard snapshots to a Kafka topic.
// It implements pipeline.SnapshotSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured dashboard topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaDashboardTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadSnapshot serializes d and writes it to the dashboard topic.
func (w *Writer) LoadSnapshot(ctx context.Context, d domain.Dashboard) error {
	msg, err := serializeToMessage(d)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish dashboard %s: %w", d.ID, err)
	}
	w.logger.Debug("dashboard published to kafka", "id", d.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// message is the wire form of a snapshot. Reports are left out; consumers
// get the derived values only.
type message struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Metrics     domain.Metrics   `json:"metrics"`
	Chart       domain.ChartData `json:"chart"`
}

// serializeToMessage marshals a Dashboard into a Kafka message.
func serializeToMessage(d domain.Dashboard) (kafkago.Message, error) {
	data, err := json.Marshal(message{
		ID:          d.ID,
		GeneratedAt: d.GeneratedAt,
		Metrics:     d.Metrics,
		Chart:       d.Chart,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize dashboard: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dashboard_id", Value: []byte(d.ID)},
			{Key: "generated_at", Value: []byte(d.GeneratedAt.Format(time.RFC3339))},
			{Key: "critical_count", Value: []byte(strconv.Itoa(d.Metrics.CriticalCount))},
		},
	}, nil
}
