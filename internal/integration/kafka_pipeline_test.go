//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/config"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/observability"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/pipeline"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/snapshot"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testDashboardTopic = "test-dashboard-snapshots"

type staticSource struct {
	reports []domain.ReportRecord
}

func (s staticSource) FetchReports(_ context.Context) ([]domain.ReportRecord, error) {
	return s.reports, nil
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("hfrat-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cconn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cconn.Close()

	require.NoError(t, cconn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestDashboardPublishedToKafka runs one poll cycle with the Kafka writer as a
// sink and reads the snapshot back from the topic.
func TestDashboardPublishedToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testDashboardTopic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		KafkaBrokers:        []string{broker},
		KafkaDashboardTopic: testDashboardTopic,
	}
	writer := kafka.NewWriter(cfg, logger)
	t.Cleanup(func() { _ = writer.Close() })

	critical := "CRITICAL"
	src := staticSource{reports: []domain.ReportRecord{
		{FacilityName: "A", ICUBeds: domain.CountOf(0), Ventilators: domain.CountOf(1), Staff: domain.CountOf(5), Status: &critical},
		{FacilityName: "B", ICUBeds: domain.CountOf(10), Staff: domain.CountOf(3)},
	}}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(src, snapshot.NewStore(), logger, metrics, time.Hour,
		pipeline.WithSinks(pipeline.Sink{Name: "kafka", SnapshotSink: writer}))

	d, err := p.Refresh(ctx)
	require.NoError(t, err)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testDashboardTopic,
		StartOffset: kafkago.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read from dashboard topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "dashboard", string(msg.Key))
	assert.Equal(t, d.ID, headers["dashboard_id"])
	assert.Equal(t, "1", headers["critical_count"])

	var got struct {
		ID      string         `json:"id"`
		Metrics domain.Metrics `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, 2, got.Metrics.TotalFacilities)
	assert.Equal(t, 10.0, got.Metrics.TotalBeds)
	assert.Equal(t, domain.Maxima{Beds: 10, Vents: 1, Staff: 5}, got.Metrics.Maxima)
}
