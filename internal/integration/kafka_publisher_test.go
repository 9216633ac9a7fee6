//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/adapter/kafka"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/config"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/domain"
)

const testFeatureTopic = "test-weather-features"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

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

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublisherRoundTrip verifies that feature records built from raw
// payloads arrive on the feature topic with the expected key, headers, and
// JSON body.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testFeatureTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testFeatureTopic,
	}

	logger := discardLogger()
	asos := domain.ParseASOS("202506160800 108 21.5", logger)
	pm10 := domain.ParsePM10("202506160800,108,40", logger)
	uv := domain.ParseUV("202506160800 108 0.031 0.5 0.2", logger)
	features := domain.BuildFeatures(domain.Fuse(asos, pm10, uv))
	require.Len(t, features, 1)

	publisher := kafka.NewPublisher(cfg, logger)
	t.Cleanup(func() { _ = publisher.Close() })

	require.NoError(t, publisher.PublishFeatures(ctx, features))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testFeatureTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from feature topic")

	assert.Equal(t, "108|2025-06-16T08:00:00Z", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "108", headers["station_id"])
	assert.Equal(t, "2025-06-16T08:00:00Z", headers["observed_at"])

	var record domain.FeatureRecord
	require.NoError(t, json.Unmarshal(msg.Value, &record))
	assert.Equal(t, "108", record.StationID)
	require.NotNil(t, record.Temperature)
	assert.Equal(t, 21.5, *record.Temperature)
	assert.True(t, record.IsMorningRush)
	assert.Equal(t, "summer", record.Season)
	assert.Equal(t, features[0].ComfortScore, record.ComfortScore)
}
