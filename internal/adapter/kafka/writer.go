// Package kafka publishes feature records to a downstream topic for online
// consumers. Publishing is optional; the pipeline runs without it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/config"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/domain"
)

// Publisher produces feature records to a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured feature topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishFeatures serializes and publishes the feature records in a single
// WriteMessages call for efficiency.
func (p *Publisher) PublishFeatures(ctx context.Context, records []domain.FeatureRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a feature record into a Kafka message keyed by
// its (station, datetime) identity.
func serializeToMessage(record domain.FeatureRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature record: %w", err)
	}
	key := fmt.Sprintf("%s|%s", record.StationID, record.Datetime.Format(time.RFC3339))
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_id", Value: []byte(record.StationID)},
			{Key: "observed_at", Value: []byte(record.Datetime.Format(time.RFC3339))},
		},
	}, nil
}
