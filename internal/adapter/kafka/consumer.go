// Package kafka consumes bed-census updates from the hospital census feed.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/transfer-center/internal/census"
	"github.com/couchcryptid/transfer-center/internal/config"
	"github.com/couchcryptid/transfer-center/internal/observability"
)

// Consumer reads census update messages and applies them to the registry.
type Consumer struct {
	reader   *kafkago.Reader
	registry *census.Registry
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewConsumer creates a Kafka consumer for the configured census topic.
func NewConsumer(cfg *config.Config, registry *census.Registry, logger *slog.Logger, metrics *observability.Metrics) *Consumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaCensusTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Consumer{reader: r, registry: registry, logger: logger, metrics: metrics}
}

// Run consumes until the context is canceled. Malformed or invalid messages
// are logged and skipped; the feed must survive a bad producer.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("read census message: %w", err)
		}

		update, err := parseUpdate(msg)
		if err != nil {
			c.metrics.CensusUpdatesTotal.WithLabelValues("rejected").Inc()
			c.logger.Warn("skipping malformed census message",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			continue
		}

		if err := c.registry.Apply(update); err != nil {
			c.metrics.CensusUpdatesTotal.WithLabelValues("rejected").Inc()
			c.logger.Warn("skipping invalid census update",
				"error", err,
				"campus_id", update.CampusID,
			)
			continue
		}

		c.metrics.CensusUpdatesTotal.WithLabelValues("applied").Inc()
		c.logger.Debug("census update applied",
			"campus_id", update.CampusID,
			"available_beds", update.Census.AvailableBeds,
		)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// parseUpdate unmarshals a census message. The Kafka key, when present, must
// agree with the campus_id in the payload.
func parseUpdate(msg kafkago.Message) (census.Update, error) {
	var update census.Update
	if err := json.Unmarshal(msg.Value, &update); err != nil {
		return census.Update{}, fmt.Errorf("parse census update: %w", err)
	}
	if len(msg.Key) > 0 && string(msg.Key) != update.CampusID {
		return census.Update{}, fmt.Errorf("message key %q does not match campus_id %q", msg.Key, update.CampusID)
	}
	if update.ReportedAt.IsZero() {
		update.ReportedAt = msg.Time
	}
	return update, nil
}
