package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linkdesk/videolink/internal/domain"
	"github.com/linkdesk/videolink/internal/guard"
	"github.com/linkdesk/videolink/internal/repository"
)

// Publisher delivers one encoded event. *KafkaProducer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, topic string, key, value []byte) error {
	p.Logger.Info("outbox event", "topic", topic, "key", string(key), "value", json.RawMessage(value))
	return nil
}

// OutboxRelayConfig holds the relay settings.
type OutboxRelayConfig struct {
	TopicPrefix  string
	PollInterval time.Duration
	BatchSize    int
	// Breaker pauses publishing after repeated failures. Nil disables it.
	Breaker *guard.Breaker
}

// OutboxRelay polls the event_outbox table and hands each event to a Publisher.
// Rows are deleted once published; a publish failure stops the batch so order is kept.
type OutboxRelay struct {
	db        repository.DBTX
	repo      repository.OutboxRepository
	publisher Publisher
	logger    *slog.Logger
	cfg       OutboxRelayConfig
}

// NewOutboxRelay creates a new outbox relay.
func NewOutboxRelay(db repository.DBTX, repo repository.OutboxRepository, publisher Publisher, cfg OutboxRelayConfig, logger *slog.Logger) *OutboxRelay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &OutboxRelay{
		db:        db,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run polls until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	r.logger.Info("outbox relay started", "interval", r.cfg.PollInterval, "batch_size", r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.PollOnce(ctx); err != nil {
				r.logger.Error("outbox poll error", "error", err)
			}
		}
	}
}

type outboxMessage struct {
	EventID       uuid.UUID            `json:"event_id"`
	AggregateType domain.AggregateType `json:"aggregate_type"`
	AggregateID   string               `json:"aggregate_id"`
	EventType     domain.EventType     `json:"event_type"`
	Payload       json.RawMessage      `json:"payload"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// Topic returns the topic an event type is published to.
func (r *OutboxRelay) Topic(eventType domain.EventType) string {
	if r.cfg.TopicPrefix == "" {
		return string(eventType)
	}
	return r.cfg.TopicPrefix + "." + string(eventType)
}

// PollOnce publishes one batch and returns how many events were published.
// While the breaker is open nothing is published.
func (r *OutboxRelay) PollOnce(ctx context.Context) (int, error) {
	rows, err := r.repo.FetchUnpublished(ctx, r.db, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if b := r.cfg.Breaker; b != nil {
		if err := b.Allow(); err != nil {
			r.logger.Debug("outbox publishing paused", "breaker", b.State().String(), "pending", len(rows))
			return 0, nil
		}
	}

	ids := make([]int64, 0, len(rows))
	var publishErr error
	for _, row := range rows {
		if err := r.publish(ctx, row); err != nil {
			publishErr = fmt.Errorf("publish event %s: %w", row.EventID, err)
			break
		}
		ids = append(ids, row.SeqID)
	}

	if b := r.cfg.Breaker; b != nil {
		if publishErr != nil {
			b.RecordFailure()
		} else {
			b.RecordSuccess()
		}
	}

	if err := r.repo.MarkPublished(ctx, r.db, ids); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}

	if len(ids) > 0 {
		r.logger.Debug("outbox batch published", "count", len(ids))
	}
	return len(ids), publishErr
}

func (r *OutboxRelay) publish(ctx context.Context, row domain.OutboxRow) error {
	value, err := json.Marshal(outboxMessage{
		EventID:       row.EventID,
		AggregateType: row.AggregateType,
		AggregateID:   row.AggregateID,
		EventType:     row.EventType,
		Payload:       row.Payload,
		OccurredAt:    row.OccurredAt,
	})
	if err != nil {
		return err
	}
	return r.publisher.Publish(ctx, r.Topic(row.EventType), []byte(row.AggregateID), value)
}
