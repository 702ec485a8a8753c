// Package events delivers payment lifecycle events to downstream consumers.
// Delivery is at least once; consumers deduplicate on paymentId.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultStreamPrefix = "events:"
	DefaultStreamMaxLen = 100_000
)

// RedisStreamPublisher appends each event to the stream {prefix}{topic}.
type RedisStreamPublisher struct {
	client redis.UniversalClient
	prefix string
	maxLen int64
}

func NewRedisStreamPublisher(client redis.UniversalClient, prefix string, maxLen int64) *RedisStreamPublisher {
	if prefix == "" {
		prefix = DefaultStreamPrefix
	}
	if maxLen <= 0 {
		maxLen = DefaultStreamMaxLen
	}

	return &RedisStreamPublisher{
		client: client,
		prefix: prefix,
		maxLen: maxLen,
	}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, topic string, event domain.PaymentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.prefix + topic,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"paymentId": event.PaymentID.String(),
			"payload":   string(payload),
		},
	}).Err()

	if err != nil {
		return fmt.Errorf("publish %s event for payment %s: %w", topic, event.PaymentID, err)
	}

	return nil
}

// LogPublisher writes events to the log. It stands in for the bus when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, topic string, event domain.PaymentEvent) error {
	p.logger.InfoContext(ctx, "payment event",
		"topic", topic,
		"payment_id", event.PaymentID,
		"booking_id", event.BookingID,
		"method", event.Method,
		"status", event.Status,
		"amount", event.Amount.String(),
		"reference", event.Reference,
	)

	return nil
}
