package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TopicPaymentSuccess = "payment.success"
	TopicPaymentFailed  = "payment.failed"
)

// PaymentEvent is published at least once per terminal transition.
// Consumers must deduplicate on PaymentID.
type PaymentEvent struct {
	PaymentID     uuid.UUID       `json:"paymentId"`
	BookingID     string          `json:"bookingId"`
	UserID        string          `json:"userId"`
	Method        PaymentMethod   `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	TransactionID *string         `json:"transactionId,omitempty"`
	Reference     string          `json:"reference"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func NewPaymentEvent(p *Payment, occurredAt time.Time) PaymentEvent {
	return PaymentEvent{
		PaymentID:     p.ID,
		BookingID:     p.BookingID,
		UserID:        p.UserID,
		Method:        p.Method,
		Amount:        p.Amount,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		Reference:     p.Reference,
		OccurredAt:    occurredAt,
	}
}

// TopicFor returns the topic for a terminal status.
func TopicFor(status PaymentStatus) string {
	if status == PaymentStatusSuccess {
		return TopicPaymentSuccess
	}

	return TopicPaymentFailed
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event PaymentEvent) error
}
