package domain

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceSeed holds the parts a provider combines into its own reference
// format. Timestamp is strictly increasing within a process.
type ReferenceSeed struct {
	BookingID string
	Timestamp time.Time
	Random    uint32
}

type CreateRequest struct {
	Reference   string
	Amount      decimal.Decimal
	Description string
	ReturnURL   string
	CallbackURL string
	ClientIP    string
}

type InitiateResult struct {
	RedirectURL       *string
	QRImageURL        *string
	ProviderReference string
}

type NotificationChannel int

const (
	// ChannelWebhook is a server-to-server callback (IPN, webhook).
	ChannelWebhook NotificationChannel = iota
	// ChannelReturn is the customer's browser coming back from the gateway.
	ChannelReturn
)

// NotificationPayload is the raw inbound signal: the query string for
// redirect-style returns and the body for webhooks.
type NotificationPayload struct {
	Channel NotificationChannel
	Query   url.Values
	Body    []byte
}

type NotificationResult struct {
	Reference             string
	Amount                decimal.Decimal
	ProviderTransactionID string
	OutcomeCode           string
	Success               bool
	RawPayload            []byte
}

type NotificationOutcome int

const (
	NotificationApplied NotificationOutcome = iota
	NotificationDuplicate
	NotificationRejected
)

func (o NotificationOutcome) String() string {
	switch o {
	case NotificationApplied:
		return "applied"
	case NotificationDuplicate:
		return "duplicate"
	default:
		return "rejected"
	}
}

// NotificationReport is what the orchestrator hands back to a callback
// endpoint. Err is set only when Outcome is NotificationRejected.
type NotificationReport struct {
	Channel NotificationChannel
	Outcome NotificationOutcome
	Payment *Payment
	Err     error
}

// Acknowledgement is the provider-mandated reply to a notification.
// RedirectURL, when set, takes precedence over Body.
type Acknowledgement struct {
	StatusCode  int
	Body        any
	RedirectURL string
}

type PaymentProvider interface {
	Method() PaymentMethod
	FormatReference(seed ReferenceSeed) string
	Initiate(ctx context.Context, req CreateRequest) (*InitiateResult, error)
	VerifyNotification(ctx context.Context, payload NotificationPayload) (*NotificationResult, error)
	Acknowledge(report NotificationReport) Acknowledgement
}
