package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodVNPay  PaymentMethod = "VNPAY"
	PaymentMethodMoMo   PaymentMethod = "MOMO"
	PaymentMethodVietQR PaymentMethod = "VIETQR"
	PaymentMethodPayOS  PaymentMethod = "PAYOS"
)

// PaymentMethods lists every supported gateway. The set is closed.
var PaymentMethods = []PaymentMethod{
	PaymentMethodVNPay,
	PaymentMethodMoMo,
	PaymentMethodVietQR,
	PaymentMethodPayOS,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !method.Valid() {
		return "", fmt.Errorf("%w: unsupported payment method %q", ErrValidation, s)
	}

	return method, nil
}

func (m PaymentMethod) Valid() bool {
	for _, method := range PaymentMethods {
		if m == method {
			return true
		}
	}

	return false
}

// Slug is the lower-case form used in callback URL paths.
func (m PaymentMethod) Slug() string {
	return strings.ToLower(string(m))
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentSortSafelist is the set of sort keys a payment listing accepts. A
// leading "-" sorts descending; the first entry is the default.
var PaymentSortSafelist = []string{
	"-created_at", "created_at",
	"-amount", "amount",
	"-payment_date", "payment_date",
	"status", "-status",
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

type Payment struct {
	ID            uuid.UUID
	BookingID     string
	UserID        string
	Method        PaymentMethod
	Amount        decimal.Decimal
	Reference     string
	TransactionID *string
	QRImageURL    *string
	PaymentURL    *string
	Status        PaymentStatus
	PaymentDate   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StatusUpdate is a conditional transition: it only applies while the stored
// status still equals From.
type StatusUpdate struct {
	ID            uuid.UUID
	From          PaymentStatus
	To            PaymentStatus
	TransactionID *string
	PaymentDate   *time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByReference(ctx context.Context, method PaymentMethod, reference string) (*Payment, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) (*Payment, error)
	List(ctx context.Context, pagination Pagination) ([]Payment, *Metadata, error)
}
