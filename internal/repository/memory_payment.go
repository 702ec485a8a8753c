package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
)

type referenceKey struct {
	method    domain.PaymentMethod
	reference string
}

// MemoryPaymentRepository keeps payments in process memory. It enforces the
// same uniqueness and conditional-update rules as the Postgres store.
type MemoryPaymentRepository struct {
	mu          sync.RWMutex
	byID        map[uuid.UUID]domain.Payment
	byReference map[referenceKey]uuid.UUID
	now         func() time.Time
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		byID:        make(map[uuid.UUID]domain.Payment),
		byReference: make(map[referenceKey]uuid.UUID),
		now:         time.Now,
	}
}

func (m *MemoryPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := referenceKey{method: payment.Method, reference: payment.Reference}
	if _, ok := m.byReference[key]; ok {
		return fmt.Errorf("%w: %s %s", domain.ErrConflict, payment.Method, payment.Reference)
	}

	now := m.now()
	payment.ID = uuid.New()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	m.byID[payment.ID] = clonePayment(*payment)
	m.byReference[key] = payment.ID

	return nil
}

func (m *MemoryPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payment, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	out := clonePayment(payment)

	return &out, nil
}

func (m *MemoryPaymentRepository) GetByReference(
	ctx context.Context,
	method domain.PaymentMethod,
	reference string) (*domain.Payment, error) {

	m.mu.RLock()
	id, ok := m.byReference[referenceKey{method: method, reference: reference}]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return m.GetByID(ctx, id)
}

func (m *MemoryPaymentRepository) UpdateStatus(ctx context.Context, update domain.StatusUpdate) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payment, ok := m.byID[update.ID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	if payment.Status != update.From {
		return nil, domain.ErrEditConflict
	}

	payment.Status = update.To
	if update.TransactionID != nil {
		payment.TransactionID = ptr(*update.TransactionID)
	}
	if update.PaymentDate != nil {
		payment.PaymentDate = *update.PaymentDate
	}
	payment.UpdatedAt = m.now()

	m.byID[payment.ID] = payment

	out := clonePayment(payment)

	return &out, nil
}

func (m *MemoryPaymentRepository) List(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Payment, *domain.Metadata, error) {

	m.mu.RLock()
	matched := make([]domain.Payment, 0, len(m.byID))
	for _, payment := range m.byID {
		if matchesTerm(payment, pagination.Term) {
			matched = append(matched, clonePayment(payment))
		}
	}
	m.mu.RUnlock()

	column := pagination.SortColumn()
	desc := pagination.SortDirection() == "DESC"

	slices.SortFunc(matched, func(a, b domain.Payment) int {
		c := comparePayments(a, b, column)
		if desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		return c
	})

	total := len(matched)
	start := min(max(pagination.Offset(), 0), total)
	end := min(start+max(pagination.Limit(), 0), total)

	return matched[start:end], domain.NewMetadata(total, pagination.Page, pagination.PageSize), nil
}

func comparePayments(a, b domain.Payment, column string) int {
	switch column {
	case "amount":
		return a.Amount.Cmp(b.Amount)
	case "payment_date":
		return a.PaymentDate.Compare(b.PaymentDate)
	case "status":
		return cmp.Compare(a.Status, b.Status)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func matchesTerm(payment domain.Payment, term string) bool {
	if term == "" {
		return true
	}

	term = strings.ToLower(term)
	candidates := []string{payment.BookingID, payment.Reference}
	if payment.TransactionID != nil {
		candidates = append(candidates, *payment.TransactionID)
	}

	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}

	return false
}

// clonePayment copies the pointer fields so callers never share state with
// the store.
func clonePayment(p domain.Payment) domain.Payment {
	if p.TransactionID != nil {
		p.TransactionID = ptr(*p.TransactionID)
	}
	if p.QRImageURL != nil {
		p.QRImageURL = ptr(*p.QRImageURL)
	}
	if p.PaymentURL != nil {
		p.PaymentURL = ptr(*p.PaymentURL)
	}

	return p
}

func ptr[T any](v T) *T {
	return &v
}
