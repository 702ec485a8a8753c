// Package service drives payment records through their lifecycle: creation
// through a gateway adapter, reconciliation of asynchronous notifications and
// emission of lifecycle events.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/lock"
	appvalidator "github.com/metinatakli/payment-orchestrator/internal/validator"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CreatePaymentInput struct {
	BookingID   string          `json:"bookingId" validate:"required,max=64"`
	Amount      decimal.Decimal `json:"amount" validate:"vnd_amount"`
	Method      string          `json:"method" validate:"required,payment_method"`
	Description string          `json:"description" validate:"max=255"`
	ClientIP    string          `json:"-" validate:"omitempty,ip"`
}

type Options struct {
	Repository domain.PaymentRepository
	Publisher  domain.EventPublisher
	Locker     lock.Locker
	Providers  []domain.PaymentProvider
	Validator  *validator.Validate
	// PublicBaseURL is the externally reachable base of this service; callback
	// and return URLs handed to gateways are built from it.
	PublicBaseURL string
	Logger        *slog.Logger
}

type PaymentService struct {
	repo      domain.PaymentRepository
	publisher domain.EventPublisher
	locker    lock.Locker
	providers map[domain.PaymentMethod]domain.PaymentProvider
	validator *validator.Validate
	refs      *ReferenceGenerator
	baseURL   string
	logger    *slog.Logger
	metrics   *serviceMetrics
	now       func() time.Time
}

func NewPaymentService(opts Options) (*PaymentService, error) {
	if opts.Repository == nil || opts.Publisher == nil {
		return nil, errors.New("payment service requires a repository and a publisher")
	}

	metrics, err := newServiceMetrics()
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	providers := make(map[domain.PaymentMethod]domain.PaymentProvider, len(opts.Providers))
	for _, p := range opts.Providers {
		providers[p.Method()] = p
	}

	s := &PaymentService{
		repo:      opts.Repository,
		publisher: opts.Publisher,
		locker:    opts.Locker,
		providers: providers,
		validator: opts.Validator,
		refs:      NewReferenceGenerator(),
		baseURL:   strings.TrimRight(opts.PublicBaseURL, "/"),
		logger:    opts.Logger,
		metrics:   metrics,
		now:       time.Now,
	}

	if s.locker == nil {
		s.locker = lock.NewKeyedMutex()
	}
	if s.validator == nil {
		s.validator = appvalidator.NewValidator()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// CreatePayment asks the gateway for a payment affordance and stores the
// payment as PENDING. Nothing is stored when the gateway call fails.
func (s *PaymentService) CreatePayment(ctx context.Context, userID string, input CreatePaymentInput) (*domain.Payment, error) {
	err := s.validateCreate(userID, input)
	if err != nil {
		return nil, err
	}

	method, _ := domain.ParsePaymentMethod(input.Method)

	provider, ok := s.providers[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrConfig, method)
	}

	seed, err := s.refs.Next(input.BookingID)
	if err != nil {
		return nil, err
	}

	reference := provider.FormatReference(seed)
	returnURL, callbackURL := s.callbackURLs(method)

	description := input.Description
	if description == "" {
		description = "Thanh toan booking " + input.BookingID
	}

	result, err := provider.Initiate(ctx, domain.CreateRequest{
		Reference:   reference,
		Amount:      input.Amount,
		Description: description,
		ReturnURL:   returnURL,
		CallbackURL: callbackURL,
		ClientIP:    input.ClientIP,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to initiate payment",
			"method", method, "booking_id", input.BookingID, "reference", reference, "error", err)
		return nil, err
	}

	payment := &domain.Payment{
		BookingID:   input.BookingID,
		UserID:      userID,
		Method:      method,
		Amount:      input.Amount,
		Reference:   reference,
		QRImageURL:  result.QRImageURL,
		PaymentURL:  result.RedirectURL,
		Status:      domain.PaymentStatusPending,
		PaymentDate: s.now(),
	}

	err = s.repo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.metrics.created.Add(ctx, 1, metric.WithAttributes(attribute.String("method", string(method))))
	s.logger.InfoContext(ctx, "payment created",
		"payment_id", payment.ID, "method", method, "booking_id", payment.BookingID, "reference", reference)

	return payment, nil
}

func (s *PaymentService) validateCreate(userID string, input CreatePaymentInput) error {
	validationErr := &domain.ValidationError{}

	if strings.TrimSpace(userID) == "" {
		validationErr.Add("userId", "is required")
	}

	err := appvalidator.ToDomain(s.validator.Struct(input))
	if err != nil {
		var fieldErrs *domain.ValidationError
		if !errors.As(err, &fieldErrs) {
			return err
		}
		validationErr.Fields = append(validationErr.Fields, fieldErrs.Fields...)
	}

	if validationErr.Empty() {
		return nil
	}

	return validationErr
}

// callbackURLs returns the browser return URL and the server callback URL a
// gateway is given for method.
func (s *PaymentService) callbackURLs(method domain.PaymentMethod) (string, string) {
	base := s.baseURL + "/payments/" + method.Slug()

	switch method {
	case domain.PaymentMethodVietQR, domain.PaymentMethodPayOS:
		return "", base + "/webhook"
	default:
		return base + "/return", base + "/ipn"
	}
}

// HandleNotification verifies and applies one provider notification and
// returns the acknowledgement the provider expects. Failures are reported in
// the returned NotificationReport, never as an error.
func (s *PaymentService) HandleNotification(
	ctx context.Context,
	method domain.PaymentMethod,
	payload domain.NotificationPayload) (domain.NotificationReport, domain.Acknowledgement) {

	report := s.processNotification(ctx, method, payload)

	s.metrics.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", string(method)),
		attribute.String("outcome", report.Outcome.String()),
	))

	logger := s.logger.With("method", method, "outcome", report.Outcome.String(), "channel", channelName(payload.Channel))
	if report.Payment != nil {
		logger = logger.With("payment_id", report.Payment.ID, "reference", report.Payment.Reference)
	}

	switch {
	case report.Outcome != domain.NotificationRejected:
		logger.InfoContext(ctx, "notification handled")
	case errors.Is(report.Err, domain.ErrAmountMismatch):
		logger.WarnContext(ctx, "notification amount does not match payment", "error", report.Err)
	case errors.Is(report.Err, domain.ErrSignature), errors.Is(report.Err, domain.ErrMalformedPayload):
		logger.WarnContext(ctx, "notification rejected", "error", report.Err)
	default:
		logger.ErrorContext(ctx, "notification failed", "error", report.Err)
	}

	provider, ok := s.providers[method]
	if !ok {
		return report, domain.Acknowledgement{
			StatusCode: http.StatusNotFound,
			Body:       map[string]string{"message": "unsupported payment method"},
		}
	}

	return report, provider.Acknowledge(report)
}

func (s *PaymentService) processNotification(
	ctx context.Context,
	method domain.PaymentMethod,
	payload domain.NotificationPayload) domain.NotificationReport {

	report := domain.NotificationReport{Channel: payload.Channel}

	reject := func(err error) domain.NotificationReport {
		report.Outcome = domain.NotificationRejected
		report.Err = err
		return report
	}

	provider, ok := s.providers[method]
	if !ok {
		return reject(fmt.Errorf("%w: %s", domain.ErrConfig, method))
	}

	result, err := provider.VerifyNotification(ctx, payload)
	if err != nil {
		return reject(err)
	}

	unlock, err := s.locker.Lock(ctx, lockKey(method, result.Reference))
	if err != nil {
		return reject(err)
	}
	defer unlock()

	payment, err := s.repo.GetByReference(ctx, method, result.Reference)
	if err != nil {
		return reject(fmt.Errorf("%s reference %s: %w", method, result.Reference, err))
	}
	report.Payment = payment

	if payment.Status.IsTerminal() {
		report.Outcome = domain.NotificationDuplicate
		return report
	}

	if !result.Amount.Equal(payment.Amount) {
		return reject(fmt.Errorf("%w: provider reported %s, payment %s expects %s",
			domain.ErrAmountMismatch, result.Amount, payment.ID, payment.Amount))
	}

	update := domain.StatusUpdate{
		ID:   payment.ID,
		From: domain.PaymentStatusPending,
		To:   domain.PaymentStatusFailed,
	}
	if result.Success {
		now := s.now()
		update.To = domain.PaymentStatusSuccess
		update.PaymentDate = &now
	}
	if result.ProviderTransactionID != "" {
		update.TransactionID = &result.ProviderTransactionID
	}

	updated, err := s.repo.UpdateStatus(ctx, update)
	if errors.Is(err, domain.ErrEditConflict) {
		current, getErr := s.repo.GetByID(ctx, payment.ID)
		if getErr == nil {
			report.Payment = current
		}
		report.Outcome = domain.NotificationDuplicate
		return report
	}
	if err != nil {
		return reject(err)
	}

	report.Payment = updated
	report.Outcome = domain.NotificationApplied

	s.recordTransition(ctx, updated)

	return report
}

// ForceSuccess marks a PENDING payment SUCCESS without provider evidence. It is
// an operator action and is audited. A payment that already succeeded is
// returned unchanged; a FAILED payment is refused with ErrPaymentFinalized.
func (s *PaymentService) ForceSuccess(
	ctx context.Context,
	id uuid.UUID,
	transactionID string,
	operator string) (*domain.Payment, error) {

	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, lockKey(payment.Method, payment.Reference))
	if err != nil {
		return nil, err
	}
	defer unlock()

	payment, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case domain.PaymentStatusSuccess:
		s.logger.InfoContext(ctx, "force success skipped, payment already succeeded",
			"payment_id", payment.ID, "operator", operator)
		return payment, nil
	case domain.PaymentStatusFailed:
		s.logger.WarnContext(ctx, "force success refused, payment already failed",
			"payment_id", payment.ID, "operator", operator)
		return nil, fmt.Errorf("%w: payment %s is %s", domain.ErrPaymentFinalized, payment.ID, payment.Status)
	}

	now := s.now()
	update := domain.StatusUpdate{
		ID:          payment.ID,
		From:        domain.PaymentStatusPending,
		To:          domain.PaymentStatusSuccess,
		PaymentDate: &now,
	}
	if transactionID != "" {
		update.TransactionID = &transactionID
	}

	updated, err := s.repo.UpdateStatus(ctx, update)
	if err != nil {
		return nil, err
	}

	s.logger.WarnContext(ctx, "payment forced to success by operator",
		"payment_id", updated.ID,
		"operator", operator,
		"transaction_id", transactionID,
	)

	s.recordTransition(ctx, updated)

	return updated, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPayments pages through payments. Page and page size are clamped and the
// sort key is restricted to domain.PaymentSortSafelist.
func (s *PaymentService) ListPayments(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Payment, *domain.Metadata, error) {

	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize < 1 {
		pagination.PageSize = DefaultPageSize
	}
	if pagination.PageSize > MaxPageSize {
		pagination.PageSize = MaxPageSize
	}
	pagination.Term = strings.TrimSpace(pagination.Term)
	pagination.SortSafelist = domain.PaymentSortSafelist

	return s.repo.List(ctx, pagination)
}

// recordTransition publishes the event for a terminal transition. A publish
// failure is logged and counted; the transition stands.
func (s *PaymentService) recordTransition(ctx context.Context, payment *domain.Payment) {
	attrs := metric.WithAttributes(
		attribute.String("method", string(payment.Method)),
		attribute.String("status", string(payment.Status)),
	)
	s.metrics.transitions.Add(ctx, 1, attrs)

	topic := domain.TopicFor(payment.Status)

	err := s.publisher.Publish(ctx, topic, domain.NewPaymentEvent(payment, s.now()))
	if err != nil {
		s.metrics.publishFailures.Add(ctx, 1, attrs)
		s.logger.ErrorContext(ctx, "failed to publish payment event",
			"topic", topic, "payment_id", payment.ID, "error", err)
		return
	}

	s.logger.InfoContext(ctx, "payment event published", "topic", topic, "payment_id", payment.ID)
}

func lockKey(method domain.PaymentMethod, reference string) string {
	return method.Slug() + ":" + reference
}

func channelName(c domain.NotificationChannel) string {
	if c == domain.ChannelReturn {
		return "return"
	}

	return "webhook"
}
