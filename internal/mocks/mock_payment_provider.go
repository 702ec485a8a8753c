package mocks

import (
	"context"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) Method() domain.PaymentMethod {
	args := m.Called()
	return args.Get(0).(domain.PaymentMethod)
}

func (m *MockPaymentProvider) FormatReference(seed domain.ReferenceSeed) string {
	args := m.Called(seed)
	return args.String(0)
}

func (m *MockPaymentProvider) Initiate(ctx context.Context, req domain.CreateRequest) (*domain.InitiateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InitiateResult), args.Error(1)
}

func (m *MockPaymentProvider) VerifyNotification(
	ctx context.Context,
	payload domain.NotificationPayload) (*domain.NotificationResult, error) {

	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationResult), args.Error(1)
}

func (m *MockPaymentProvider) Acknowledge(report domain.NotificationReport) domain.Acknowledgement {
	args := m.Called(report)
	return args.Get(0).(domain.Acknowledgement)
}
