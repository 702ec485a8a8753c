package mocks

import (
	"context"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, event domain.PaymentEvent) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}
