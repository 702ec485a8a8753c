package service

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/metinatakli/payment-orchestrator/internal/service"

type serviceMetrics struct {
	created         metric.Int64Counter
	notifications   metric.Int64Counter
	transitions     metric.Int64Counter
	publishFailures metric.Int64Counter
}

func newServiceMetrics() (*serviceMetrics, error) {
	meter := otel.Meter(meterName)

	created, err1 := meter.Int64Counter("payments.created",
		metric.WithDescription("Payments persisted in PENDING state"))
	notifications, err2 := meter.Int64Counter("payments.notifications",
		metric.WithDescription("Provider notifications by method and outcome"))
	transitions, err3 := meter.Int64Counter("payments.transitions",
		metric.WithDescription("Terminal status transitions by method and status"))
	publishFailures, err4 := meter.Int64Counter("payments.publish_failures",
		metric.WithDescription("Payment events that could not be handed to the bus"))

	err := errors.Join(err1, err2, err3, err4)
	if err != nil {
		return nil, err
	}

	return &serviceMetrics{
		created:         created,
		notifications:   notifications,
		transitions:     transitions,
		publishFailures: publishFailures,
	}, nil
}
