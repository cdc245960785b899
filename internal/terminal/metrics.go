// internal/terminal/metrics.go
package terminal

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	mutations      metric.Int64Counter
	checkouts      metric.Int64Counter
	unlockFailures metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	meter := otel.Meter("mudahpos/terminal")

	mutations, err := meter.Int64Counter("pos.cart.mutations",
		metric.WithDescription("Successful order mutations"))
	if err != nil {
		return nil, fmt.Errorf("create mutation counter: %w", err)
	}
	checkouts, err := meter.Int64Counter("pos.checkouts",
		metric.WithDescription("Checkout hand-offs by outcome"))
	if err != nil {
		return nil, fmt.Errorf("create checkout counter: %w", err)
	}
	unlockFailures, err := meter.Int64Counter("pos.unlock.failures",
		metric.WithDescription("Rejected unlock attempts"))
	if err != nil {
		return nil, fmt.Errorf("create unlock counter: %w", err)
	}

	return &metrics{
		mutations:      mutations,
		checkouts:      checkouts,
		unlockFailures: unlockFailures,
	}, nil
}

func (m *metrics) cartMutation(ctx context.Context, op string) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func (m *metrics) checkout(ctx context.Context, outcome string) {
	m.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *metrics) unlockFailure(ctx context.Context, err error) {
	reason := "wrong_pin"
	if errors.Is(err, ErrTooManyAttempts) {
		reason = "throttled"
	}
	m.unlockFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
