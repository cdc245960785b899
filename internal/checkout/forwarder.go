// internal/checkout/forwarder.go
package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mudahpos/internal/money"
)

// Forwarder delivers a checkout request to a collaborator outside the terminal.
type Forwarder interface {
	Forward(ctx context.Context, req Request) error
}

// ForwarderFunc adapts a function to Forwarder.
type ForwarderFunc func(ctx context.Context, req Request) error

func (f ForwarderFunc) Forward(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// LogForwarder only records the request.
type LogForwarder struct {
	log *zap.Logger
}

func NewLogForwarder(log *zap.Logger) *LogForwarder {
	return &LogForwarder{log: log}
}

func (f *LogForwarder) Forward(_ context.Context, req Request) error {
	fields := []zap.Field{
		zap.String("checkout_id", req.ID.String()),
		zap.String("session_id", req.SessionID.String()),
		zap.Int("lines", len(req.Items)),
		zap.String("total", money.Format(req.Total)),
	}
	if req.Customer != nil {
		fields = append(fields, zap.String("customer_id", req.Customer.ID))
	}
	f.log.Info("checkout requested", fields...)
	return nil
}

// Fanout forwards to every target and joins their errors. All targets are
// attempted even when an earlier one fails.
type Fanout struct {
	targets []Forwarder
	tracer  trace.Tracer
}

func NewFanout(targets ...Forwarder) *Fanout {
	return &Fanout{
		targets: targets,
		tracer:  otel.Tracer("mudahpos/checkout"),
	}
}

func (f *Fanout) Forward(ctx context.Context, req Request) error {
	ctx, span := f.tracer.Start(ctx, "checkout.forward",
		trace.WithAttributes(
			attribute.String("checkout.id", req.ID.String()),
			attribute.Int("checkout.lines", len(req.Items)),
			attribute.Int("forward.targets", len(f.targets)),
		),
	)
	defer span.End()

	var errs []error
	for i, target := range f.targets {
		if err := target.Forward(ctx, req); err != nil {
			errs = append(errs, fmt.Errorf("forwarder %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "forward failed")
		return err
	}
	return nil
}
