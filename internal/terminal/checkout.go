// internal/terminal/checkout.go
package terminal

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"mudahpos/internal/checkout"
	"mudahpos/internal/session"
)

// Checkout freezes the current order, forwards it and then clears the cart.
// The order is claimed inside the loop, so a second Checkout fails with
// ErrBusy until the first one is settled. Forwarding happens outside the loop
// and the cashier may keep editing; an edited cart is kept and only the
// forwarded order is done.
func (t *Terminal) Checkout(ctx context.Context) (checkout.Request, error) {
	ctx, span := t.tracer.Start(ctx, "terminal.checkout")
	defer span.End()

	var req checkout.Request
	err := t.Do(ctx, func(s *session.Session) error {
		if t.pending {
			return fmt.Errorf("%w: checkout in progress", ErrBusy)
		}
		var err error
		req, err = checkout.NewRequest(s.Snapshot(), t.now())
		if err != nil {
			return err
		}
		t.pending = true
		return nil
	})
	if err != nil {
		return checkout.Request{}, err
	}
	span.SetAttributes(attribute.String("checkout.id", req.ID.String()))

	fctx, cancel := t.withTimeout(ctx)
	defer cancel()
	if err := t.forwarder.Forward(fctx, req); err != nil {
		span.RecordError(err)
		t.metrics.checkout(ctx, "failed")
		t.log.Error("checkout forward failed", zap.String("checkout_id", req.ID.String()), zap.Error(err))
		if rerr := t.settle(command{fn: func(*session.Session) error { t.pending = false; return nil }}); rerr != nil {
			t.log.Warn("checkout release failed", zap.String("checkout_id", req.ID.String()), zap.Error(rerr))
		}
		return checkout.Request{}, fmt.Errorf("failed to forward checkout: %w", err)
	}
	t.metrics.checkout(ctx, "forwarded")

	// The order has left the terminal; from here on Checkout reports success.
	var cleared bool
	err = t.settle(command{fn: func(s *session.Session) error {
		t.pending = false
		cleared = s.ClearIfRevision(req.Revision)
		return nil
	}})
	switch {
	case err != nil:
		t.log.Warn("cart not cleared after checkout", zap.String("checkout_id", req.ID.String()), zap.Error(err))
	case !cleared:
		t.log.Info("cart changed during checkout, keeping it", zap.String("checkout_id", req.ID.String()))
	}
	return req, nil
}
