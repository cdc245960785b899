// internal/terminal/operations.go
package terminal

import (
	"context"

	"go.uber.org/zap"

	"mudahpos/internal/session"
)

func (t *Terminal) SetActiveView(ctx context.Context, v session.View) error {
	return t.Do(ctx, func(s *session.Session) error { return s.SetActiveView(v) })
}

func (t *Terminal) SetQuery(ctx context.Context, q string) error {
	return t.Do(ctx, func(s *session.Session) error {
		s.SetQuery(q)
		return nil
	})
}

func (t *Terminal) SetAvailableOnly(ctx context.Context, on bool) error {
	return t.Do(ctx, func(s *session.Session) error {
		s.SetAvailableOnly(on)
		return nil
	})
}

func (t *Terminal) SelectProduct(ctx context.Context, id string) error {
	return t.Do(ctx, func(s *session.Session) error { return s.SelectProduct(id) })
}

func (t *Terminal) CloseOverlay(ctx context.Context) error {
	return t.Do(ctx, func(s *session.Session) error {
		s.CloseOverlay()
		return nil
	})
}

func (t *Terminal) AddItem(ctx context.Context, productID string, qty int) error {
	return t.mutate(ctx, "add_item", func(s *session.Session) error { return s.AddItem(productID, qty) })
}

func (t *Terminal) AddSelected(ctx context.Context, qty int) error {
	return t.mutate(ctx, "add_selected", func(s *session.Session) error { return s.AddSelected(qty) })
}

func (t *Terminal) RemoveItem(ctx context.Context, itemID string) error {
	return t.mutate(ctx, "remove_item", func(s *session.Session) error {
		s.RemoveItem(itemID)
		return nil
	})
}

func (t *Terminal) SetQuantity(ctx context.Context, itemID string, qty int) error {
	return t.mutate(ctx, "set_quantity", func(s *session.Session) error { return s.SetQuantity(itemID, qty) })
}

func (t *Terminal) DecrementItem(ctx context.Context, itemID string) error {
	return t.mutate(ctx, "decrement_item", func(s *session.Session) error {
		s.DecrementItem(itemID)
		return nil
	})
}

func (t *Terminal) ClearCart(ctx context.Context) error {
	return t.mutate(ctx, "clear_cart", func(s *session.Session) error {
		s.ClearCart()
		return nil
	})
}

func (t *Terminal) SelectCustomer(ctx context.Context, id string) error {
	return t.mutate(ctx, "select_customer", func(s *session.Session) error { return s.SelectCustomer(id) })
}

func (t *Terminal) DetachCustomer(ctx context.Context) error {
	return t.mutate(ctx, "detach_customer", func(s *session.Session) error {
		s.DetachCustomer()
		return nil
	})
}

// mutate runs an order mutation and counts it when it succeeds.
func (t *Terminal) mutate(ctx context.Context, op string, fn func(*session.Session) error) error {
	err := t.Do(ctx, fn)
	if err != nil {
		t.log.Debug("order mutation rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	t.metrics.cartMutation(ctx, op)
	return nil
}
