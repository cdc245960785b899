// internal/terminal/actions.go
package terminal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mudahpos/internal/session"
)

// Action is a button whose effect lives outside the terminal core. The
// terminal hands the current snapshot to the Hook and does nothing else,
// except for ActionLockScreen which also locks the terminal.
type Action string

const (
	ActionAddCustomer     Action = "add_customer"
	ActionAddNote         Action = "add_note"
	ActionShipping        Action = "shipping"
	ActionLockScreen      Action = "lock_screen"
	ActionOpenDrawer      Action = "open_drawer"
	ActionAddTile         Action = "add_tile"
	ActionMoreOptions     Action = "more_options"
	ActionGoToCart        Action = "go_to_cart"
	ActionViewVariants    Action = "view_variants"
	ActionViewOnlineStore Action = "view_online_store"
	ActionScan            Action = "scan"
)

var actions = []Action{
	ActionAddCustomer,
	ActionAddNote,
	ActionShipping,
	ActionLockScreen,
	ActionOpenDrawer,
	ActionAddTile,
	ActionMoreOptions,
	ActionGoToCart,
	ActionViewVariants,
	ActionViewOnlineStore,
	ActionScan,
}

func ParseAction(s string) (Action, error) {
	for _, a := range actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Hook receives pass-through actions. It runs on the caller's goroutine,
// never on the loop.
type Hook func(ctx context.Context, action Action, snap session.Snapshot)

// LogHook logs every action it receives.
func LogHook(log *zap.Logger) Hook {
	return func(_ context.Context, action Action, snap session.Snapshot) {
		log.Info("action triggered",
			zap.String("action", string(action)),
			zap.String("session_id", snap.SessionID.String()),
			zap.Int("cart_units", snap.Cart.Units),
		)
	}
}

// Trigger delivers action with the current snapshot to the hook. Actions
// other than ActionLockScreen fail with ErrLocked while the screen is locked.
func (t *Terminal) Trigger(ctx context.Context, action Action) error {
	var (
		snap session.Snapshot
		err  error
	)
	if action == ActionLockScreen {
		if err := t.LockScreen(ctx); err != nil {
			return err
		}
		snap, err = t.Snapshot(ctx)
	} else {
		err = t.Do(ctx, func(s *session.Session) error {
			snap = s.Snapshot()
			return nil
		})
	}
	if err != nil {
		return err
	}

	if t.hook != nil {
		t.hook(ctx, action, snap)
	}
	return nil
}
