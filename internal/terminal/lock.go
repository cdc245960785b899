// internal/terminal/lock.go
package terminal

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
	"golang.org/x/time/rate"

	"mudahpos/internal/session"
)

// Lock holds the argon2id hash of the unlock PIN and throttles attempts.
type Lock struct {
	hash    []byte
	salt    []byte
	limiter *rate.Limiter
}

// NewLock hashes pin with a fresh salt. Attempts are limited to a burst of
// five, refilled one per minute.
func NewLock(pin string) (*Lock, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return &Lock{
		hash:    hashPIN(pin, salt),
		salt:    salt,
		limiter: rate.NewLimiter(rate.Every(1*time.Minute), 5),
	}, nil
}

func hashPIN(pin string, salt []byte) []byte {
	return argon2.IDKey([]byte(pin), salt, 1, 64*1024, 4, 32)
}

// Check verifies pin, consuming one attempt.
func (l *Lock) Check(pin string) error {
	if !l.limiter.Allow() {
		return ErrTooManyAttempts
	}
	if subtle.ConstantTimeCompare(hashPIN(pin, l.salt), l.hash) != 1 {
		return ErrWrongPIN
	}
	return nil
}

// LockScreen locks the terminal. Only snapshots, refreshes and Unlock are
// served until it is unlocked.
func (t *Terminal) LockScreen(ctx context.Context) error {
	if t.lock == nil {
		return ErrNoPIN
	}
	err := t.submit(ctx, command{
		fn:          func(*session.Session) error { t.locked = true; return nil },
		whileLocked: true,
	})
	if err == nil {
		t.log.Info("terminal locked")
	}
	return err
}

// Unlock checks pin off the loop and unlocks on success.
func (t *Terminal) Unlock(ctx context.Context, pin string) error {
	if t.lock == nil {
		return nil
	}
	if err := t.lock.Check(pin); err != nil {
		t.metrics.unlockFailure(ctx, err)
		t.log.Warn("unlock rejected", zap.Error(err))
		return err
	}
	return t.submit(ctx, command{
		fn:          func(*session.Session) error { t.locked = false; return nil },
		whileLocked: true,
	})
}

// Locked reports whether the screen is locked.
func (t *Terminal) Locked(ctx context.Context) (bool, error) {
	var locked bool
	err := t.submit(ctx, command{
		fn:          func(*session.Session) error { locked = t.locked; return nil },
		whileLocked: true,
	})
	return locked, err
}
