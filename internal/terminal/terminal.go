// internal/terminal/terminal.go

// Package terminal runs one POS session behind a single goroutine. Every read
// and mutation of the session is a command executed by that goroutine, so a
// mutation is fully applied before the next command observes the session.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mudahpos/internal/catalog"
	"mudahpos/internal/checkout"
	"mudahpos/internal/customer"
	"mudahpos/internal/session"
)

var (
	ErrLocked          = errors.New("terminal is locked")
	ErrWrongPIN        = errors.New("wrong PIN")
	ErrTooManyAttempts = errors.New("too many unlock attempts")
	ErrClosed          = errors.New("terminal is closed")
	ErrBusy            = errors.New("terminal is busy")
	ErrNoPIN           = errors.New("no unlock PIN configured")
)

const queueTimeout = 2 * time.Second

// command envelopes work the loop goroutine must perform.
type command struct {
	fn func(*session.Session) error
	// whileLocked lets the command run when the screen is locked.
	whileLocked bool
	reply       chan error
}

// Options wires a Terminal to its collaborators. Only the providers are
// required.
type Options struct {
	Products  catalog.Provider
	Customers customer.Provider
	Forwarder checkout.Forwarder
	Hook      Hook
	Lock      *Lock
	Log       *zap.Logger
	// Timeout bounds provider refreshes and checkout forwarding.
	Timeout time.Duration
	Now     func() time.Time
}

type Terminal struct {
	products  catalog.Provider
	customers customer.Provider
	forwarder checkout.Forwarder
	hook      Hook
	lock      *Lock
	log       *zap.Logger
	timeout   time.Duration
	now       func() time.Time
	tracer    trace.Tracer
	metrics   *metrics

	commands  chan command
	done      chan struct{}
	closeOnce sync.Once

	// owned by the loop goroutine
	session *session.Session
	locked  bool
	// pending is set while a checkout is being forwarded.
	pending bool
}

// New loads both providers, starts the session and launches the loop.
func New(ctx context.Context, opts Options) (*Terminal, error) {
	if opts.Products == nil || opts.Customers == nil {
		return nil, errors.New("terminal: product and customer providers are required")
	}

	t := &Terminal{
		products:  opts.Products,
		customers: opts.Customers,
		forwarder: opts.Forwarder,
		hook:      opts.Hook,
		lock:      opts.Lock,
		log:       opts.Log,
		timeout:   opts.Timeout,
		now:       opts.Now,
		tracer:    otel.Tracer("mudahpos/terminal"),
		commands:  make(chan command),
		done:      make(chan struct{}),
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.forwarder == nil {
		t.forwarder = checkout.NewLogForwarder(t.log)
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}
	t.metrics = m

	products, customers, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	t.session = session.New(products, customers)

	go t.loop()
	t.log.Info("terminal session started",
		zap.String("session_id", t.session.ID().String()),
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
	)
	return t, nil
}

func (t *Terminal) loop() {
	for {
		select {
		case cmd := <-t.commands:
			if t.locked && !cmd.whileLocked {
				cmd.reply <- ErrLocked
				continue
			}
			cmd.reply <- cmd.fn(t.session)
		case <-t.done:
			return
		}
	}
}

// Close stops the loop. Later calls fail with ErrClosed.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() { close(t.done) })
}

// Do runs fn on the loop goroutine with exclusive access to the session.
// fn must not retain the session or block.
func (t *Terminal) Do(ctx context.Context, fn func(*session.Session) error) error {
	return t.submit(ctx, command{fn: fn})
}

// Snapshot returns the current render state. It works while locked.
func (t *Terminal) Snapshot(ctx context.Context) (session.Snapshot, error) {
	var snap session.Snapshot
	err := t.submit(ctx, command{
		fn: func(s *session.Session) error {
			snap = s.Snapshot()
			return nil
		},
		whileLocked: true,
	})
	return snap, err
}

// State returns the render state and the lock state read in one command.
func (t *Terminal) State(ctx context.Context) (session.Snapshot, bool, error) {
	var (
		snap   session.Snapshot
		locked bool
	)
	err := t.submit(ctx, command{
		fn: func(s *session.Session) error {
			snap, locked = s.Snapshot(), t.locked
			return nil
		},
		whileLocked: true,
	})
	return snap, locked, err
}

func (t *Terminal) submit(ctx context.Context, cmd command) error {
	return t.send(ctx, cmd, time.After(queueTimeout))
}

// settle delivers cmd regardless of caller cancellation or a slow queue. Only
// Close stops it.
func (t *Terminal) settle(cmd command) error {
	cmd.whileLocked = true
	return t.send(context.Background(), cmd, nil)
}

func (t *Terminal) send(ctx context.Context, cmd command, timeout <-chan time.Time) error {
	cmd.reply = make(chan error, 1)

	select {
	case t.commands <- cmd:
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout:
		return ErrBusy
	}

	// The loop always answers an accepted command.
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh re-reads both providers outside the loop and commits the result in
// one command.
func (t *Terminal) Refresh(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, "terminal.refresh")
	defer span.End()

	products, customers, err := t.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(
		attribute.Int("products", len(products)),
		attribute.Int("customers", len(customers)),
	)
	return t.submit(ctx, command{
		fn: func(s *session.Session) error {
			s.ReplaceIndices(products, customers)
			return nil
		},
		whileLocked: true,
	})
}

func (t *Terminal) load(ctx context.Context) ([]catalog.Product, []customer.Customer, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	products, err := t.products.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load products: %w", err)
	}
	customers, err := t.customers.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customers: %w", err)
	}
	return products, customers, nil
}

func (t *Terminal) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}
