// internal/tui/commands.go
package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"mudahpos/internal/money"
	"mudahpos/internal/session"
	"mudahpos/internal/terminal"
)

// snapshotMsg carries fresh render state and an optional status line. seq is
// the position of the producing key press.
type snapshotMsg struct {
	seq    uint64
	snap   session.Snapshot
	locked bool
	status string
}

type errMsg struct {
	seq uint64
	err error
}

type op func(context.Context, *terminal.Terminal) (string, error)

type job struct {
	seq   uint64
	op    op
	reply chan tea.Msg
}

// queue runs terminal calls one at a time in the order Update enqueued them.
// Bubble Tea runs every tea.Cmd on its own goroutine, so the commands only
// wait for their job's result.
type queue struct {
	ctx  context.Context
	term *terminal.Terminal

	mu   sync.Mutex
	cond *sync.Cond
	jobs []job
	next uint64
}

func newQueue(ctx context.Context, term *terminal.Terminal) *queue {
	q := &queue{ctx: ctx, term: term}
	q.cond = sync.NewCond(&q.mu)
	go q.work()
	go func() {
		<-ctx.Done()
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	}()
	return q
}

// push enqueues o and returns a command yielding its result.
func (q *queue) push(o op) tea.Cmd {
	q.mu.Lock()
	q.next++
	j := job{seq: q.next, op: o, reply: make(chan tea.Msg, 1)}
	if err := q.ctx.Err(); err != nil {
		j.reply <- errMsg{seq: j.seq, err: err}
	} else {
		q.jobs = append(q.jobs, j)
	}
	q.mu.Unlock()
	q.cond.Signal()

	return func() tea.Msg { return <-j.reply }
}

func (q *queue) work() {
	for {
		q.mu.Lock()
		for len(q.jobs) == 0 && q.ctx.Err() == nil {
			q.cond.Wait()
		}
		if err := q.ctx.Err(); err != nil {
			for _, j := range q.jobs {
				j.reply <- errMsg{seq: j.seq, err: err}
			}
			q.jobs = nil
			q.mu.Unlock()
			return
		}
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		j.reply <- q.run(j)
	}
}

func (q *queue) run(j job) tea.Msg {
	status, err := j.op(q.ctx, q.term)
	if err != nil {
		return errMsg{seq: j.seq, err: err}
	}
	snap, locked, err := q.term.State(q.ctx)
	if err != nil {
		return errMsg{seq: j.seq, err: err}
	}
	return snapshotMsg{seq: j.seq, snap: snap, locked: locked, status: status}
}

// run enqueues op; the terminal is re-read once it has been applied.
func (m Model) run(o op) tea.Cmd {
	return m.queue.push(o)
}

// do wraps an operation that has no status line.
func (m Model) do(fn func(context.Context, *terminal.Terminal) error) tea.Cmd {
	return m.run(func(ctx context.Context, t *terminal.Terminal) (string, error) {
		return "", fn(ctx, t)
	})
}

func (m Model) refresh() tea.Cmd {
	return m.do(func(context.Context, *terminal.Terminal) error { return nil })
}

func (m Model) checkout() tea.Cmd {
	return m.run(func(ctx context.Context, t *terminal.Terminal) (string, error) {
		req, err := t.Checkout(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Checkout %s sent: %s", req.ID.String()[:8], money.Format(req.Total)), nil
	})
}

func (m Model) trigger(action terminal.Action) tea.Cmd {
	return m.run(func(ctx context.Context, t *terminal.Terminal) (string, error) {
		return "Sent " + string(action), t.Trigger(ctx, action)
	})
}

func (m Model) reload() tea.Cmd {
	return m.run(func(ctx context.Context, t *terminal.Terminal) (string, error) {
		return "Catalog refreshed", t.Refresh(ctx)
	})
}
