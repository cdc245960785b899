package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mudahpos/internal/catalog"
	"mudahpos/internal/checkout"
	"mudahpos/internal/customer"
	"mudahpos/internal/session"
	"mudahpos/internal/terminal"
)

type sent struct {
	mu       sync.Mutex
	requests []checkout.Request
}

func (s *sent) Forward(_ context.Context, req checkout.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *sent) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func newModel(t *testing.T, opts terminal.Options) Model {
	t.Helper()
	idx, err := catalog.NewIndex(catalog.DefaultProducts())
	require.NoError(t, err)
	dir, err := customer.NewDirectory(customer.DefaultCustomers())
	require.NoError(t, err)
	opts.Products, opts.Customers, opts.Log = idx, dir, zap.NewNop()

	term, err := terminal.New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(term.Close)

	m := New(context.Background(), term)
	m.search.Cursor.SetMode(cursor.CursorStatic)
	m.pin.Cursor.SetMode(cursor.CursorStatic)
	return settle(t, m, m.Init())
}

// settle runs cmd and every command it produces, feeding each message back
// into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		updated, more := m.Update(msg)
		m = updated.(Model)
		queue = append(queue, more)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// dispatch applies keys without running their commands, the way Update
// returns them before Bubble Tea hands each one to its own goroutine.
func dispatch(t *testing.T, m Model, keys ...string) (Model, []tea.Cmd) {
	t.Helper()
	cmds := make([]tea.Cmd, 0, len(keys))
	for _, k := range keys {
		updated, cmd := m.Update(key(k))
		m = updated.(Model)
		cmds = append(cmds, cmd)
	}
	return m, cmds
}

// results runs cmds concurrently and returns the terminal results of each,
// in cmds order.
func results(t *testing.T, cmds []tea.Cmd) [][]tea.Msg {
	t.Helper()
	out := make([][]tea.Msg, len(cmds))
	var wg sync.WaitGroup
	for i, cmd := range cmds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = flatten(cmd)
		}()
	}
	wg.Wait()
	return out
}

func flatten(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range msg {
			msgs = append(msgs, flatten(c)...)
		}
		return msgs
	case snapshotMsg, errMsg:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

// deliverReversed feeds the results back newest first.
func deliverReversed(m Model, res [][]tea.Msg) Model {
	for i := len(res) - 1; i >= 0; i-- {
		for _, msg := range res[i] {
			updated, _ := m.Update(msg)
			m = updated.(Model)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, cmd := m.Update(key(k))
		m = settle(t, updated.(Model), cmd)
	}
	return m
}

func TestModel_InitialRender(t *testing.T) {
	m := newModel(t, terminal.Options{})

	assert.Equal(t, session.Home, m.snap.View)
	assert.Len(t, m.snap.Products, 6)

	out := m.View()
	assert.Contains(t, out, "White 01")
	assert.Contains(t, out, "Sold out")
	assert.Contains(t, out, "182 available")
	assert.Contains(t, out, "Cart is empty")
}

func TestModel_SwitchViews(t *testing.T) {
	m := newModel(t, terminal.Options{})

	m = press(t, m, "4")
	assert.Equal(t, session.Customers, m.snap.View)
	assert.Len(t, m.snap.Customers, 10)
	assert.Empty(t, m.snap.Products)
	assert.Contains(t, m.View(), "[EA] Elmira Azalia")

	m = press(t, m, "2")
	assert.Equal(t, session.Calendar, m.snap.View)
	assert.Contains(t, m.View(), "No appointments")
}

func TestModel_AvailableOnlyToggle(t *testing.T) {
	m := newModel(t, terminal.Options{})

	m = press(t, m, "3", "t")
	require.True(t, m.snap.AvailableOnly)
	require.Len(t, m.snap.Products, 5)
	assert.Equal(t, "2", m.snap.Products[0].ID)

	m = press(t, m, "t")
	assert.Len(t, m.snap.Products, 6)
}

func TestModel_OpenDetailAndAdd(t *testing.T) {
	m := newModel(t, terminal.Options{})

	m = press(t, m, "j", "enter")
	require.NotNil(t, m.snap.Overlay)
	assert.Equal(t, "2", m.snap.Overlay.ID)
	assert.Contains(t, m.View(), "724A4-EBR-EMBRO-A020-02")

	m = press(t, m, "a", "+")
	require.Len(t, m.snap.Cart.Items, 1)
	assert.Equal(t, 2, m.snap.Cart.Items[0].Quantity)
	assert.Contains(t, m.View(), "Rp 320.000,00")

	m = press(t, m, "-")
	assert.Equal(t, 1, m.snap.Cart.Items[0].Quantity)
	m = press(t, m, "-")
	assert.Empty(t, m.snap.Cart.Items)

	m = press(t, m, "esc")
	assert.Nil(t, m.snap.Overlay)
}

func TestModel_AddUnderCursor(t *testing.T) {
	m := newModel(t, terminal.Options{})

	m = press(t, m, "j", "j", "a", "a", "k", "a")
	require.Len(t, m.snap.Cart.Items, 2)
	assert.Equal(t, "3", m.snap.Cart.Items[0].ID)
	assert.Equal(t, 2, m.snap.Cart.Items[0].Quantity)
	assert.Equal(t, "2", m.snap.Cart.Items[1].ID)
	assert.Equal(t, 3, m.snap.Cart.Units)

	m = press(t, m, "x")
	require.Len(t, m.snap.Cart.Items, 1)
	m = press(t, m, "C")
	assert.Empty(t, m.snap.Cart.Items)
	assert.NoError(t, m.err)
}

func TestModel_SearchNarrowsList(t *testing.T) {
	m := newModel(t, terminal.Options{})

	m = press(t, m, "3", "j", "j", "/")
	require.True(t, m.searching)
	m = press(t, m, "B", "l")
	assert.Equal(t, "Bl", m.snap.Query)
	assert.Equal(t, 0, m.cursor)
	ids := make([]string, 0, len(m.snap.Products))
	for _, p := range m.snap.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"2", "5"}, ids)

	m = press(t, m, "esc")
	assert.False(t, m.searching)
	assert.Contains(t, m.View(), "search: Bl")
}

func TestModel_AttachCustomerAndCheckout(t *testing.T) {
	out := &sent{}
	m := newModel(t, terminal.Options{Forwarder: out})

	m = press(t, m, "4", "j", "enter")
	require.NotNil(t, m.snap.Customer)
	assert.Equal(t, "Caca", m.snap.Customer.Name)
	assert.Equal(t, "Customer attached", m.status)

	m = press(t, m, "3", "j", "a")
	require.Len(t, m.snap.Cart.Items, 1)
	assert.Contains(t, m.View(), "Order · Caca")

	m = press(t, m, "o")
	assert.Equal(t, 1, out.len())
	assert.Contains(t, m.status, "Checkout ")
	assert.Contains(t, m.status, "Rp 160.000,00")
	assert.Empty(t, m.snap.Cart.Items)
	assert.Nil(t, m.snap.Customer)
}

func TestModel_CheckoutEmptyCart(t *testing.T) {
	m := newModel(t, terminal.Options{})

	m = press(t, m, "o")
	assert.ErrorIs(t, m.err, session.ErrEmptyCart)
	assert.Contains(t, m.View(), "! ")
}

func TestModel_LockAndUnlock(t *testing.T) {
	lock, err := terminal.NewLock("1234")
	require.NoError(t, err)
	m := newModel(t, terminal.Options{Lock: lock})

	m = press(t, m, "L")
	require.True(t, m.locked)
	assert.Contains(t, m.View(), "Locked")

	m = press(t, m, "9", "9", "enter")
	assert.True(t, m.locked)
	assert.ErrorIs(t, m.err, terminal.ErrWrongPIN)

	m = press(t, m, "1", "2", "3", "4", "enter")
	assert.False(t, m.locked)
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "White 01")
}

func TestModel_LockWithoutPIN(t *testing.T) {
	m := newModel(t, terminal.Options{})

	m = press(t, m, "L")
	assert.False(t, m.locked)
	assert.ErrorIs(t, m.err, terminal.ErrNoPIN)
}

func TestModel_TriggerAction(t *testing.T) {
	var (
		mu      sync.Mutex
		actions []terminal.Action
	)
	hook := func(_ context.Context, a terminal.Action, _ session.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		actions = append(actions, a)
	}
	m := newModel(t, terminal.Options{Hook: hook})

	m = press(t, m, "n", "w")
	assert.Equal(t, "Sent open_drawer", m.status)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []terminal.Action{terminal.ActionAddNote, terminal.ActionOpenDrawer}, actions)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, terminal.Options{})

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_SearchKeepsLatestQueryWhenResultsArriveOutOfOrder(t *testing.T) {
	m := newModel(t, terminal.Options{})
	m = press(t, m, "3", "/")

	m, cmds := dispatch(t, m, "B", "l")
	m = deliverReversed(m, results(t, cmds))

	assert.Equal(t, "Bl", m.search.Value())
	assert.Equal(t, "Bl", m.snap.Query)
	ids := make([]string, 0, len(m.snap.Products))
	for _, p := range m.snap.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"2", "5"}, ids)
}

func TestModel_StaleSnapshotIsDropped(t *testing.T) {
	m := newModel(t, terminal.Options{})
	newer := m.snap
	newer.View = session.Products
	older := m.snap
	older.View = session.More

	updated, _ := m.Update(snapshotMsg{seq: m.applied + 2, snap: newer})
	updated, _ = updated.Update(snapshotMsg{seq: m.applied + 1, snap: older})
	assert.Equal(t, session.Products, updated.(Model).snap.View)
}

func TestModel_RepeatedDecrementsAllApply(t *testing.T) {
	m := newModel(t, terminal.Options{})
	m = press(t, m, "j", "a", "a", "a")
	require.Equal(t, 3, m.snap.Cart.Units)

	m, cmds := dispatch(t, m, "-", "-")
	m = deliverReversed(m, results(t, cmds))

	require.Len(t, m.snap.Cart.Items, 1)
	assert.Equal(t, 1, m.snap.Cart.Items[0].Quantity)
}

func TestModel_DoubleCheckoutPressForwardsOnce(t *testing.T) {
	out := &sent{}
	slow := checkout.ForwarderFunc(func(ctx context.Context, req checkout.Request) error {
		time.Sleep(20 * time.Millisecond)
		return out.Forward(ctx, req)
	})
	m := newModel(t, terminal.Options{Forwarder: slow})
	m = press(t, m, "j", "a")

	m, cmds := dispatch(t, m, "o", "o")
	res := results(t, cmds)
	m = deliverReversed(m, res)

	assert.Equal(t, 1, out.len())
	assert.Empty(t, m.snap.Cart.Items)
	assert.Contains(t, m.status, "Checkout ")
	require.Len(t, res[1], 1)
	assert.ErrorIs(t, res[1][0].(errMsg).err, session.ErrEmptyCart)
}
