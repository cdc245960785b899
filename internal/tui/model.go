// internal/tui/model.go

// Package tui is the cashier-facing terminal UI. It keeps no order state of
// its own: every key press becomes a terminal call followed by a fresh
// snapshot.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mudahpos/internal/session"
	"mudahpos/internal/terminal"
)

type Model struct {
	queue *queue

	snap    session.Snapshot
	applied uint64
	locked  bool
	cursor  int

	searching bool
	search    textinput.Model
	pin       textinput.Model

	status string
	err    error
	width  int
}

func New(ctx context.Context, term *terminal.Terminal) Model {
	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "

	pin := textinput.New()
	pin.Placeholder = "PIN"
	pin.EchoMode = textinput.EchoPassword
	pin.CharLimit = 12

	return Model{
		queue:  newQueue(ctx, term),
		search: search,
		pin:    pin,
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case snapshotMsg:
		// The queue applies key presses in order, but their results may be
		// delivered out of order.
		if msg.seq <= m.applied {
			return m, nil
		}
		m.applied = msg.seq
		m.snap = msg.snap
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.locked && !m.locked {
			m.pin.Reset()
			m.pin.Focus()
		}
		m.locked = msg.locked
		m.clampCursor()
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.seq > m.applied && errors.Is(msg.err, terminal.ErrLocked) {
			m.locked = true
			m.pin.Focus()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.locked:
			return m.updateLocked(msg)
		case m.searching:
			return m.updateSearch(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateLocked(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		pin := m.pin.Value()
		m.pin.Reset()
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.Unlock(ctx, pin) })
	}
	var cmd tea.Cmd
	m.pin, cmd = m.pin.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.SetQuery(ctx, q) }))
	}
	return m, cmd
}

var viewKeys = map[string]session.View{
	"1": session.Home,
	"2": session.Calendar,
	"3": session.Products,
	"4": session.Customers,
	"5": session.More,
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if v, ok := viewKeys[key]; ok {
		m.cursor = 0
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.SetActiveView(ctx, v) })
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.SetValue(m.snap.Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		return m, m.open()
	case "esc":
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.CloseOverlay(ctx) })
	case "a", "+":
		return m, m.addOne()
	case "-":
		id, ok := m.focusedProduct()
		if !ok {
			return m, nil
		}
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.DecrementItem(ctx, id) })
	case "x":
		id, ok := m.focusedProduct()
		if !ok {
			return m, nil
		}
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.RemoveItem(ctx, id) })
	case "C":
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.ClearCart(ctx) })
	case "d":
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.DetachCustomer(ctx) })
	case "t":
		on := !m.snap.AvailableOnly
		return m, m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.SetAvailableOnly(ctx, on) })
	case "o":
		return m, m.checkout()
	case "r":
		return m, m.reload()
	case "L":
		return m, m.trigger(terminal.ActionLockScreen)
	case "n":
		return m, m.trigger(terminal.ActionAddNote)
	case "s":
		return m, m.trigger(terminal.ActionShipping)
	case "w":
		return m, m.trigger(terminal.ActionOpenDrawer)
	}
	return m, nil
}

// open selects the row under the cursor: a product opens its detail, a
// customer is attached to the order.
func (m Model) open() tea.Cmd {
	switch m.snap.View {
	case session.Home, session.Products:
		if m.cursor >= len(m.snap.Products) {
			return nil
		}
		id := m.snap.Products[m.cursor].ID
		return m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.SelectProduct(ctx, id) })
	case session.Customers:
		if m.cursor >= len(m.snap.Customers) {
			return nil
		}
		id := m.snap.Customers[m.cursor].ID
		return m.run(func(ctx context.Context, t *terminal.Terminal) (string, error) {
			return "Customer attached", t.SelectCustomer(ctx, id)
		})
	}
	return nil
}

func (m Model) addOne() tea.Cmd {
	if m.snap.Overlay != nil {
		return m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.AddSelected(ctx, 1) })
	}
	id, ok := m.focusedProduct()
	if !ok {
		return nil
	}
	return m.do(func(ctx context.Context, t *terminal.Terminal) error { return t.AddItem(ctx, id, 1) })
}

// focusedProduct is the overlay product, else the product under the cursor.
func (m Model) focusedProduct() (string, bool) {
	if m.snap.Overlay != nil {
		return m.snap.Overlay.ID, true
	}
	if m.cursor < len(m.snap.Products) {
		return m.snap.Products[m.cursor].ID, true
	}
	return "", false
}

func (m Model) listLen() int {
	if m.snap.View == session.Customers {
		return len(m.snap.Customers)
	}
	return len(m.snap.Products)
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}
