// internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mudahpos/internal/catalog"
	"mudahpos/internal/customer"
	"mudahpos/internal/money"
	"mudahpos/internal/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	activeStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var viewLabels = map[session.View]string{
	session.Home:      "Home",
	session.Calendar:  "Calendar",
	session.Products:  "Products",
	session.Customers: "Customers",
	session.More:      "More",
}

func (m Model) View() string {
	if m.locked {
		return m.renderLocked()
	}

	var b strings.Builder
	b.WriteString(m.renderNav() + "\n\n")
	if m.searching {
		b.WriteString(m.search.View() + "\n\n")
	} else if m.snap.Query != "" {
		b.WriteString(dimStyle.Render("search: "+m.snap.Query) + "\n\n")
	}

	body := m.renderList()
	if m.snap.Overlay != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, renderDetail(*m.snap.Overlay))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderCart()))
	b.WriteString("\n\n" + m.renderStatus())
	return b.String()
}

func (m Model) renderNav() string {
	parts := make([]string, 0, len(session.Views()))
	for i, v := range session.Views() {
		label := fmt.Sprintf("%d %s", i+1, viewLabels[v])
		if v == m.snap.View {
			label = activeStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return titleStyle.Render("POS") + "  " + strings.Join(parts, dimStyle.Render(" | "))
}

func (m Model) renderList() string {
	var rows []string
	switch m.snap.View {
	case session.Home, session.Products:
		if m.snap.View == session.Products && m.snap.AvailableOnly {
			rows = append(rows, dimStyle.Render("[available only]"))
		}
		for i, p := range m.snap.Products {
			rows = append(rows, m.row(i, productRow(p)))
		}
	case session.Customers:
		for i, c := range m.snap.Customers {
			rows = append(rows, m.row(i, customerRow(c)))
		}
	case session.Calendar:
		rows = append(rows, dimStyle.Render("No appointments"))
	case session.More:
		rows = append(rows, dimStyle.Render("n note  s shipping  w drawer  L lock  r refresh"))
	}
	if len(rows) == 0 {
		rows = append(rows, dimStyle.Render("No results"))
	}
	return strings.Join(rows, "\n")
}

func (m Model) row(i int, text string) string {
	if i == m.cursor {
		return selectedStyle.Render("> " + text)
	}
	return "  " + text
}

func productRow(p catalog.Product) string {
	status := catalog.Classify(p.Availability)
	label := status.Label
	if status.SoldOut {
		label = warnStyle.Render(label)
	}
	return fmt.Sprintf("%-12s %-16s %s", p.Name, money.Format(p.Price), label)
}

func customerRow(c customer.Customer) string {
	return fmt.Sprintf("[%-2s] %-22s %s", customer.Initials(c.Name), c.Name, dimStyle.Render(c.Contact))
}

func renderDetail(d catalog.ProductDetail) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name) + "\n")
	fmt.Fprintf(&b, "Variant   %s\n", d.Variant)
	fmt.Fprintf(&b, "Price     %s\n", money.Format(d.Price))
	fmt.Fprintf(&b, "SKU       %s\n", d.SKU)
	fmt.Fprintf(&b, "Barcode   %s\n", d.Barcode)
	fmt.Fprintf(&b, "On hand %d  Available %d  Committed %d  Unavailable %d  Incoming %d\n",
		d.Inventory.OnHand, d.Inventory.Available, d.Inventory.Committed, d.Inventory.Unavailable, d.Inventory.Incoming)
	b.WriteString(dimStyle.Render("Updated "+d.LastUpdated+"   a add  esc close"))
	return boxStyle.Render(b.String())
}

func (m Model) renderCart() string {
	var b strings.Builder
	title := "Order"
	if m.snap.Customer != nil {
		title += " · " + m.snap.Customer.Name
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	if len(m.snap.Cart.Items) == 0 {
		b.WriteString(dimStyle.Render("Cart is empty") + "\n")
	}
	for _, item := range m.snap.Cart.Items {
		fmt.Fprintf(&b, "%-12s x%-3d %s\n", item.Name, item.Quantity, money.Format(item.Subtotal()))
	}
	fmt.Fprintf(&b, "\nTotal  %s\n", money.Format(m.snap.Cart.Total))
	fmt.Fprintf(&b, "Go to cart (%d item)", m.snap.Cart.Units)
	return boxStyle.Render(b.String())
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("! " + m.err.Error())
	}
	help := dimStyle.Render("1-5 views  / search  enter open  a add  - less  x remove  C clear  t available  o checkout  q quit")
	if m.status != "" {
		return m.status + "\n" + help
	}
	return help
}

func (m Model) renderLocked() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Locked") + "\n\n")
	b.WriteString(m.pin.View() + "\n")
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	return boxStyle.Render(b.String())
}
