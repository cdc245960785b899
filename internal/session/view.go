// internal/session/view.go
package session

import (
	"fmt"
)

// View is the screen shown in the main area of the terminal.
type View int

const (
	Home View = iota
	Calendar
	Products
	Customers
	More
)

var viewNames = [...]string{
	Home:      "home",
	Calendar:  "calendar",
	Products:  "products",
	Customers: "customers",
	More:      "more",
}

// Views lists every view in sidebar order.
func Views() []View {
	return []View{Home, Calendar, Products, Customers, More}
}

func (v View) Valid() bool {
	return v >= Home && v <= More
}

func (v View) String() string {
	if !v.Valid() {
		return fmt.Sprintf("view(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView is the inverse of View.String.
func ParseView(s string) (View, error) {
	for v, name := range viewNames {
		if name == s {
			return View(v), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, s)
}

func (v View) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownView, int(v))
	}
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(text []byte) error {
	parsed, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
