// internal/catalog/domain.go
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const soldOutToken = "sold_out"

// Availability is the stock level of a product. It is either a non-negative
// count or the sold-out marker; a zero count and the marker display the same
// but stay distinct values.
type Availability struct {
	count   int
	soldOut bool
}

// SoldOut returns the sold-out marker.
func SoldOut() Availability {
	return Availability{soldOut: true}
}

// InStock returns a counted availability. Negative counts are clamped to zero.
func InStock(n int) Availability {
	if n < 0 {
		n = 0
	}
	return Availability{count: n}
}

// ParseAvailability reads "sold_out" or a non-negative integer.
func ParseAvailability(s string) (Availability, error) {
	if s == soldOutToken {
		return SoldOut(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Availability{}, fmt.Errorf("%w: %q", ErrInvalidAvailability, s)
	}
	return InStock(n), nil
}

// IsMarker reports whether a is the sold-out marker rather than a count.
func (a Availability) IsMarker() bool { return a.soldOut }

// Count returns the counted units, zero for the marker.
func (a Availability) Count() int {
	if a.soldOut {
		return 0
	}
	return a.count
}

func (a Availability) String() string {
	if a.soldOut {
		return soldOutToken
	}
	return strconv.Itoa(a.count)
}

func (a Availability) MarshalJSON() ([]byte, error) {
	if a.soldOut {
		return json.Marshal(soldOutToken)
	}
	return json.Marshal(a.count)
}

func (a *Availability) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		parsed, err := ParseAvailability(token)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAvailability, data)
	}
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAvailability, n)
	}
	*a = InStock(n)
	return nil
}

func (a *Availability) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseAvailability(value.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Product is a sellable catalog entry.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Availability Availability    `json:"availability"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image,omitempty"`
}

// SearchFields is the text a product search matches against.
func SearchFields(p Product) []string {
	return []string{p.Name}
}

// IsAvailable reports whether the product can still be sold.
func IsAvailable(p Product) bool {
	return !Classify(p.Availability).SoldOut
}
