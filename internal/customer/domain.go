// internal/customer/domain.go
package customer

import (
	"strings"
	"unicode/utf8"
)

// Customer is a buyer that can be attached to a sale.
type Customer struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Contact string `json:"contact" yaml:"contact"`
}

// SearchFields is the text a customer search matches against.
func SearchFields(c Customer) []string {
	return []string{c.Name, c.Contact}
}

// Initials returns the avatar letters for a name: the first two letters of a
// single word, otherwise the first letters of the first and last words.
func Initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		w := words[0]
		if utf8.RuneCountInString(w) <= 2 {
			return strings.ToUpper(w)
		}
		_, first := utf8.DecodeRuneInString(w)
		_, second := utf8.DecodeRuneInString(w[first:])
		return strings.ToUpper(w[:first+second])
	default:
		return strings.ToUpper(firstRune(words[0]) + firstRune(words[len(words)-1]))
	}
}

func firstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}
