// internal/filter/filter.go

// Package filter narrows an ordered list down to the entries matching a search box.
package filter

import "strings"

// Fields extracts the searchable text of an item.
type Fields[T any] func(T) []string

// Apply keeps every item for which at least one extracted field contains query,
// ignoring case. The relative order of items is preserved and an empty query
// returns items unchanged.
func Apply[T any](items []T, query string, fields Fields[T]) []T {
	if query == "" {
		return items
	}

	needle := strings.ToLower(query)
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if matches(fields(item), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Matches reports whether any of the fields contains query, ignoring case.
func Matches(values []string, query string) bool {
	if query == "" {
		return true
	}
	return matches(values, strings.ToLower(query))
}

func matches(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
