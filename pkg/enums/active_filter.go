package enums

import "fmt"

// ActiveFilter selects records by their soft-delete flag.
type ActiveFilter string

const (
	ActiveFilterActive   ActiveFilter = "active"
	ActiveFilterInactive ActiveFilter = "inactive"
	ActiveFilterAll      ActiveFilter = "all"
)

var validActiveFilters = []ActiveFilter{
	ActiveFilterActive,
	ActiveFilterInactive,
	ActiveFilterAll,
}

// String implements fmt.Stringer.
func (a ActiveFilter) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActiveFilter.
func (a ActiveFilter) IsValid() bool {
	for _, candidate := range validActiveFilters {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActiveFilter converts raw input into an ActiveFilter.
func ParseActiveFilter(value string) (ActiveFilter, error) {
	for _, candidate := range validActiveFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid active filter %q", value)
}
