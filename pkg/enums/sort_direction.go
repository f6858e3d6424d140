package enums

import "fmt"

// SortDirection is the requested ordering for list endpoints.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// String returns the literal string for the direction.
func (d SortDirection) String() string {
	return string(d)
}

// IsValid reports whether the direction is known.
func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// ParseSortDirection converts raw input into a SortDirection, defaulting
// empty input to ascending.
func ParseSortDirection(value string) (SortDirection, error) {
	switch value {
	case "":
		return SortAsc, nil
	case string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}
