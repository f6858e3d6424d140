package enums

import "fmt"

// CarStatus describes the lifecycle state of a catalog listing.
type CarStatus string

const (
	CarStatusAvailable CarStatus = "available"
	CarStatusSold      CarStatus = "sold"
	CarStatusReserved  CarStatus = "reserved"
	CarStatusInTransit CarStatus = "in_transit"
)

var validCarStatuses = []CarStatus{
	CarStatusAvailable,
	CarStatusSold,
	CarStatusReserved,
	CarStatusInTransit,
}

// String returns the literal string for the status.
func (s CarStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s CarStatus) IsValid() bool {
	for _, candidate := range validCarStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCarStatus converts raw input into a CarStatus.
func ParseCarStatus(value string) (CarStatus, error) {
	for _, candidate := range validCarStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid car status %q", value)
}
