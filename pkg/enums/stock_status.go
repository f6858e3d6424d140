package enums

import "fmt"

// StockStatus describes the state of an inventory line.
type StockStatus string

const (
	StockStatusInStock  StockStatus = "in_stock"
	StockStatusLow      StockStatus = "low"
	StockStatusOutStock StockStatus = "out_of_stock"
	StockStatusOnOrder  StockStatus = "on_order"
)

var validStockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusLow,
	StockStatusOutStock,
	StockStatusOnOrder,
}

// String returns the literal string for the status.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
