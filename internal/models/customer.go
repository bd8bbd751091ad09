// Package models defines the core domain entities for the churnoracle application.
// These models represent the manually entered customer metrics, the classifier's
// verdict, and the retention recommendation shown back to the operator.
// All models include built-in validation to ensure data integrity throughout the application.
//
// Terminology (matching the RFM vocabulary the classifier was trained on):
//   - Frequency: total historical order count for a customer.
//   - Monetary: total historical spend for a customer.
//   - Average order value (AOV): monetary / frequency.
package models

import (
	"errors"
	"math"
)

// Input minimums enforced at every entry point.
const (
	MinOrderCount  = 1
	MinTotalSpend  = 1.0
	MinUniqueItems = 1
)

// Default values pre-filled in the dashboard.
const (
	DefaultOrderCount  = 5
	DefaultTotalSpend  = 250.0
	DefaultUniqueItems = 12
)

// CustomerInput holds the three metrics an operator types in for one analysis.
type CustomerInput struct {
	OrderCount  int     `json:"order_count"`  // Frequency (total orders)
	TotalSpend  float64 `json:"total_spend"`  // Monetary (total spend in $)
	UniqueItems int     `json:"unique_items"` // Product diversity (unique items)
}

// DefaultCustomerInput returns the input the dashboard starts with.
func DefaultCustomerInput() CustomerInput {
	return CustomerInput{
		OrderCount:  DefaultOrderCount,
		TotalSpend:  DefaultTotalSpend,
		UniqueItems: DefaultUniqueItems,
	}
}

// Validate checks that all input fields respect their minimums
func (c *CustomerInput) Validate() error {
	if c.OrderCount < MinOrderCount {
		return errors.New("order count must be at least 1")
	}
	if math.IsNaN(c.TotalSpend) || math.IsInf(c.TotalSpend, 0) {
		return errors.New("total spend must be a finite number")
	}
	if c.TotalSpend < MinTotalSpend {
		return errors.New("total spend must be at least 1.0")
	}
	if c.UniqueItems < MinUniqueItems {
		return errors.New("unique items must be at least 1")
	}
	return nil
}
