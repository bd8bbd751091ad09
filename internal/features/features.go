// Package features turns a customer input into the fixed-order row the churn
// classifier scores.
//
// The classifier was trained on four columns in this order:
//
//	Frequency, Monetary, UniqueItems, AOV
//
// Vector mirrors that order as a struct so columns can never be misaligned at
// runtime; CheckOrder asserts at startup that the loaded feature list agrees.
package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/rewired-gh/churnoracle/internal/models"
)

// Canonical column names, in the order Row emits them.
const (
	Frequency         = "Frequency"
	Monetary          = "Monetary"
	UniqueItems       = "UniqueItems"
	AverageOrderValue = "AOV"
)

// Names returns the canonical feature order.
func Names() []string {
	return []string{Frequency, Monetary, UniqueItems, AverageOrderValue}
}

// Count is the number of features the classifier expects.
const Count = 4

// Vector is the derived single-row record presented to the classifier.
type Vector struct {
	Frequency         float64 `json:"frequency"`
	Monetary          float64 `json:"monetary"`
	UniqueItems       float64 `json:"unique_items"`
	AverageOrderValue float64 `json:"aov"`
}

// Row returns the vector as a slice in canonical order.
func (v Vector) Row() []float64 {
	return []float64{v.Frequency, v.Monetary, v.UniqueItems, v.AverageOrderValue}
}

// InvalidInputError reports an input that cannot be turned into a vector.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// MismatchError reports a feature list that disagrees with the canonical order.
type MismatchError struct {
	Expected []string
	Got      []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("feature mismatch: expected [%s], got [%s]",
		strings.Join(e.Expected, ", "), strings.Join(e.Got, ", "))
}

// Derive computes AOV and assembles the vector. AOV is not rounded.
func Derive(in models.CustomerInput) (Vector, error) {
	if in.OrderCount <= 0 {
		return Vector{}, &InvalidInputError{Field: "order_count", Reason: "must be greater than zero"}
	}
	if math.IsNaN(in.TotalSpend) || math.IsInf(in.TotalSpend, 0) {
		return Vector{}, &InvalidInputError{Field: "total_spend", Reason: "must be a finite number"}
	}

	return Vector{
		Frequency:         float64(in.OrderCount),
		Monetary:          in.TotalSpend,
		UniqueItems:       float64(in.UniqueItems),
		AverageOrderValue: in.TotalSpend / float64(in.OrderCount),
	}, nil
}

// CheckOrder verifies that names lists exactly the canonical features in
// canonical order. Comparison ignores case and surrounding whitespace.
func CheckOrder(names []string) error {
	expected := Names()
	if len(names) != len(expected) {
		return &MismatchError{Expected: expected, Got: names}
	}
	for i, name := range names {
		if !strings.EqualFold(strings.TrimSpace(name), expected[i]) {
			return &MismatchError{Expected: expected, Got: names}
		}
	}
	return nil
}
