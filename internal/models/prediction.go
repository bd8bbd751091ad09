package models

import (
	"errors"
	"math"
)

// Prediction is the classifier's verdict for a single customer row.
type Prediction struct {
	Churn       bool    `json:"churn"`       // Predicted class (true = churn)
	Probability float64 `json:"probability"` // Class-1 (churn) probability (0–1)
}

// Validate checks that the prediction is well formed
func (p *Prediction) Validate() error {
	if math.IsNaN(p.Probability) {
		return errors.New("probability must not be NaN")
	}
	if p.Probability < 0.0 || p.Probability > 1.0 {
		return errors.New("probability must be between 0.0 and 1.0")
	}
	return nil
}
