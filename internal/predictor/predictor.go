// Package predictor scores a derived feature vector with the loaded classifier.
package predictor

import (
	"errors"
	"fmt"
	"math"

	"github.com/rewired-gh/churnoracle/internal/artifact"
	"github.com/rewired-gh/churnoracle/internal/features"
	"github.com/rewired-gh/churnoracle/internal/models"
)

// ErrModelUnavailable is returned when the artifacts failed to load.
var ErrModelUnavailable = errors.New("model unavailable")

// PredictionError wraps every failure to score a vector.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Predictor is bound to one load outcome for the lifetime of a session.
type Predictor struct {
	outcome artifact.Outcome
}

// New creates a Predictor over the given outcome.
func New(outcome artifact.Outcome) *Predictor {
	return &Predictor{outcome: outcome}
}

// Predict returns the churn decision and class-1 probability for v.
func (p *Predictor) Predict(v features.Vector) (models.Prediction, error) {
	model, ok := p.outcome.Classifier()
	if !ok {
		return models.Prediction{}, &PredictionError{Err: fmt.Errorf("%w: %w", ErrModelUnavailable, p.outcome.Err())}
	}

	row := v.Row()
	if len(row) != model.NumFeatures() {
		return models.Prediction{}, &PredictionError{Err: &features.MismatchError{
			Expected: p.outcome.FeatureNames(),
			Got:      features.Names(),
		}}
	}

	churn, err := model.Predict(row)
	if err != nil {
		return models.Prediction{}, &PredictionError{Err: err}
	}
	proba, err := model.PredictProba(row)
	if err != nil {
		return models.Prediction{}, &PredictionError{Err: err}
	}

	prediction := models.Prediction{
		Churn:       churn,
		Probability: clamp01(proba[1]),
	}
	if err := prediction.Validate(); err != nil {
		return models.Prediction{}, &PredictionError{Err: err}
	}
	return prediction, nil
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
