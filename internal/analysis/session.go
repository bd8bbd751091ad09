// Package analysis runs one churn analysis end to end.
//
// A Session is the process-wide context built once from the artifact load
// outcome and passed to every front end. It is read-only after construction,
// so Analyze may be called from any goroutine; each call builds its report
// from scratch and carries nothing over to the next one.
package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rewired-gh/churnoracle/internal/artifact"
	"github.com/rewired-gh/churnoracle/internal/features"
	"github.com/rewired-gh/churnoracle/internal/logger"
	"github.com/rewired-gh/churnoracle/internal/models"
	"github.com/rewired-gh/churnoracle/internal/predictor"
	"github.com/rewired-gh/churnoracle/internal/report"
	"github.com/rewired-gh/churnoracle/internal/strategy"
)

// Session binds a load outcome to the prediction pipeline.
type Session struct {
	outcome   artifact.Outcome
	predictor *predictor.Predictor
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session over a load outcome.
func NewSession(outcome artifact.Outcome, opts ...Option) *Session {
	s := &Session{
		outcome:   outcome,
		predictor: predictor.New(outcome),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether predictions can be made.
func (s *Session) Available() bool {
	return s.outcome.Available()
}

// LoadErr returns the artifact load failure, or nil when available.
func (s *Session) LoadErr() *artifact.LoadError {
	return s.outcome.Err()
}

// Analyze validates the input, derives the feature vector, scores it and
// selects a recommendation. When the session is unavailable the returned
// error wraps predictor.ErrModelUnavailable and the artifact.LoadError.
func (s *Session) Analyze(in models.CustomerInput) (*report.Report, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	vector, err := features.Derive(in)
	if err != nil {
		return nil, err
	}

	prediction, err := s.predictor.Predict(vector)
	if err != nil {
		return nil, err
	}

	rec := strategy.Select(prediction.Churn, in.TotalSpend, in.OrderCount)

	r := &report.Report{
		ID:             uuid.New().String(),
		Input:          in,
		Vector:         vector,
		Prediction:     prediction,
		Recommendation: rec,
		AnalyzedAt:     s.now(),
	}
	logger.Info("Analysis %s: orders=%d spend=%.2f items=%d aov=%.4f churn=%v probability=%.4f strategy=%s",
		r.ID, in.OrderCount, in.TotalSpend, in.UniqueItems, vector.AverageOrderValue,
		prediction.Churn, prediction.Probability, rec.Strategy)
	return r, nil
}
