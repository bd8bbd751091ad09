// Package report holds the result of one analysis and the text every front
// end renders from it.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/rewired-gh/churnoracle/internal/features"
	"github.com/rewired-gh/churnoracle/internal/models"
)

// Risk labels.
const (
	HighRisk = "HIGH RISK"
	LowRisk  = "LOW RISK"
)

// UnavailableMessage is rendered when an analysis could not produce a prediction.
const UnavailableMessage = "Prediction unavailable."

// Report is built fresh for each analysis and discarded after rendering.
type Report struct {
	ID             string
	Input          models.CustomerInput
	Vector         features.Vector
	Prediction     models.Prediction
	Recommendation models.Recommendation
	AnalyzedAt     time.Time
}

// RiskLabel returns HIGH RISK for a churn verdict and LOW RISK otherwise.
func (r *Report) RiskLabel() string {
	if r.Prediction.Churn {
		return HighRisk
	}
	return LowRisk
}

// ProbabilityText formats the churn probability as a percentage with one decimal.
func (r *Report) ProbabilityText() string {
	return FormatProbability(r.Prediction.Probability)
}

// FormatProbability renders p (0–1) as e.g. "87.3%".
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// StrategyLine returns "Strategy: <title>".
func (r *Report) StrategyLine() string {
	return "Strategy: " + r.Recommendation.Title
}

// String renders the report as plain text.
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString("RISK STATUS: " + r.RiskLabel() + "\n")
	sb.WriteString("Churn Probability: " + r.ProbabilityText() + "\n\n")
	sb.WriteString(r.StrategyLine() + "\n")
	sb.WriteString(r.Recommendation.Action)
	return sb.String()
}
