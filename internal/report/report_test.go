package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewired-gh/churnoracle/internal/models"
	"github.com/rewired-gh/churnoracle/internal/strategy"
)

func TestRiskLabel(t *testing.T) {
	r := &Report{Prediction: models.Prediction{Churn: true, Probability: 0.9}}
	assert.Equal(t, HighRisk, r.RiskLabel())

	r.Prediction.Churn = false
	assert.Equal(t, LowRisk, r.RiskLabel())
}

func TestFormatProbability(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, "0.0%"},
		{1, "100.0%"},
		{0.8734, "87.3%"},
		{0.12345, "12.3%"},
		{0.5, "50.0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatProbability(tt.p))
	}
}

func TestString(t *testing.T) {
	r := &Report{
		Prediction:     models.Prediction{Churn: true, Probability: 0.873},
		Recommendation: strategy.VIPRecovery,
	}

	want := "RISK STATUS: HIGH RISK\n" +
		"Churn Probability: 87.3%\n\n" +
		"Strategy: VIP Recovery\n" +
		strategy.VIPRecovery.Action
	assert.Equal(t, want, r.String())
}
