package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewired-gh/churnoracle/internal/models"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		churn      bool
		totalSpend float64
		orderCount int
		want       models.Strategy
	}{
		{"spend rule beats frequency rule", true, 1500, 30, models.StrategyVIPRecovery},
		{"high spend, few orders", true, 1000.01, 2, models.StrategyVIPRecovery},
		{"spend exactly 1000 is not VIP", true, 1000, 5, models.StrategyStandardReengagement},
		{"spend exactly 1000 falls to frequency", true, 1000, 21, models.StrategyFrequencyBoost},
		{"frequent shopper", true, 800, 21, models.StrategyFrequencyBoost},
		{"orders exactly 20 is not frequent", true, 800, 20, models.StrategyStandardReengagement},
		{"standard", true, 500, 5, models.StrategyStandardReengagement},
		{"minimum inputs", true, 1, 1, models.StrategyStandardReengagement},
		{"healthy", false, 500, 5, models.StrategyRelationshipMaintenance},
		{"healthy big spender", false, 1500, 30, models.StrategyRelationshipMaintenance},
		{"healthy frequent shopper", false, 10, 50, models.StrategyRelationshipMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.churn, tt.totalSpend, tt.orderCount)
			assert.Equal(t, tt.want, got.Strategy)
		})
	}
}

func TestSelect_IsDeterministic(t *testing.T) {
	for _, churn := range []bool{true, false} {
		for _, spend := range []float64{1, 999.99, 1000, 1000.5, 25000} {
			for _, orders := range []int{1, 20, 21, 500} {
				first := Select(churn, spend, orders)
				for i := 0; i < 3; i++ {
					assert.Equal(t, first, Select(churn, spend, orders))
				}
			}
		}
	}
}

func TestSelect_NoChurnIgnoresMetrics(t *testing.T) {
	for _, spend := range []float64{1, 1000, 1001, 1e9} {
		for _, orders := range []int{1, 20, 21, 1 << 20} {
			assert.Equal(t, RelationshipMaintenance, Select(false, spend, orders))
		}
	}
}

func TestVariants(t *testing.T) {
	all := All()
	assert.Len(t, all, 4)

	seen := map[models.Strategy]bool{}
	for _, r := range all {
		assert.NoError(t, r.Validate())
		assert.False(t, seen[r.Strategy], "duplicate strategy %s", r.Strategy)
		seen[r.Strategy] = true
	}

	assert.Equal(t, "VIP Recovery", VIPRecovery.Title)
	assert.Contains(t, VIPRecovery.Action, "25%")
	assert.Contains(t, FrequencyBoost.Action, "We Miss You")
	assert.Contains(t, StandardReengagement.Action, "10% off")
	assert.Contains(t, RelationshipMaintenance.Action, "New Arrival")

	assert.True(t, VIPRecovery.Urgent)
	assert.True(t, FrequencyBoost.Urgent)
	assert.False(t, StandardReengagement.Urgent)
	assert.False(t, RelationshipMaintenance.Urgent)
}
