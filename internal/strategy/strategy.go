// Package strategy maps a churn verdict to a canned retention recommendation.
//
// Rules are evaluated in a fixed priority order; the first match wins:
//
//	churn && totalSpend > 1000  -> VIP Recovery
//	churn && orderCount > 20    -> Frequency Boost
//	churn                       -> Standard Re-engagement
//	no churn                    -> Relationship Maintenance
package strategy

import "github.com/rewired-gh/churnoracle/internal/models"

// Thresholds are strict: exactly 1000 or exactly 20 does not qualify.
const (
	VIPSpendThreshold      = 1000.0
	FrequentOrderThreshold = 20
)

var (
	VIPRecovery = models.Recommendation{
		Strategy: models.StrategyVIPRecovery,
		Title:    "VIP Recovery",
		Action:   "This is a high-value customer. Action: Assign a dedicated account manager to call them personally with a 25% 'Premium Loyalty' credit.",
		Urgent:   true,
	}
	FrequencyBoost = models.Recommendation{
		Strategy: models.StrategyFrequencyBoost,
		Title:    "Frequency Boost",
		Action:   "This was a frequent shopper who stopped. Action: Send a 'We Miss You' automated email featuring their most-purchased product categories.",
		Urgent:   true,
	}
	StandardReengagement = models.Recommendation{
		Strategy: models.StrategyStandardReengagement,
		Title:    "Standard Re-engagement",
		Action:   "General churn risk. Action: Include in the next bulk discount email blast (10% off coupon).",
	}
	RelationshipMaintenance = models.Recommendation{
		Strategy: models.StrategyRelationshipMaintenance,
		Title:    "Relationship Maintenance",
		Action:   "Customer is healthy. Action: No aggressive discount needed. Send regular 'New Arrival' updates to keep them engaged.",
	}
)

// Select returns the recommendation for the given verdict and metrics.
func Select(churn bool, totalSpend float64, orderCount int) models.Recommendation {
	if !churn {
		return RelationshipMaintenance
	}
	switch {
	case totalSpend > VIPSpendThreshold:
		return VIPRecovery
	case orderCount > FrequentOrderThreshold:
		return FrequencyBoost
	default:
		return StandardReengagement
	}
}

// All returns every variant in priority order.
func All() []models.Recommendation {
	return []models.Recommendation{VIPRecovery, FrequencyBoost, StandardReengagement, RelationshipMaintenance}
}
