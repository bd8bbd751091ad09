package models

import "errors"

// Strategy identifies one of the fixed retention playbooks.
type Strategy string

const (
	StrategyVIPRecovery             Strategy = "vip_recovery"
	StrategyFrequencyBoost          Strategy = "frequency_boost"
	StrategyStandardReengagement    Strategy = "standard_reengagement"
	StrategyRelationshipMaintenance Strategy = "relationship_maintenance"
)

// Recommendation is the canned retention action shown to the operator.
// Urgent recommendations are rendered as warnings, the rest as info.
type Recommendation struct {
	Strategy Strategy `json:"strategy"`
	Title    string   `json:"title"`
	Action   string   `json:"action"`
	Urgent   bool     `json:"urgent"`
}

// Validate checks that the recommendation is one of the known variants
func (r *Recommendation) Validate() error {
	switch r.Strategy {
	case StrategyVIPRecovery, StrategyFrequencyBoost, StrategyStandardReengagement, StrategyRelationshipMaintenance:
	default:
		return errors.New("strategy must be one of the known retention strategies")
	}
	if r.Title == "" {
		return errors.New("recommendation title must not be empty")
	}
	if r.Action == "" {
		return errors.New("recommendation action must not be empty")
	}
	return nil
}
