package decision

import (
	"context"
	"fmt"

	"econsim/core"
)

// taskShare maps a personality to the fraction of growth hours that go to
// task work; the remainder goes to company work.
var taskShare = map[core.Personality]float64{
	core.PersonalityCautious:   0.8,
	core.PersonalityBalanced:   0.5,
	core.PersonalityAggressive: 0.3,
}

// RuleBased is the deterministic threshold strategy. Survival always wins:
// when remaining hours fall below the survival buffer all hours go to task
// work regardless of personality or company state.
type RuleBased struct{}

// NewRuleBased constructs the deterministic strategy.
func NewRuleBased() *RuleBased { return &RuleBased{} }

// Name implements Engine.
func (r *RuleBased) Name() string { return "rule_based" }

// Decide implements Engine. Deterministic rules carry full confidence.
func (r *RuleBased) Decide(_ context.Context, state core.AgentState, cfg core.AgentConfig) (core.Decision, error) {
	switch {
	case survivalAtRisk(state, cfg):
		return core.Decision{
			Kind:          core.DecisionWorkTasks,
			Justification: fmt.Sprintf("survival: %.1fh remaining is below the %.1fh buffer", state.ComputeHours, cfg.SurvivalBuffer),
			Confidence:    1.0,
		}, nil

	case cfg.MaxTaskFailures > 0 && state.ConsecutiveFailures >= cfg.MaxTaskFailures:
		return core.Decision{
			Kind:          core.DecisionIdle,
			Justification: fmt.Sprintf("cooldown after %d consecutive task failures", state.ConsecutiveFailures),
			Confidence:    1.0,
		}, nil

	case cfg.AllowsCompany() && !state.HasCompany() && state.Balance >= cfg.CompanyThreshold:
		return core.Decision{
			Kind:          core.DecisionFormCompany,
			Justification: fmt.Sprintf("balance %.2f meets the %.2f formation threshold", state.Balance, cfg.CompanyThreshold),
			Confidence:    1.0,
		}, nil

	case state.HasCompany() && state.CompanyStage == core.StageSeekingInvestment:
		return core.Decision{
			Kind:          core.DecisionSeekInvestment,
			Justification: "company is at the seeking-investment stage",
			Confidence:    1.0,
		}, nil

	case state.HasCompany() && state.CompanyStage != core.StageBankrupt:
		return core.Decision{
			Kind:          core.DecisionCompanyWork,
			Justification: fmt.Sprintf("advancing company at stage %s", state.CompanyStage),
			Confidence:    1.0,
		}, nil

	default:
		return core.Decision{
			Kind:          core.DecisionWorkTasks,
			Justification: "working marketplace tasks to grow balance",
			Confidence:    1.0,
		}, nil
	}
}

// Allocate implements Engine using a personality-weighted split. Below the
// survival buffer every remaining hour is allocated to task work.
func (r *RuleBased) Allocate(_ context.Context, state core.AgentState, cfg core.AgentConfig) (core.ResourceAllocation, error) {
	hours := state.ComputeHours
	if hours <= 0 {
		return core.ResourceAllocation{}, nil
	}
	if survivalAtRisk(state, cfg) {
		return core.ResourceAllocation{TaskHours: hours}, nil
	}

	share, ok := taskShare[cfg.Personality]
	if !ok {
		share = taskShare[core.PersonalityBalanced]
	}

	// Company hours are only useful when company activity is possible.
	if !cfg.AllowsCompany() || (!state.HasCompany() && state.Balance < cfg.CompanyThreshold) {
		return core.ResourceAllocation{TaskHours: hours}, nil
	}

	return core.ResourceAllocation{
		TaskHours:    hours * share,
		CompanyHours: hours * (1 - share),
	}, nil
}
