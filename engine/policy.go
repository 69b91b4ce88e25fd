package engine

import (
	"econsim/core"
)

// Policy bundles the configurable economics of the simulation: how much of
// the balance seeds a new company, how fast company work progresses a stage,
// the revenue/expense deltas per stage, and the valuation used for investment
// proposals. The payout and valuation formulas are deliberately policy
// functions rather than fixed constants.
type Policy struct {
	// FormationFraction is the share of the agent's balance transferred
	// into a newly formed company.
	FormationFraction float64

	// ProgressPerHour is the stage progress gained per company work hour.
	ProgressPerHour float64

	// Revenue returns the revenue earned by one cycle of company work.
	Revenue func(c *core.Company, hours float64) float64

	// Expenses returns the expenses incurred by one cycle of company work.
	Expenses func(c *core.Company, hours float64) float64

	// Valuation returns the ask amount for an investment proposal.
	Valuation func(c *core.Company) float64

	// AcceptCounter decides whether a countered amount is taken.
	AcceptCounter func(ask, counter float64) bool

	// MaxRejections is the number of investor rejections after which the
	// company regresses from SeekingInvestment back to Development.
	MaxRejections int
}

// revenuePerHour is the baseline hourly revenue by stage. Early stages earn
// nothing; an operational company earns the most.
var revenuePerHour = map[core.CompanyStage]float64{
	core.StageIdeation:          0,
	core.StageDevelopment:       5,
	core.StageSeekingInvestment: 8,
	core.StageOperational:       20,
}

// DefaultPolicy returns the baseline economics used by the simulation.
func DefaultPolicy() Policy {
	return Policy{
		FormationFraction: 0.30,
		ProgressPerHour:   0.25,
		Revenue: func(c *core.Company, hours float64) float64 {
			return revenuePerHour[c.Stage] * hours
		},
		Expenses: func(c *core.Company, hours float64) float64 {
			// Flat burn per working hour plus a small fixed overhead.
			return 2*hours + 1
		},
		Valuation: func(c *core.Company) float64 {
			ask := c.Capital * 2.5
			if ask < 100 {
				ask = 100
			}
			return ask
		},
		AcceptCounter: func(ask, counter float64) bool {
			return counter >= ask*0.5
		},
		MaxRejections: 3,
	}
}
