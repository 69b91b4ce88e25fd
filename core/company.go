package core

import (
	"errors"
	"fmt"
)

// CompanyStage is a point in the company lifecycle. Stages advance through
// the defined order; Bankrupt is terminal and reachable from any stage.
type CompanyStage string

const (
	// StageIdeation is the initial stage after formation.
	StageIdeation CompanyStage = "ideation"
	// StageDevelopment is reached after minimal product progress.
	StageDevelopment CompanyStage = "development"
	// StageSeekingInvestment is reached when the company pitches investors.
	StageSeekingInvestment CompanyStage = "seeking_investment"
	// StageOperational is the mature, revenue-generating stage.
	StageOperational CompanyStage = "operational"
	// StageBankrupt is terminal; entered when capital goes negative.
	StageBankrupt CompanyStage = "bankrupt"
)

// ErrInvalidTransition is returned when a stage change is not in the
// transition table.
var ErrInvalidTransition = errors.New("invalid company stage transition")

// stageTransitions is the validated transition table. Forward moves follow
// the lifecycle order; the two regression edges cover failed development and
// repeated investor rejection. Bankruptcy is handled separately since it is
// reachable from every non-terminal stage.
var stageTransitions = map[CompanyStage][]CompanyStage{
	StageIdeation:          {StageDevelopment},
	StageDevelopment:       {StageSeekingInvestment, StageIdeation},
	StageSeekingInvestment: {StageOperational, StageDevelopment},
	StageOperational:       {},
	StageBankrupt:          {},
}

// CanTransition reports whether moving from one stage to another is allowed.
func CanTransition(from, to CompanyStage) bool {
	if to == StageBankrupt {
		return from != StageBankrupt
	}
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Company is owned by exactly one agent once formed. Stage moves only through
// the validated transition table; capital going negative marks the company
// Bankrupt.
type Company struct {
	ID         string       `json:"id"`
	OwnerID    string       `json:"owner_id"`
	Name       string       `json:"name"`
	Stage      CompanyStage `json:"stage"`
	Capital    float64      `json:"capital"`
	Revenue    float64      `json:"revenue"`
	Expenses   float64      `json:"expenses"`
	Progress   float64      `json:"progress"` // product progress within the current stage, [0,1]
	Rejections int          `json:"rejections"`
}

// NewCompany creates a company at stage Ideation with the given seed capital.
func NewCompany(ownerID, name string, capital float64) *Company {
	return &Company{
		ID:      NewID(),
		OwnerID: ownerID,
		Name:    name,
		Stage:   StageIdeation,
		Capital: capital,
	}
}

// Transition moves the company to the requested stage after validating the
// edge. Progress and rejection counters reset on every accepted transition.
func (c *Company) Transition(to CompanyStage) error {
	if !CanTransition(c.Stage, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Stage, to)
	}
	c.Stage = to
	c.Progress = 0
	c.Rejections = 0
	return nil
}

// ApplyDelta books revenue and expenses against capital. If capital goes
// negative the company transitions to Bankrupt and the method reports it.
func (c *Company) ApplyDelta(revenue, expenses float64) (bankrupt bool) {
	c.Revenue += revenue
	c.Expenses += expenses
	c.Capital += revenue - expenses
	if c.Capital < 0 {
		c.Stage = StageBankrupt
		return true
	}
	return false
}

// Bankrupt reports whether the company has reached the terminal stage.
func (c *Company) Bankrupt() bool { return c.Stage == StageBankrupt }

// NextStage returns the forward stage in the lifecycle order, or the current
// stage when the company is Operational or Bankrupt.
func (c *Company) NextStage() CompanyStage {
	switch c.Stage {
	case StageIdeation:
		return StageDevelopment
	case StageDevelopment:
		return StageSeekingInvestment
	case StageSeekingInvestment:
		return StageOperational
	default:
		return c.Stage
	}
}
