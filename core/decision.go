package core

import (
	"fmt"
	"time"
)

// DecisionKind discriminates the activity an agent chose for a cycle.
type DecisionKind string

const (
	// DecisionWorkTasks spends the cycle on marketplace task work.
	DecisionWorkTasks DecisionKind = "work_tasks"
	// DecisionFormCompany founds a new company from the agent's balance.
	DecisionFormCompany DecisionKind = "form_company"
	// DecisionCompanyWork advances an existing company.
	DecisionCompanyWork DecisionKind = "company_work"
	// DecisionSeekInvestment pitches the company to the investor backend.
	DecisionSeekInvestment DecisionKind = "seek_investment"
	// DecisionIdle skips the cycle without spending resources.
	DecisionIdle DecisionKind = "idle"
)

// Decision is the primary output of one decision-making pass. FallbackUsed
// records provenance: true when the deterministic strategy was substituted
// for a failed reasoning call.
type Decision struct {
	Kind          DecisionKind `json:"kind"`
	Justification string       `json:"justification"`
	Confidence    float64      `json:"confidence"`
	FallbackUsed  bool         `json:"fallback_used,omitempty"`
}

// ResourceAllocation splits the available compute hours between task work and
// company work for one cycle. TaskHours+CompanyHours never exceeds the hours
// the agent had when the allocation was computed.
type ResourceAllocation struct {
	TaskHours    float64 `json:"task_hours"`
	CompanyHours float64 `json:"company_hours"`
	FallbackUsed bool    `json:"fallback_used,omitempty"`
}

// Total returns the combined allocated hours.
func (a ResourceAllocation) Total() float64 { return a.TaskHours + a.CompanyHours }

// Validate checks the allocation against the hours that were available.
func (a ResourceAllocation) Validate(hoursAvailable float64) error {
	if a.TaskHours < 0 || a.CompanyHours < 0 {
		return fmt.Errorf("negative allocation: task=%.2f company=%.2f", a.TaskHours, a.CompanyHours)
	}
	if a.Total() > hoursAvailable {
		return fmt.Errorf("allocation %.2fh exceeds available %.2fh", a.Total(), hoursAvailable)
	}
	return nil
}

// TaskOutcome records what happened during the task-work step of a cycle.
type TaskOutcome struct {
	TaskID    string  `json:"task_id,omitempty"`
	Title     string  `json:"title,omitempty"`
	Success   bool    `json:"success"`
	NoTask    bool    `json:"no_task,omitempty"` // nothing matched the selection strategy
	Reward    float64 `json:"reward"`
	HoursUsed float64 `json:"hours_used"`
	Detail    string  `json:"detail,omitempty"`
}

// FormationOutcome records a company-formation attempt.
type FormationOutcome struct {
	CompanyID string  `json:"company_id"`
	Capital   float64 `json:"capital"`
}

// CompanyWorkOutcome records one cycle of company work.
type CompanyWorkOutcome struct {
	CompanyID  string       `json:"company_id"`
	Revenue    float64      `json:"revenue"`
	Expenses   float64      `json:"expenses"`
	StageAfter CompanyStage `json:"stage_after"`
	Advanced   bool         `json:"advanced"`
}

// InvestmentOutcome records the result of submitting an investment proposal.
type InvestmentOutcome struct {
	ProposalID string            `json:"proposal_id"`
	Verdict    InvestmentVerdict `json:"verdict"`
	Amount     float64           `json:"amount"`
	StageAfter CompanyStage      `json:"stage_after"`
}

// CycleResult is the immutable record produced once per cycle. It is created
// by the cycle executor after the finalize step and never mutated afterwards.
type CycleResult struct {
	AgentID     string              `json:"agent_id"`
	Cycle       int                 `json:"cycle"`
	Before      *AgentState         `json:"before"`
	After       *AgentState         `json:"after"`
	Decision    Decision            `json:"decision"`
	Allocation  ResourceAllocation  `json:"allocation"`
	Task        *TaskOutcome        `json:"task,omitempty"`
	Formation   *FormationOutcome   `json:"formation,omitempty"`
	CompanyWork *CompanyWorkOutcome `json:"company_work,omitempty"`
	Investment  *InvestmentOutcome  `json:"investment,omitempty"`
	Err         string              `json:"error,omitempty"` // non-fatal error captured mid-cycle
	Duration    time.Duration       `json:"duration"`
}

// Failed reports whether a non-fatal error was captured during the cycle.
func (r CycleResult) Failed() bool { return r.Err != "" }
