package core

import (
	"context"
	"time"
)

// Task is a unit of paid work offered by the marketplace.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Reward         float64  `json:"reward"`
	EstimatedHours float64  `json:"estimated_hours"`
	Tags           []string `json:"tags,omitempty"`
}

// TaskFilter narrows a marketplace listing.
type TaskFilter struct {
	MaxHours float64  `json:"max_hours,omitempty"` // 0 means unlimited
	Tags     []string `json:"tags,omitempty"`
}

// Claim acknowledges that a task has been assigned to an agent.
type Claim struct {
	TaskID    string    `json:"task_id"`
	AgentID   string    `json:"agent_id"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// SubmissionStatus is the review state of a submitted solution.
type SubmissionStatus string

const (
	// SubmissionPending means the solution has not been reviewed yet.
	SubmissionPending SubmissionStatus = "pending"
	// SubmissionAccepted means the solution was accepted and pays out.
	SubmissionAccepted SubmissionStatus = "accepted"
	// SubmissionRejected means the solution was rejected.
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is the record returned when a solution is handed in.
type Submission struct {
	ID     string           `json:"id"`
	TaskID string           `json:"task_id"`
	Status SubmissionStatus `json:"status"`
}

// Transaction is a wallet ledger entry.
type Transaction struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    float64   `json:"amount"`
	Memo      string    `json:"memo,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ComputeStatus reports the metered compute resource.
type ComputeStatus struct {
	HoursRemaining float64 `json:"hours_remaining"`
	CostPerHour    float64 `json:"cost_per_hour"`
}

// Proposal is an investment pitch built from current company metrics.
type Proposal struct {
	ID        string       `json:"id"`
	CompanyID string       `json:"company_id"`
	Stage     CompanyStage `json:"stage"`
	Capital   float64      `json:"capital"`
	Revenue   float64      `json:"revenue"`
	Ask       float64      `json:"ask"`
}

// InvestmentVerdict is the investor's answer to a proposal.
type InvestmentVerdict string

const (
	// VerdictApproved funds the full ask.
	VerdictApproved InvestmentVerdict = "approved"
	// VerdictCountered offers a different amount.
	VerdictCountered InvestmentVerdict = "countered"
	// VerdictRejected declines the proposal.
	VerdictRejected InvestmentVerdict = "rejected"
	// VerdictMoreInfo defers the decision pending more information.
	VerdictMoreInfo InvestmentVerdict = "more_info"
)

// InvestmentDecision is the investor backend's response to a proposal.
type InvestmentDecision struct {
	ProposalID string            `json:"proposal_id"`
	Verdict    InvestmentVerdict `json:"verdict"`
	Amount     float64           `json:"amount"` // funded or countered amount
	Reason     string            `json:"reason,omitempty"`
}

// Wallet is the monetary backend an agent transacts through. Implementations
// must be safe for concurrent use by multiple agent loops.
type Wallet interface {
	Balance(ctx context.Context) (float64, error)
	SendPayment(ctx context.Context, to string, amount float64, memo string) (Transaction, error)
	ReceivePayment(ctx context.Context, from string, amount float64, memo string) (Transaction, error)
	History(ctx context.Context, limit int) ([]Transaction, error)
}

// Marketplace is the task exchange an agent works against. Implementations
// must be safe for concurrent use by multiple agent loops.
type Marketplace interface {
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	ClaimTask(ctx context.Context, taskID, agentID string) (Claim, error)
	SubmitSolution(ctx context.Context, taskID, payload string) (Submission, error)
	SubmissionStatus(ctx context.Context, submissionID string) (SubmissionStatus, error)
	ReleaseTask(ctx context.Context, taskID string) error
}

// Compute meters the time-decaying compute resource. Implementations must be
// safe for concurrent use by multiple agent loops.
type Compute interface {
	Status(ctx context.Context) (ComputeStatus, error)
	ConsumeTime(ctx context.Context, hours float64) error
	AddFunds(ctx context.Context, amount float64) error
}

// Investor evaluates investment proposals. Implementations must be safe for
// concurrent use by multiple agent loops.
type Investor interface {
	SubmitProposal(ctx context.Context, p Proposal) (InvestmentDecision, error)
}

// Backends bundles the collaborator set the cycle executor consumes.
type Backends struct {
	Wallet      Wallet
	Marketplace Marketplace
	Compute     Compute
	Investor    Investor
}
