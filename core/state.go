package core

import "fmt"

// Mode selects which activities an agent may pursue beyond plain task work.
type Mode string

const (
	// ModeSurvival restricts the agent to marketplace task work.
	ModeSurvival Mode = "survival"
	// ModeCompany additionally allows company formation, company work and
	// investment seeking.
	ModeCompany Mode = "company"
)

// Personality is a coarse risk profile that weights how a deterministic
// strategy splits hours between task work and company work.
type Personality string

const (
	// PersonalityCautious favors task work over growth activities.
	PersonalityCautious Personality = "cautious"
	// PersonalityBalanced splits hours evenly.
	PersonalityBalanced Personality = "balanced"
	// PersonalityAggressive favors company work over task work.
	PersonalityAggressive Personality = "aggressive"
)

// TaskStrategy is the policy used to pick one task among the available ones.
type TaskStrategy string

const (
	// TaskStrategyFirstAvailable picks the first listed task.
	TaskStrategyFirstAvailable TaskStrategy = "first_available"
	// TaskStrategyHighestReward picks the task with the largest reward.
	TaskStrategyHighestReward TaskStrategy = "highest_reward"
	// TaskStrategyBestRatio picks the task with the best reward/time ratio.
	TaskStrategyBestRatio TaskStrategy = "best_ratio"
	// TaskStrategyBalanced weights reward against time cost.
	TaskStrategyBalanced TaskStrategy = "balanced"
	// TaskStrategySkillMatch picks the task with the largest overlap between
	// task tags and the agent's configured skills.
	TaskStrategySkillMatch TaskStrategy = "skill_match"
)

// AgentState is the mutable snapshot of one agent's resources and progress.
// Each state instance is exclusively owned by the loop executing its agent;
// it is mutated only by the cycle executor between suspension points and is
// never shared across loops, so it needs no internal locking.
type AgentState struct {
	AgentID             string  `json:"agent_id"`
	Balance             float64 `json:"balance"`
	ComputeHours        float64 `json:"compute_hours"`
	TasksCompleted      int     `json:"tasks_completed"`
	TasksFailed         int     `json:"tasks_failed"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	Reputation          float64 `json:"reputation"`
	CompanyID           string  `json:"company_id,omitempty"`
	// CompanyStage mirrors the owned company's stage; maintained by the
	// cycle executor so stateless strategies can see lifecycle position.
	CompanyStage  CompanyStage `json:"company_stage,omitempty"`
	CurrentTaskID string       `json:"current_task_id,omitempty"`
	IsActive      bool         `json:"is_active"`
	Cycle         int          `json:"cycle"`
}

// NewAgentState constructs an active state with the given starting resources.
func NewAgentState(agentID string, balance, computeHours float64) *AgentState {
	return &AgentState{
		AgentID:      agentID,
		Balance:      balance,
		ComputeHours: computeHours,
		Reputation:   1.0,
		IsActive:     true,
	}
}

// HasCompany reports whether the agent has formed a company.
func (s *AgentState) HasCompany() bool { return s.CompanyID != "" }

// Exhausted reports whether the agent has run out of compute hours.
func (s *AgentState) Exhausted() bool { return s.ComputeHours <= 0 }

// RecordTaskSuccess updates progress counters after a completed task.
func (s *AgentState) RecordTaskSuccess() {
	s.TasksCompleted++
	s.ConsecutiveFailures = 0
}

// RecordTaskFailure updates progress counters after a failed task.
func (s *AgentState) RecordTaskFailure() {
	s.TasksFailed++
	s.ConsecutiveFailures++
}

// Validate checks the state invariants that must hold after a committed
// cycle. A violation indicates a programming error in the executor, not a
// recoverable runtime condition.
func (s *AgentState) Validate() error {
	if s.Balance < 0 {
		return fmt.Errorf("agent %s: negative balance %.2f", s.AgentID, s.Balance)
	}
	if s.ComputeHours < 0 {
		return fmt.Errorf("agent %s: negative compute hours %.2f", s.AgentID, s.ComputeHours)
	}
	return nil
}

// Clone returns a deep copy, used to freeze before/after snapshots into a
// CycleResult.
func (s *AgentState) Clone() *AgentState {
	c := *s
	return &c
}

// Snapshot converts the state into the read-only status form exposed to
// runner observers.
func (s *AgentState) Snapshot() StatusSnapshot {
	return StatusSnapshot{
		AgentID:        s.AgentID,
		Balance:        s.Balance,
		ComputeHours:   s.ComputeHours,
		TasksCompleted: s.TasksCompleted,
		CurrentCycle:   s.Cycle,
		IsActive:       s.IsActive,
	}
}

// AgentConfig holds the immutable tuning parameters of one agent. It is
// created once at agent construction and read-only thereafter.
type AgentConfig struct {
	Mode             Mode         `json:"mode"`
	Personality      Personality  `json:"personality"`
	TaskStrategy     TaskStrategy `json:"task_strategy"`
	Skills           []string     `json:"skills,omitempty"`
	SurvivalBuffer   float64      `json:"survival_buffer"`
	CompanyThreshold float64      `json:"company_threshold"`
	MaxCycles        int          `json:"max_cycles,omitempty"` // 0 means unbounded
	MaxTaskFailures  int          `json:"max_task_failures"`    // consecutive failures before an idle cycle
}

// DefaultAgentConfig returns a survival-capable baseline configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Mode:             ModeCompany,
		Personality:      PersonalityBalanced,
		TaskStrategy:     TaskStrategyBestRatio,
		SurvivalBuffer:   10,
		CompanyThreshold: 150,
		MaxTaskFailures:  5,
	}
}

// AllowsCompany reports whether the configuration permits company activity.
func (c AgentConfig) AllowsCompany() bool { return c.Mode == ModeCompany }

// StatusSnapshot is the pull-based status view returned by the runner. Two
// queries without an intervening cycle return identical snapshots.
type StatusSnapshot struct {
	AgentID        string  `json:"agent_id"`
	Balance        float64 `json:"balance"`
	ComputeHours   float64 `json:"compute_hours"`
	TasksCompleted int     `json:"tasks_completed"`
	CurrentCycle   int     `json:"current_cycle"`
	IsActive       bool    `json:"is_active"`
	StopReason     string  `json:"stop_reason,omitempty"`
}
