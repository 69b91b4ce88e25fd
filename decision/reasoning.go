package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"econsim/core"
	"econsim/model"
)

const reasoningInstructions = `You are the decision module of an autonomous economic agent.
The agent earns money by completing marketplace tasks, can found and grow a
company, and spends a scarce, non-renewable budget of compute hours.
Respond with a single JSON object and nothing else, using this schema:
{
  "action": "work_tasks" | "form_company" | "company_work" | "seek_investment" | "idle",
  "justification": "<one or two sentences>",
  "confidence": <number between 0 and 1>,
  "task_hours": <hours reserved for task work>,
  "company_hours": <hours reserved for company work>
}
task_hours + company_hours must not exceed the remaining compute hours and
neither may be negative. If remaining hours are below the survival buffer you
must choose "work_tasks" and reserve hours for task work.`

// ReasoningOptions configures the reasoning-backed strategy.
type ReasoningOptions struct {
	// Timeout bounds one reasoning call. Long budgets are expected; the
	// default allows up to 15 minutes.
	Timeout time.Duration
	// MinJustificationLen rejects trivial justification strings.
	MinJustificationLen int
	// SurvivalMinTaskHours is the minimum task-hour reservation required
	// from the model when survival is at risk.
	SurvivalMinTaskHours float64
}

// Reasoning is the strategy backed by an external reasoning model. It
// serializes the agent's situation into a prompt, parses the structured
// response, and validates it against the allocation invariants. Any failure
// surfaces as an error; wrap in a Fallback to substitute the deterministic
// strategy instead.
type Reasoning struct {
	llm  model.Model
	opts ReasoningOptions
}

// NewReasoning constructs a reasoning-backed strategy around a model.
func NewReasoning(llm model.Model, optFns ...func(o *ReasoningOptions)) *Reasoning {
	opts := ReasoningOptions{
		Timeout:              15 * time.Minute,
		MinJustificationLen:  10,
		SurvivalMinTaskHours: 1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reasoning{llm: llm, opts: opts}
}

// Name implements Engine.
func (r *Reasoning) Name() string { return "reasoning" }

// plan is the structured response expected from the model. One response
// carries both the primary decision and the allocation.
type plan struct {
	Action        string  `json:"action"`
	Justification string  `json:"justification"`
	Confidence    float64 `json:"confidence"`
	TaskHours     float64 `json:"task_hours"`
	CompanyHours  float64 `json:"company_hours"`
}

// Decide implements Engine.
func (r *Reasoning) Decide(ctx context.Context, state core.AgentState, cfg core.AgentConfig) (core.Decision, error) {
	p, err := r.reason(ctx, state, cfg)
	if err != nil {
		return core.Decision{}, err
	}
	return core.Decision{
		Kind:          core.DecisionKind(p.Action),
		Justification: p.Justification,
		Confidence:    clamp01(p.Confidence),
	}, nil
}

// Allocate implements Engine.
func (r *Reasoning) Allocate(ctx context.Context, state core.AgentState, cfg core.AgentConfig) (core.ResourceAllocation, error) {
	p, err := r.reason(ctx, state, cfg)
	if err != nil {
		return core.ResourceAllocation{}, err
	}
	return core.ResourceAllocation{
		TaskHours:    p.TaskHours,
		CompanyHours: p.CompanyHours,
	}, nil
}

// reason performs one validated model call. Each invocation is independent,
// preserving the statelessness contract toward callers.
func (r *Reasoning) reason(ctx context.Context, state core.AgentState, cfg core.AgentConfig) (plan, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	raw, err := model.Collect(callCtx, r.llm, model.Request{
		Instructions: reasoningInstructions,
		Prompt:       buildPrompt(state, cfg),
	})
	if err != nil {
		return plan{}, fmt.Errorf("reasoning call: %w", err)
	}

	p, err := parsePlan(raw)
	if err != nil {
		return plan{}, fmt.Errorf("reasoning response: %w", err)
	}
	if err := r.validate(p, state, cfg); err != nil {
		return plan{}, fmt.Errorf("reasoning validation: %w", err)
	}
	return p, nil
}

// buildPrompt serializes the agent's situation into a natural-language
// description of the decision required.
func buildPrompt(state core.AgentState, cfg core.AgentConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current situation of agent %s:\n", state.AgentID)
	fmt.Fprintf(&sb, "- balance: $%.2f\n", state.Balance)
	fmt.Fprintf(&sb, "- compute hours remaining: %.2f\n", state.ComputeHours)
	fmt.Fprintf(&sb, "- survival buffer: %.2f hours\n", cfg.SurvivalBuffer)
	fmt.Fprintf(&sb, "- tasks completed: %d, failed: %d (current failure streak: %d)\n",
		state.TasksCompleted, state.TasksFailed, state.ConsecutiveFailures)
	fmt.Fprintf(&sb, "- reputation: %.2f\n", state.Reputation)
	fmt.Fprintf(&sb, "- personality: %s, mode: %s\n", cfg.Personality, cfg.Mode)
	if state.HasCompany() {
		fmt.Fprintf(&sb, "- owns a company at stage %q\n", state.CompanyStage)
	} else if cfg.AllowsCompany() {
		fmt.Fprintf(&sb, "- no company yet; formation requires a balance of $%.2f\n", cfg.CompanyThreshold)
	} else {
		sb.WriteString("- company activity is disabled for this agent\n")
	}
	sb.WriteString("Decide how this agent should spend the coming cycle.")
	return sb.String()
}

// parsePlan extracts the JSON object from a raw model response, repairing
// malformed JSON before giving up.
func parsePlan(raw string) (plan, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return plan{}, fmt.Errorf("empty response")
	}

	var p plan
	if err := json.Unmarshal([]byte(text), &p); err == nil {
		return p, nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return plan{}, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &p); err != nil {
		return plan{}, fmt.Errorf("malformed JSON after repair: %w", err)
	}
	return p, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// validate enforces the acceptance rules for a reasoned plan. A violation is
// treated like any other reasoning failure and triggers fallback upstream.
func (r *Reasoning) validate(p plan, state core.AgentState, cfg core.AgentConfig) error {
	switch core.DecisionKind(p.Action) {
	case core.DecisionWorkTasks, core.DecisionFormCompany, core.DecisionCompanyWork,
		core.DecisionSeekInvestment, core.DecisionIdle:
	default:
		return fmt.Errorf("unknown action %q", p.Action)
	}

	if p.TaskHours < 0 || p.CompanyHours < 0 {
		return fmt.Errorf("negative allocation: task=%.2f company=%.2f", p.TaskHours, p.CompanyHours)
	}
	if total := p.TaskHours + p.CompanyHours; total > state.ComputeHours {
		return fmt.Errorf("allocation %.2fh exceeds remaining %.2fh", total, state.ComputeHours)
	}

	if survivalAtRisk(state, cfg) {
		minTask := r.opts.SurvivalMinTaskHours
		if state.ComputeHours < minTask {
			minTask = state.ComputeHours
		}
		if core.DecisionKind(p.Action) != core.DecisionWorkTasks {
			return fmt.Errorf("survival at risk but action is %q", p.Action)
		}
		if p.TaskHours < minTask {
			return fmt.Errorf("survival at risk but only %.2f task hours reserved", p.TaskHours)
		}
	}

	if core.DecisionKind(p.Action) == core.DecisionFormCompany {
		if !cfg.AllowsCompany() || state.HasCompany() || state.Balance < cfg.CompanyThreshold {
			return fmt.Errorf("form_company not currently eligible")
		}
	}

	if len(strings.TrimSpace(p.Justification)) < r.opts.MinJustificationLen {
		return fmt.Errorf("justification too short")
	}
	return nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
