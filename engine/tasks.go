package engine

import (
	"context"
	"fmt"

	"econsim/core"
	"econsim/internal/util"
)

// workTasks performs the task-work step of a cycle: list, select, claim, do
// the work, submit, and settle the outcome. Backend failures are captured on
// the result and counted as a task failure; an empty marketplace is a no-op
// outcome, never a cycle failure.
func (e *Executor) workTasks(ctx context.Context, a *Agent, budget float64, result *core.CycleResult) {
	st := a.State
	outcome := &core.TaskOutcome{}
	result.Task = outcome

	tasks, err := a.Backends.Marketplace.ListTasks(ctx, core.TaskFilter{MaxHours: budget})
	if err != nil {
		capture(result, err)
		outcome.NoTask = true
		outcome.Detail = "marketplace unavailable"
		return
	}

	task, ok := selectTask(tasks, a.Config, budget)
	if !ok {
		outcome.NoTask = true
		outcome.Detail = "no task matched selection strategy"
		return
	}
	outcome.TaskID = task.ID
	outcome.Title = task.Title

	if _, err := a.Backends.Marketplace.ClaimTask(ctx, task.ID, a.ID); err != nil {
		capture(result, err)
		outcome.Detail = "claim failed"
		return
	}
	st.CurrentTaskID = task.ID

	hours := task.EstimatedHours
	if hours > budget {
		hours = budget
	}
	if err := a.Backends.Compute.ConsumeTime(ctx, hours); err != nil {
		capture(result, err)
	}
	st.ComputeHours = util.ClampNonNegative(st.ComputeHours - hours)
	outcome.HoursUsed = hours

	payload := fmt.Sprintf("solution for %s by agent %s", task.ID, a.ID)
	sub, err := a.Backends.Marketplace.SubmitSolution(ctx, task.ID, payload)
	if err != nil {
		capture(result, err)
		e.settleFailure(ctx, a, task, outcome)
		return
	}

	status := sub.Status
	if status == core.SubmissionPending {
		status, err = a.Backends.Marketplace.SubmissionStatus(ctx, sub.ID)
		if err != nil {
			capture(result, err)
			status = core.SubmissionRejected
		}
	}

	if status == core.SubmissionAccepted {
		e.settleSuccess(ctx, a, task, outcome)
	} else {
		e.settleFailure(ctx, a, task, outcome)
	}
	st.CurrentTaskID = ""
}

// settleSuccess credits the reward and updates progress counters.
func (e *Executor) settleSuccess(ctx context.Context, a *Agent, task core.Task, outcome *core.TaskOutcome) {
	st := a.State
	outcome.Success = true
	outcome.Reward = task.Reward

	if _, err := a.Backends.Wallet.ReceivePayment(ctx, "marketplace", task.Reward, "reward for "+task.ID); err != nil {
		e.logger.Warn("reward payment failed", "agent_id", a.ID, "task_id", task.ID, "error", err)
	}
	st.Balance += task.Reward
	st.RecordTaskSuccess()
	if st.Reputation < 5 {
		st.Reputation += 0.02
	}
}

// settleFailure counts the failure and releases the claim.
func (e *Executor) settleFailure(ctx context.Context, a *Agent, task core.Task, outcome *core.TaskOutcome) {
	st := a.State
	outcome.Success = false
	st.RecordTaskFailure()
	st.Reputation = util.ClampNonNegative(st.Reputation - 0.05)
	if err := a.Backends.Marketplace.ReleaseTask(ctx, task.ID); err != nil {
		e.logger.Warn("release failed", "agent_id", a.ID, "task_id", task.ID, "error", err)
	}
	st.CurrentTaskID = ""
}

// selectTask picks one task among the eligible ones according to the
// configured selection strategy. Tasks whose estimate exceeds the hour
// budget are never eligible.
func selectTask(tasks []core.Task, cfg core.AgentConfig, budget float64) (core.Task, bool) {
	eligible := make([]core.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.EstimatedHours > 0 && t.EstimatedHours <= budget {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return core.Task{}, false
	}

	switch cfg.TaskStrategy {
	case core.TaskStrategyFirstAvailable:
		return eligible[0], true
	case core.TaskStrategyHighestReward:
		return pickBest(eligible, func(t core.Task) float64 { return t.Reward }), true
	case core.TaskStrategyBalanced:
		// Values reward but penalizes long tasks.
		return pickBest(eligible, func(t core.Task) float64 { return t.Reward - 5*t.EstimatedHours }), true
	case core.TaskStrategySkillMatch:
		return pickBest(eligible, func(t core.Task) float64 {
			overlap := float64(tagOverlap(t.Tags, cfg.Skills))
			// Tie-break equal overlap by reward density.
			return overlap*1000 + t.Reward/t.EstimatedHours
		}), true
	default: // TaskStrategyBestRatio
		return pickBest(eligible, func(t core.Task) float64 { return t.Reward / t.EstimatedHours }), true
	}
}

// pickBest returns the task maximizing score, preferring earlier tasks on
// ties so selection stays deterministic.
func pickBest(tasks []core.Task, score func(core.Task) float64) core.Task {
	best := tasks[0]
	bestScore := score(best)
	for _, t := range tasks[1:] {
		if s := score(t); s > bestScore {
			best = t
			bestScore = s
		}
	}
	return best
}

func tagOverlap(tags, skills []string) int {
	n := 0
	for _, tag := range tags {
		for _, skill := range skills {
			if tag == skill {
				n++
				break
			}
		}
	}
	return n
}
