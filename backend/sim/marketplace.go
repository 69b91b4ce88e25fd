package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"econsim/core"
)

// Errors returned by the simulated marketplace.
var (
	ErrTaskNotFound      = errors.New("sim: task not found")
	ErrTaskClaimed       = errors.New("sim: task already claimed")
	ErrTaskNotClaimed    = errors.New("sim: task not claimed")
	ErrUnknownSubmission = errors.New("sim: unknown submission")
)

// MarketplaceOptions configures the simulated task exchange.
type MarketplaceOptions struct {
	// SuccessRate is the probability that a submitted solution is accepted.
	SuccessRate float64
	// Refill regenerates the default catalog whenever a listing would
	// otherwise come back empty, so long-running agents never starve.
	Refill bool
	// Seed makes the accept/reject draw reproducible.
	Seed int64
}

// Marketplace is a volatile core.Marketplace implementation storing tasks and
// submissions in process-local maps. It is safe for concurrent access by
// multiple agent loops.
type Marketplace struct {
	mu          sync.Mutex
	tasks       map[string]core.Task
	claims      map[string]string // task id -> agent id
	submissions map[string]core.Submission
	successRate float64
	refill      bool
	rng         *rand.Rand
}

// NewMarketplace constructs an empty simulated marketplace.
func NewMarketplace(optFns ...func(o *MarketplaceOptions)) *Marketplace {
	opts := MarketplaceOptions{
		SuccessRate: 1.0,
		Seed:        time.Now().UnixNano(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Marketplace{
		tasks:       make(map[string]core.Task),
		claims:      make(map[string]string),
		submissions: make(map[string]core.Submission),
		successRate: opts.SuccessRate,
		refill:      opts.Refill,
		rng:         rand.New(rand.NewSource(opts.Seed)),
	}
}

// AddTask publishes a task. A zero ID is filled in.
func (m *Marketplace) AddTask(t core.Task) core.Task {
	if t.ID == "" {
		t.ID = core.NewID()
	}
	m.mu.Lock()
	m.tasks[t.ID] = t
	m.mu.Unlock()
	return t
}

// defaultCatalog is the batch published by refills.
func defaultCatalog() []core.Task {
	return []core.Task{
		{ID: core.NewID(), Title: "Label dataset", Reward: 15, EstimatedHours: 1, Tags: []string{"data"}},
		{ID: core.NewID(), Title: "Fix flaky test", Reward: 25, EstimatedHours: 2, Tags: []string{"code"}},
		{ID: core.NewID(), Title: "Write onboarding doc", Reward: 40, EstimatedHours: 3, Tags: []string{"writing"}},
	}
}

// ListTasks implements core.Marketplace returning unclaimed tasks matching
// the filter.
func (m *Marketplace) ListTasks(_ context.Context, filter core.TaskFilter) ([]core.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.listLocked(filter)
	if len(list) == 0 && m.refill {
		for _, t := range defaultCatalog() {
			m.tasks[t.ID] = t
		}
		list = m.listLocked(filter)
	}
	return list, nil
}

func (m *Marketplace) listLocked(filter core.TaskFilter) []core.Task {
	var list []core.Task
	for id, t := range m.tasks {
		if _, claimed := m.claims[id]; claimed {
			continue
		}
		if filter.MaxHours > 0 && t.EstimatedHours > filter.MaxHours {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(t.Tags, filter.Tags) {
			continue
		}
		list = append(list, t)
	}
	return list
}

func hasAnyTag(tags, wanted []string) bool {
	for _, t := range tags {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

// ClaimTask implements core.Marketplace.
func (m *Marketplace) ClaimTask(_ context.Context, taskID, agentID string) (core.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[taskID]; !ok {
		return core.Claim{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if holder, claimed := m.claims[taskID]; claimed {
		return core.Claim{}, fmt.Errorf("%w: %s held by %s", ErrTaskClaimed, taskID, holder)
	}
	m.claims[taskID] = agentID
	return core.Claim{TaskID: taskID, AgentID: agentID, ClaimedAt: time.Now().UTC()}, nil
}

// SubmitSolution implements core.Marketplace. The review resolves
// immediately using the configured success rate; accepted tasks leave the
// catalog.
func (m *Marketplace) SubmitSolution(_ context.Context, taskID, _ string) (core.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[taskID]; !ok {
		return core.Submission{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if _, claimed := m.claims[taskID]; !claimed {
		return core.Submission{}, fmt.Errorf("%w: %s", ErrTaskNotClaimed, taskID)
	}

	status := core.SubmissionRejected
	if m.rng.Float64() < m.successRate {
		status = core.SubmissionAccepted
		delete(m.tasks, taskID)
		delete(m.claims, taskID)
	}

	sub := core.Submission{ID: core.NewID(), TaskID: taskID, Status: status}
	m.submissions[sub.ID] = sub
	return sub, nil
}

// SubmissionStatus implements core.Marketplace.
func (m *Marketplace) SubmissionStatus(_ context.Context, submissionID string) (core.SubmissionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[submissionID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSubmission, submissionID)
	}
	return sub.Status, nil
}

// ReleaseTask implements core.Marketplace returning a claimed task to the
// pool. Releasing an unclaimed task is a no-op.
func (m *Marketplace) ReleaseTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[taskID]; !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	delete(m.claims, taskID)
	return nil
}
