package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econsim/core"
)

func TestSelectTask(t *testing.T) {
	catalog := []core.Task{
		{ID: "t1", Title: "Label dataset", Reward: 15, EstimatedHours: 1, Tags: []string{"data"}},
		{ID: "t2", Title: "Fix flaky test", Reward: 25, EstimatedHours: 2, Tags: []string{"code"}},
		{ID: "t3", Title: "Write onboarding doc", Reward: 40, EstimatedHours: 3, Tags: []string{"writing"}},
	}

	tests := []struct {
		name     string
		strategy core.TaskStrategy
		skills   []string
		budget   float64
		wantID   string
		wantOK   bool
	}{
		{"first available", core.TaskStrategyFirstAvailable, nil, 8, "t1", true},
		{"highest reward", core.TaskStrategyHighestReward, nil, 8, "t3", true},
		{"best ratio", core.TaskStrategyBestRatio, nil, 8, "t1", true},
		{"balanced weighs reward against time", core.TaskStrategyBalanced, nil, 8, "t3", true},
		{"skill match", core.TaskStrategySkillMatch, []string{"code"}, 8, "t2", true},
		{"skill match without overlap falls back to ratio", core.TaskStrategySkillMatch, []string{"design"}, 8, "t1", true},
		{"budget filters long tasks", core.TaskStrategyHighestReward, nil, 2, "t2", true},
		{"budget excludes everything", core.TaskStrategyBestRatio, nil, 0.5, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.DefaultAgentConfig()
			cfg.TaskStrategy = tt.strategy
			cfg.Skills = tt.skills

			task, ok := selectTask(catalog, cfg, tt.budget)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, task.ID)
			}
		})
	}
}

func TestSelectTaskEmptyList(t *testing.T) {
	_, ok := selectTask(nil, core.DefaultAgentConfig(), 8)
	assert.False(t, ok)
}

func TestPickBestPrefersEarlierOnTies(t *testing.T) {
	tasks := []core.Task{
		{ID: "a", Reward: 10, EstimatedHours: 1},
		{ID: "b", Reward: 10, EstimatedHours: 1},
	}
	best := pickBest(tasks, func(t core.Task) float64 { return t.Reward })
	assert.Equal(t, "a", best.ID)
}

func TestTagOverlap(t *testing.T) {
	assert.Equal(t, 0, tagOverlap(nil, []string{"code"}))
	assert.Equal(t, 1, tagOverlap([]string{"code", "infra"}, []string{"code"}))
	assert.Equal(t, 2, tagOverlap([]string{"code", "infra"}, []string{"code", "infra", "data"}))
}
