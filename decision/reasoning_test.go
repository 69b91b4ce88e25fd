package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econsim/core"
	"econsim/model"
)

// staticModel always returns the same text (or error) regardless of prompt.
type staticModel struct {
	text string
	err  error
}

func (s *staticModel) Generate(_ context.Context, _ model.Request) (<-chan model.Response, <-chan error) {
	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	if s.err != nil {
		errCh <- s.err
	} else {
		respCh <- model.Response{Text: s.text, FinishReason: "stop"}
	}
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (s *staticModel) Info() model.Info { return model.Info{Name: "static", Provider: "mock"} }

func TestReasoningDecide(t *testing.T) {
	state := core.AgentState{AgentID: "agent-1", Balance: 50, ComputeHours: 20}
	cfg := core.DefaultAgentConfig()

	t.Run("clean JSON response", func(t *testing.T) {
		r := NewReasoning(&staticModel{text: `{"action":"work_tasks","justification":"plenty of runway, keep earning","confidence":0.85,"task_hours":6,"company_hours":0}`})
		d, err := r.Decide(context.Background(), state, cfg)
		require.NoError(t, err)
		assert.Equal(t, core.DecisionWorkTasks, d.Kind)
		assert.InDelta(t, 0.85, d.Confidence, 1e-9)
		assert.Equal(t, "plenty of runway, keep earning", d.Justification)
	})

	t.Run("fenced JSON response", func(t *testing.T) {
		r := NewReasoning(&staticModel{text: "```json\n" +
			`{"action":"idle","justification":"nothing worth doing this cycle","confidence":0.6,"task_hours":0,"company_hours":0}` +
			"\n```"})
		d, err := r.Decide(context.Background(), state, cfg)
		require.NoError(t, err)
		assert.Equal(t, core.DecisionIdle, d.Kind)
	})

	t.Run("malformed JSON is repaired", func(t *testing.T) {
		r := NewReasoning(&staticModel{text: `{"action": "work_tasks", "justification": "keep earning steadily", "confidence": 0.9, "task_hours": 4, "company_hours": 0,}`})
		d, err := r.Decide(context.Background(), state, cfg)
		require.NoError(t, err)
		assert.Equal(t, core.DecisionWorkTasks, d.Kind)
	})

	t.Run("confidence is clamped", func(t *testing.T) {
		r := NewReasoning(&staticModel{text: `{"action":"work_tasks","justification":"absolutely certain about this","confidence":3.2,"task_hours":1,"company_hours":0}`})
		d, err := r.Decide(context.Background(), state, cfg)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, d.Confidence, 1e-9)
	})

	t.Run("model error surfaces", func(t *testing.T) {
		r := NewReasoning(&staticModel{err: assert.AnError})
		_, err := r.Decide(context.Background(), state, cfg)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("non-JSON response errors", func(t *testing.T) {
		r := NewReasoning(&staticModel{text: "I think the agent should probably work on tasks."})
		_, err := r.Decide(context.Background(), state, cfg)
		assert.Error(t, err)
	})
}

func TestReasoningValidation(t *testing.T) {
	cfg := core.DefaultAgentConfig()

	tests := []struct {
		name    string
		state   core.AgentState
		text    string
		wantErr string
	}{
		{
			name:    "unknown action",
			state:   core.AgentState{Balance: 50, ComputeHours: 20},
			text:    `{"action":"buy_lottery_tickets","justification":"feeling lucky today honestly","confidence":0.5,"task_hours":1,"company_hours":0}`,
			wantErr: "unknown action",
		},
		{
			name:    "overallocation",
			state:   core.AgentState{Balance: 50, ComputeHours: 10},
			text:    `{"action":"work_tasks","justification":"work as much as possible","confidence":0.9,"task_hours":8,"company_hours":4}`,
			wantErr: "exceeds remaining",
		},
		{
			name:    "negative hours",
			state:   core.AgentState{Balance: 50, ComputeHours: 10},
			text:    `{"action":"work_tasks","justification":"work as much as possible","confidence":0.9,"task_hours":-2,"company_hours":0}`,
			wantErr: "negative allocation",
		},
		{
			name:    "survival requires task work",
			state:   core.AgentState{Balance: 50, ComputeHours: 4, CompanyID: "c1", CompanyStage: core.StageDevelopment},
			text:    `{"action":"company_work","justification":"the company needs attention now","confidence":0.9,"task_hours":0,"company_hours":2}`,
			wantErr: "survival at risk",
		},
		{
			name:    "survival requires reserved task hours",
			state:   core.AgentState{Balance: 50, ComputeHours: 4},
			text:    `{"action":"work_tasks","justification":"working but reserving nothing","confidence":0.9,"task_hours":0,"company_hours":0}`,
			wantErr: "task hours reserved",
		},
		{
			name:    "formation without eligibility",
			state:   core.AgentState{Balance: 50, ComputeHours: 20},
			text:    `{"action":"form_company","justification":"time to build something big","confidence":0.9,"task_hours":2,"company_hours":4}`,
			wantErr: "not currently eligible",
		},
		{
			name:    "trivial justification",
			state:   core.AgentState{Balance: 50, ComputeHours: 20},
			text:    `{"action":"work_tasks","justification":"ok","confidence":0.9,"task_hours":2,"company_hours":0}`,
			wantErr: "justification too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReasoning(&staticModel{text: tt.text})
			_, err := r.Decide(context.Background(), tt.state, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReasoningAllocate(t *testing.T) {
	state := core.AgentState{AgentID: "agent-1", Balance: 50, ComputeHours: 20}
	cfg := core.DefaultAgentConfig()

	r := NewReasoning(&staticModel{text: `{"action":"work_tasks","justification":"split between both activities","confidence":0.8,"task_hours":6,"company_hours":2}`})
	alloc, err := r.Allocate(context.Background(), state, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 6, alloc.TaskHours, 1e-9)
	assert.InDelta(t, 2, alloc.CompanyHours, 1e-9)
	assert.NoError(t, alloc.Validate(state.ComputeHours))
}
