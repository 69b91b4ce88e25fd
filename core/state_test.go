package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentState(t *testing.T) {
	st := NewAgentState("agent-1", 100, 24)

	assert.Equal(t, "agent-1", st.AgentID)
	assert.InDelta(t, 100, st.Balance, 1e-9)
	assert.InDelta(t, 24, st.ComputeHours, 1e-9)
	assert.InDelta(t, 1.0, st.Reputation, 1e-9)
	assert.True(t, st.IsActive)
	assert.False(t, st.HasCompany())
	assert.False(t, st.Exhausted())
}

func TestAgentStateRecordOutcomes(t *testing.T) {
	st := NewAgentState("agent-1", 100, 24)

	st.RecordTaskFailure()
	st.RecordTaskFailure()
	assert.Equal(t, 2, st.TasksFailed)
	assert.Equal(t, 2, st.ConsecutiveFailures)

	st.RecordTaskSuccess()
	assert.Equal(t, 1, st.TasksCompleted)
	assert.Equal(t, 0, st.ConsecutiveFailures, "success resets the consecutive failure counter")
	assert.Equal(t, 2, st.TasksFailed, "total failures are not reset")
}

func TestAgentStateValidate(t *testing.T) {
	st := NewAgentState("agent-1", 100, 24)
	require.NoError(t, st.Validate())

	st.Balance = -0.01
	assert.Error(t, st.Validate())

	st.Balance = 0
	st.ComputeHours = -1
	assert.Error(t, st.Validate())
}

func TestAgentStateClone(t *testing.T) {
	st := NewAgentState("agent-1", 100, 24)
	st.Cycle = 3

	clone := st.Clone()
	clone.Balance = 0
	clone.Cycle = 9

	assert.InDelta(t, 100, st.Balance, 1e-9)
	assert.Equal(t, 3, st.Cycle)
}

func TestResourceAllocationValidate(t *testing.T) {
	tests := []struct {
		name      string
		alloc     ResourceAllocation
		available float64
		wantErr   bool
	}{
		{"within budget", ResourceAllocation{TaskHours: 4, CompanyHours: 2}, 8, false},
		{"exact budget", ResourceAllocation{TaskHours: 5, CompanyHours: 3}, 8, false},
		{"over budget", ResourceAllocation{TaskHours: 6, CompanyHours: 3}, 8, true},
		{"negative task hours", ResourceAllocation{TaskHours: -1, CompanyHours: 2}, 8, true},
		{"negative company hours", ResourceAllocation{TaskHours: 1, CompanyHours: -2}, 8, true},
		{"zero allocation", ResourceAllocation{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alloc.Validate(tt.available)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusSnapshot(t *testing.T) {
	st := NewAgentState("agent-1", 42.5, 7)
	st.TasksCompleted = 3
	st.Cycle = 5

	snap := st.Snapshot()
	assert.Equal(t, "agent-1", snap.AgentID)
	assert.InDelta(t, 42.5, snap.Balance, 1e-9)
	assert.InDelta(t, 7, snap.ComputeHours, 1e-9)
	assert.Equal(t, 3, snap.TasksCompleted)
	assert.Equal(t, 5, snap.CurrentCycle)
	assert.True(t, snap.IsActive)
}
