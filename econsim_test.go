package econsim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econsim/core"
	"econsim/engine"
)

func TestSimEndToEnd(t *testing.T) {
	s := New()

	cfg := core.DefaultAgentConfig()
	cfg.Mode = core.ModeSurvival
	cfg.MaxCycles = 5

	h, err := s.SpawnAgent("worker", func(o *engine.AgentOptions) {
		o.InitialBalance = 100
		o.InitialComputeHours = 24
		o.Config = cfg
	})
	require.NoError(t, err)

	var cycles int
	for ev := range s.Events() {
		if ev.Kind == core.EventCycleCompleted {
			cycles++
		}
		if ev.IsTerminal() {
			assert.Equal(t, core.StopReasonMaxCycles, ev.Reason)
			break
		}
	}
	assert.Equal(t, 5, cycles)

	status, err := s.Status(h)
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.Greater(t, status.Balance, 100.0, "the default refilling marketplace pays for completed work")
	assert.Equal(t, 5, status.TasksCompleted)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
}

func TestSimAgentsAreIsolated(t *testing.T) {
	s := New()

	a := s.NewAgent("a")
	b := s.NewAgent("b")
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotSame(t, a.Backends.Wallet, b.Backends.Wallet, "wallets are private per agent")
	assert.NotSame(t, a.Backends.Compute, b.Backends.Compute, "compute meters are private per agent")
	assert.Same(t, a.Backends.Marketplace, b.Backends.Marketplace, "the marketplace is shared")
	assert.Same(t, a.Backends.Investor, b.Backends.Investor, "the investor desk is shared")

	require.NoError(t, s.Close(context.Background()))
}
