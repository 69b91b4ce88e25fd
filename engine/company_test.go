package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econsim/backend/sim"
	"econsim/core"
	"econsim/decision"
)

// withCompany attaches a formed company at the given stage to the agent.
func withCompany(a *Agent, stage core.CompanyStage, capital float64) *core.Company {
	c := core.NewCompany(a.ID, a.Name+" Ventures", capital)
	c.Stage = stage
	a.Company = c
	a.State.CompanyID = c.ID
	a.State.CompanyStage = stage
	return c
}

func TestFormCompanyGuards(t *testing.T) {
	e := NewExecutor(decision.NewRuleBased())

	t.Run("below threshold is a no-op", func(t *testing.T) {
		a := newTestAgent("poor", 100, 24, core.DefaultAgentConfig(), nil, nil)
		var result core.CycleResult
		e.formCompany(context.Background(), a, &result)
		assert.Nil(t, a.Company)
		assert.Nil(t, result.Formation)
	})

	t.Run("survival mode is a no-op", func(t *testing.T) {
		cfg := core.DefaultAgentConfig()
		cfg.Mode = core.ModeSurvival
		a := newTestAgent("worker", 500, 24, cfg, nil, nil)
		var result core.CycleResult
		e.formCompany(context.Background(), a, &result)
		assert.Nil(t, a.Company)
	})

	t.Run("existing company is never replaced", func(t *testing.T) {
		a := newTestAgent("founder", 500, 24, core.DefaultAgentConfig(), nil, nil)
		c := withCompany(a, core.StageDevelopment, 60)
		var result core.CycleResult
		e.formCompany(context.Background(), a, &result)
		assert.Same(t, c, a.Company)
		assert.Nil(t, result.Formation)
	})
}

func TestCompanyWorkProgression(t *testing.T) {
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("builder", 100, 40, core.DefaultAgentConfig(), nil, nil)
	c := withCompany(a, core.StageIdeation, 60)

	// Four hours at 0.25 progress/hour completes the ideation stage.
	var result core.CycleResult
	e.companyWork(context.Background(), a, 4, &result)

	require.NotNil(t, result.CompanyWork)
	assert.True(t, result.CompanyWork.Advanced)
	assert.Equal(t, core.StageDevelopment, c.Stage)
	assert.Equal(t, core.StageDevelopment, a.State.CompanyStage)
	assert.InDelta(t, 36, a.State.ComputeHours, 1e-9)

	// Revenue is booked at the post-transition stage rate.
	assert.InDelta(t, 20, result.CompanyWork.Revenue, 1e-9, "4h at $5/h in development")
	assert.InDelta(t, 9, result.CompanyWork.Expenses, 1e-9, "2*4h + 1 overhead")
	assert.InDelta(t, 71, c.Capital, 1e-9)
}

func TestCompanyWorkNeverExitsSeekingInvestment(t *testing.T) {
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("builder", 100, 40, core.DefaultAgentConfig(), nil, nil)
	c := withCompany(a, core.StageSeekingInvestment, 60)

	var result core.CycleResult
	e.companyWork(context.Background(), a, 20, &result)

	assert.Equal(t, core.StageSeekingInvestment, c.Stage, "only funding exits this stage")
	assert.False(t, result.CompanyWork.Advanced)
}

func TestCompanyWorkBankruptcy(t *testing.T) {
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("builder", 100, 40, core.DefaultAgentConfig(), nil, nil)
	c := withCompany(a, core.StageIdeation, 0.5)

	// Ideation earns nothing, so one hour of burn sinks the company.
	var result core.CycleResult
	e.companyWork(context.Background(), a, 1, &result)

	assert.True(t, c.Bankrupt())
	assert.Equal(t, core.StageBankrupt, a.State.CompanyStage)
}

func TestCompanyWorkOnBankruptCompanyIsNoOp(t *testing.T) {
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("builder", 100, 40, core.DefaultAgentConfig(), nil, nil)
	withCompany(a, core.StageBankrupt, 0)

	var result core.CycleResult
	e.companyWork(context.Background(), a, 4, &result)

	assert.Nil(t, result.CompanyWork)
	assert.InDelta(t, 40, a.State.ComputeHours, 1e-9)
}

func verdictInvestor(verdicts ...core.InvestmentDecision) *sim.Investor {
	i := 0
	return sim.NewInvestor(func(o *sim.InvestorOptions) {
		o.Decide = func(p core.Proposal) core.InvestmentDecision {
			d := verdicts[i]
			if i < len(verdicts)-1 {
				i++
			}
			d.ProposalID = p.ID
			return d
		}
	})
}

func TestSeekInvestmentApproved(t *testing.T) {
	inv := verdictInvestor(core.InvestmentDecision{Verdict: core.VerdictApproved, Amount: 250})
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("founder", 100, 40, core.DefaultAgentConfig(), nil, inv)
	c := withCompany(a, core.StageSeekingInvestment, 100)

	var result core.CycleResult
	e.seekInvestment(context.Background(), a, &result)

	require.NotNil(t, result.Investment)
	assert.Equal(t, core.VerdictApproved, result.Investment.Verdict)
	assert.Equal(t, core.StageOperational, c.Stage)
	assert.InDelta(t, 350, c.Capital, 1e-9)
}

func TestSeekInvestmentAcceptableCounter(t *testing.T) {
	// Ask is capital*2.5 = 250; a $150 counter clears the 50% bar.
	inv := verdictInvestor(core.InvestmentDecision{Verdict: core.VerdictCountered, Amount: 150})
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("founder", 100, 40, core.DefaultAgentConfig(), nil, inv)
	c := withCompany(a, core.StageSeekingInvestment, 100)

	var result core.CycleResult
	e.seekInvestment(context.Background(), a, &result)

	assert.Equal(t, core.StageOperational, c.Stage)
	assert.InDelta(t, 250, c.Capital, 1e-9)
}

func TestSeekInvestmentLowballCounter(t *testing.T) {
	inv := verdictInvestor(core.InvestmentDecision{Verdict: core.VerdictCountered, Amount: 50})
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("founder", 100, 40, core.DefaultAgentConfig(), nil, inv)
	c := withCompany(a, core.StageSeekingInvestment, 100)

	var result core.CycleResult
	e.seekInvestment(context.Background(), a, &result)

	assert.Equal(t, core.StageSeekingInvestment, c.Stage)
	assert.InDelta(t, 100, c.Capital, 1e-9, "a declined counter funds nothing")
	assert.Equal(t, 1, c.Rejections)
	assert.Zero(t, result.Investment.Amount)
}

func TestSeekInvestmentRepeatedRejectionRegresses(t *testing.T) {
	inv := verdictInvestor(core.InvestmentDecision{Verdict: core.VerdictRejected})
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("founder", 100, 40, core.DefaultAgentConfig(), nil, inv)
	c := withCompany(a, core.StageSeekingInvestment, 100)

	for i := 0; i < 2; i++ {
		var result core.CycleResult
		e.seekInvestment(context.Background(), a, &result)
		assert.Equal(t, core.StageSeekingInvestment, c.Stage)
	}

	var result core.CycleResult
	e.seekInvestment(context.Background(), a, &result)
	assert.Equal(t, core.StageDevelopment, c.Stage, "three rejections send the company back to development")
	assert.Equal(t, core.StageDevelopment, a.State.CompanyStage)
	assert.Zero(t, c.Rejections, "counters reset on transition")
}

func TestSeekInvestmentMoreInfo(t *testing.T) {
	inv := verdictInvestor(core.InvestmentDecision{Verdict: core.VerdictMoreInfo})
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("founder", 100, 40, core.DefaultAgentConfig(), nil, inv)
	c := withCompany(a, core.StageSeekingInvestment, 100)

	var result core.CycleResult
	e.seekInvestment(context.Background(), a, &result)

	assert.Equal(t, core.StageSeekingInvestment, c.Stage)
	assert.Zero(t, c.Rejections)
	assert.InDelta(t, 100, c.Capital, 1e-9)
}

func TestSeekInvestmentOutsideSeekingStage(t *testing.T) {
	e := NewExecutor(decision.NewRuleBased())
	a := newTestAgent("founder", 100, 40, core.DefaultAgentConfig(), nil, nil)
	withCompany(a, core.StageDevelopment, 100)

	var result core.CycleResult
	e.seekInvestment(context.Background(), a, &result)
	assert.Nil(t, result.Investment)
}
