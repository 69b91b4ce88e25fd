package engine

import (
	"context"

	"econsim/core"
	"econsim/internal/util"
)

// formCompany transfers the configured fraction of the agent's balance into
// a new company at stage Ideation. Eligibility was validated by the decision
// strategy; it is re-checked here so a fallback path can never form a
// duplicate or underfunded company.
func (e *Executor) formCompany(ctx context.Context, a *Agent, result *core.CycleResult) {
	st := a.State
	if st.HasCompany() || !a.Config.AllowsCompany() || st.Balance < a.Config.CompanyThreshold {
		return
	}

	capital := util.Round2(st.Balance * e.policy.FormationFraction)
	name := a.Name + " Ventures"

	if _, err := a.Backends.Wallet.SendPayment(ctx, "company:"+name, capital, "seed capital"); err != nil {
		capture(result, err)
		return
	}
	st.Balance -= capital

	c := core.NewCompany(a.ID, name, capital)
	a.Company = c
	st.CompanyID = c.ID
	st.CompanyStage = c.Stage

	result.Formation = &core.FormationOutcome{CompanyID: c.ID, Capital: capital}
	e.logger.Info("company formed", "agent_id", a.ID, "company_id", c.ID, "capital", capital)
}

// companyWork spends the allocated company hours advancing the company:
// progress accrues toward the stage's exit criteria and the policy's
// revenue/expense deltas are booked. SeekingInvestment only exits through
// funding, never through work alone.
func (e *Executor) companyWork(ctx context.Context, a *Agent, hours float64, result *core.CycleResult) {
	c := a.Company
	if c == nil || c.Bankrupt() || hours <= 0 {
		return
	}
	st := a.State

	if err := a.Backends.Compute.ConsumeTime(ctx, hours); err != nil {
		capture(result, err)
	}
	st.ComputeHours = util.ClampNonNegative(st.ComputeHours - hours)

	c.Progress += hours * e.policy.ProgressPerHour
	advanced := false
	if c.Progress >= 1 && (c.Stage == core.StageIdeation || c.Stage == core.StageDevelopment) {
		if err := c.Transition(c.NextStage()); err != nil {
			capture(result, err)
		} else {
			advanced = true
		}
	}

	revenue := e.policy.Revenue(c, hours)
	expenses := e.policy.Expenses(c, hours)
	bankrupt := c.ApplyDelta(revenue, expenses)
	st.CompanyStage = c.Stage

	result.CompanyWork = &core.CompanyWorkOutcome{
		CompanyID:  c.ID,
		Revenue:    revenue,
		Expenses:   expenses,
		StageAfter: c.Stage,
		Advanced:   advanced,
	}
	if bankrupt {
		e.logger.Warn("company went bankrupt", "agent_id", a.ID, "company_id", c.ID)
	}
}

// seekInvestment constructs a proposal from current company metrics, submits
// it and applies the investor's verdict to capital and stage. Repeated
// rejections regress the company back to Development.
func (e *Executor) seekInvestment(ctx context.Context, a *Agent, result *core.CycleResult) {
	c := a.Company
	if c == nil || c.Stage != core.StageSeekingInvestment {
		return
	}
	st := a.State

	ask := e.policy.Valuation(c)
	proposal := core.Proposal{
		ID:        core.NewID(),
		CompanyID: c.ID,
		Stage:     c.Stage,
		Capital:   c.Capital,
		Revenue:   c.Revenue,
		Ask:       ask,
	}

	verdict, err := a.Backends.Investor.SubmitProposal(ctx, proposal)
	if err != nil {
		capture(result, err)
		return
	}

	outcome := &core.InvestmentOutcome{
		ProposalID: proposal.ID,
		Verdict:    verdict.Verdict,
		Amount:     verdict.Amount,
	}

	switch verdict.Verdict {
	case core.VerdictApproved:
		c.Capital += verdict.Amount
		if err := c.Transition(core.StageOperational); err != nil {
			capture(result, err)
		}
	case core.VerdictCountered:
		if e.policy.AcceptCounter(ask, verdict.Amount) {
			c.Capital += verdict.Amount
			if err := c.Transition(core.StageOperational); err != nil {
				capture(result, err)
			}
		} else {
			c.Rejections++
			outcome.Amount = 0
		}
	case core.VerdictRejected:
		c.Rejections++
		outcome.Amount = 0
	case core.VerdictMoreInfo:
		// Investor deferred; nothing changes this cycle.
		outcome.Amount = 0
	}

	if c.Stage == core.StageSeekingInvestment && c.Rejections >= e.policy.MaxRejections {
		if err := c.Transition(core.StageDevelopment); err != nil {
			capture(result, err)
		}
	}

	st.CompanyStage = c.Stage
	outcome.StageAfter = c.Stage
	result.Investment = outcome
}
