package sim

import (
	"context"
	"fmt"
	"sync"

	"econsim/core"
	"econsim/internal/util"
)

// InvestorOptions configures the simulated investor desk.
type InvestorOptions struct {
	// Decide overrides the default verdict policy entirely.
	Decide func(p core.Proposal) core.InvestmentDecision
	// ApproveRevenue is the cumulative revenue above which a proposal is
	// funded in full.
	ApproveRevenue float64
	// CounterRevenue is the revenue above which a counteroffer is made.
	CounterRevenue float64
	// CounterFraction is the share of the ask offered in a counter.
	CounterFraction float64
}

// Investor is a core.Investor implementation applying a simple
// revenue-gated verdict policy. The thresholds and the counteroffer payout
// are configurable policy knobs, not fixed constants.
type Investor struct {
	mu   sync.Mutex
	opts InvestorOptions
	seen map[string]int // company id -> proposals received
}

// NewInvestor constructs an investor desk with the default policy.
func NewInvestor(optFns ...func(o *InvestorOptions)) *Investor {
	opts := InvestorOptions{
		ApproveRevenue:  100,
		CounterRevenue:  20,
		CounterFraction: 0.6,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Investor{opts: opts, seen: make(map[string]int)}
}

// SubmitProposal implements core.Investor.
func (i *Investor) SubmitProposal(_ context.Context, p core.Proposal) (core.InvestmentDecision, error) {
	i.mu.Lock()
	i.seen[p.CompanyID]++
	i.mu.Unlock()

	if i.opts.Decide != nil {
		return i.opts.Decide(p), nil
	}
	if p.Stage != core.StageSeekingInvestment {
		return core.InvestmentDecision{
			ProposalID: p.ID,
			Verdict:    core.VerdictRejected,
			Reason:     fmt.Sprintf("company is at stage %s, not raising", p.Stage),
		}, nil
	}

	switch {
	case p.Revenue >= i.opts.ApproveRevenue:
		return core.InvestmentDecision{
			ProposalID: p.ID,
			Verdict:    core.VerdictApproved,
			Amount:     util.Round2(p.Ask),
			Reason:     "traction sufficient, funding full ask",
		}, nil
	case p.Revenue >= i.opts.CounterRevenue:
		return core.InvestmentDecision{
			ProposalID: p.ID,
			Verdict:    core.VerdictCountered,
			Amount:     util.Round2(p.Ask * i.opts.CounterFraction),
			Reason:     "early traction, reduced offer",
		}, nil
	default:
		return core.InvestmentDecision{
			ProposalID: p.ID,
			Verdict:    core.VerdictRejected,
			Reason:     "insufficient revenue",
		}, nil
	}
}

// ProposalsSeen returns how many proposals a company has submitted.
func (i *Investor) ProposalsSeen(companyID string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.seen[companyID]
}
