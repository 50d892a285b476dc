package loanbook

import (
	"fmt"

	"github.com/etnz/loanbook/date"
)

// Portfolio is an in-memory snapshot of a loan book: the loans
// outstanding on the AsOf date together with the assumptions and policy
// to project them under. It is the input of every engine operation and
// is never mutated by them.
type Portfolio struct {
	AsOf        date.Date     // snapshot date, anchors loans without an effective date
	Loans       []Loan        // declared loans, unique IDs
	Assumptions AssumptionSet // per-tier projection assumptions
	Policy      Policy        // engine switches
	Currency    string        // display currency for reports
}

// Validate checks the whole snapshot before any computation: loan
// records, assumption ranges, policy, unique IDs, tier resolution, and
// that no loan starts paying before the snapshot.
func (p *Portfolio) Validate() error {
	if p.AsOf.IsZero() {
		return fmt.Errorf("snapshot date is not set: %w", ErrInvalidInput)
	}
	if err := p.Policy.Validate(); err != nil {
		return err
	}
	if err := p.Assumptions.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Loans))
	for _, loan := range p.Loans {
		if err := loan.Validate(); err != nil {
			return err
		}
		if seen[loan.ID] {
			return fmt.Errorf("duplicate loan id %q: %w", loan.ID, ErrInvalidInput)
		}
		seen[loan.ID] = true
		if _, err := p.Assumptions.ForTier(loan.tier()); err != nil {
			return fmt.Errorf("loan %q: %w", loan.ID, err)
		}
		if !loan.Effective.IsZero() && loan.Effective.Before(p.AsOf) {
			return fmt.Errorf("loan %q effective %s is before the snapshot %s: %w",
				loan.ID, loan.Effective, p.AsOf, ErrInvalidInput)
		}
	}
	return nil
}

// effective returns the loan's first payment date, anchoring loans
// without one to the snapshot date.
func (p *Portfolio) effective(loan Loan) date.Date {
	if loan.Effective.IsZero() {
		return p.AsOf
	}
	return loan.Effective
}

// TotalBalance sums the outstanding balances, in the display currency.
func (p *Portfolio) TotalBalance() Money {
	var total float64
	for _, loan := range p.Loans {
		total += loan.Balance
	}
	return M(total, p.Currency)
}

// Tiers returns the distinct tiers the loans resolve to, in first-seen
// order.
func (p *Portfolio) Tiers() []string {
	var tiers []string
	seen := make(map[string]bool)
	for _, loan := range p.Loans {
		t := loan.tier()
		if !seen[t] {
			seen[t] = true
			tiers = append(tiers, t)
		}
	}
	return tiers
}
