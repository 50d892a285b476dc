package loanbook

import (
	"fmt"

	"github.com/etnz/loanbook/date"
)

// Flow is one dated cash amount.
type Flow struct {
	On     date.Date
	Amount float64
}

// CashFlowSeries is an ordered list of dated cash flows, the input of
// the valuation and yield operations. Build one from projected rows
// with NewSeries, or supply flows directly.
type CashFlowSeries []Flow

// NewSeries reads the payment column selected by basis out of projected
// rows. Rows keep their dates; the series stays on the projection's
// monthly lattice.
func NewSeries(rows []CashFlow, basis Basis) CashFlowSeries {
	series := make(CashFlowSeries, 0, len(rows))
	for _, r := range rows {
		series = append(series, Flow{On: r.On, Amount: basis.payment(r)})
	}
	return series
}

// validate checks the series against a valuation start date: dates must
// be strictly ascending, none before the start, and at least one amount
// must be nonzero. Flows exactly on the start date are fine, they just
// discount at factor one.
func (s CashFlowSeries) validate(start date.Date) error {
	if len(s) == 0 {
		return fmt.Errorf("empty cash-flow series: %w", ErrInvalidInput)
	}
	var nonzero bool
	for i, f := range s {
		if f.On.Before(start) {
			return fmt.Errorf("flow %d on %s predates the valuation start %s: %w",
				i+1, f.On, start, ErrDomain)
		}
		if i > 0 && !s[i-1].On.Before(f.On) {
			return fmt.Errorf("flow %d on %s is not after its predecessor on %s: %w",
				i+1, f.On, s[i-1].On, ErrDomain)
		}
		if f.Amount != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		return fmt.Errorf("cash-flow series has no nonzero amount: %w", ErrInvalidInput)
	}
	return nil
}
