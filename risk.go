package loanbook

import (
	"fmt"
	"math"

	"github.com/etnz/loanbook/date"
)

// DurationOptions selects the cash flows and discount rate the duration
// metrics read. The zero value discounts each loan's gross payments at
// its own rate.
type DurationOptions struct {
	Discount      float64 // scalar discount rate applied to every loan when UseDiscount is set
	UseDiscount   bool    // discount at Discount instead of each loan's own rate
	Shock         float64 // parallel shift added to the discount rate, for scenario tables
	Basis         Basis   // which payment column to discount
	WithConvexity bool    // also compute convexity
}

// DurationResult carries the discounted value and the schedule-level
// risk metrics, in years. Convexity is zero unless requested.
type DurationResult struct {
	PV        float64
	Macaulay  float64
	Modified  float64
	Convexity float64
}

// EstimatePV returns the second-order estimate of PV after a parallel
// rate shift of dy, using modified duration and convexity:
//
//	PV * (1 - Modified*dy + Convexity*dy^2/2)
//
// Compare it against a recomputed PV (Duration with Shock set) to see
// how much the convexity term buys.
func (r DurationResult) EstimatePV(dy float64) float64 {
	return r.PV * (1 - r.Modified*dy + 0.5*r.Convexity*dy*dy)
}

// Duration measures the discounted value and interest-rate sensitivity
// of projected schedules. Time is measured from the snapshot date: a row
// m whole months after it sits at year offset m/12 and discounts at the
// monthly rate y/12, so a loan effective a year out carries a year more
// duration than one effective today.
//
// Per loan, with v_t the discounted flow at offset t and y the loan's
// discount rate: PV sums the v_t, Macaulay is the v-weighted mean of t,
// Modified is Macaulay/(1+y/12), and convexity is
// sum(v_t*t*(t+1/12)) / (PV*(1+y/12)^2). The portfolio result sums the
// PVs and weights each loan's metrics by its PV.
func Duration(schedules []Schedule, opts DurationOptions) (DurationResult, error) {
	if len(schedules) == 0 {
		return DurationResult{}, fmt.Errorf("no schedules to measure: %w", ErrInvalidInput)
	}

	var res DurationResult
	var wt, wm, wc float64 // PV-weighted metric accumulators
	for _, s := range schedules {
		if len(s.Rows) == 0 {
			continue
		}
		y := s.Rate
		if opts.UseDiscount {
			y = opts.Discount
		}
		y += opts.Shock
		mr := 1 + y/12
		if mr <= 0 {
			return DurationResult{}, fmt.Errorf("rate %g has no monthly discount factor: %w", y, ErrDomain)
		}

		anchor := s.anchor()
		var pv, tsum, csum float64
		for _, r := range s.Rows {
			flow := opts.Basis.payment(r)
			if flow == 0 {
				continue
			}
			t := float64(date.MonthsBetween(anchor, r.On)) / 12
			v := flow * math.Pow(mr, -12*t)
			pv += v
			tsum += v * t
			csum += v * t * (t + 1.0/12)
		}
		if pv <= 0 {
			return DurationResult{}, fmt.Errorf("loan %q discounts to %g: %w", s.LoanID, pv, ErrDomain)
		}

		res.PV += pv
		wt += tsum             // = Macaulay_loan * pv
		wm += tsum / mr        // = Modified_loan * pv
		wc += csum / (mr * mr) // = Convexity_loan * pv
	}

	if res.PV <= 0 {
		return DurationResult{}, fmt.Errorf("no cash flows to measure: %w", ErrInvalidInput)
	}
	res.Macaulay = wt / res.PV
	res.Modified = wm / res.PV
	if opts.WithConvexity {
		res.Convexity = wc / res.PV
	}
	return res, nil
}

// WAL returns the weighted average life in years: the principal-weighted
// mean time of the schedules' principal returns, undiscounted, measured
// from the snapshot date like Duration. Recoveries carry no principal
// and never count.
func WAL(schedules []Schedule, basis Basis) (float64, error) {
	if len(schedules) == 0 {
		return 0, fmt.Errorf("no schedules to measure: %w", ErrInvalidInput)
	}
	var total, weighted float64
	for _, s := range schedules {
		anchor := s.anchor()
		for _, r := range s.Rows {
			p := basis.principal(r)
			t := float64(date.MonthsBetween(anchor, r.On)) / 12
			total += p
			weighted += p * t
		}
	}
	if total <= 0 {
		return 0, fmt.Errorf("no principal to average: %w", ErrDomain)
	}
	return weighted / total, nil
}
