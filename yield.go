package loanbook

import (
	"fmt"
	"math"

	"github.com/etnz/loanbook/date"
)

// The bracket every yield search is confined to: -99% to +1000% annual.
// Wide enough for any realistic loan economics, narrow enough that
// bisection terminates fast.
const (
	yieldFloor = -0.99
	yieldCeil  = 10.0
)

// SolveOptions tunes the yield solver. The zero value selects the
// defaults.
type SolveOptions struct {
	MaxIter int     // Newton iteration budget, default 100; bisection gets twice that
	Tol     float64 // convergence tolerance on NPV and on the step, default 1e-9
	Guess   float64 // Newton starting rate, default 10%
}

// SolveYield finds the annual rate at which the series discounts to the
// target present value, i.e. the root of
//
//	NPV(r) = sum DF(r, t_i) * amount_i - pv
//
// with actual/actual year offsets t_i from the start date.
//
// The search runs in two phases. Newton-Raphson starts from the guess
// and uses the analytic derivative; it converges in a handful of
// iterations on well-behaved series. Whenever Newton turns unreliable
// (vanishing or non-finite derivative, a step leaving the bracket, or
// an exhausted budget) the solver falls back to bisection over the full
// bracket, which always terminates. Convergence in either phase means
// |NPV| < tol or a step below tol.
//
// A target no rate in the bracket can reach fails with a domain error.
// If both phases exhaust their budgets the returned error is a
// *NoConvergenceError carrying the iteration count and the best
// estimate reached.
func SolveYield(series CashFlowSeries, pv float64, start date.Date, comp Compounding, opts SolveOptions) (float64, error) {
	if pv <= 0 {
		return 0, fmt.Errorf("target present value must be positive, got %g: %w", pv, ErrInvalidInput)
	}
	if err := series.validate(start); err != nil {
		return 0, err
	}

	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}
	tol := opts.Tol
	if tol <= 0 {
		tol = 1e-9
	}
	guess := opts.Guess
	if guess == 0 {
		guess = 0.10
	}

	// Year offsets are fixed for the whole solve.
	ts := make([]float64, len(series))
	for i, f := range series {
		ts[i] = date.YearsBetween(start, f.On)
	}

	npv := func(r float64) (float64, error) {
		v := -pv
		for i, f := range series {
			df, err := comp.factor(r, ts[i])
			if err != nil {
				return 0, err
			}
			v += f.Amount * df
		}
		return v, nil
	}
	derivative := func(r float64) (float64, error) {
		var d float64
		for i, f := range series {
			dp, err := comp.factorPrime(r, ts[i])
			if err != nil {
				return 0, err
			}
			d += f.Amount * dp
		}
		return d, nil
	}

	best, bestNPV := guess, math.Inf(1)
	iters := 0

	// Phase one: Newton-Raphson from the guess.
	r := guess
	for i := 0; i < maxIter; i++ {
		iters++
		v, err := npv(r)
		if err != nil {
			break // wandered out of the rate domain, bisection recovers
		}
		if math.Abs(v) < math.Abs(bestNPV) {
			best, bestNPV = r, v
		}
		if math.Abs(v) < tol {
			return r, nil
		}
		d, err := derivative(r)
		if err != nil || d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		step := v / d
		next := r - step
		if math.Abs(step) < tol {
			return next, nil
		}
		if next <= yieldFloor || next >= yieldCeil {
			break
		}
		r = next
	}

	// Phase two: bisection over the bracket.
	lo, hi := yieldFloor, yieldCeil
	flo, err := npv(lo)
	if err != nil {
		return 0, err
	}
	fhi, err := npv(hi)
	if err != nil {
		return 0, err
	}
	if flo*fhi > 0 {
		return 0, fmt.Errorf("no rate in [%.0f%%, %.0f%%] discounts the series to %g: %w",
			yieldFloor*100, yieldCeil*100, pv, ErrDomain)
	}
	for i := 0; i < 2*maxIter; i++ {
		iters++
		mid := (lo + hi) / 2
		v, err := npv(mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(v) < math.Abs(bestNPV) {
			best, bestNPV = mid, v
		}
		if math.Abs(v) < tol || (hi-lo)/2 < tol {
			return mid, nil
		}
		if (v < 0) == (flo < 0) {
			lo, flo = mid, v
		} else {
			hi = mid
		}
	}

	return best, &NoConvergenceError{Iterations: iters, Best: best, NPV: bestNPV}
}
