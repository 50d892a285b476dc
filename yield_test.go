package loanbook

import (
	"errors"
	"testing"

	"github.com/etnz/loanbook/date"
)

// irregularSeries returns dated flows off the monthly lattice, with a
// leap day among them, to exercise actual/actual year offsets.
func irregularSeries() CashFlowSeries {
	return CashFlowSeries{
		{On: date.New(2025, 4, 15), Amount: 400},
		{On: date.New(2025, 11, 30), Amount: 380},
		{On: date.New(2026, 6, 1), Amount: 5200},
		{On: date.New(2027, 2, 28), Amount: 300},
		{On: date.New(2028, 2, 29), Amount: 9000},
	}
}

func TestPresentValue(t *testing.T) {
	// 110 in exactly one year at 10% annual is worth 100 today
	series := CashFlowSeries{{On: date.New(2026, 1, 1), Amount: 110}}
	pv, err := PresentValue(series, 0.10, Annual, jan2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(pv, 100, 1e-9) {
		t.Errorf("pv = %.9f, want 100", pv)
	}

	// a zero rate returns the undiscounted sum
	pv, err = PresentValue(irregularSeries(), 0, Monthly, jan2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 400.0 + 380 + 5200 + 300 + 9000; !approx(pv, want, 1e-9) {
		t.Errorf("pv at zero rate = %.9f, want %g", pv, want)
	}

	// discounting strictly shrinks positive flows
	lo, err := PresentValue(irregularSeries(), 0.12, Monthly, jan2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo >= pv {
		t.Errorf("pv at 12%% = %.6f, want below the undiscounted %.6f", lo, pv)
	}
}

func TestPresentValue_Errors(t *testing.T) {
	tests := []struct {
		name   string
		series CashFlowSeries
		rate   float64
		want   error
	}{
		{"empty series", CashFlowSeries{}, 0.05, ErrInvalidInput},
		{"all zero amounts", CashFlowSeries{{On: date.New(2025, 6, 1)}}, 0.05, ErrInvalidInput},
		{"flow before start", CashFlowSeries{{On: date.New(2024, 6, 1), Amount: 10}}, 0.05, ErrDomain},
		{"dates not ascending", CashFlowSeries{
			{On: date.New(2025, 6, 1), Amount: 10},
			{On: date.New(2025, 6, 1), Amount: 10},
		}, 0.05, ErrDomain},
		{"rate below the compounding floor", irregularSeries(), -13, ErrDomain},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := PresentValue(tc.series, tc.rate, Monthly, jan2025); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSolveYield_RoundTrip(t *testing.T) {
	// price the series at a known rate, then recover that rate
	const rate = 0.0735
	for _, comp := range []Compounding{Monthly, Quarterly, SemiAnnual, Annual, Continuous} {
		t.Run(comp.String(), func(t *testing.T) {
			pv, err := PresentValue(irregularSeries(), rate, comp, jan2025)
			if err != nil {
				t.Fatalf("pricing: %v", err)
			}
			got, err := SolveYield(irregularSeries(), pv, jan2025, comp, SolveOptions{})
			if err != nil {
				t.Fatalf("solving: %v", err)
			}
			if !approx(got, rate, 1e-9) {
				t.Errorf("yield = %.12f, want %.12f", got, rate)
			}
		})
	}
}

func TestSolveYield_Simple(t *testing.T) {
	series := CashFlowSeries{{On: date.New(2026, 1, 1), Amount: 110}}
	got, err := SolveYield(series, 100, jan2025, Annual, SolveOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(got, 0.10, 1e-9) {
		t.Errorf("yield = %.12f, want 0.10", got)
	}
}

func TestSolveYield_DeepNegative(t *testing.T) {
	// Newton from the default guess cannot reach a deeply negative rate;
	// the bisection fallback must still land on it.
	const rate = -0.55
	pv, err := PresentValue(irregularSeries(), rate, Monthly, jan2025)
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	got, err := SolveYield(irregularSeries(), pv, jan2025, Monthly, SolveOptions{})
	if err != nil {
		t.Fatalf("solving: %v", err)
	}
	if !approx(got, rate, 1e-8) {
		t.Errorf("yield = %.12f, want %.12f", got, rate)
	}
}

func TestSolveYield_Errors(t *testing.T) {
	series := irregularSeries()

	t.Run("non-positive target", func(t *testing.T) {
		if _, err := SolveYield(series, 0, jan2025, Monthly, SolveOptions{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("got %v, want ErrInvalidInput", err)
		}
		if _, err := SolveYield(series, -50, jan2025, Monthly, SolveOptions{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("got %v, want ErrInvalidInput", err)
		}
	})

	t.Run("empty series", func(t *testing.T) {
		if _, err := SolveYield(nil, 100, jan2025, Monthly, SolveOptions{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("got %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unreachable target", func(t *testing.T) {
		// even at -99% these flows cannot be worth ten million
		if _, err := SolveYield(series, 1e7, jan2025, Monthly, SolveOptions{}); !errors.Is(err, ErrDomain) {
			t.Errorf("got %v, want ErrDomain", err)
		}
	})

	t.Run("flow before start", func(t *testing.T) {
		bad := CashFlowSeries{{On: date.New(2024, 6, 1), Amount: 100}}
		if _, err := SolveYield(bad, 90, jan2025, Monthly, SolveOptions{}); !errors.Is(err, ErrDomain) {
			t.Errorf("got %v, want ErrDomain", err)
		}
	})
}

func TestSolveYield_NoConvergence(t *testing.T) {
	series := irregularSeries()
	pv, err := PresentValue(series, 0.0735, Monthly, jan2025)
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	// a one-iteration budget with an unreachable tolerance exhausts both
	// phases
	_, err = SolveYield(series, pv, jan2025, Monthly, SolveOptions{MaxIter: 1, Tol: 1e-300})
	var nc *NoConvergenceError
	if !errors.As(err, &nc) {
		t.Fatalf("got %v, want *NoConvergenceError", err)
	}
	if nc.Iterations != 3 {
		t.Errorf("iterations = %d, want 3 (one Newton, two bisection)", nc.Iterations)
	}
	if nc.Best <= yieldFloor || nc.Best >= yieldCeil {
		t.Errorf("best estimate %g escaped the bracket", nc.Best)
	}
}

func TestNewSeries(t *testing.T) {
	loan := Loan{ID: "L-001", Balance: 25000, Rate: 0.0599, Term: 60}
	as := Assumptions{CPR: 0.05, CreditRate: 0.01, ServicingRate: 0.0025}
	sched, err := Project(loan, as, Policy{InvestorShare: 0.85}, jan2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gross := NewSeries(sched.Rows, TotalBasis)
	invest := NewSeries(sched.Rows, InvestorBasis)
	if len(gross) != len(sched.Rows) || len(invest) != len(sched.Rows) {
		t.Fatalf("series lengths %d and %d, want %d", len(gross), len(invest), len(sched.Rows))
	}
	for i, r := range sched.Rows {
		if gross[i].On != r.On || gross[i].Amount != r.TotalPayment {
			t.Fatalf("period %d: gross flow %v, want %g on %s", r.Period, gross[i], r.TotalPayment, r.On)
		}
		if invest[i].Amount != r.InvestorTotal {
			t.Fatalf("period %d: investor flow %g, want %g", r.Period, invest[i].Amount, r.InvestorTotal)
		}
	}
}
