package loanbook

import (
	"math"

	"github.com/etnz/loanbook/date"
)

// USD is a helper for tests to create dollar money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for tests to create money with no currency set
func NO(v float64) Money { return M(v, "") }

// jan2025 is the snapshot date most tests project from.
var jan2025 = date.New(2025, 1, 1)

// referenceAssumptions returns the assumption set used by the engine
// and risk tests: 5% CPR, 1% credit cost, 25bp servicing.
func referenceAssumptions() AssumptionSet {
	return AssumptionSet{
		DefaultTier: {CPR: 0.05, CreditRate: 0.01, ServicingRate: 0.0025},
	}
}

// referencePortfolio returns the three-loan portfolio shared by the
// aggregation, yield and risk tests.
func referencePortfolio() *Portfolio {
	return &Portfolio{
		AsOf: jan2025,
		Loans: []Loan{
			{ID: "L-001", Balance: 25000, Rate: 0.0599, Term: 60},
			{ID: "L-002", Balance: 50000, Rate: 0.0649, Term: 48},
			{ID: "L-003", Balance: 15000, Rate: 0.0549, Term: 36},
		},
		Assumptions: referenceAssumptions(),
		Policy:      DefaultPolicy(),
		Currency:    "USD",
	}
}

// approx reports whether a and b agree within an absolute tolerance.
func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// approxRel reports whether a and b agree within a relative tolerance.
func approxRel(a, b, tol float64) bool {
	if b == 0 {
		return math.Abs(a) <= tol
	}
	return math.Abs(a-b) <= tol*math.Abs(b)
}
