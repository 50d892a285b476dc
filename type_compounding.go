package loanbook

import (
	"fmt"
	"math"
	"strings"
)

// Compounding selects how a discount rate compounds.
type Compounding int

const (
	// Monthly compounding, twelve periods per year.
	Monthly Compounding = iota
	// Quarterly compounding, four periods per year.
	Quarterly
	// SemiAnnual compounding, two periods per year.
	SemiAnnual
	// Annual compounding, one period per year.
	Annual
	// Continuous compounding, e^(-rt) discounting.
	Continuous
)

// String returns the lowercase name of the compounding mode.
func (c Compounding) String() string {
	switch c {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case SemiAnnual:
		return "semi-annual"
	case Annual:
		return "annual"
	case Continuous:
		return "continuous"
	default:
		panic("unknown compounding")
	}
}

// periods returns the number of compounding periods per year. Continuous
// has no finite period count and returns 0.
func (c Compounding) periods() int {
	switch c {
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case SemiAnnual:
		return 2
	case Annual:
		return 1
	case Continuous:
		return 0
	default:
		panic("unknown compounding")
	}
}

// factor returns the discount factor for annual rate r at year offset t.
// Discrete modes use (1+r/m)^(-m*t); Continuous uses e^(-r*t). A rate
// that drives 1+r/m to zero or below has no defined factor.
func (c Compounding) factor(r, t float64) (float64, error) {
	if c == Continuous {
		return math.Exp(-r * t), nil
	}
	m := float64(c.periods())
	base := 1 + r/m
	if base <= 0 {
		return 0, fmt.Errorf("rate %g has no %s discount factor: %w", r, c, ErrDomain)
	}
	return math.Pow(base, -m*t), nil
}

// factorPrime returns d/dr of factor(r, t), used by the yield solver's
// Newton phase.
func (c Compounding) factorPrime(r, t float64) (float64, error) {
	if c == Continuous {
		return -t * math.Exp(-r*t), nil
	}
	m := float64(c.periods())
	base := 1 + r/m
	if base <= 0 {
		return 0, fmt.Errorf("rate %g has no %s discount factor: %w", r, c, ErrDomain)
	}
	return -t * math.Pow(base, -m*t-1), nil
}

// ParseCompounding reads a compounding mode from its name. It accepts
// the full name, the first letter, or the period count.
func ParseCompounding(s string) (Compounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "m", "12":
		return Monthly, nil
	case "quarterly", "q", "4":
		return Quarterly, nil
	case "semi-annual", "semiannual", "s", "2":
		return SemiAnnual, nil
	case "annual", "yearly", "a", "1":
		return Annual, nil
	case "continuous", "c":
		return Continuous, nil
	default:
		return Monthly, fmt.Errorf("unknown compounding %q: %w", s, ErrInvalidInput)
	}
}
