package loanbook

import (
	"fmt"
	"math"
)

// Assumptions carries the projection assumptions for one tier of loans.
// All rates are annual decimal fractions (0.06 means 6% per year); the
// engine converts them to monthly rates itself.
//
// Credit cost can be given directly as CreditRate, or as a PD/LGD pair
// in which case the effective rate is their product. Supplying both is
// accepted only when they agree.
type Assumptions struct {
	CPR             float64 // annual prepayment rate, 0 <= CPR <= 1
	CreditRate      float64 // annual net credit-cost rate, 0 <= CreditRate < 1
	PD              float64 // annual probability of default, alternative to CreditRate
	LGD             float64 // loss given default, alternative to CreditRate
	ServicingRate   float64 // annual servicing fee on the accrual balance
	ReportingRate   float64 // annual reporting fee on the accrual balance
	OriginationRate float64 // origination fee on the original balance, straight-lined over the term
	RecoveryRate    float64 // fraction of each credit loss recovered, 0 disables recoveries
	RecoveryLag     int     // months between a loss and its recovery
}

// creditRate resolves the effective annual credit-cost rate.
func (a Assumptions) creditRate() float64 {
	if a.CreditRate > 0 {
		return a.CreditRate
	}
	return a.PD * a.LGD
}

// CreditCost returns the annual credit-cost rate the engine will charge,
// derived from PD and LGD when CreditRate is unset.
func (a Assumptions) CreditCost() float64 { return a.creditRate() }

// Validate checks that every rate is inside its meaningful range.
func (a Assumptions) Validate() error {
	if a.CPR < 0 || a.CPR > 1 {
		return fmt.Errorf("cpr must be in [0,1], got %g: %w", a.CPR, ErrInvalidInput)
	}
	if a.CreditRate < 0 || a.CreditRate >= 1 {
		return fmt.Errorf("credit rate must be in [0,1), got %g: %w", a.CreditRate, ErrInvalidInput)
	}
	if a.PD < 0 || a.PD > 1 {
		return fmt.Errorf("pd must be in [0,1], got %g: %w", a.PD, ErrInvalidInput)
	}
	if a.LGD < 0 || a.LGD > 1 {
		return fmt.Errorf("lgd must be in [0,1], got %g: %w", a.LGD, ErrInvalidInput)
	}
	if a.CreditRate > 0 && a.PD*a.LGD > 0 && math.Abs(a.CreditRate-a.PD*a.LGD) > 1e-9 {
		return fmt.Errorf("credit rate %g conflicts with pd*lgd %g: %w", a.CreditRate, a.PD*a.LGD, ErrInvalidInput)
	}
	if a.ServicingRate < 0 {
		return fmt.Errorf("servicing rate must not be negative, got %g: %w", a.ServicingRate, ErrInvalidInput)
	}
	if a.ReportingRate < 0 {
		return fmt.Errorf("reporting rate must not be negative, got %g: %w", a.ReportingRate, ErrInvalidInput)
	}
	if a.OriginationRate < 0 {
		return fmt.Errorf("origination rate must not be negative, got %g: %w", a.OriginationRate, ErrInvalidInput)
	}
	if a.RecoveryRate < 0 || a.RecoveryRate > 1 {
		return fmt.Errorf("recovery rate must be in [0,1], got %g: %w", a.RecoveryRate, ErrInvalidInput)
	}
	if a.RecoveryLag < 0 {
		return fmt.Errorf("recovery lag must not be negative, got %d: %w", a.RecoveryLag, ErrInvalidInput)
	}
	return nil
}

// AssumptionSet maps a tier label to its Assumptions. A non-empty set
// always carries a DefaultTier entry so that loans declared with an
// unknown tier still resolve.
type AssumptionSet map[string]Assumptions

// ForTier returns the assumptions for tier, falling back to the default
// tier when the label has no entry of its own.
func (s AssumptionSet) ForTier(tier string) (Assumptions, error) {
	if a, ok := s[tier]; ok {
		return a, nil
	}
	if a, ok := s[DefaultTier]; ok {
		return a, nil
	}
	return Assumptions{}, fmt.Errorf("no assumptions for tier %q and no %q fallback: %w", tier, DefaultTier, ErrInvalidInput)
}

// Validate checks every entry and requires the mandatory default tier.
func (s AssumptionSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("assumption set is empty: %w", ErrInvalidInput)
	}
	if _, ok := s[DefaultTier]; !ok {
		return fmt.Errorf("assumption set has no %q entry: %w", DefaultTier, ErrInvalidInput)
	}
	for tier, a := range s {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("tier %q: %w", tier, err)
		}
	}
	return nil
}

// Policy holds the engine switches that change how a projection books
// its numbers. Every recognized option is a named field here; there is
// no open-ended option bag.
type Policy struct {
	// InvestorShare is the fraction of principal and net interest
	// passed through to the investor. Must be in (0,1].
	InvestorShare float64
	// InterestOnStartingBalance accrues interest and fees on the
	// period's starting balance instead of the adjusted balance.
	InterestOnStartingBalance bool
	// CreditLossReducesInterest subtracts the period's credit loss
	// from net interest before the zero floor.
	CreditLossReducesInterest bool
	// AllowNegativeAmortization lets a declared payment below accrued
	// interest grow the balance by the shortfall. Off, the shortfall is
	// dropped and scheduled principal floors at zero.
	AllowNegativeAmortization bool
}

// DefaultPolicy returns the policy used when none is configured: full
// pass-through, accrual on the adjusted balance.
func DefaultPolicy() Policy {
	return Policy{InvestorShare: 1}
}

// Validate checks the policy fields.
func (p Policy) Validate() error {
	if p.InvestorShare <= 0 || p.InvestorShare > 1 {
		return fmt.Errorf("investor share must be in (0,1], got %g: %w", p.InvestorShare, ErrInvalidInput)
	}
	return nil
}
