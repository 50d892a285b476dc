package loanbook

import (
	"fmt"
	"math"

	"github.com/etnz/loanbook/date"
)

// DefaultTier is the assumption tier every loan falls back to when its own
// tier is absent from the assumption set.
const DefaultTier = "default"

// Loan is one row of a portfolio snapshot: a single amortizing loan.
//
// Balance, rate, and term describe the loan as of the snapshot. Payment and
// OriginalBalance are optional: a zero Payment derives a level payment from
// the balance, term, and rate; a zero OriginalBalance disables the
// origination fee.
type Loan struct {
	ID        string    // unique key within the portfolio
	Balance   float64   // outstanding balance, must be positive
	Rate      float64   // annual interest rate as a decimal fraction
	Term      int       // remaining term in months
	Tier      string    // assumption tier, "" falls back to DefaultTier
	Payment   float64   // contractual monthly payment, 0 to derive one
	Original  float64   // original balance, 0 when unknown
	Effective date.Date // first payment date, zero value means the snapshot date
}

// tier returns the loan's assumption tier, defaulting to DefaultTier.
func (l Loan) tier() string {
	if l.Tier == "" {
		return DefaultTier
	}
	return l.Tier
}

// Validate checks the loan record invariants.
func (l Loan) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: loan has no id", ErrInvalidInput)
	}
	if l.Balance <= 0 {
		return fmt.Errorf("%w: loan %s balance must be positive, got %v", ErrInvalidInput, l.ID, l.Balance)
	}
	if l.Rate < 0 {
		return fmt.Errorf("%w: loan %s rate must not be negative, got %v", ErrInvalidInput, l.ID, l.Rate)
	}
	if l.Term < 1 {
		return fmt.Errorf("%w: loan %s term must be at least one month, got %d", ErrInvalidInput, l.ID, l.Term)
	}
	if l.Payment < 0 {
		return fmt.Errorf("%w: loan %s payment must not be negative, got %v", ErrInvalidInput, l.ID, l.Payment)
	}
	if l.Original < 0 {
		return fmt.Errorf("%w: loan %s original balance must not be negative, got %v", ErrInvalidInput, l.ID, l.Original)
	}
	return nil
}

// Annuity returns the level monthly payment that amortizes balance over term
// months at the given annual rate. A zero rate degenerates to equal
// installments.
func Annuity(balance, annualRate float64, term int) float64 {
	monthly := annualRate / 12
	if monthly == 0 {
		return balance / float64(term)
	}
	return balance * monthly / (1 - math.Pow(1+monthly, -float64(term)))
}
