package loanbook

import (
	"fmt"
	"math"

	"github.com/etnz/loanbook/date"
)

// Project computes the monthly cash-flow schedule for a single loan
// under the given assumptions and policy.
//
// The level payment is fixed once, before the loop: the loan's declared
// Payment when present, otherwise the annuity payment on its balance,
// rate and term. Each period then unwinds in a fixed order: credit loss
// on the starting balance, prepayment on the surviving balance, interest
// and fees on the accrual balance, scheduled principal from whatever the
// payment leaves after interest. Scheduled principal never goes negative
// (a payment below accrued interest pays no principal; the shortfall is
// dropped, not capitalized) unless the policy allows negative
// amortization, in which case the shortfall accretes onto the balance
// and the final period books the balloon. Scheduled principal never
// exceeds the adjusted balance, so balances stay non-negative and the
// final period fully amortizes either way.
//
// Rows are dated at the start of each monthly period, the first at the
// loan's effective date (or the snapshot date when the loan has none).
// The schedule stops as soon as the balance reaches zero, at the latest
// at Term; recoveries booked after that are appended as tail rows
// carrying only cash.
func Project(loan Loan, as Assumptions, pol Policy, asOf date.Date) (Schedule, error) {
	if err := loan.Validate(); err != nil {
		return Schedule{}, err
	}
	if err := as.Validate(); err != nil {
		return Schedule{}, err
	}
	if err := pol.Validate(); err != nil {
		return Schedule{}, err
	}
	if asOf.IsZero() {
		return Schedule{}, fmt.Errorf("snapshot date is not set: %w", ErrInvalidInput)
	}
	effective := loan.Effective
	if effective.IsZero() {
		effective = asOf
	}
	if effective.Before(asOf) {
		return Schedule{}, fmt.Errorf("loan %q effective %s is before the snapshot %s: %w",
			loan.ID, effective, asOf, ErrInvalidInput)
	}

	payment := loan.Payment
	if payment == 0 {
		payment = Annuity(loan.Balance, loan.Rate, loan.Term)
	}

	// Annual rates become monthly ones here: prepayment compounds
	// (SMM), credit cost and interest divide.
	smm := 1 - math.Pow(1-as.CPR, 1.0/12)
	mcr := as.creditRate() / 12
	monthly := loan.Rate / 12

	sched := Schedule{LoanID: loan.ID, Tier: loan.tier(), Rate: loan.Rate, AsOf: asOf}
	losses := make([]float64, 0, loan.Term) // per-period credit losses, for lagged recoveries

	balance := loan.Balance
	for k := 1; k <= loan.Term && balance > 0; k++ {
		row := CashFlow{Period: k, On: effective.AddMonths(k - 1)}
		row.StartBalance = balance
		row.CreditLoss = balance * mcr
		row.Prepayment = (balance - row.CreditLoss) * smm
		row.AdjustedBalance = balance - row.CreditLoss - row.Prepayment

		row.AccrualBalance = row.AdjustedBalance
		if pol.InterestOnStartingBalance {
			row.AccrualBalance = row.StartBalance
		}
		row.Interest = row.AccrualBalance * monthly

		principal := payment - row.Interest
		if principal < 0 && !pol.AllowNegativeAmortization {
			principal = 0
		}
		if principal > row.AdjustedBalance || k == loan.Term {
			principal = row.AdjustedBalance
		}
		row.ScheduledPrincipal = principal
		row.Principal = row.ScheduledPrincipal + row.Prepayment
		row.EndBalance = row.AdjustedBalance - row.ScheduledPrincipal

		row.ServicingFee = row.AccrualBalance * as.ServicingRate / 12
		row.ReportingFee = row.AccrualBalance * as.ReportingRate / 12
		if loan.Original > 0 {
			row.OriginationFee = loan.Original * as.OriginationRate / float64(loan.Term)
		}

		net := row.Interest - row.ServicingFee - row.ReportingFee - row.OriginationFee
		if pol.CreditLossReducesInterest {
			net -= row.CreditLoss
		}
		if net < 0 {
			net = 0
		}
		row.NetInterest = net

		losses = append(losses, row.CreditLoss)
		if as.RecoveryRate > 0 {
			if i := k - as.RecoveryLag; i >= 1 {
				row.Recovery = losses[i-1] * as.RecoveryRate
			}
		}

		row.TotalPayment = row.Interest + row.Principal + row.Recovery
		row.InvestorPrincipal = row.Principal * pol.InvestorShare
		row.InvestorInterest = row.NetInterest * pol.InvestorShare
		row.InvestorTotal = row.InvestorPrincipal + row.InvestorInterest

		sched.Rows = append(sched.Rows, row)
		balance = row.EndBalance
	}

	// Losses near the end of the schedule recover after the balance
	// has zeroed; those periods exist only to carry the cash.
	if as.RecoveryRate > 0 && as.RecoveryLag > 0 {
		n := len(sched.Rows)
		for k := n + 1; k <= n+as.RecoveryLag; k++ {
			i := k - as.RecoveryLag
			if i < 1 || i > len(losses) {
				continue
			}
			amount := losses[i-1] * as.RecoveryRate
			if amount == 0 {
				continue
			}
			row := CashFlow{Period: k, On: effective.AddMonths(k - 1)}
			row.Recovery = amount
			row.TotalPayment = amount
			sched.Rows = append(sched.Rows, row)
		}
	}

	return sched, nil
}
