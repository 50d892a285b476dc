package loanbook

import (
	"context"
	"fmt"

	"github.com/etnz/loanbook/date"
)

// Review is a full analysis of a portfolio snapshot: every loan
// projected, the book-level aggregate, and the risk metrics computed on
// the projected flows. It is built once and read many times by reports.
type Review struct {
	portfolio *Portfolio
	schedules []Schedule
	rows      []CashFlow // aggregate of the schedules, by calendar month
	risk      DurationResult
	wal       float64
}

// NewReview projects the whole portfolio and measures it. The risk
// metrics use each loan's own rate and the gross payment basis, the
// defaults every report shares.
func NewReview(ctx context.Context, p *Portfolio) (*Review, error) {
	schedules, err := ProjectAll(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("projecting portfolio: %w", err)
	}
	r := &Review{
		portfolio: p,
		schedules: schedules,
		rows:      Aggregate(schedules),
	}
	if len(schedules) == 0 {
		return r, nil
	}
	if r.risk, err = Duration(schedules, DurationOptions{WithConvexity: true}); err != nil {
		return nil, fmt.Errorf("measuring portfolio: %w", err)
	}
	if r.wal, err = WAL(schedules, TotalBasis); err != nil {
		return nil, fmt.Errorf("measuring portfolio: %w", err)
	}
	return r, nil
}

// Portfolio returns the snapshot the review was built from.
func (r *Review) Portfolio() *Portfolio { return r.portfolio }

// AsOf returns the snapshot date.
func (r *Review) AsOf() date.Date { return r.portfolio.AsOf }

// Currency returns the display currency of the book.
func (r *Review) Currency() string { return r.portfolio.Currency }

// Schedules returns the per-loan projections, in declaration order.
func (r *Review) Schedules() []Schedule { return r.schedules }

// Schedule returns the projection of one loan, or nil when the id is
// not in the book.
func (r *Review) Schedule(id string) *Schedule {
	for i := range r.schedules {
		if r.schedules[i].LoanID == id {
			return &r.schedules[i]
		}
	}
	return nil
}

// Rows returns the aggregate monthly cash flows of the whole book.
func (r *Review) Rows() []CashFlow { return r.rows }

// Horizon returns the number of months until the last projected flow.
func (r *Review) Horizon() int { return len(r.rows) }

// TotalBalance sums the outstanding balances on the snapshot date.
func (r *Review) TotalBalance() Money { return r.portfolio.TotalBalance() }

// TotalPrincipal sums every projected principal payment, prepayments
// included.
func (r *Review) TotalPrincipal() Money {
	return M(TotalPrincipal(r.rows), r.portfolio.Currency)
}

// TotalInterest sums every projected gross interest payment.
func (r *Review) TotalInterest() Money {
	return M(TotalInterest(r.rows), r.portfolio.Currency)
}

// TotalInvestor sums the investor-share payments over the projection.
func (r *Review) TotalInvestor() Money {
	return M(TotalInvestor(r.rows), r.portfolio.Currency)
}

// TotalCreditLoss sums the projected credit losses.
func (r *Review) TotalCreditLoss() Money {
	var total float64
	for _, row := range r.rows {
		total += row.CreditLoss
	}
	return M(total, r.portfolio.Currency)
}

// TotalRecovery sums the lagged recoveries on projected credit losses.
func (r *Review) TotalRecovery() Money {
	var total float64
	for _, row := range r.rows {
		total += row.Recovery
	}
	return M(total, r.portfolio.Currency)
}

// PeakPeriod returns the period with the largest aggregate payment.
func (r *Review) PeakPeriod() int { return PeakPeriod(r.rows) }

// PeakPayment returns the largest aggregate monthly payment.
func (r *Review) PeakPayment() Money {
	p := PeakPeriod(r.rows)
	if p == 0 {
		return M(0, r.portfolio.Currency)
	}
	return M(r.rows[p-1].TotalPayment, r.portfolio.Currency)
}

// Risk returns the duration metrics of the book, own-rate discounted on
// the gross basis.
func (r *Review) Risk() DurationResult { return r.risk }

// WAL returns the weighted average life of the book, in years.
func (r *Review) WAL() float64 { return r.wal }

// InvestorShare returns the investor participation of the policy.
func (r *Review) InvestorShare() Percent {
	return AsPercent(r.portfolio.Policy.InvestorShare)
}
