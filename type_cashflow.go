package loanbook

import "github.com/etnz/loanbook/date"

// CashFlow is one projected monthly period, either for a single loan or
// summed across a portfolio. Amounts are plain float64: the engine works
// in floating point and only the rendering layer rounds.
type CashFlow struct {
	Period int       // 1-based month index
	On     date.Date // payment date, effective date + Period-1 months

	StartBalance       float64
	CreditLoss         float64
	Prepayment         float64
	AdjustedBalance    float64 // starting balance net of credit loss and prepayment
	AccrualBalance     float64 // balance interest and fees accrue on
	Interest           float64
	ScheduledPrincipal float64
	Principal          float64 // scheduled principal plus prepayment
	EndBalance         float64
	TotalPayment       float64 // interest + principal + recovery
	ServicingFee       float64
	ReportingFee       float64
	OriginationFee     float64
	NetInterest        float64 // interest net of fees, floored at zero
	Recovery           float64 // lagged recovery on past credit losses
	InvestorPrincipal  float64
	InvestorInterest   float64
	InvestorTotal      float64
}

// add accumulates the monetary columns of o into c. Period and On are
// left alone; the caller owns the lattice.
func (c *CashFlow) add(o CashFlow) {
	c.StartBalance += o.StartBalance
	c.CreditLoss += o.CreditLoss
	c.Prepayment += o.Prepayment
	c.AdjustedBalance += o.AdjustedBalance
	c.AccrualBalance += o.AccrualBalance
	c.Interest += o.Interest
	c.ScheduledPrincipal += o.ScheduledPrincipal
	c.Principal += o.Principal
	c.EndBalance += o.EndBalance
	c.TotalPayment += o.TotalPayment
	c.ServicingFee += o.ServicingFee
	c.ReportingFee += o.ReportingFee
	c.OriginationFee += o.OriginationFee
	c.NetInterest += o.NetInterest
	c.Recovery += o.Recovery
	c.InvestorPrincipal += o.InvestorPrincipal
	c.InvestorInterest += o.InvestorInterest
	c.InvestorTotal += o.InvestorTotal
}

// Schedule is the full projection for one loan.
type Schedule struct {
	LoanID string
	Tier   string
	Rate   float64   // the loan's annual rate, used for own-rate discounting
	AsOf   date.Date // snapshot date the projection starts from
	Rows   []CashFlow
}

// anchor returns the date time offsets measure from: the snapshot date,
// or the first row's date for schedules assembled without one.
func (s Schedule) anchor() date.Date {
	if !s.AsOf.IsZero() || len(s.Rows) == 0 {
		return s.AsOf
	}
	return s.Rows[0].On
}

// Basis selects which principal and payment columns a metric reads.
type Basis int

const (
	// TotalBasis reads the gross columns (Principal, TotalPayment).
	TotalBasis Basis = iota
	// InvestorBasis reads the investor-share columns.
	InvestorBasis
)

// String returns the lowercase name of the basis.
func (b Basis) String() string {
	switch b {
	case TotalBasis:
		return "total"
	case InvestorBasis:
		return "investor"
	default:
		panic("unknown basis")
	}
}

// payment returns the row's payment amount under the basis.
func (b Basis) payment(r CashFlow) float64 {
	if b == InvestorBasis {
		return r.InvestorTotal
	}
	return r.TotalPayment
}

// principal returns the row's principal amount under the basis.
// Recoveries are cash but never principal, on either basis.
func (b Basis) principal(r CashFlow) float64 {
	if b == InvestorBasis {
		return r.InvestorPrincipal
	}
	return r.Principal
}
