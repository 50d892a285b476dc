package renderer

import (
	"fmt"
	"os"
	"time"

	"github.com/etnz/loanbook"
)

// Now is the current time used in reports.
// it has to be a global variable so that tests can override it.
func Now() time.Time {
	if os.Getenv("LOANBOOK_TESTING_NOW") != "" {
		t, err := time.Parse("2006-01-02 15:04:05", os.Getenv("LOANBOOK_TESTING_NOW"))
		if err != nil {
			panic(err)
		}
		return t
	}
	return time.Now()
}

// Review is a struct to represent the book review data for rendering.
type Review struct {
	AsOf     string `json:"asOf"` // generation timestamp
	On       string `json:"on"`   // snapshot date
	Currency string `json:"currency"`

	TotalBalance    loanbook.Money `json:"totalBalance"`
	TotalPrincipal  loanbook.Money `json:"totalPrincipal"`
	TotalInterest   loanbook.Money `json:"totalInterest"`
	TotalCreditLoss loanbook.Money `json:"totalCreditLoss"`
	TotalRecovery   loanbook.Money `json:"totalRecovery"`

	// Investor cut, rendered only when the policy passes through less
	// than the whole book.
	Investor      bool             `json:"investor,omitempty"`
	InvestorShare loanbook.Percent `json:"investorShare"`
	TotalInvestor loanbook.Money   `json:"totalInvestor"`

	Horizon     int            `json:"horizon"` // months until the last flow
	PeakPeriod  int            `json:"peakPeriod"`
	PeakPayment loanbook.Money `json:"peakPayment"`

	PV        loanbook.Money `json:"pv"`
	Macaulay  string         `json:"macaulay"`
	Modified  string         `json:"modified"`
	Convexity string         `json:"convexity"`
	WAL       string         `json:"wal"`

	Loans []LoanReview `json:"loans"`
	Tiers []TierReview `json:"tiers"`
}

// LoanReview holds the data for a single loan line in a report.
type LoanReview struct {
	ID        string           `json:"id"`
	Tier      string           `json:"tier"`
	Balance   loanbook.Money   `json:"balance"`
	Rate      loanbook.Percent `json:"rate"`
	Term      int              `json:"term"`
	Effective string           `json:"effective"`
}

// TierReview summarizes one assumption tier and the loans it governs.
type TierReview struct {
	Tier          string           `json:"tier"`
	Loans         int              `json:"loans"`
	Balance       loanbook.Money   `json:"balance"`
	CPR           loanbook.Percent `json:"cpr"`
	CreditCost    loanbook.Percent `json:"creditCost"`
	ServicingRate loanbook.Percent `json:"servicingRate"`
}

// NewReview creates a renderer.Review from a computed loanbook.Review.
func NewReview(lr *loanbook.Review) *Review {
	p := lr.Portfolio()
	r := &Review{
		AsOf:     Now().Format("2006-01-02 15:04:05"),
		On:       lr.AsOf().String(),
		Currency: lr.Currency(),

		TotalBalance:    lr.TotalBalance(),
		TotalPrincipal:  lr.TotalPrincipal(),
		TotalInterest:   lr.TotalInterest(),
		TotalCreditLoss: lr.TotalCreditLoss(),
		TotalRecovery:   lr.TotalRecovery(),

		Investor:      p.Policy.InvestorShare < 1,
		InvestorShare: lr.InvestorShare(),
		TotalInvestor: lr.TotalInvestor(),

		Horizon:     lr.Horizon(),
		PeakPeriod:  lr.PeakPeriod(),
		PeakPayment: lr.PeakPayment(),

		PV:        loanbook.M(lr.Risk().PV, lr.Currency()),
		Macaulay:  fmt.Sprintf("%.2f y", lr.Risk().Macaulay),
		Modified:  fmt.Sprintf("%.2f", lr.Risk().Modified),
		Convexity: fmt.Sprintf("%.2f", lr.Risk().Convexity),
		WAL:       fmt.Sprintf("%.2f y", lr.WAL()),
	}

	// Populate Loans
	for _, loan := range p.Loans {
		tier := loan.Tier
		if tier == "" {
			tier = loanbook.DefaultTier
		}
		effective := loan.Effective
		if effective.IsZero() {
			effective = p.AsOf
		}
		r.Loans = append(r.Loans, LoanReview{
			ID:        loan.ID,
			Tier:      tier,
			Balance:   loanbook.M(loan.Balance, p.Currency),
			Rate:      loanbook.AsPercent(loan.Rate),
			Term:      loan.Term,
			Effective: effective.String(),
		})
	}

	// Populate Tiers, in first-seen loan order.
	for _, tier := range p.Tiers() {
		var count int
		var balance float64
		for _, loan := range p.Loans {
			t := loan.Tier
			if t == "" {
				t = loanbook.DefaultTier
			}
			if t == tier {
				count++
				balance += loan.Balance
			}
		}
		as, err := p.Assumptions.ForTier(tier)
		if err != nil {
			continue // validated upstream, a missing tier never renders
		}
		r.Tiers = append(r.Tiers, TierReview{
			Tier:          tier,
			Loans:         count,
			Balance:       loanbook.M(balance, p.Currency),
			CPR:           loanbook.AsPercent(as.CPR),
			CreditCost:    loanbook.AsPercent(as.CreditCost()),
			ServicingRate: loanbook.AsPercent(as.ServicingRate),
		})
	}

	return r
}
