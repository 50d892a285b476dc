package renderer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	md "github.com/nao1215/markdown"
)

// ScheduleOptions selects what ScheduleMarkdown renders.
type ScheduleOptions struct {
	Period date.Period    // calendar bucketing of the rows, Monthly by default
	Basis  loanbook.Basis // gross or investor columns
	LoanID string         // render a single loan instead of the whole book
	ByTier bool           // one section per tier
}

// ScheduleMarkdown renders projected cash flows as a markdown report,
// one row per period.
func ScheduleMarkdown(r *loanbook.Review, opts ScheduleOptions) (string, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	cur := r.Currency()

	switch {
	case opts.LoanID != "":
		s := r.Schedule(opts.LoanID)
		if s == nil {
			return "", fmt.Errorf("loan %q is not in the book", opts.LoanID)
		}
		doc.H1(fmt.Sprintf("Schedule for %s as of %s", s.LoanID, r.AsOf()))
		scheduleTable(doc, loanbook.Bucket(s.Rows, opts.Period), opts, cur)
	case opts.ByTier:
		doc.H1(fmt.Sprintf("Projection by Tier as of %s", r.AsOf()))
		groups := loanbook.AggregateBy(r.Schedules(), func(s loanbook.Schedule) string { return s.Tier })
		tiers := make([]string, 0, len(groups))
		for tier := range groups {
			tiers = append(tiers, tier)
		}
		sort.Strings(tiers)
		for _, tier := range tiers {
			doc.H2(tier)
			scheduleTable(doc, loanbook.Bucket(groups[tier], opts.Period), opts, cur)
		}
	default:
		doc.H1(fmt.Sprintf("Projection as of %s", r.AsOf()))
		scheduleTable(doc, loanbook.Bucket(r.Rows(), opts.Period), opts, cur)
	}

	return doc.String(), nil
}

// scheduleTable writes one period-by-period table for the given rows.
func scheduleTable(doc *md.Markdown, rows []loanbook.CashFlow, opts ScheduleOptions, cur string) {
	m := func(v float64) string { return loanbook.M(v, cur).String() }

	var interest, scheduled, prepaid, losses, recovered, payment float64
	for _, r := range rows {
		interest += r.Interest
		scheduled += r.ScheduledPrincipal
		prepaid += r.Prepayment
		losses += r.CreditLoss
		recovered += r.Recovery
		payment += r.TotalPayment
	}

	if opts.Basis == loanbook.InvestorBasis {
		var ii, ip, it float64
		for _, r := range rows {
			ii += r.InvestorInterest
			ip += r.InvestorPrincipal
			it += r.InvestorTotal
		}
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignRight, md.AlignLeft, md.AlignRight,
				md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
			},
			Header: []string{"Period", "Date", "Start Balance", "Interest", "Principal", "Payment", "End Balance"},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", r.Period),
				bucketLabel(r.On, opts.Period),
				m(r.StartBalance),
				m(r.InvestorInterest),
				m(r.InvestorPrincipal),
				m(r.InvestorTotal),
				m(r.EndBalance),
			})
		}
		table.Rows = append(table.Rows, []string{
			md.Bold("Total"), "", "",
			md.Bold(m(ii)), md.Bold(m(ip)), md.Bold(m(it)), "",
		})
		doc.Table(table)
		return
	}

	// A book with no credit assumptions gets a narrower table.
	withLosses := !AllAreZero(loanbook.M(losses, cur), loanbook.M(recovered, cur))

	header := []string{"Period", "Date", "Start Balance", "Interest", "Scheduled", "Prepaid"}
	align := []md.TableAlignment{
		md.AlignRight, md.AlignLeft, md.AlignRight,
		md.AlignRight, md.AlignRight, md.AlignRight,
	}
	if withLosses {
		header = append(header, "Credit Loss", "Recovery")
		align = append(align, md.AlignRight, md.AlignRight)
	}
	header = append(header, "Payment", "End Balance")
	align = append(align, md.AlignRight, md.AlignRight)

	table := md.TableSet{Alignment: align, Header: header}
	for _, r := range rows {
		cells := []string{
			fmt.Sprintf("%d", r.Period),
			bucketLabel(r.On, opts.Period),
			m(r.StartBalance),
			m(r.Interest),
			m(r.ScheduledPrincipal),
			m(r.Prepayment),
		}
		if withLosses {
			cells = append(cells, m(r.CreditLoss), m(r.Recovery))
		}
		cells = append(cells, m(r.TotalPayment), m(r.EndBalance))
		table.Rows = append(table.Rows, cells)
	}
	totals := []string{md.Bold("Total"), "", "", md.Bold(m(interest)), md.Bold(m(scheduled)), md.Bold(m(prepaid))}
	if withLosses {
		totals = append(totals, md.Bold(m(losses)), md.Bold(m(recovered)))
	}
	totals = append(totals, md.Bold(m(payment)), "")
	table.Rows = append(table.Rows, totals)
	doc.Table(table)
}

// bucketLabel names a row's bucket: the payment date for monthly rows,
// the calendar bucket identifier otherwise (2025-Q3, 2026).
func bucketLabel(on date.Date, p date.Period) string {
	if p == date.Monthly {
		return on.String()
	}
	return date.NewRange(on, p).Identifier()
}
