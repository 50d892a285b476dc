package loanbook

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/etnz/loanbook/date"
)

// ProjectAll projects every loan of the portfolio and returns one
// schedule per loan, in the portfolio's loan order.
//
// Loans are independent, so the projection fans out over a bounded pool
// of workers. Results land in an index-addressed slice, which keeps the
// output deterministic whatever the scheduling. Cancelling the context
// stops feeding work; loans already picked up still finish.
func ProjectAll(ctx context.Context, p *Portfolio) ([]Schedule, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	schedules := make([]Schedule, len(p.Loans))
	errs := make([]error, len(p.Loans))

	workers := runtime.NumCPU()
	if workers > len(p.Loans) {
		workers = len(p.Loans)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				loan := p.Loans[i]
				as, err := p.Assumptions.ForTier(loan.tier())
				if err != nil {
					errs[i] = fmt.Errorf("loan %q: %w", loan.ID, err)
					continue
				}
				schedules[i], errs[i] = Project(loan, as, p.Policy, p.AsOf)
			}
		}()
	}

feed:
	for i := range p.Loans {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Aggregate reduces per-loan schedules to one portfolio schedule: rows
// falling in the same calendar month sum column by column, so loans with
// different effective dates land in the months they actually pay. The
// result is in chronological order with Period renumbered 1..n; sums are
// commutative so the input order does not matter. An aggregated row is
// dated at the earliest payment date among its contributors.
func Aggregate(schedules []Schedule) []CashFlow {
	byMonth := make(map[date.Date]*CashFlow)
	for _, s := range schedules {
		for _, r := range s.Rows {
			m := r.On.StartOf(date.Monthly)
			agg, ok := byMonth[m]
			if !ok {
				agg = &CashFlow{On: r.On}
				byMonth[m] = agg
			}
			if r.On.Before(agg.On) {
				agg.On = r.On
			}
			agg.add(r)
		}
	}
	rows := make([]CashFlow, 0, len(byMonth))
	for _, agg := range byMonth {
		rows = append(rows, *agg)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].On.Before(rows[j].On) })
	for i := range rows {
		rows[i].Period = i + 1
	}
	return rows
}

// AggregateBy groups schedules by the given key and aggregates each
// group separately. Grouping by tier is the common case:
//
//	AggregateBy(schedules, func(s Schedule) string { return s.Tier })
func AggregateBy(schedules []Schedule, key func(Schedule) string) map[string][]CashFlow {
	groups := make(map[string][]Schedule)
	for _, s := range schedules {
		k := key(s)
		groups[k] = append(groups[k], s)
	}
	out := make(map[string][]CashFlow, len(groups))
	for k, g := range groups {
		out[k] = Aggregate(g)
	}
	return out
}

// TotalPrincipal sums principal (scheduled and prepaid) over the rows.
func TotalPrincipal(rows []CashFlow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Principal
	}
	return total
}

// TotalInterest sums gross interest over the rows.
func TotalInterest(rows []CashFlow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Interest
	}
	return total
}

// TotalInvestor sums the investor pass-through over the rows.
func TotalInvestor(rows []CashFlow) float64 {
	var total float64
	for _, r := range rows {
		total += r.InvestorTotal
	}
	return total
}

// PeakPeriod returns the period with the largest total payment, or 0
// when there are no rows.
func PeakPeriod(rows []CashFlow) int {
	peak, best := 0, 0.0
	for _, r := range rows {
		if r.TotalPayment > best {
			best = r.TotalPayment
			peak = r.Period
		}
	}
	return peak
}

// Bucket rolls monthly rows up into calendar buckets (quarters or
// years). Flow columns sum within a bucket; balances keep the bucket's
// opening start balance and closing end balance. Period is renumbered
// 1..n and On keeps the bucket's first payment date. Monthly is the
// identity.
func Bucket(rows []CashFlow, p date.Period) []CashFlow {
	if p == date.Monthly {
		return rows
	}
	var out []CashFlow
	var current date.Date
	for _, r := range rows {
		start := r.On.StartOf(p)
		if len(out) == 0 || start != current {
			current = start
			out = append(out, CashFlow{Period: len(out) + 1, On: r.On, StartBalance: r.StartBalance})
		}
		b := &out[len(out)-1]
		b.CreditLoss += r.CreditLoss
		b.Prepayment += r.Prepayment
		b.Interest += r.Interest
		b.ScheduledPrincipal += r.ScheduledPrincipal
		b.Principal += r.Principal
		b.TotalPayment += r.TotalPayment
		b.ServicingFee += r.ServicingFee
		b.ReportingFee += r.ReportingFee
		b.OriginationFee += r.OriginationFee
		b.NetInterest += r.NetInterest
		b.Recovery += r.Recovery
		b.InvestorPrincipal += r.InvestorPrincipal
		b.InvestorInterest += r.InvestorInterest
		b.InvestorTotal += r.InvestorTotal
		b.AdjustedBalance = r.AdjustedBalance
		b.AccrualBalance = r.AccrualBalance
		b.EndBalance = r.EndBalance
	}
	return out
}
