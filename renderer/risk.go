package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/loanbook"
	md "github.com/nao1215/markdown"
)

// Risk is the display form of the portfolio risk metrics.
type Risk struct {
	AsOf      string
	Basis     string
	Discount  string
	PV        loanbook.Money
	Macaulay  string
	Modified  string
	Convexity string
	WAL       string
	Shocks    []Shock
}

// Shock compares the exact repricing of the book under a parallel rate
// shift against the first and second order estimates.
type Shock struct {
	Label         string
	PV            loanbook.Money
	DurationOnly  loanbook.Money
	WithConvexity loanbook.Money
}

// shockGrid is the parallel shifts of the scenario table, in basis points.
var shockGrid = []int{-300, -100, 100, 300}

// NewRisk measures the review's schedules under the given options and
// builds the display struct, including the shock scenario table.
func NewRisk(r *loanbook.Review, opts loanbook.DurationOptions) (*Risk, error) {
	opts.Shock = 0
	opts.WithConvexity = true
	base, err := loanbook.Duration(r.Schedules(), opts)
	if err != nil {
		return nil, err
	}
	wal, err := loanbook.WAL(r.Schedules(), opts.Basis)
	if err != nil {
		return nil, err
	}

	cur := r.Currency()
	risk := &Risk{
		AsOf:      r.AsOf().String(),
		Basis:     opts.Basis.String(),
		Discount:  "each loan's own rate",
		PV:        loanbook.M(base.PV, cur),
		Macaulay:  fmt.Sprintf("%.4f y", base.Macaulay),
		Modified:  fmt.Sprintf("%.4f", base.Modified),
		Convexity: fmt.Sprintf("%.4f", base.Convexity),
		WAL:       fmt.Sprintf("%.4f y", wal),
	}
	if opts.UseDiscount {
		risk.Discount = loanbook.AsPercent(opts.Discount).String()
	}
	if risk.PV.IsZero() {
		return risk, nil
	}

	for _, bp := range shockGrid {
		dy := float64(bp) / 10000
		shocked := opts
		shocked.Shock = dy
		exact, err := loanbook.Duration(r.Schedules(), shocked)
		if err != nil {
			return nil, err
		}
		risk.Shocks = append(risk.Shocks, Shock{
			Label:         fmt.Sprintf("%+d bp", bp),
			PV:            loanbook.M(exact.PV, cur),
			DurationOnly:  loanbook.M(base.PV*(1-base.Modified*dy), cur),
			WithConvexity: loanbook.M(base.EstimatePV(dy), cur),
		})
	}
	return risk, nil
}

// RiskMarkdown renders the risk metrics and the shock scenario table.
func RiskMarkdown(r *Risk) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Risk Metrics as of %s", r.AsOf))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Present Value", r.PV.String()},
			{"Macaulay Duration", r.Macaulay},
			{"Modified Duration", r.Modified},
			{"Convexity", r.Convexity},
			{"Weighted Average Life", r.WAL},
			{"Basis", r.Basis},
			{"Discount", r.Discount},
		},
	})

	if len(r.Shocks) > 0 {
		doc.H2("Rate Shocks")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight,
			},
			Header: []string{"Shift", "Repriced", "Duration Estimate", "With Convexity"},
		}
		for _, s := range r.Shocks {
			table.Rows = append(table.Rows, []string{
				s.Label, s.PV.String(), s.DurationOnly.String(), s.WithConvexity.String(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
