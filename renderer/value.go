package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/loanbook"
	md "github.com/nao1215/markdown"
)

// Value is the display form of a present-value computation.
type Value struct {
	AsOf        string
	Rate        loanbook.Percent
	Compounding string
	Basis       string
	Flows       int
	Horizon     string // date of the last projected flow
	PV          loanbook.Money
}

// NewValue discounts the review's projected payments at the given annual
// rate and builds the display struct.
func NewValue(r *loanbook.Review, rate float64, comp loanbook.Compounding, basis loanbook.Basis) (*Value, error) {
	series := loanbook.NewSeries(r.Rows(), basis)
	pv, err := loanbook.PresentValue(series, rate, comp, r.AsOf())
	if err != nil {
		return nil, err
	}
	return &Value{
		AsOf:        r.AsOf().String(),
		Rate:        loanbook.AsPercent(rate),
		Compounding: comp.String(),
		Basis:       basis.String(),
		Flows:       len(series),
		Horizon:     series[len(series)-1].On.String(),
		PV:          loanbook.M(pv, r.Currency()),
	}, nil
}

// ValueMarkdown renders a present-value computation.
func ValueMarkdown(v *Value) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Value as of %s", v.AsOf))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Present Value"), md.Bold(v.PV.String())},
		Rows: [][]string{
			{"Discount Rate", v.Rate.String()},
			{"Compounding", v.Compounding},
			{"Basis", v.Basis},
			{"Flows", fmt.Sprintf("%d until %s", v.Flows, v.Horizon)},
		},
	})

	return doc.String()
}

// Yield is the display form of a solved portfolio yield.
type Yield struct {
	AsOf        string
	Price       loanbook.Money
	Compounding string
	Basis       string
	Rate        loanbook.Percent
}

// NewYield solves for the annual rate that discounts the review's
// projected payments to the given price.
func NewYield(r *loanbook.Review, price float64, comp loanbook.Compounding, basis loanbook.Basis) (*Yield, error) {
	series := loanbook.NewSeries(r.Rows(), basis)
	rate, err := loanbook.SolveYield(series, price, r.AsOf(), comp, loanbook.SolveOptions{})
	if err != nil {
		return nil, err
	}
	return &Yield{
		AsOf:        r.AsOf().String(),
		Price:       loanbook.M(price, r.Currency()),
		Compounding: comp.String(),
		Basis:       basis.String(),
		Rate:        loanbook.AsPercent(rate),
	}, nil
}

// YieldMarkdown renders a solved yield.
func YieldMarkdown(y *Yield) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Yield as of %s", y.AsOf))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Yield"), md.Bold(y.Rate.String())},
		Rows: [][]string{
			{"Price", y.Price.String()},
			{"Compounding", y.Compounding},
			{"Basis", y.Basis},
		},
	})

	return doc.String()
}
