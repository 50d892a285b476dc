package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

type riskCmd struct {
	rate     string
	investor bool
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "measure duration, convexity, and weighted average life" }
func (*riskCmd) Usage() string {
	return `lcs risk [-rate <rate>] [-investor]

  Measures the interest-rate sensitivity of the projected cash flows:
  present value, Macaulay and modified duration, convexity, weighted
  average life, and repriced values at parallel rate shocks. Without
  -rate each loan discounts at its own contractual rate.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rate, "rate", "", "Flat annual discount rate in percent; empty discounts each loan at its own rate")
	f.BoolVar(&c.investor, "investor", false, "Measure the investor-share payments instead of the gross ones")
}

func (c *riskCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts := loanbook.DurationOptions{}
	if c.investor {
		opts.Basis = loanbook.InvestorBasis
	}
	if c.rate != "" {
		rate, err := loanbook.ParsePercent(c.rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
			return subcommands.ExitUsageError
		}
		opts.Discount = rate.Rate()
		opts.UseDiscount = true
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	review, err := loanbook.NewReview(ctx, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	r, err := renderer.NewRisk(review, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RiskMarkdown(r))

	return subcommands.ExitSuccess
}
