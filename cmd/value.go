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

type valueCmd struct {
	rate        string
	compounding string
	investor    bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "discount the projected cash flows at a given rate" }
func (*valueCmd) Usage() string {
	return `lcs value -rate <rate> [-compounding <mode>] [-investor]

  Computes the present value of the projected cash flows discounted at
  the given annual rate, with actual/actual year fractions from the
  snapshot date.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rate, "rate", "", "Annual discount rate in percent (e.g., 6)")
	f.StringVar(&c.compounding, "compounding", loanbook.Monthly.String(), "Compounding mode (monthly, quarterly, semi-annual, annual, continuous)")
	f.BoolVar(&c.investor, "investor", false, "Discount the investor-share payments instead of the gross ones")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.rate == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	rate, err := loanbook.ParsePercent(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
		return subcommands.ExitUsageError
	}
	comp, err := loanbook.ParseCompounding(c.compounding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing compounding: %v\n", err)
		return subcommands.ExitUsageError
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

	basis := loanbook.TotalBasis
	if c.investor {
		basis = loanbook.InvestorBasis
	}
	v, err := renderer.NewValue(review, rate.Rate(), comp, basis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ValueMarkdown(v))

	return subcommands.ExitSuccess
}
