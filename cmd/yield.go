package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

type yieldCmd struct {
	price       float64
	compounding string
	investor    bool
}

func (*yieldCmd) Name() string     { return "yield" }
func (*yieldCmd) Synopsis() string { return "solve the yield implied by a portfolio price" }
func (*yieldCmd) Usage() string {
	return `lcs yield -price <amount> [-compounding <mode>] [-investor]

  Solves for the annual rate at which the projected cash flows discount
  to the given price. The solver runs Newton-Raphson first and falls
  back to bisection; when neither converges the error reports the
  iterations spent and the best estimate reached.
`
}

func (c *yieldCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.price, "price", 0, "Target present value to solve the yield for")
	f.StringVar(&c.compounding, "compounding", loanbook.Monthly.String(), "Compounding mode (monthly, quarterly, semi-annual, annual, continuous)")
	f.BoolVar(&c.investor, "investor", false, "Price the investor-share payments instead of the gross ones")
}

func (c *yieldCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.price <= 0 {
		f.Usage()
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
	y, err := renderer.NewYield(review, c.price, comp, basis)
	if err != nil {
		var noConv *loanbook.NoConvergenceError
		if errors.As(err, &noConv) {
			fmt.Fprintf(os.Stderr, "Error: %v\nBest estimate %s after %d iterations, npv gap %.2f.\n",
				err, loanbook.AsPercent(noConv.Best), noConv.Iterations, noConv.NPV)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.YieldMarkdown(y))

	return subcommands.ExitSuccess
}
