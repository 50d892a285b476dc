package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/etnz/loanbook/renderer"
	"github.com/google/subcommands"
)

type projectCmd struct {
	period   string
	by       string
	loan     string
	investor bool
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project the portfolio cash flows month by month" }
func (*projectCmd) Usage() string {
	return `lcs project [-p <period>] [-by tier | -loan <id>] [-investor]

  Projects every loan and renders the aggregate schedule: balances,
  interest, principal, and credit columns per period. Rows can be
  bucketed into quarters or years, grouped by tier, or narrowed to a
  single loan.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", date.Monthly.String(), "Bucketing period for the rows (monthly, quarterly, yearly)")
	f.StringVar(&c.by, "by", "", "Group the schedule by the given key; only 'tier' is supported")
	f.StringVar(&c.loan, "loan", "", "Project a single loan instead of the whole book")
	f.BoolVar(&c.investor, "investor", false, "Render the investor-share columns instead of the gross ones")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.by != "" && c.by != "tier" {
		fmt.Fprintf(os.Stderr, "Error: -by only supports 'tier', got %q.\n", c.by)
		return subcommands.ExitUsageError
	}
	if c.by != "" && c.loan != "" {
		fmt.Fprintln(os.Stderr, "Error: -by and -loan flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
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
	md, err := renderer.ScheduleMarkdown(review, renderer.ScheduleOptions{
		Period: period,
		Basis:  basis,
		LoanID: c.loan,
		ByTier: c.by == "tier",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(md)

	return subcommands.ExitSuccess
}
