package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/loanbook"
	"github.com/google/subcommands"
)

type walCmd struct {
	investor bool
}

func (*walCmd) Name() string     { return "wal" }
func (*walCmd) Synopsis() string { return "weighted average life of the projected principal" }
func (*walCmd) Usage() string {
	return `lcs wal [-investor]

  Prints the weighted average life: the undiscounted mean time to
  principal repayment, in years from the snapshot date.
`
}

func (c *walCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.investor, "investor", false, "Weight the investor-share principal instead of the gross one")
}

func (c *walCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	w, err := loanbook.WAL(review.Schedules(), basis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("WAL: %.2f years\n", w)

	return subcommands.ExitSuccess
}
