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

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	skipLoans bool
	// processed
	portfolio *loanbook.Portfolio
}

func (*reviewCmd) Name() string { return "review" }

func (*reviewCmd) Synopsis() string { return "review the loan book as of its snapshot date" }
func (*reviewCmd) Usage() string {
	return `lcs review [-skip-loans]

  Reviews the book as of its snapshot date: declared balance, projected
  totals, risk metrics, the per-loan table, and the assumption tiers.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.skipLoans, "skip-loans", false, "Omit the per-loan table, for large books")
}

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	review, err := c.generateReview(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	c.render(review)

	return subcommands.ExitSuccess
}

func (c *reviewCmd) init() error {
	p, err := DecodePortfolio()
	if err != nil {
		return fmt.Errorf("decoding portfolio: %w", err)
	}
	c.portfolio = p
	return nil
}

func (c *reviewCmd) generateReview(ctx context.Context) (*loanbook.Review, error) {
	return loanbook.NewReview(ctx, c.portfolio)
}

func (c *reviewCmd) render(review *loanbook.Review) {
	md := renderer.RenderReview(renderer.NewReview(review), renderer.ReviewRenderOptions{SkipLoans: c.skipLoans})
	printMarkdown(md)
}
