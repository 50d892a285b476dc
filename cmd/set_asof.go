package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/google/subcommands"
)

type setAsOfCmd struct {
	date string
	memo string
}

func (*setAsOfCmd) Name() string     { return "set-asof" }
func (*setAsOfCmd) Synopsis() string { return "set the portfolio snapshot date" }
func (*setAsOfCmd) Usage() string {
	return `set-asof [-d <date>] [-m <memo>]

  Sets the snapshot date projections anchor to. The command's own date
  is the snapshot; the last set-asof in the book wins. Without one the
  book snapshots at today.
`
}

func (c *setAsOfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Snapshot date (YYYY-MM-DD)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the command")
}

func (c *setAsOfCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendCommand(loanbook.NewSetAsOf(day, c.memo))
}
