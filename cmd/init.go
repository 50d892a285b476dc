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

type initCmd struct {
	currency string
	date     string
	memo     string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "open the book and set its display currency" }
func (*initCmd) Usage() string {
	return `init -c <currency> [-d <date>] [-m <memo>]

  Opens the book by recording its display currency. Amounts in later
  commands and in reports are parsed and formatted in that currency.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "USD", "Book display currency, 3-letter code (e.g., USD)")
	f.StringVar(&c.date, "d", date.Today().String(), "Command date (YYYY-MM-DD)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the command")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendCommand(loanbook.NewInit(day, c.memo, c.currency))
}
