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

type logCmd struct {
	tier string
}

func (*logCmd) Name() string { return "log" }
func (*logCmd) Synopsis() string {
	return "display a chronological log of all commands recorded in the book"
}
func (*logCmd) Usage() string {
	return `lcs log [-tier <tier>]

  Lists every command in the book in chronological order, with a short
  description of what each one did, followed by the declared balance
  after each declaration day.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tier, "tier", "", "Only show loan declarations for this assumption tier")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var filters []func(loanbook.Command) bool
	if c.tier != "" {
		filters = append(filters, loanbook.ByTier(c.tier))
	}

	printMarkdown(renderer.LogMarkdown(book, filters...))

	return subcommands.ExitSuccess
}
