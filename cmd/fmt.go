package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/loanbook"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the book file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `lcs fmt

  Validates and formats the book file. This command reads all commands,
  validates them, applies available quick-fixes (like defaulting a zero
  date to today), sorts them by date, and writes them back in a
  canonical JSONL format.

Usage Examples:
# Rewrites the default book file in place.
$ lcs fmt

`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := BookPath()
	book, err := loanbook.LoadBook(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load book: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatting book %q...\n", path)

	// Replay through validation so quick-fixes apply and each command is
	// checked against the book state built so far.
	formatted := loanbook.NewBook()
	for _, cmd := range book.Commands() {
		cmd, err := formatted.Validate(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting book %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		formatted.Append(cmd)
	}

	if err := loanbook.SaveBook(path, formatted); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted book %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %s.\n", path)
	return subcommands.ExitSuccess
}
