// Package cmd implements the CLI application to manage a loan book.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/loanbook"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
)

// Commands lists every subcommand with the help group it belongs to.
// A main package iterates it to register the commands, and the shell
// completion derives its command tree from it.
var Commands = []struct {
	Cmd   subcommands.Command
	Group string
}{
	{&initCmd{}, "book"},
	{&addLoanCmd{}, "book"},
	{&setAssumptionsCmd{}, "book"},
	{&setPolicyCmd{}, "book"},
	{&setAsOfCmd{}, "book"},
	{&importTapeCmd{}, "book"},
	{&fmtCmd{}, "book"},

	{&logCmd{}, "reports"},
	{&reviewCmd{}, "reports"},
	{&projectCmd{}, "reports"},
	{&valueCmd{}, "reports"},
	{&yieldCmd{}, "reports"},
	{&riskCmd{}, "reports"},
	{&walCmd{}, "reports"},
	{&publishCmd{}, "reports"},

	{&topicCmd{}, "help"},
	{&assistCmd{}, "help"},
}

// Register registers every subcommand on the commander.
func Register(c *subcommands.Commander) {
	for _, entry := range Commands {
		c.Register(entry.Cmd, entry.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("book", "", "Path to the book file (JSONL format). Defaults to $"+loanbook.BookEnv+" or "+loanbook.DefaultBookFile)
var assumptionsFile = flag.String("assumptions", "", "Optional YAML file overriding the book's assumption tiers")

// BookPath returns the book file the application works on.
func BookPath() string { return loanbook.ResolveBookPath(*bookFile) }

// DecodeBook loads the book from the application book file. A missing
// file yields an empty book.
func DecodeBook() (*loanbook.Book, error) {
	return loanbook.LoadBook(BookPath())
}

// DecodePortfolio materializes the portfolio snapshot from the book,
// overlaying the optional assumptions file on the book's own tiers.
func DecodePortfolio() (*loanbook.Portfolio, error) {
	book, err := DecodeBook()
	if err != nil {
		return nil, err
	}
	p, err := book.Portfolio()
	if err != nil {
		return nil, err
	}
	if *assumptionsFile != "" {
		override, err := loanbook.LoadAssumptions(*assumptionsFile)
		if err != nil {
			return nil, err
		}
		p.Assumptions = p.Assumptions.Merge(override)
		if err := p.Assumptions.Validate(); err != nil {
			return nil, fmt.Errorf("invalid assumptions in %q: %w", *assumptionsFile, err)
		}
	}
	return p, nil
}

// appendCommands validates and appends commands to the application book
// file. The builder receives the loaded book so commands can depend on
// its state (typically the currency).
func appendCommands(build func(book *loanbook.Book) ([]loanbook.Command, error)) subcommands.ExitStatus {
	path := BookPath()
	book, err := loanbook.LoadBook(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	cmds, err := build(book)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book file %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	for _, cmd := range cmds {
		cmd, err := book.Validate(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := loanbook.EncodeCommand(f, cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to book file %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		// Later commands in the same batch validate against the updated book.
		book.Append(cmd)
		fmt.Printf("Successfully appended %s to %s\n", cmd.What(), path)
	}
	return subcommands.ExitSuccess
}

// appendCommand appends a single command to the application book file.
func appendCommand(cmd loanbook.Command) subcommands.ExitStatus {
	return appendCommands(func(*loanbook.Book) ([]loanbook.Command, error) {
		return []loanbook.Command{cmd}, nil
	})
}

// printMarkdown renders markdown to stdout. On a terminal it renders
// through glamour; piped output stays the raw markdown so scripts and
// tests see stable text.
func printMarkdown(md string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
