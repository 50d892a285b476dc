package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
	"github.com/etnz/loanbook/servicer"
	"github.com/google/subcommands"
)

type importTapeCmd struct {
	mapping string
	date    string
	memo    string
}

func (*importTapeCmd) Name() string     { return "import-tape" }
func (*importTapeCmd) Synopsis() string { return "import a servicer loan tape into the book" }
func (*importTapeCmd) Usage() string {
	return `import-tape -mapping <mapping.json> <tape.json> [-d <date>] [-m <memo>]

  Imports a servicer tape: every record becomes a declare-loan command.
  The mapping file binds the tape's field names to loan fields with
  jsonpath expressions, so each servicer only needs its own mapping.
`
}

func (c *importTapeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapping, "mapping", "", "Mapping file binding tape fields to loan fields (JSON)")
	f.StringVar(&c.date, "d", date.Today().String(), "Command date (YYYY-MM-DD)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note recorded on every imported loan")
}

func (c *importTapeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.mapping == "" || f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	mapping, err := servicer.LoadMapping(c.mapping)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	tapeFile := f.Arg(0)
	tape, err := os.Open(tapeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening tape %q: %v\n", tapeFile, err)
		return subcommands.ExitFailure
	}
	defer tape.Close()

	loans, err := mapping.Read(tape)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading tape %q: %v\n", tapeFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Read %d loans from %q...\n", len(loans), tapeFile)

	return appendCommands(func(book *loanbook.Book) ([]loanbook.Command, error) {
		cmds := make([]loanbook.Command, 0, len(loans))
		for _, loan := range loans {
			cmds = append(cmds, loanbook.NewDeclareLoan(day, c.memo, loan, book.Currency()))
		}
		return cmds, nil
	})
}
