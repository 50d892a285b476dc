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

type addLoanCmd struct {
	id        string
	balance   float64
	rate      string
	term      int
	tier      string
	payment   float64
	original  float64
	effective string
	date      string
	memo      string
}

func (*addLoanCmd) Name() string     { return "add-loan" }
func (*addLoanCmd) Synopsis() string { return "declare an amortizing loan in the book" }
func (*addLoanCmd) Usage() string {
	return `add-loan -id <id> -balance <amount> -rate <rate> -term <months> [-tier <tier>] [-payment <amount>] [-original <amount>] [-effective <date>] [-d <date>] [-m <memo>]

  Declares an amortizing loan. Declaring the same id again replaces the
  previous record when the book is materialized.
`
}

func (c *addLoanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Loan identifier, unique within the book")
	f.Float64Var(&c.balance, "balance", 0, "Outstanding balance at the snapshot")
	f.StringVar(&c.rate, "rate", "", "Annual interest rate in percent (e.g., 5.99)")
	f.IntVar(&c.term, "term", 0, "Remaining term in months")
	f.StringVar(&c.tier, "tier", "", "Assumption tier, empty for the default tier")
	f.Float64Var(&c.payment, "payment", 0, "Contractual monthly payment, 0 derives a level payment")
	f.Float64Var(&c.original, "original", 0, "Original balance, required for the origination fee")
	f.StringVar(&c.effective, "effective", "", "First payment date (YYYY-MM-DD), defaults to the snapshot date")
	f.StringVar(&c.date, "d", date.Today().String(), "Command date (YYYY-MM-DD)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the command")
}

func (c *addLoanCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.balance <= 0 || c.rate == "" || c.term <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	rate, err := loanbook.ParsePercent(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
		return subcommands.ExitUsageError
	}
	var effective date.Date
	if c.effective != "" {
		effective, err = date.Parse(c.effective)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing effective date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	loan := loanbook.Loan{
		ID:        c.id,
		Balance:   c.balance,
		Rate:      rate.Rate(),
		Term:      c.term,
		Tier:      c.tier,
		Payment:   c.payment,
		Original:  c.original,
		Effective: effective,
	}
	return appendCommands(func(book *loanbook.Book) ([]loanbook.Command, error) {
		return []loanbook.Command{loanbook.NewDeclareLoan(day, c.memo, loan, book.Currency())}, nil
	})
}
