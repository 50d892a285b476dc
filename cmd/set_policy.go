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

type setPolicyCmd struct {
	share               string
	interestOnStart     bool
	lossReducesInterest bool
	negativeAm          bool
	date                string
	memo                string
}

func (*setPolicyCmd) Name() string     { return "set-policy" }
func (*setPolicyCmd) Synopsis() string { return "set the engine policy switches" }
func (*setPolicyCmd) Usage() string {
	return `set-policy [-investor-share <share>] [-interest-on-start] [-loss-reduces-interest] [-negative-am] [-d <date>] [-m <memo>]

  Sets the engine policy. The last set-policy in the book wins entirely,
  there is no field-by-field merge. An omitted investor share means the
  whole book passes through.
`
}

func (c *setPolicyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.share, "investor-share", "", "Investor pass-through share in percent (e.g., 85)")
	f.BoolVar(&c.interestOnStart, "interest-on-start", false, "Accrue interest on the starting balance instead of the adjusted one")
	f.BoolVar(&c.lossReducesInterest, "loss-reduces-interest", false, "Deduct credit losses from the net interest passed to the investor")
	f.BoolVar(&c.negativeAm, "negative-am", false, "Let payments below accrued interest grow the balance instead of flooring principal at zero")
	f.StringVar(&c.date, "d", date.Today().String(), "Command date (YYYY-MM-DD)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the command")
}

func (c *setPolicyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	share, err := percentFlag("investor-share", c.share)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p := loanbook.Policy{
		InvestorShare:             share,
		InterestOnStartingBalance: c.interestOnStart,
		CreditLossReducesInterest: c.lossReducesInterest,
		AllowNegativeAmortization: c.negativeAm,
	}
	return appendCommand(loanbook.NewSetPolicy(day, c.memo, p))
}
