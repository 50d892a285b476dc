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

type setAssumptionsCmd struct {
	tier        string
	cpr         string
	credit      string
	pd          string
	lgd         string
	servicing   string
	reporting   string
	origination string
	recovery    string
	lag         int
	date        string
	memo        string
}

func (*setAssumptionsCmd) Name() string { return "set-assumptions" }
func (*setAssumptionsCmd) Synopsis() string {
	return "set the projection assumptions for a tier of loans"
}
func (*setAssumptionsCmd) Usage() string {
	return `set-assumptions [-tier <tier>] [-cpr <rate>] [-credit <rate> | -pd <rate> -lgd <rate>] [-servicing <rate>] [-reporting <rate>] [-origination <rate>] [-recovery <rate> -lag <months>] [-d <date>] [-m <memo>]

  Sets the projection assumptions for one tier. All rates are annual and
  in percent. The command replaces the tier's previous assumptions
  entirely; omitted rates are zero. Credit cost can be given directly
  with -credit or as a -pd and -lgd pair.
`
}

func (c *setAssumptionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tier, "tier", "", "Assumption tier these rates apply to, empty for the default tier")
	f.StringVar(&c.cpr, "cpr", "", "Annual prepayment rate in percent (e.g., 5)")
	f.StringVar(&c.credit, "credit", "", "Annual net credit-cost rate in percent")
	f.StringVar(&c.pd, "pd", "", "Annual probability of default in percent, alternative to -credit")
	f.StringVar(&c.lgd, "lgd", "", "Loss given default in percent, alternative to -credit")
	f.StringVar(&c.servicing, "servicing", "", "Annual servicing fee rate in percent")
	f.StringVar(&c.reporting, "reporting", "", "Annual reporting fee rate in percent")
	f.StringVar(&c.origination, "origination", "", "Origination fee rate in percent, straight-lined over the term")
	f.StringVar(&c.recovery, "recovery", "", "Fraction of each credit loss recovered, in percent")
	f.IntVar(&c.lag, "lag", 0, "Months between a credit loss and its recovery")
	f.StringVar(&c.date, "d", date.Today().String(), "Command date (YYYY-MM-DD)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the command")
}

// percentFlag parses an optional percent flag, an empty value meaning zero.
func percentFlag(name, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	p, err := loanbook.ParsePercent(value)
	if err != nil {
		return 0, fmt.Errorf("invalid -%s: %w", name, err)
	}
	return p.Rate(), nil
}

func (c *setAssumptionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	var a loanbook.Assumptions
	fields := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"cpr", c.cpr, &a.CPR},
		{"credit", c.credit, &a.CreditRate},
		{"pd", c.pd, &a.PD},
		{"lgd", c.lgd, &a.LGD},
		{"servicing", c.servicing, &a.ServicingRate},
		{"reporting", c.reporting, &a.ReportingRate},
		{"origination", c.origination, &a.OriginationRate},
		{"recovery", c.recovery, &a.RecoveryRate},
	}
	for _, field := range fields {
		*field.dst, err = percentFlag(field.name, field.value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	a.RecoveryLag = c.lag

	return appendCommand(loanbook.NewSetAssumptions(day, c.memo, c.tier, a))
}
