package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/loanbook"
)

// LogMarkdown renders the book's command log, oldest first, followed by
// the declared balance over time.
func LogMarkdown(book *loanbook.Book, filters ...func(loanbook.Command) bool) string {
	r := &logRenderer{Builder: &strings.Builder{}}

	r.Printf("# Book Log\n\n")
	r.Printf("| Date | Command | Detail |\n")
	r.Printf("|:---|:---|:---|\n")
	for _, cmd := range book.Commands(filters...) {
		r.Printf("| %s | %s | %s |\n", cmd.When(), cmd.What(), Command(cmd))
	}

	ConditionalBlock(r, func(w io.Writer) bool {
		h := book.BalanceHistory()
		if h.Len() == 0 {
			return false
		}
		fmt.Fprintf(w, "\n## Declared Balance\n\n")
		fmt.Fprintf(w, "| Date | Total |\n")
		fmt.Fprintf(w, "|:---|---:|\n")
		for on, v := range h.Values() {
			fmt.Fprintf(w, "| %s | %s |\n", on, loanbook.M(v, book.Currency()))
		}
		return true
	})

	return r.String()
}

// logRenderer formats the output of the log generator into a markdown string.
type logRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *logRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

// Command renders a book command to a one-line string.
func Command(cmd loanbook.Command) string {
	switch v := cmd.(type) {
	case loanbook.Init:
		return fmt.Sprintf("Opened the book in %s", v.Currency)
	case loanbook.DeclareLoan:
		return fmt.Sprintf("Declared %s: %s at %s over %d months",
			v.ID, v.Balance, loanbook.AsPercent(v.Rate), v.Term)
	case loanbook.SetAssumptions:
		a := v.Assumptions()
		tier := v.Tier
		if tier == "" {
			tier = loanbook.DefaultTier
		}
		return fmt.Sprintf("Assumed CPR %s, credit cost %s for tier %q",
			loanbook.AsPercent(a.CPR), loanbook.AsPercent(a.CreditCost()), tier)
	case loanbook.SetPolicy:
		p := v.Policy()
		return fmt.Sprintf("Set investor share to %s", loanbook.AsPercent(p.InvestorShare))
	case loanbook.SetAsOf:
		return fmt.Sprintf("Moved the snapshot to %s", v.When())
	default:
		return string(cmd.What())
	}
}
