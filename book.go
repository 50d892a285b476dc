package loanbook

import (
	"fmt"
	"iter"
	"sort"

	"github.com/etnz/loanbook/date"
)

// Book represents a list of commands.
//
// In a Book commands are always in chronological order. The book is the
// persisted form of a portfolio: replaying its commands in order, last
// write winning, yields the Portfolio snapshot.
type Book struct {
	commands []Command
	currency string // last init's currency, "" until one is recorded
}

// DefaultCurrency is used when a book carries no init command.
const DefaultCurrency = "USD"

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{commands: make([]Command, 0)}
}

// Currency returns the book's display currency.
func (b *Book) Currency() string {
	if b.currency == "" {
		return DefaultCurrency
	}
	return b.currency
}

// Validate checks a command for correctness and applies quick fixes
// where applicable (e.g., defaulting a zero date to today). It returns
// the validated (and potentially modified) command or an error detailing
// any validation failures.
func (b *Book) Validate(cmd Command) (Command, error) {
	var err error
	switch v := cmd.(type) {
	case Init:
		cmd, err = v.Validate(b)
	case DeclareLoan:
		cmd, err = v.Validate(b)
	case SetAssumptions:
		cmd, err = v.Validate(b)
	case SetPolicy:
		cmd, err = v.Validate(b)
	case SetAsOf:
		cmd, err = v.Validate(b)
	default:
		return cmd, fmt.Errorf("unsupported command type for validation: %T %v", cmd, cmd)
	}
	if err != nil {
		return cmd, fmt.Errorf("invalid %s command on %v: %w", cmd.What(), cmd.When(), err)
	}
	return cmd, nil
}

// Append appends commands to this book and maintains the chronological
// order of commands.
func (b *Book) Append(cmds ...Command) {
	b.commands = append(b.commands, cmds...)
	// process currency declarations.
	b.processCmd(cmds...)
	b.stableSort() // Ensure the book remains sorted after appending
}

func (b *Book) processCmd(cmds ...Command) {
	for _, cmd := range cmds {
		if v, ok := cmd.(Init); ok {
			b.currency = v.Currency
		}
	}
}

// Commands returns an iterator that yields each command in its
// chronological order, optionally filtered.
func (b *Book) Commands(filters ...func(Command) bool) iter.Seq2[int, Command] {
	return func(yield func(int, Command) bool) {
		for i, cmd := range b.commands {
			accept := len(filters) == 0
			for _, filter := range filters {
				if filter(cmd) {
					accept = true
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, cmd) {
				return
			}
		}
	}
}

// stableSort sorts the book by command date. The sort is stable, meaning
// commands on the same day maintain their original relative order.
func (b *Book) stableSort() {
	sort.SliceStable(b.commands, func(i, j int) bool {
		return b.commands[i].When().Before(b.commands[j].When())
	})
}

// OldestCommandDate returns the date of the earliest command in the book,
// or the zero date when the book is empty.
func (b *Book) OldestCommandDate() date.Date {
	if len(b.commands) == 0 {
		return date.Date{}
	}
	return b.commands[0].When()
}

// NewestCommandDate returns the date of the latest command in the book,
// or the zero date when the book is empty.
func (b *Book) NewestCommandDate() date.Date {
	if len(b.commands) == 0 {
		return date.Date{}
	}
	return b.commands[len(b.commands)-1].When()
}

// Loan returns the loan currently declared with this id, or nil if
// unknown. Later declarations shadow earlier ones.
func (b *Book) Loan(id string) *Loan {
	var found *Loan
	for _, cmd := range b.commands {
		if v, ok := cmd.(DeclareLoan); ok && v.ID == id {
			loan := v.Loan()
			found = &loan
		}
	}
	return found
}

// ByTier returns a predicate that filters declare-loan commands by tier.
func ByTier(tier string) func(Command) bool {
	return func(cmd Command) bool {
		v, ok := cmd.(DeclareLoan)
		return ok && v.Loan().tier() == tier
	}
}

// BalanceHistory returns the total declared balance of the book after
// each declaration day. Redeclaring a loan replaces its balance rather
// than adding to it, so the history is rebuilt by replay.
func (b *Book) BalanceHistory() *date.History[float64] {
	h := &date.History[float64]{}
	balances := make(map[string]float64)
	var total float64
	for _, cmd := range b.commands {
		v, ok := cmd.(DeclareLoan)
		if !ok {
			continue
		}
		loan := v.Loan()
		total += loan.Balance - balances[loan.ID]
		balances[loan.ID] = loan.Balance
		h.Append(cmd.When(), total)
	}
	return h
}

// Portfolio materializes the book into a portfolio snapshot: commands
// replay in chronological order and the last write wins, per loan ID,
// per assumption tier, and for the policy and snapshot date.
//
// A book with no set-asof snapshots at today. A book with no
// set-assumptions projects with zero assumptions (pure contractual
// amortization).
func (b *Book) Portfolio() (*Portfolio, error) {
	p := &Portfolio{
		Assumptions: AssumptionSet{},
		Policy:      DefaultPolicy(),
		Currency:    b.Currency(),
	}

	loans := make(map[string]int) // loan ID to index in p.Loans
	for _, cmd := range b.commands {
		switch v := cmd.(type) {
		case Init:
			p.Currency = v.Currency
		case DeclareLoan:
			loan := v.Loan()
			if i, ok := loans[loan.ID]; ok {
				p.Loans[i] = loan // redeclared, replace in place
				continue
			}
			loans[loan.ID] = len(p.Loans)
			p.Loans = append(p.Loans, loan)
		case SetAssumptions:
			p.Assumptions[v.tier()] = v.Assumptions()
		case SetPolicy:
			p.Policy = v.Policy()
		case SetAsOf:
			p.AsOf = v.Date
		}
	}

	if p.AsOf.IsZero() {
		p.AsOf = date.Today()
	}
	if len(p.Assumptions) == 0 {
		p.Assumptions[DefaultTier] = Assumptions{}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
