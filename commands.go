package loanbook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/etnz/loanbook/date"
	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying book commands.
type CommandType string

// Command types used for identifying book entries.
const (
	CmdInit           CommandType = "init"
	CmdDeclareLoan    CommandType = "declare-loan"
	CmdSetAssumptions CommandType = "set-assumptions"
	CmdSetPolicy      CommandType = "set-policy"
	CmdSetAsOf        CommandType = "set-asof"
)

// Command defines the common interface for all entries recorded in a
// loan book. A book is a command stream: the portfolio is obtained by
// replaying the commands in date order, last write winning.
type Command interface {
	What() CommandType // What returns the command keyword (e.g. "declare-loan").
	When() date.Date   // When returns the date on which the command was recorded.
	Equal(Command) bool
	Validate(book *Book) (Command, error)
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the entry type.
	Date    date.Date   `json:"date"`           // Date is the recording date.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional rationale for the entry.
}

// What returns the command keyword, used to identify the entry type.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the date of the command.
func (t baseCmd) When() date.Date { return t.Date }

// Rationale returns the memo associated with the command.
func (t baseCmd) Rationale() string { return t.Memo }

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// Validate checks the base command fields. It sets the date to today if
// it's zero. It's meant to be embedded in other command validation
// methods.
func (t *baseCmd) Validate() {
	if t.Date.IsZero() {
		t.Date = date.Today()
	}
}

// Init declares the book's display currency. The engine itself is
// currency-agnostic; the currency only drives Money parsing and report
// formatting.
type Init struct {
	baseCmd
	Currency string `json:"currency"` // ISO 4217 code, e.g. "USD".
}

// NewInit creates a new Init command.
func NewInit(day date.Date, memo, currency string) Init {
	return Init{baseCmd: baseCmd{Command: CmdInit, Date: day, Memo: memo}, Currency: currency}
}

// MarshalJSON implements the json.Marshaler interface for Init.
func (t Init) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("currency", t.Currency)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Init.
func (t *Init) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseCmd
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.Currency = temp.Currency
	return nil
}

func (t Init) Equal(other Command) bool {
	o, ok := other.(Init)
	return ok && t.baseCmd == o.baseCmd && t.Currency == o.Currency
}

// Validate checks that the currency is a known ISO 4217 code.
func (t Init) Validate(book *Book) (Command, error) {
	t.baseCmd.Validate()
	if t.Currency == "" {
		return t, errors.New("currency is missing")
	}
	if money.GetCurrency(t.Currency) == nil {
		return t, fmt.Errorf("unknown currency %q", t.Currency)
	}
	return t, nil
}

// DeclareLoan records one amortizing loan in the book. Declaring the
// same ID again replaces the previous record when the portfolio is
// materialized.
type DeclareLoan struct {
	baseCmd
	ID        string    // ID is the loan's unique identifier.
	Balance   Money     // Balance is the outstanding balance at the snapshot.
	Rate      float64   // Rate is the annual rate as a decimal fraction.
	Term      int       // Term is the remaining term in months.
	Tier      string    // Tier selects the assumption tier, empty for default.
	Payment   Money     // Payment is the optional contractual monthly payment.
	Original  Money     // Original is the optional original balance.
	Effective date.Date // Effective is the optional first payment date.
}

// NewDeclareLoan creates a new DeclareLoan command.
func NewDeclareLoan(day date.Date, memo string, loan Loan, currency string) DeclareLoan {
	return DeclareLoan{
		baseCmd:   baseCmd{Command: CmdDeclareLoan, Date: day, Memo: memo},
		ID:        loan.ID,
		Balance:   M(loan.Balance, currency),
		Rate:      loan.Rate,
		Term:      loan.Term,
		Tier:      loan.Tier,
		Payment:   M(loan.Payment, currency),
		Original:  M(loan.Original, currency),
		Effective: loan.Effective,
	}
}

// Loan returns the loan record this command declares.
func (t DeclareLoan) Loan() Loan {
	return Loan{
		ID:        t.ID,
		Balance:   t.Balance.AsFloat(),
		Rate:      t.Rate,
		Term:      t.Term,
		Tier:      t.Tier,
		Payment:   t.Payment.AsFloat(),
		Original:  t.Original.AsFloat(),
		Effective: t.Effective,
	}
}

// MarshalJSON implements the json.Marshaler interface for DeclareLoan.
func (t DeclareLoan) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("id", t.ID)
	w.Append("balance", t.Balance.value)
	w.Optional("currency", t.Balance.cur)
	w.Append("rate", t.Rate)
	w.Append("term", t.Term)
	w.Optional("tier", t.Tier)
	// Money zero values are not reflect-zero, so check them explicitly.
	if !t.Payment.IsZero() {
		w.Append("payment", t.Payment.value)
	}
	if !t.Original.IsZero() {
		w.Append("original", t.Original.value)
	}
	w.Optional("effective", t.Effective)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for DeclareLoan.
// It handles the custom structure where amounts and currency are separate
// fields.
func (t *DeclareLoan) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		baseCmd
		ID        string          `json:"id"`
		Balance   decimal.Decimal `json:"balance"`
		Currency  string          `json:"currency"`
		Rate      float64         `json:"rate"`
		Term      int             `json:"term"`
		Tier      string          `json:"tier"`
		Payment   decimal.Decimal `json:"payment"`
		Original  decimal.Decimal `json:"original"`
		Effective date.Date       `json:"effective"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.ID = temp.ID
	t.Balance = M(temp.Balance, temp.Currency)
	t.Rate = temp.Rate
	t.Term = temp.Term
	t.Tier = temp.Tier
	t.Payment = M(temp.Payment, temp.Currency)
	t.Original = M(temp.Original, temp.Currency)
	t.Effective = temp.Effective
	return nil
}

func (t DeclareLoan) Equal(other Command) bool {
	o, ok := other.(DeclareLoan)
	return ok && t.baseCmd == o.baseCmd && t.ID == o.ID &&
		t.Balance.Equal(o.Balance) && t.Rate == o.Rate && t.Term == o.Term &&
		t.Tier == o.Tier && t.Payment.Equal(o.Payment) &&
		t.Original.Equal(o.Original) && t.Effective == o.Effective
}

// Validate checks the loan record's fields and that its amounts are in
// the book's currency.
func (t DeclareLoan) Validate(book *Book) (Command, error) {
	t.baseCmd.Validate()
	if err := t.Loan().Validate(); err != nil {
		return t, err
	}
	currency := book.Currency()
	for _, m := range []Money{t.Balance, t.Payment, t.Original} {
		if m.cur != "" && m.cur != currency {
			return t, fmt.Errorf("amount %s is not in the book currency %s", m, currency)
		}
	}
	return t, nil
}

// SetAssumptions records the projection assumptions for one tier. Rates
// are annual decimal fractions, matching Assumptions. The command
// replaces the tier's previous assumptions entirely; omitted rates are
// zero.
type SetAssumptions struct {
	baseCmd
	Tier            string  // Tier is the assumption tier, empty for default.
	CPR             float64 // CPR is the annual prepayment rate.
	CreditRate      float64 // CreditRate is the annual net credit-cost rate.
	PD              float64 // PD is the annual probability of default.
	LGD             float64 // LGD is the loss given default.
	ServicingRate   float64 // ServicingRate is the annual servicing fee rate.
	ReportingRate   float64 // ReportingRate is the annual reporting fee rate.
	OriginationRate float64 // OriginationRate is the origination fee rate.
	RecoveryRate    float64 // RecoveryRate is the recovered fraction of losses.
	RecoveryLag     int     // RecoveryLag is the recovery delay in months.
}

// NewSetAssumptions creates a new SetAssumptions command.
func NewSetAssumptions(day date.Date, memo, tier string, a Assumptions) SetAssumptions {
	return SetAssumptions{
		baseCmd:         baseCmd{Command: CmdSetAssumptions, Date: day, Memo: memo},
		Tier:            tier,
		CPR:             a.CPR,
		CreditRate:      a.CreditRate,
		PD:              a.PD,
		LGD:             a.LGD,
		ServicingRate:   a.ServicingRate,
		ReportingRate:   a.ReportingRate,
		OriginationRate: a.OriginationRate,
		RecoveryRate:    a.RecoveryRate,
		RecoveryLag:     a.RecoveryLag,
	}
}

// Assumptions returns the tier assumptions this command sets.
func (t SetAssumptions) Assumptions() Assumptions {
	return Assumptions{
		CPR:             t.CPR,
		CreditRate:      t.CreditRate,
		PD:              t.PD,
		LGD:             t.LGD,
		ServicingRate:   t.ServicingRate,
		ReportingRate:   t.ReportingRate,
		OriginationRate: t.OriginationRate,
		RecoveryRate:    t.RecoveryRate,
		RecoveryLag:     t.RecoveryLag,
	}
}

// tier returns the tier label, defaulting the empty string.
func (t SetAssumptions) tier() string {
	if t.Tier == "" {
		return DefaultTier
	}
	return t.Tier
}

// MarshalJSON implements the json.Marshaler interface for SetAssumptions.
// Zero rates are omitted so a book stays readable.
func (t SetAssumptions) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Optional("tier", t.Tier)
	w.Optional("cpr", t.CPR)
	w.Optional("creditRate", t.CreditRate)
	w.Optional("pd", t.PD)
	w.Optional("lgd", t.LGD)
	w.Optional("servicingRate", t.ServicingRate)
	w.Optional("reportingRate", t.ReportingRate)
	w.Optional("originationRate", t.OriginationRate)
	w.Optional("recoveryRate", t.RecoveryRate)
	w.Optional("recoveryLag", t.RecoveryLag)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SetAssumptions.
func (t *SetAssumptions) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseCmd
		Tier            string  `json:"tier"`
		CPR             float64 `json:"cpr"`
		CreditRate      float64 `json:"creditRate"`
		PD              float64 `json:"pd"`
		LGD             float64 `json:"lgd"`
		ServicingRate   float64 `json:"servicingRate"`
		ReportingRate   float64 `json:"reportingRate"`
		OriginationRate float64 `json:"originationRate"`
		RecoveryRate    float64 `json:"recoveryRate"`
		RecoveryLag     int     `json:"recoveryLag"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.Tier = temp.Tier
	t.CPR = temp.CPR
	t.CreditRate = temp.CreditRate
	t.PD = temp.PD
	t.LGD = temp.LGD
	t.ServicingRate = temp.ServicingRate
	t.ReportingRate = temp.ReportingRate
	t.OriginationRate = temp.OriginationRate
	t.RecoveryRate = temp.RecoveryRate
	t.RecoveryLag = temp.RecoveryLag
	return nil
}

func (t SetAssumptions) Equal(other Command) bool {
	o, ok := other.(SetAssumptions)
	return ok && t == o
}

// Validate checks the rate ranges.
func (t SetAssumptions) Validate(book *Book) (Command, error) {
	t.baseCmd.Validate()
	if err := t.Assumptions().Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// SetPolicy records the engine switches. The last set-policy in the
// book wins entirely; there is no field-by-field merge.
type SetPolicy struct {
	baseCmd
	InvestorShare             float64 // InvestorShare is the pass-through fraction; 0 means full pass-through.
	InterestOnStartingBalance bool
	CreditLossReducesInterest bool
	AllowNegativeAmortization bool
}

// NewSetPolicy creates a new SetPolicy command.
func NewSetPolicy(day date.Date, memo string, p Policy) SetPolicy {
	return SetPolicy{
		baseCmd:                   baseCmd{Command: CmdSetPolicy, Date: day, Memo: memo},
		InvestorShare:             p.InvestorShare,
		InterestOnStartingBalance: p.InterestOnStartingBalance,
		CreditLossReducesInterest: p.CreditLossReducesInterest,
		AllowNegativeAmortization: p.AllowNegativeAmortization,
	}
}

// Policy returns the policy this command sets. An omitted investor
// share means full pass-through.
func (t SetPolicy) Policy() Policy {
	share := t.InvestorShare
	if share == 0 {
		share = 1
	}
	return Policy{
		InvestorShare:             share,
		InterestOnStartingBalance: t.InterestOnStartingBalance,
		CreditLossReducesInterest: t.CreditLossReducesInterest,
		AllowNegativeAmortization: t.AllowNegativeAmortization,
	}
}

// MarshalJSON implements the json.Marshaler interface for SetPolicy.
func (t SetPolicy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Optional("investorShare", t.InvestorShare)
	w.Optional("interestOnStartingBalance", t.InterestOnStartingBalance)
	w.Optional("creditLossReducesInterest", t.CreditLossReducesInterest)
	w.Optional("allowNegativeAmortization", t.AllowNegativeAmortization)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SetPolicy.
func (t *SetPolicy) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseCmd
		InvestorShare             float64 `json:"investorShare"`
		InterestOnStartingBalance bool    `json:"interestOnStartingBalance"`
		CreditLossReducesInterest bool    `json:"creditLossReducesInterest"`
		AllowNegativeAmortization bool    `json:"allowNegativeAmortization"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.InvestorShare = temp.InvestorShare
	t.InterestOnStartingBalance = temp.InterestOnStartingBalance
	t.CreditLossReducesInterest = temp.CreditLossReducesInterest
	t.AllowNegativeAmortization = temp.AllowNegativeAmortization
	return nil
}

func (t SetPolicy) Equal(other Command) bool {
	o, ok := other.(SetPolicy)
	return ok && t == o
}

// Validate checks the policy fields.
func (t SetPolicy) Validate(book *Book) (Command, error) {
	t.baseCmd.Validate()
	if err := t.Policy().Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// SetAsOf records the portfolio snapshot date: the command's own date
// is the snapshot. Projections anchor loans without an effective date
// to it.
type SetAsOf struct {
	baseCmd
}

// NewSetAsOf creates a new SetAsOf command.
func NewSetAsOf(day date.Date, memo string) SetAsOf {
	return SetAsOf{baseCmd: baseCmd{Command: CmdSetAsOf, Date: day, Memo: memo}}
}

// MarshalJSON implements the json.Marshaler interface for SetAsOf.
func (t SetAsOf) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SetAsOf.
func (t *SetAsOf) UnmarshalJSON(data []byte) error {
	var temp struct{ baseCmd }
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	return nil
}

func (t SetAsOf) Equal(other Command) bool {
	o, ok := other.(SetAsOf)
	return ok && t.baseCmd == o.baseCmd
}

// Validate checks the snapshot date.
func (t SetAsOf) Validate(book *Book) (Command, error) {
	t.baseCmd.Validate()
	return t, nil
}
