package loanbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/loanbook/date"
)

func TestEncodeBook(t *testing.T) {
	book := NewBook()
	book.Append(
		NewInit(jan2025, "kickoff", "USD"),
		NewDeclareLoan(jan2025, "", Loan{ID: "L-001", Balance: 25000, Rate: 0.0599, Term: 60}, "USD"),
		NewSetAssumptions(jan2025, "", "", Assumptions{CPR: 0.05, CreditRate: 0.01, ServicingRate: 0.0025}),
		NewSetPolicy(jan2025, "", Policy{InvestorShare: 0.85, InterestOnStartingBalance: true}),
		NewSetAsOf(jan2025, "quarter close"),
	)

	var buf bytes.Buffer
	if err := EncodeBook(&buf, book); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		`{"command":"init","date":"2025-01-01","memo":"kickoff","currency":"USD"}`,
		`{"command":"declare-loan","date":"2025-01-01","id":"L-001","balance":25000,"currency":"USD","rate":0.0599,"term":60}`,
		`{"command":"set-assumptions","date":"2025-01-01","cpr":0.05,"creditRate":0.01,"servicingRate":0.0025}`,
		`{"command":"set-policy","date":"2025-01-01","investorShare":0.85,"interestOnStartingBalance":true}`,
		`{"command":"set-asof","date":"2025-01-01","memo":"quarter close"}`,
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d:\n got %s\nwant %s", i+1, got[i], want[i])
		}
	}
}

func TestEncodeBook_RoundTrip(t *testing.T) {
	book := NewBook()
	book.Append(
		NewInit(jan2025, "", "USD"),
		NewDeclareLoan(date.New(2025, 1, 2), "bulk tape", Loan{
			ID: "L-042", Balance: 50000, Rate: 0.0649, Term: 48,
			Tier: "near-prime", Payment: 1200, Original: 52000,
			Effective: date.New(2025, 2, 1),
		}, "USD"),
		NewSetAssumptions(date.New(2025, 1, 3), "", "near-prime", Assumptions{
			CPR: 0.08, PD: 0.05, LGD: 0.6, RecoveryRate: 0.4, RecoveryLag: 6,
		}),
		NewSetPolicy(date.New(2025, 1, 4), "", Policy{InvestorShare: 0.9, CreditLossReducesInterest: true, AllowNegativeAmortization: true}),
		NewSetAsOf(date.New(2025, 1, 5), ""),
	)

	var buf bytes.Buffer
	if err := EncodeBook(&buf, book); err != nil {
		t.Fatalf("encoding: %v", err)
	}
	decoded, err := DecodeBook(&buf)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}

	var n int
	for i, cmd := range decoded.Commands() {
		n++
		if !book.commands[i].Equal(cmd) {
			t.Errorf("command %d: %v does not round-trip to %v", i, book.commands[i], cmd)
		}
	}
	if n != len(book.commands) {
		t.Errorf("decoded %d commands, want %d", n, len(book.commands))
	}
}

func TestDecodeBook(t *testing.T) {
	// out-of-order dates, a blank line, and single-digit date parts
	input := `{"command":"set-asof","date":"2025-3-1"}

{"command":"init","date":"2025-1-1","currency":"EUR"}
{"command":"declare-loan","date":"2025-2-1","id":"L-007","balance":9000.50,"currency":"EUR","rate":0.07,"term":36}
`
	book, err := DecodeBook(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := book.Currency(); got != "EUR" {
		t.Errorf("currency %q, want EUR", got)
	}
	if got := book.OldestCommandDate(); got != date.New(2025, 1, 1) {
		t.Errorf("oldest %s, want 2025-01-01", got)
	}
	if got := book.NewestCommandDate(); got != date.New(2025, 3, 1) {
		t.Errorf("newest %s, want 2025-03-01", got)
	}
	loan := book.Loan("L-007")
	if loan == nil {
		t.Fatal("loan L-007 not found")
	}
	if loan.Balance != 9000.50 || loan.Term != 36 {
		t.Errorf("loan decoded as %+v", loan)
	}
}

func TestDecodeBook_UnknownCommand(t *testing.T) {
	_, err := DecodeBook(strings.NewReader(`{"command":"sell-loan","date":"2025-01-01"}`))
	if err == nil || !strings.Contains(err.Error(), "unknown book command") {
		t.Errorf("got %v, want an unknown command error", err)
	}
}

func TestDecodeBook_Garbage(t *testing.T) {
	if _, err := DecodeBook(strings.NewReader("not json at all")); err == nil {
		t.Error("got nil error decoding garbage")
	}
}
