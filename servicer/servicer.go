// Package servicer imports loan tapes exported by loan servicers.
//
// Tapes are JSON documents whose record layout varies per servicer. A
// mapping document binds each loan field to a jsonpath expression, so
// onboarding a new servicer takes a mapping file, not code.
package servicer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/date"
)

// Mapping binds loan fields to jsonpath expressions evaluated against
// each tape record. Records selects the record array in the document,
// "$" when the document is the array itself; every other path is
// relative to one record. Optional fields left empty are not read.
type Mapping struct {
	Records   string `json:"records"`
	ID        string `json:"id"`
	Balance   string `json:"balance"`
	Rate      string `json:"rate"`
	Term      string `json:"term"`
	Tier      string `json:"tier,omitempty"`
	Payment   string `json:"payment,omitempty"`
	Original  string `json:"original,omitempty"`
	Effective string `json:"effective,omitempty"`

	// RatePercent divides tape rates by 100, for servicers that write
	// "5.99" meaning 5.99% per year.
	RatePercent bool `json:"ratePercent,omitempty"`
}

// LoadMapping reads a mapping document from a JSON file.
func LoadMapping(path string) (Mapping, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("could not read mapping file %q: %w", path, err)
	}
	var m Mapping
	if err := json.Unmarshal(content, &m); err != nil {
		return Mapping{}, fmt.Errorf("could not parse mapping file %q: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Mapping{}, fmt.Errorf("invalid mapping file %q: %w", path, err)
	}
	return m, nil
}

// Validate checks that the required field paths are present.
func (m Mapping) Validate() error {
	required := []struct{ name, path string }{
		{"id", m.ID},
		{"balance", m.Balance},
		{"rate", m.Rate},
		{"term", m.Term},
	}
	for _, r := range required {
		if r.path == "" {
			return fmt.Errorf("mapping has no %q path", r.name)
		}
	}
	return nil
}

// Read parses a servicer tape and maps every record to a loan. A record
// that fails to map aborts the read with the record index in the error.
func (m Mapping) Read(r io.Reader) ([]loanbook.Loan, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("could not parse tape: %w", err)
	}

	recordsPath := m.Records
	if recordsPath == "" {
		recordsPath = "$"
	}
	jval, err := jsonpath.Get(recordsPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("could not select records with %q: %w", recordsPath, err)
	}
	records, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("records path %q selects a %T, expected an array", recordsPath, jval)
	}

	loans := make([]loanbook.Loan, 0, len(records))
	for i, record := range records {
		loan, err := m.loan(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// loan maps one tape record to a loan and validates it.
func (m Mapping) loan(record any) (loanbook.Loan, error) {
	var loan loanbook.Loan
	var err error

	if loan.ID, err = lookupString(record, "id", m.ID); err != nil {
		return loan, err
	}
	if loan.Balance, err = lookupFloat(record, "balance", m.Balance); err != nil {
		return loan, err
	}
	if loan.Rate, err = lookupFloat(record, "rate", m.Rate); err != nil {
		return loan, err
	}
	if m.RatePercent {
		loan.Rate /= 100
	}
	term, err := lookupFloat(record, "term", m.Term)
	if err != nil {
		return loan, err
	}
	loan.Term = int(term)

	if m.Tier != "" {
		if loan.Tier, err = lookupString(record, "tier", m.Tier); err != nil {
			return loan, err
		}
	}
	if m.Payment != "" {
		if loan.Payment, err = lookupFloat(record, "payment", m.Payment); err != nil {
			return loan, err
		}
	}
	if m.Original != "" {
		if loan.Original, err = lookupFloat(record, "original", m.Original); err != nil {
			return loan, err
		}
	}
	if m.Effective != "" {
		s, err := lookupString(record, "effective", m.Effective)
		if err != nil {
			return loan, err
		}
		if s != "" {
			loan.Effective, err = date.Parse(s)
			if err != nil {
				return loan, fmt.Errorf("field effective: %w", err)
			}
		}
	}

	return loan, loan.Validate()
}

// lookup evaluates a field path against a record. jsonpath is never
// clear about whether it returns a list of one answer or a single
// answer, so a one-element list unwraps to its element.
func lookup(record any, name, path string) (any, error) {
	jval, err := jsonpath.Get(path, record)
	if err != nil {
		return nil, fmt.Errorf("field %s: %q %w", name, path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func lookupString(record any, name, path string) (string, error) {
	jval, err := lookup(record, name, path)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("field %s: %q is not a string but %T", name, path, jval)
	}
	return s, nil
}

// lookupFloat reads a numeric field. Tapes are inconsistent about
// numbers: some write them as strings, some with comma decimals, so
// string values are coerced.
func lookupFloat(record any, name, path string) (float64, error) {
	jval, err := lookup(record, name, path)
	if err != nil {
		return 0, err
	}
	if val, ok := jval.(float64); ok {
		return val, nil
	}
	sval, ok := jval.(string)
	if !ok {
		return 0, fmt.Errorf("field %s: %q is neither a number nor a string but %T", name, path, jval)
	}
	sval = strings.ReplaceAll(sval, ",", ".")
	sval = strings.ReplaceAll(sval, " ", "")
	val, err := strconv.ParseFloat(sval, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid number %q: %w", name, sval, err)
	}
	return val, nil
}
