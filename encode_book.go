package loanbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeBook decodes commands from a stream of JSONL data from an io.Reader,
// decodes each line into the appropriate command struct, and returns a sorted Book.
func DecodeBook(r io.Reader) (*Book, error) {
	book := NewBook()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decoded Command
		var err error

		switch identifier.Command {
		case CmdInit:
			var cmd Init
			err = json.Unmarshal(lineBytes, &cmd)
			decoded = cmd
		case CmdDeclareLoan:
			var cmd DeclareLoan
			err = json.Unmarshal(lineBytes, &cmd)
			decoded = cmd
		case CmdSetAssumptions:
			var cmd SetAssumptions
			err = json.Unmarshal(lineBytes, &cmd)
			decoded = cmd
		case CmdSetPolicy:
			var cmd SetPolicy
			err = json.Unmarshal(lineBytes, &cmd)
			decoded = cmd
		case CmdSetAsOf:
			var cmd SetAsOf
			err = json.Unmarshal(lineBytes, &cmd)
			decoded = cmd
		default:
			err = fmt.Errorf("unknown book command: %q", identifier.Command)
		}

		if err != nil {
			return nil, err
		}
		book.Append(decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Perform a stable sort on the book based on the command date.
	book.stableSort()

	return book, nil
}

// EncodeCommand marshals a single command to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeCommand(w io.Writer, cmd Command) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	// Write the JSON data followed by a newline to create the JSONL format.
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write command: %w", err)
	}
	return nil
}

// EncodeBook reorders commands by date and persists them to an io.Writer in
// JSONL format. The sort is stable, meaning commands on the same day maintain
// their original relative order, so encoding and decoding a book is lossless.
func EncodeBook(w io.Writer, book *Book) error {
	decimal.MarshalJSONWithoutQuotes = true

	// Perform a stable sort on the book based on the command date to ensure order.
	book.stableSort()

	for _, cmd := range book.commands {
		if err := EncodeCommand(w, cmd); err != nil {
			return err
		}
	}

	return nil
}
