package loanbook

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("fields keep insertion order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("id", "L-001")
		w.Append("balance", 25000)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"id":"L-001","balance":25000}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embedded raw message", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("command", "declare-loan")
		w.Embed(json.RawMessage(`{"id":"L-001","term":60}`))
		w.Append("date", "2025-01-01")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"command":"declare-loan","id":"L-001","term":60,"date":"2025-01-01"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional skips zero values", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("term", 0) // Append keeps zeros, only Optional drops them
		w.Optional("tier", "")
		w.Optional("rate", 0)
		w.Optional("id", "L-001")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"term":0,"id":"L-001"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed a struct's fields", func(t *testing.T) {
		var w jsonObjectWriter
		loan := struct {
			ID   string `json:"id"`
			Term int    `json:"term"`
		}{ID: "L-001", Term: 60}
		w.Append("command", "declare-loan")
		w.EmbedFrom(loan)
		w.Append("date", "2025-01-01")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"command":"declare-loan","id":"L-001","term":60,"date":"2025-01-01"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
