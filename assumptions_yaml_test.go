package loanbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAssumptionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assumptions.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadAssumptions(t *testing.T) {
	path := writeAssumptionsFile(t, `
default:
  cpr: 0.05
  creditRate: 0.01
  servicingRate: 0.0025
prime:
  cpr: 0.07
  pd: 0.02
  lgd: 0.5
  recoveryRate: 0.4
  recoveryLag: 6
`)
	set, err := LoadAssumptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("got %d tiers, want 2", len(set))
	}
	if got := set[DefaultTier]; got.CPR != 0.05 || got.CreditRate != 0.01 || got.ServicingRate != 0.0025 {
		t.Errorf("default tier %+v", got)
	}
	prime := set["prime"]
	if prime.PD != 0.02 || prime.LGD != 0.5 || prime.RecoveryLag != 6 {
		t.Errorf("prime tier %+v", prime)
	}
	// pd*lgd drives the credit rate when creditRate is omitted
	if got := prime.creditRate(); got != 0.01 {
		t.Errorf("prime credit rate %g, want 0.01", got)
	}
}

func TestLoadAssumptions_Invalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadAssumptions(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("got nil error for a missing file")
		}
	})
	t.Run("bad yaml", func(t *testing.T) {
		path := writeAssumptionsFile(t, "default: [not, a, mapping]")
		if _, err := LoadAssumptions(path); err == nil {
			t.Error("got nil error for a malformed document")
		}
	})
	t.Run("out of range rate", func(t *testing.T) {
		path := writeAssumptionsFile(t, "default:\n  cpr: 1.5\n")
		if _, err := LoadAssumptions(path); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("got %v, want ErrInvalidInput", err)
		}
	})
}

func TestAssumptionSetMerge(t *testing.T) {
	base := AssumptionSet{
		DefaultTier: {CPR: 0.05, CreditRate: 0.01},
		"prime":     {CPR: 0.03},
	}
	override := AssumptionSet{
		"prime":      {CPR: 0.07, ServicingRate: 0.0025},
		"near-prime": {CPR: 0.09},
	}
	merged := base.Merge(override)

	if len(merged) != 3 {
		t.Fatalf("got %d tiers, want 3", len(merged))
	}
	if got := merged[DefaultTier].CPR; got != 0.05 {
		t.Errorf("default cpr %g, want the base 0.05", got)
	}
	// an overridden tier is replaced whole, not patched
	if got := merged["prime"]; got.CPR != 0.07 || got.CreditRate != 0 {
		t.Errorf("prime %+v, want the override entirely", got)
	}
	if got := merged["near-prime"].CPR; got != 0.09 {
		t.Errorf("near-prime cpr %g, want 0.09", got)
	}

	// merge copies; the inputs stay untouched
	if base["prime"].CPR != 0.03 || len(base) != 2 {
		t.Errorf("base mutated: %+v", base)
	}
}
