package loanbook

import (
	"fmt"
	"strconv"
	"strings"
)

// Percent is a display value in percent points: Percent(5.99) prints "5.99%".
// Engine rates are plain float64 fractions; convert with Rate and AsPercent.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// Rate returns the percent as a decimal fraction: Percent(5.99).Rate() is 0.0599.
func (p Percent) Rate() float64 { return float64(p) / 100 }

// AsPercent converts a decimal fraction rate into percent points.
func AsPercent(rate float64) Percent { return Percent(rate * 100) }

// ParsePercent parses a percent value like "5.99%" or "5.99". The value is
// always read in percent points, never as a fraction, so "5" means 5%.
func ParsePercent(s string) (Percent, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percent %q: %w", s, err)
	}
	return Percent(v), nil
}
