package loanbook

import "testing"

func TestPercentString(t *testing.T) {
	tests := []struct {
		p    Percent
		want string
	}{
		{Percent(5.99), "5.99%"},
		{Percent(0.25), "0.25%"},
		{Percent(-1.5), "-1.50%"},
		{Percent(0), "0.00%"},
	}
	for _, tc := range tests {
		if got := tc.p.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestPercentSignedString(t *testing.T) {
	if got := Percent(1.2).SignedString(); got != "+1.20%" {
		t.Errorf("SignedString() = %q, want +1.20%%", got)
	}
	if got := Percent(0).SignedString(); got != "-" {
		t.Errorf("SignedString() = %q, want -", got)
	}
}

func TestPercentRate(t *testing.T) {
	if got := Percent(5.99).Rate(); !approx(got, 0.0599, 1e-12) {
		t.Errorf("Rate() = %g, want 0.0599", got)
	}
	if got := AsPercent(0.0599); !got.Equal(Percent(5.99)) {
		t.Errorf("AsPercent(0.0599) = %v, want 5.99", got)
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in      string
		want    Percent
		wantErr bool
	}{
		{"5.99%", Percent(5.99), false},
		{"5.99", Percent(5.99), false},
		{" 12.5% ", Percent(12.5), false},
		{"-2%", Percent(-2), false},
		{"0", Percent(0), false},
		{"five", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := ParsePercent(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePercent(%q) = %v, want an error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePercent(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParsePercent(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
