package summary

import "testing"

// TestFormatDuration verifies each duration range renders as expected.
func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   float64
		want string
	}{
		{ms: 0, want: "0ms"},
		{ms: 500, want: "500ms"},
		{ms: 2.5, want: "3ms"},
		{ms: 999.4, want: "999ms"},
		{ms: 1000, want: "1.0s"},
		{ms: 1500, want: "1.5s"},
		{ms: 59_940, want: "59.9s"},
		{ms: 60_000, want: "1m 0s"},
		{ms: 65_000, want: "1m 5s"},
		{ms: 65_999, want: "1m 5s"},
		{ms: 3_725_000, want: "62m 5s"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.ms); got != tc.want {
			t.Fatalf("FormatDuration(%v): expected %q, got %q", tc.ms, tc.want, got)
		}
	}
}

// TestFormatPassRate verifies pass rates round to one decimal at display time.
func TestFormatPassRate(t *testing.T) {
	if got := FormatPassRate(200.0 / 3.0); got != "66.7%" {
		t.Fatalf("unexpected pass rate %q", got)
	}
	if got := FormatPassRate(0); got != "0.0%" {
		t.Fatalf("unexpected pass rate %q", got)
	}
}
