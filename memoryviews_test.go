package main

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short stays whole", "brief", 10, "brief"},
		{"exact length stays whole", "exactly", 7, "exactly"},
		{"long gets ellipsis", "a longer headline here", 8, "a longer..."},
		{"multibyte cut on rune boundary", "₹45,000 करोड़ की योजना", 9, "₹45,000 क..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.n)
			if got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate split a rune: %q", got)
			}
		})
	}
}
