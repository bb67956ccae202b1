package search

import (
	"testing"
	"unicode/utf8"
)

func TestContainsFold(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"Tom Hanks, Meg Ryan", "tom", true},
		{"The Matrix Reloaded", "matrix", true},
		{"Keanu Reeves, Laurence Fishburne", "KEANU", true},
		{"Amélie", "AMÉLIE", true},
		{"Heat", "cold", false},
		{"", "x", false},
		{"anything", "", true},
	}
	for _, tc := range tests {
		if got := containsFold(tc.haystack, tc.needle); got != tc.want {
			t.Fatalf("containsFold(%q, %q): expected %v, got %v", tc.haystack, tc.needle, tc.want, got)
		}
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	if got := truncate("Amélie Poulain", 6); got != "Am..." {
		t.Fatalf("expected Am..., got %q", got)
	}
	for limit := 1; limit <= 12; limit++ {
		if got := truncate("日本語のタイトル", limit); !utf8.ValidString(got) || len(got) > limit {
			t.Fatalf("limit %d: expected valid utf-8 within limit, got %q", limit, got)
		}
	}
	if got := truncate("Heat", 10); got != "Heat" {
		t.Fatalf("expected Heat, got %q", got)
	}
}
