package match_test

import (
	"testing"

	"watchnext/internal/match"
)

var catalogTitles = []string{
	"Inception",
	"Interstellar",
	"Inception 2",
	"The Dark Knight",
	"Spirited Away",
}

func TestResolveExactTitles(t *testing.T) {
	resolver := match.NewResolver(catalogTitles, 0)
	for _, title := range catalogTitles {
		got, ok := resolver.Resolve(title)
		if !ok {
			t.Fatalf("Resolve(%q) found no match", title)
		}
		if got != title {
			t.Fatalf("Resolve(%q) = %q, want itself", title, got)
		}
	}
}

func TestResolveCaseAndPunctuationInsensitive(t *testing.T) {
	resolver := match.NewResolver(catalogTitles, 0)
	cases := []struct {
		query string
		want  string
	}{
		{"inception", "Inception"},
		{"INTERSTELLAR", "Interstellar"},
		{"the dark knight!", "The Dark Knight"},
		{"incepton", "Inception"},
	}
	for _, tc := range cases {
		got, ok := resolver.Resolve(tc.query)
		if !ok {
			t.Fatalf("Resolve(%q) found no match", tc.query)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestResolveBelowCutoffReturnsNoMatch(t *testing.T) {
	resolver := match.NewResolver(catalogTitles, 0)
	for _, query := range []string{"zzzzqqqqxxxx", "", "   ", "0123456789abcdef"} {
		if got, ok := resolver.Resolve(query); ok {
			t.Fatalf("Resolve(%q) = %q, want no match", query, got)
		}
	}
}

func TestResolveTieBreaksToEarlierIndex(t *testing.T) {
	resolver := match.NewResolver([]string{"Heat", "HEAT"}, 0)
	got, ok := resolver.Resolve("heat")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "Heat" {
		t.Fatalf("tie resolved to %q, want first entry", got)
	}
}

func TestRatio(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1},
		{"", "", 0},
		{"abcd", "abcx", 0.75},
		{"a", "z", 0},
	}
	for _, tc := range cases {
		if got := match.Ratio(tc.a, tc.b); got != tc.want {
			t.Fatalf("Ratio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"The Dark Knight", "the dark knight"},
		{"Fast & Furious", "fast and furious"},
		{"WALL-E", "wall e"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := match.Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
