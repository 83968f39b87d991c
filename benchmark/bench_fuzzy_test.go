//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-clip/internal/fuzzy"
)

// Category: suggestions

// Option names of a mid-sized command, long and short spellings mixed.
var suggestionPool = []string{
	"output", "o", "input", "i", "verbose", "v", "version", "config", "c",
	"force", "f", "dry-run", "n", "timeout", "retries", "log-level", "exclude",
}

func BenchmarkSuggest_Option(b *testing.B) {
	cases := map[string]string{
		"Typo":      "outptu",
		"Prefix":    "verb",
		"NoMatch":   "zzzzzz",
		"Transpose": "exlcude",
	}
	for name, input := range cases {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = fuzzy.FindBest(input, suggestionPool, 2)
			}
		})
	}
}

func BenchmarkSuggest_Ranked(b *testing.B) {
	m := fuzzy.NewMatcher(3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.FindMatches("vers", suggestionPool)
	}
}

func BenchmarkSuggest_TopN(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = fuzzy.FindSuggestions("log", suggestionPool, 3, 3)
	}
}
