package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is one candidate that cleared the threshold. Score is a normalized
// edit distance in [0,1] where 0 means the normalized names are identical.
type Result struct {
	Index int
	Name  string
	Score float64
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a name, strips diacritics, and collapses whitespace so
// scores compare display names rather than typography.
func Normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks, value); err == nil {
		value = stripped
	}
	return strings.Join(strings.Fields(value), " ")
}

// Score returns the normalized edit distance between two names.
func Score(a, b string) float64 {
	return 1 - levenshtein.Similarity(Normalize(a), Normalize(b), nil)
}

// Rank scores every candidate name against the query and returns those whose
// score is strictly below the threshold, best match first. An empty query or
// empty candidate set yields an empty result, never an error.
func Rank(query string, names []string, threshold float64) []Result {
	query = Normalize(query)
	if query == "" || len(names) == 0 {
		return nil
	}

	results := make([]Result, 0, len(names))
	for i, name := range names {
		score := 1 - levenshtein.Similarity(query, Normalize(name), nil)
		if score < threshold {
			results = append(results, Result{Index: i, Name: name, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// ContainsFold reports whether name contains query, ignoring case. Used as the
// non-fuzzy fallback for theatre resolution when no candidate clears the bar.
func ContainsFold(name, query string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}
