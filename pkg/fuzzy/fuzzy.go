package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// LevenshteinDistance is the number of single-rune edits turning s1 into s2,
// compared after normalization
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(Normalize(s1))
	r2 := []rune(Normalize(s2))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Threshold is the typo tolerance for a query of the given length
func Threshold(query string) int {
	n := len([]rune(query))
	switch {
	case n <= 3:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// FuzzyMatch reports whether query matches text as a substring, a word
// prefix, or a word within threshold edits
func FuzzyMatch(query, text string, threshold int) bool {
	query = Normalize(query)
	text = Normalize(text)
	if query == "" {
		return false
	}
	if strings.Contains(text, query) {
		return true
	}
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) || LevenshteinDistance(query, word) <= threshold {
			return true
		}
	}
	return false
}

// Score ranks how well query matches a title and its description. Zero
// means no match.
func Score(query, title, description string) float64 {
	query = Normalize(query)
	if query == "" {
		return 0
	}
	threshold := Threshold(query)

	score := fieldScore(query, Normalize(title), threshold, 100, 50)
	if desc := Normalize(description); desc != "" {
		score += fieldScore(query, desc, threshold, 40, 20) / 2
	}
	return score
}

func fieldScore(query, text string, threshold int, exact, fuzzy float64) float64 {
	if text == "" {
		return 0
	}
	if strings.Contains(text, query) {
		if containsWord(text, query) {
			return exact * 1.5
		}
		return exact
	}

	best := 0.0
	for _, word := range strings.Fields(text) {
		s := 0.0
		if strings.HasPrefix(word, query) {
			s = fuzzy * 0.8
		}
		if dist := LevenshteinDistance(query, word); dist <= threshold {
			if v := fuzzy - float64(dist)*fuzzy/4; v > s {
				s = v
			}
		}
		if s > best {
			best = s
		}
	}
	return best
}

// Normalize lowercases, strips diacritics and collapses whitespace
func Normalize(s string) string {
	s = strings.ToLower(removeAccents(s))
	return strings.Join(strings.Fields(s), " ")
}

func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}

// removeAccents removes diacritical marks so "café" matches "cafe"
func removeAccents(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r == 'đ' || r == 'Đ' {
			r = 'd'
		}
		b.WriteRune(r)
	}
	return b.String()
}
