package usecase

import (
	"strings"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/pkg/ai"
)

const DefaultDedupPrefixLength = 20

// DedupPolicy decides whether a candidate repeats a pending suggestion.
// A candidate is a duplicate when a suggestion for the same message exists,
// or when either title contains the first PrefixLength runes of the other
// (case-insensitive).
type DedupPolicy struct {
	PrefixLength int
}

func (p DedupPolicy) IsDuplicate(c ai.TaskCandidate, existing []*emaildomain.EmailAction) bool {
	n := p.PrefixLength
	if n <= 0 {
		n = DefaultDedupPrefixLength
	}
	candTitle := strings.ToLower(strings.TrimSpace(c.Title))
	candPrefix := runePrefix(candTitle, n)

	for _, e := range existing {
		if e.EmailID == c.EmailID {
			return true
		}
		existingTitle := strings.ToLower(strings.TrimSpace(e.SuggestedTaskTitle))
		if existingTitle == "" || candTitle == "" {
			continue
		}
		if strings.Contains(existingTitle, candPrefix) || strings.Contains(candTitle, runePrefix(existingTitle, n)) {
			return true
		}
	}
	return false
}

func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
