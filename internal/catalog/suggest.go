package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to input, if any is close enough to
// be a plausible typo.
func Suggest(input string, candidates []string) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}

	best, bestDist := "", -1
	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		if strings.HasPrefix(lc, input) && len(input) >= 3 {
			return cand, true
		}
		dist := levenshtein.ComputeDistance(input, lc)
		if dist > levenshteinLimit(len(lc)) {
			continue
		}
		if bestDist == -1 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best, bestDist != -1
}

func levenshteinLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
