package validation

import (
	"sort"
	"strings"
)

const (
	suggestionCutoff = 0.6
	maxSuggestions   = 3
)

// closeMatches returns up to maxSuggestions candidates whose bigram
// similarity to target is at least suggestionCutoff, best match first.
func closeMatches(target string, candidates []string) []string {
	type scored struct {
		token string
		score float64
	}

	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if s := bigramSimilarity(target, c); s >= suggestionCutoff {
			matches = append(matches, scored{token: c, score: s})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].token < matches[j].token
	})

	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.token
	}
	return out
}

// bigramSimilarity computes the Sorensen-Dice coefficient over character
// bigrams of the lowercased inputs. Identical strings score 1, disjoint 0.
func bigramSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}

	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ba))
	for _, g := range ba {
		counts[g]++
	}

	overlap := 0
	for _, g := range bb {
		if counts[g] > 0 {
			counts[g]--
			overlap++
		}
	}

	return 2 * float64(overlap) / float64(len(ba)+len(bb))
}

func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	out := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}
