package similarity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// Scorer names accepted in configuration.
const (
	NameRatio       = "ratio"
	NameTokenSort   = "token-sort"
	NamePartial     = "partial"
	NameJaroWinkler = "jaro-winkler"
)

const (
	perfectScore = 100.0

	substitutionCost = 1
	insertionCost    = 1
	deletionCost     = 1

	jaroWinklerBoostThreshold = 0.7
	jaroWinklerPrefixSize     = 4
)

// Scorer computes a similarity score between two strings, bounded to [0, 100].
type Scorer interface {
	Name() string
	Score(a, b string) float64
}

// ForName returns the scorer registered under the given configuration name.
func ForName(name string) (Scorer, error) {
	switch name {
	case NameRatio:
		return Ratio(), nil
	case NameTokenSort:
		return TokenSort(), nil
	case NamePartial:
		return Partial(), nil
	case NameJaroWinkler:
		return JaroWinkler(), nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}

// Ratio scores by normalized Levenshtein edit distance over the longer input.
func Ratio() Scorer { return ratioScorer{} }

// TokenSort sorts whitespace-separated tokens on both sides before applying
// the edit-distance ratio, so word order does not count against a pair.
func TokenSort() Scorer { return tokenSortScorer{} }

// Partial scores the shorter input against every same-length window of the
// longer one and keeps the best ratio.
func Partial() Scorer { return partialScorer{} }

// JaroWinkler scores with the Jaro-Winkler metric scaled to [0, 100].
func JaroWinkler() Scorer { return jaroWinklerScorer{} }

type ratioScorer struct{}

func (ratioScorer) Name() string { return NameRatio }

func (ratioScorer) Score(a, b string) float64 {
	return ratio(a, b)
}

type tokenSortScorer struct{}

func (tokenSortScorer) Name() string { return NameTokenSort }

func (tokenSortScorer) Score(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

type partialScorer struct{}

func (partialScorer) Name() string { return NamePartial }

func (partialScorer) Score(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return perfectScore
		}
		return 0
	}

	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		score := ratioRunes(shorter, longer[start:start+len(shorter)])
		if score > best {
			best = score
		}
		if best == perfectScore {
			break
		}
	}
	return best
}

type jaroWinklerScorer struct{}

func (jaroWinklerScorer) Name() string { return NameJaroWinkler }

func (jaroWinklerScorer) Score(a, b string) float64 {
	return perfectScore * smetrics.JaroWinkler(a, b, jaroWinklerBoostThreshold, jaroWinklerPrefixSize)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func ratio(a, b string) float64 {
	if a == b {
		return perfectScore
	}
	return ratioRunes([]rune(a), []rune(b))
}

func ratioRunes(a, b []rune) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return perfectScore
	}

	distance := levenshteinDistance(a, b)
	return perfectScore * (1 - float64(distance)/float64(maxLen))
}

func levenshteinDistance(source, target []rune) int {
	if len(source) == 0 {
		return len(target)
	}
	if len(target) == 0 {
		return len(source)
	}

	// Ensure source is the shorter string so the rows stay small.
	if len(source) > len(target) {
		source, target = target, source
	}

	prevRow := make([]int, len(source)+1)
	currRow := make([]int, len(source)+1)

	for i := range prevRow {
		prevRow[i] = i
	}

	for j := 1; j <= len(target); j++ {
		currRow[0] = j
		for i := 1; i <= len(source); i++ {
			cost := substitutionCost
			if source[i-1] == target[j-1] {
				cost = 0
			}
			currRow[i] = min(
				prevRow[i]+deletionCost,
				currRow[i-1]+insertionCost,
				prevRow[i-1]+cost,
			)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[len(source)]
}
