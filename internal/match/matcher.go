package match

import (
	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/similarity"
)

// Matcher assigns streams to lineup entries by fuzzy name similarity.
type Matcher struct {
	normalizer *Normalizer
	scorer     similarity.Scorer
	threshold  float64
}

// NewMatcher builds a matcher. Threshold is on the scorer's 0 to 100 scale; a
// stream is assigned only when its best score reaches it.
func NewMatcher(normalizer *Normalizer, scorer similarity.Scorer, threshold float64) *Matcher {
	return &Matcher{
		normalizer: normalizer,
		scorer:     scorer,
		threshold:  threshold,
	}
}

// Match scores every stream against every lineup entry and returns one Match
// per stream in input order. Entry is nil when no lineup name reached the
// threshold; Score still carries the best score seen for diagnostics. Ties on
// the best score go to the lowest ordinal. The returned matches point into
// the streams and entries slices.
func (m *Matcher) Match(streams []domain.Stream, entries []domain.LineupEntry) []domain.Match {
	normalized := make([]string, len(entries))
	for i := range entries {
		normalized[i] = m.normalizer.Normalize(entries[i].Canonical)
	}

	matches := make([]domain.Match, 0, len(streams))
	for i := range streams {
		matches = append(matches, m.matchStream(&streams[i], entries, normalized))
	}
	return matches
}

func (m *Matcher) matchStream(stream *domain.Stream, entries []domain.LineupEntry, normalized []string) domain.Match {
	match := domain.Match{Stream: stream}

	name := m.normalizer.Normalize(stream.Name)
	if name == "" {
		return match
	}

	best := -1.0
	bestIdx := -1
	for i := range entries {
		if normalized[i] == "" {
			continue
		}
		score := m.scorer.Score(name, normalized[i])
		if score > best || (score == best && entries[i].Ordinal < entries[bestIdx].Ordinal) {
			best = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return match
	}

	match.Score = best
	if best >= m.threshold {
		match.Entry = &entries[bestIdx]
	}
	return match
}
