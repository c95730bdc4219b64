package match

import "github.com/chanarr/chanarr/internal/domain"

// Resolve reduces matches to at most one stream per lineup entry. The highest
// score wins; on a score tie the earliest parsed stream wins. Unmatched
// streams are dropped and entries with no candidate produce no channel. The
// result is ordered by lineup ordinal and holds copies, so callers may
// enrich the chosen streams freely. Ordinals must be in [0, lineupSize), as
// the lineup loader guarantees.
func Resolve(matches []domain.Match, lineupSize int) []domain.ResolvedChannel {
	best := make([]*domain.Match, lineupSize)
	for i := range matches {
		match := &matches[i]
		if match.Entry == nil {
			continue
		}

		ordinal := match.Entry.Ordinal
		current := best[ordinal]
		switch {
		case current == nil:
			best[ordinal] = match
		case match.Score > current.Score:
			best[ordinal] = match
		case match.Score == current.Score && match.Stream.Position < current.Stream.Position:
			best[ordinal] = match
		}
	}

	channels := make([]domain.ResolvedChannel, 0, lineupSize)
	for _, match := range best {
		if match == nil {
			continue
		}
		channels = append(channels, domain.ResolvedChannel{
			Entry:  *match.Entry,
			Stream: *match.Stream,
			Score:  match.Score,
		})
	}
	return channels
}
