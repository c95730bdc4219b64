package match

import (
	"testing"

	"github.com/chanarr/chanarr/internal/domain"
)

func TestResolveKeepsHighestScore(t *testing.T) {
	entry := domain.LineupEntry{Canonical: "Channel One", Ordinal: 0}
	streams := []domain.Stream{
		{Name: "Channel One", URL: "http://host/exact", Position: 0},
		{Name: "Channel 1", URL: "http://host/close", Position: 1},
	}

	tests := []struct {
		name    string
		matches []domain.Match
	}{
		{
			name: "best candidate first",
			matches: []domain.Match{
				{Stream: &streams[0], Entry: &entry, Score: 100},
				{Stream: &streams[1], Entry: &entry, Score: 85},
			},
		},
		{
			name: "best candidate last",
			matches: []domain.Match{
				{Stream: &streams[1], Entry: &entry, Score: 85},
				{Stream: &streams[0], Entry: &entry, Score: 100},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channels := Resolve(tt.matches, 1)
			if len(channels) != 1 {
				t.Fatalf("got %d channels, want 1", len(channels))
			}
			if channels[0].Stream.URL != "http://host/exact" {
				t.Errorf("kept %q, want the 100-score stream", channels[0].Stream.URL)
			}
			if channels[0].Score != 100 {
				t.Errorf("Score = %v, want 100", channels[0].Score)
			}
		})
	}
}

func TestResolveTieBreaksOnEarliestPosition(t *testing.T) {
	entry := domain.LineupEntry{Canonical: "News 24", Ordinal: 0}
	late := domain.Stream{Name: "news 24", URL: "http://host/late", Position: 5}
	early := domain.Stream{Name: "News-24", URL: "http://host/early", Position: 2}

	matches := []domain.Match{
		{Stream: &late, Entry: &entry, Score: 90},
		{Stream: &early, Entry: &entry, Score: 90},
	}

	channels := Resolve(matches, 1)
	if len(channels) != 1 {
		t.Fatalf("got %d channels, want 1", len(channels))
	}
	if channels[0].Stream.URL != "http://host/early" {
		t.Errorf("kept %q, want the earliest parsed stream", channels[0].Stream.URL)
	}
}

func TestResolveOrdersByOrdinal(t *testing.T) {
	entries := []domain.LineupEntry{
		{Canonical: "Channel One", Ordinal: 0},
		{Canonical: "News 24", Ordinal: 1},
		{Canonical: "Eurosport 2", Ordinal: 2},
	}
	streams := []domain.Stream{
		{Name: "eurosport 2", URL: "http://host/euro", Position: 0},
		{Name: "channel one", URL: "http://host/one", Position: 1},
	}

	// Matches arrive in parse order, not ordinal order; News 24 has no
	// candidate at all.
	matches := []domain.Match{
		{Stream: &streams[0], Entry: &entries[2], Score: 100},
		{Stream: &streams[1], Entry: &entries[0], Score: 100},
	}

	channels := Resolve(matches, len(entries))
	if len(channels) != 2 {
		t.Fatalf("got %d channels, want 2", len(channels))
	}
	if channels[0].Entry.Canonical != "Channel One" || channels[1].Entry.Canonical != "Eurosport 2" {
		t.Errorf("order = %q, %q; want Channel One then Eurosport 2",
			channels[0].Entry.Canonical, channels[1].Entry.Canonical)
	}
}

func TestResolveDropsUnmatchedStreams(t *testing.T) {
	stream := domain.Stream{Name: "Random Feed", Position: 0}
	matches := []domain.Match{{Stream: &stream, Score: 42}}

	channels := Resolve(matches, 3)
	if len(channels) != 0 {
		t.Errorf("got %d channels, want none", len(channels))
	}
}

func TestResolveCopiesDecoupleFromInput(t *testing.T) {
	entry := domain.LineupEntry{Canonical: "Channel One", Ordinal: 0}
	stream := domain.Stream{Name: "channel one", URL: "http://host/one", Position: 0}
	matches := []domain.Match{{Stream: &stream, Entry: &entry, Score: 100}}

	channels := Resolve(matches, 1)
	channels[0].Stream.Group = "Rewritten"

	if stream.Group != "" {
		t.Error("mutating a resolved channel must not touch the source stream")
	}
}
