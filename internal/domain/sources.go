package domain

import (
	"context"
	"io"
	"time"
)

// StreamSource supplies candidate streams from one upstream feed. Fetch also
// reports how many source entries were skipped as malformed.
type StreamSource interface {
	Name() string
	Fetch(ctx context.Context) ([]Stream, int, error)
}

// SightingRepository persists per-channel stream sightings between runs.
type SightingRepository interface {
	Upsert(ctx context.Context, key string, sighting *Sighting) error
	FindByCanonical(ctx context.Context, canonical string) ([]Sighting, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	Close() error
}

// PlaylistPublisher writes the resolved channels out, one file per scheme,
// or renders a preview without touching disk.
type PlaylistPublisher interface {
	Publish(ctx context.Context, channels []ResolvedChannel) ([]string, error)
	DryRun(w io.Writer, channels []ResolvedChannel) error
}
