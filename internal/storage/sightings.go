package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"

	"github.com/chanarr/chanarr/internal/domain"
)

type sightingRepository struct {
	store *bolthold.Store
}

// NewSightingRepository creates a repository backed by the given store.
func NewSightingRepository(store *bolthold.Store) domain.SightingRepository {
	return &sightingRepository{store: store}
}

// Upsert stores or refreshes a sighting under its stream key.
func (r *sightingRepository) Upsert(ctx context.Context, key string, sighting *domain.Sighting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("upserting sighting for %q: empty key", sighting.Canonical)
	}
	if err := r.store.Upsert(key, sighting); err != nil {
		return fmt.Errorf("upserting sighting %s: %w", key, err)
	}
	return nil
}

// FindByCanonical returns the sightings recorded for a canonical channel
// name, most recent first.
func (r *sightingRepository) FindByCanonical(ctx context.Context, canonical string) ([]domain.Sighting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sightings []domain.Sighting
	query := bolthold.Where("Canonical").Eq(canonical).SortBy("LastSeen").Reverse().Index("Canonical")
	if err := r.store.Find(&sightings, query); err != nil {
		return nil, fmt.Errorf("finding sightings for %q: %w", canonical, err)
	}
	return sightings, nil
}

// DeleteOlderThan removes sightings last seen before the cutoff and returns
// how many were removed.
func (r *sightingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	query := bolthold.Where("LastSeen").Lt(cutoff)

	var stale []domain.Sighting
	if err := r.store.Find(&stale, query); err != nil {
		return 0, fmt.Errorf("finding stale sightings: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := r.store.DeleteMatching(&domain.Sighting{}, query); err != nil {
		return 0, fmt.Errorf("deleting stale sightings: %w", err)
	}
	return len(stale), nil
}

// Close closes the underlying store.
func (r *sightingRepository) Close() error {
	return r.store.Close()
}
