package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/chanarr/chanarr/internal/domain"
)

// Recoverer bridges channels that drop out of the source feeds: every
// published channel leaves a sighting behind, and a lineup entry with no
// current stream is refilled from its most recent sighting while that
// sighting is younger than the window.
type Recoverer struct {
	repo   domain.SightingRepository
	window time.Duration
	now    func() time.Time
}

// NewRecoverer builds a recoverer. A nil clock defaults to time.Now.
func NewRecoverer(repo domain.SightingRepository, window time.Duration, now func() time.Time) *Recoverer {
	if now == nil {
		now = time.Now
	}
	return &Recoverer{
		repo:   repo,
		window: window,
		now:    now,
	}
}

// RecordSightings upserts a sighting for every live channel. Streams without
// any usable key are skipped; individual store failures are logged and do
// not abort the run.
func (r *Recoverer) RecordSightings(ctx context.Context, channels []domain.ResolvedChannel) error {
	seen := r.now()
	for i := range channels {
		channel := &channels[i]
		if channel.Recovered {
			continue
		}

		key := sightingKey(&channel.Stream)
		if key == "" {
			r.logUnkeyedStream(channel)
			continue
		}

		sighting := buildSighting(key, channel, seen)
		if err := r.repo.Upsert(ctx, key, sighting); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logRecordError(channel, err)
		}
	}
	return nil
}

// Recover returns bridged channels for the lineup entries missing from this
// run, ordered by ordinal. Recovered sightings keep their stored LastSeen,
// so a channel that stays gone ages out of the window naturally.
func (r *Recoverer) Recover(ctx context.Context, entries []domain.LineupEntry, filled map[int]bool) ([]domain.ResolvedChannel, error) {
	cutoff := r.now().Add(-r.window)

	var recovered []domain.ResolvedChannel
	for i := range entries {
		entry := entries[i]
		if filled[entry.Ordinal] {
			continue
		}

		sightings, err := r.repo.FindByCanonical(ctx, entry.Canonical)
		if err != nil {
			return nil, err
		}
		if len(sightings) == 0 {
			continue
		}

		// Sightings arrive most recent first.
		latest := sightings[0]
		if latest.LastSeen.Before(cutoff) {
			continue
		}

		recovered = append(recovered, domain.ResolvedChannel{
			Entry:     entry,
			Stream:    streamFromSighting(&latest),
			Recovered: true,
		})
		r.logRecoveredChannel(&entry, &latest)
	}
	return recovered, nil
}

// Prune deletes sightings older than the window and returns the count.
func (r *Recoverer) Prune(ctx context.Context) (int, error) {
	return r.repo.DeleteOlderThan(ctx, r.now().Add(-r.window))
}

func sightingKey(stream *domain.Stream) string {
	switch {
	case stream.InfoHash != "":
		return stream.InfoHash
	case stream.ContentID != "":
		return stream.ContentID
	default:
		return stream.URL
	}
}

func buildSighting(key string, channel *domain.ResolvedChannel, seen time.Time) *domain.Sighting {
	return &domain.Sighting{
		Key:       key,
		Canonical: channel.Entry.Canonical,
		RawName:   channel.Stream.Name,
		URL:       channel.Stream.URL,
		InfoHash:  channel.Stream.InfoHash,
		ContentID: channel.Stream.ContentID,
		TvgID:     channel.Stream.TvgID,
		TvgLogo:   channel.Stream.TvgLogo,
		Group:     channel.Stream.Group,
		LastSeen:  seen,
	}
}

// streamFromSighting rebuilds a publishable stream. LastFound carries the
// sighting's timestamp so consumers can see how stale the bridge is; live
// streams publish zero there.
func streamFromSighting(sighting *domain.Sighting) domain.Stream {
	return domain.Stream{
		Name:      sighting.RawName,
		URL:       sighting.URL,
		TvgID:     sighting.TvgID,
		TvgLogo:   sighting.TvgLogo,
		Group:     sighting.Group,
		LastFound: sighting.LastSeen.Unix(),
		InfoHash:  sighting.InfoHash,
		ContentID: sighting.ContentID,
	}
}

func (r *Recoverer) logUnkeyedStream(channel *domain.ResolvedChannel) {
	log.WithFields(log.Fields{
		"canonical": channel.Entry.Canonical,
		"rawName":   channel.Stream.Name,
	}).Debug("stream has no identifier to key a sighting on")
}

func (r *Recoverer) logRecordError(channel *domain.ResolvedChannel, err error) {
	log.WithFields(log.Fields{
		"error":     err,
		"canonical": channel.Entry.Canonical,
	}).Error("failed to record sighting")
}

func (r *Recoverer) logRecoveredChannel(entry *domain.LineupEntry, sighting *domain.Sighting) {
	log.WithFields(log.Fields{
		"canonical": entry.Canonical,
		"lastSeen":  sighting.LastSeen,
		"key":       sighting.Key,
	}).Info("bridging channel from previous sighting")
}
