package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/chanarr/chanarr/internal/config"
	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/match"
)

// Deps collects the collaborators a curation run needs. Recoverer may be nil
// when gap bridging is disabled; everything else is required.
type Deps struct {
	Sources   []domain.StreamSource
	Replacer  *Replacer
	Matcher   *match.Matcher
	Enricher  *Enricher
	Recoverer *Recoverer
	Publisher domain.PlaylistPublisher
	DryRunOut io.Writer
}

// CuratorService runs the full pipeline: fetch candidate streams, match them
// against the lineup, resolve one stream per channel, bridge gaps from past
// sightings, and publish one playlist per scheme.
type CuratorService struct {
	cfg     *config.Config
	entries []domain.LineupEntry
	deps    Deps
}

func NewCuratorService(cfg *config.Config, entries []domain.LineupEntry, deps Deps) *CuratorService {
	return &CuratorService{
		cfg:     cfg,
		entries: entries,
		deps:    deps,
	}
}

// Run executes one curation pass and returns its report. The report is
// returned even when publishing fails so callers can still inspect counts.
func (s *CuratorService) Run(ctx context.Context) (*domain.RunReport, error) {
	streams, malformed, err := s.fetchStreams(ctx)
	if err != nil {
		return nil, err
	}

	s.applyReplacements(streams)

	matches := s.deps.Matcher.Match(streams, s.entries)
	resolved := match.Resolve(matches, len(s.entries))
	markLive(resolved)
	s.deps.Enricher.Enrich(resolved)

	recovered, err := s.bridgeGaps(ctx, resolved)
	if err != nil {
		return nil, err
	}

	channels := mergeByOrdinal(resolved, recovered)
	report := s.buildReport(channels, matches, len(streams), malformed, len(recovered))
	s.logRunSummary(report)

	if err := s.publish(ctx, channels); err != nil {
		return report, err
	}
	return report, nil
}

// fetchStreams concatenates every source's streams in configuration order and
// renumbers positions globally so later tie-breaks are deterministic. A source
// failure is tolerated unless every source fails.
func (s *CuratorService) fetchStreams(ctx context.Context) ([]domain.Stream, int, error) {
	var (
		streams   []domain.Stream
		malformed int
		failures  int
	)
	for _, source := range s.deps.Sources {
		fetched, skipped, err := source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			failures++
			s.logSourceError(source, err)
			continue
		}
		s.logFetchedSource(source, len(fetched), skipped)
		streams = append(streams, fetched...)
		malformed += skipped
	}
	if failures > 0 && failures == len(s.deps.Sources) {
		return nil, 0, fmt.Errorf("all %d stream sources failed", failures)
	}

	for i := range streams {
		streams[i].Position = i
	}
	return streams, malformed, nil
}

func (s *CuratorService) applyReplacements(streams []domain.Stream) {
	if s.deps.Replacer == nil || s.deps.Replacer.Len() == 0 {
		return
	}
	for i := range streams {
		streams[i].Name = s.deps.Replacer.Apply(streams[i].Name)
	}
}

// bridgeGaps records this run's live channels as sightings, recovers unfilled
// lineup entries from recent sightings, and prunes expired ones. Dry runs
// still recover, for a realistic preview, but never write to the store.
func (s *CuratorService) bridgeGaps(ctx context.Context, resolved []domain.ResolvedChannel) ([]domain.ResolvedChannel, error) {
	if s.deps.Recoverer == nil {
		return nil, nil
	}

	if !s.cfg.DryRun {
		if err := s.deps.Recoverer.RecordSightings(ctx, resolved); err != nil {
			return nil, err
		}
	}

	recovered, err := s.deps.Recoverer.Recover(ctx, s.entries, filledOrdinals(resolved))
	if err != nil {
		return nil, err
	}

	if !s.cfg.DryRun {
		if pruned, err := s.deps.Recoverer.Prune(ctx); err != nil {
			s.logPruneError(err)
		} else if pruned > 0 {
			log.WithFields(log.Fields{
				"pruned": pruned,
			}).Info("pruned expired sightings")
		}
	}
	return recovered, nil
}

func (s *CuratorService) publish(ctx context.Context, channels []domain.ResolvedChannel) error {
	if s.cfg.DryRun {
		return s.deps.Publisher.DryRun(s.deps.DryRunOut, channels)
	}

	paths, err := s.deps.Publisher.Publish(ctx, channels)
	if err != nil {
		return err
	}
	s.logPublishedPaths(paths)
	return nil
}

func (s *CuratorService) buildReport(channels []domain.ResolvedChannel, matches []domain.Match, fetched, malformed, recovered int) *domain.RunReport {
	matched := countMatched(matches)
	return &domain.RunReport{
		PlaylistName: s.cfg.PlaylistName,
		Channels:     channels,
		Fetched:      fetched,
		Malformed:    malformed,
		Matched:      matched,
		Unmatched:    fetched - matched,
		Recovered:    recovered,
		Unfilled:     len(s.entries) - len(channels),
	}
}

// markLive zeroes the last-found timestamp on every channel resolved from the
// current feeds; only recovered channels publish a non-zero value.
func markLive(resolved []domain.ResolvedChannel) {
	for i := range resolved {
		resolved[i].Stream.LastFound = 0
	}
}

func filledOrdinals(resolved []domain.ResolvedChannel) map[int]bool {
	filled := make(map[int]bool, len(resolved))
	for i := range resolved {
		filled[resolved[i].Entry.Ordinal] = true
	}
	return filled
}

// mergeByOrdinal interleaves live and recovered channels back into lineup
// order. The two lists cover disjoint ordinals.
func mergeByOrdinal(resolved, recovered []domain.ResolvedChannel) []domain.ResolvedChannel {
	channels := make([]domain.ResolvedChannel, 0, len(resolved)+len(recovered))
	channels = append(channels, resolved...)
	channels = append(channels, recovered...)
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].Entry.Ordinal < channels[j].Entry.Ordinal
	})
	return channels
}

func countMatched(matches []domain.Match) int {
	matched := 0
	for i := range matches {
		if matches[i].Entry != nil {
			matched++
		} else if matches[i].Stream != nil {
			log.WithFields(log.Fields{
				"rawName": matches[i].Stream.Name,
				"score":   matches[i].Score,
			}).Debug("stream matched no lineup channel")
		}
	}
	return matched
}

func (s *CuratorService) logSourceError(source domain.StreamSource, err error) {
	log.WithFields(log.Fields{
		"error":  err,
		"source": source.Name(),
	}).Error("failed to fetch streams from source")
}

func (s *CuratorService) logFetchedSource(source domain.StreamSource, count, skipped int) {
	log.WithFields(log.Fields{
		"source":    source.Name(),
		"streams":   count,
		"malformed": skipped,
	}).Info("fetched streams from source")
}

func (s *CuratorService) logPruneError(err error) {
	log.WithFields(log.Fields{
		"error": err,
	}).Warn("failed to prune expired sightings")
}

func (s *CuratorService) logPublishedPaths(paths []string) {
	log.WithFields(log.Fields{
		"playlists": paths,
	}).Info("published playlists")
}

func (s *CuratorService) logRunSummary(report *domain.RunReport) {
	log.WithFields(log.Fields{
		"playlist":  report.PlaylistName,
		"fetched":   report.Fetched,
		"malformed": report.Malformed,
		"matched":   report.Matched,
		"unmatched": report.Unmatched,
		"recovered": report.Recovered,
		"unfilled":  report.Unfilled,
	}).Info("curation run finished")
}
