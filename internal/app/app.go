package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/timshannon/bolthold"

	"github.com/chanarr/chanarr/internal/clients"
	"github.com/chanarr/chanarr/internal/config"
	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/lineup"
	"github.com/chanarr/chanarr/internal/m3u"
	"github.com/chanarr/chanarr/internal/match"
	"github.com/chanarr/chanarr/internal/publish"
	"github.com/chanarr/chanarr/internal/service"
	"github.com/chanarr/chanarr/internal/similarity"
	"github.com/chanarr/chanarr/internal/storage"
)

const (
	sightingsDBFile = "sightings.db"
	dataDirMode     = 0o755
	dbFileMode      = 0o600
)

type App struct {
	cfg     *config.Config
	store   *bolthold.Store
	curator *service.CuratorService
}

// New builds a fully wired application from a validated configuration. The
// sighting store is only opened when gap recovery is on.
func New(cfg *config.Config) (*App, error) {
	entries, err := lineup.LoadFile(cfg.LineupPath)
	if err != nil {
		return nil, fmt.Errorf("loading lineup: %w", err)
	}

	app := &App{cfg: cfg}

	if cfg.Recover {
		store, err := openStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		app.store = store
	}

	if err := app.wireServices(entries); err != nil {
		app.Close()
		return nil, fmt.Errorf("wiring services: %w", err)
	}
	return app, nil
}

func openStore(cfg *config.Config) (*bolthold.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, dataDirMode); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := bolthold.Open(filepath.Join(cfg.DataDir, sightingsDBFile), dbFileMode, nil)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

func (a *App) wireServices(entries []domain.LineupEntry) error {
	matcher, err := a.createMatcher()
	if err != nil {
		return err
	}
	publisher, err := a.createPublisher()
	if err != nil {
		return err
	}

	logos := service.LoadLogos(a.cfg.LogosPath, a.cfg.LogoPrimaryCutoff, a.cfg.LogoPartialCutoff)

	var recoverer *service.Recoverer
	if a.store != nil {
		repo := storage.NewSightingRepository(a.store)
		recoverer = service.NewRecoverer(repo, a.cfg.RecoveryWindow, nil)
	}

	a.curator = service.NewCuratorService(a.cfg, entries, service.Deps{
		Sources:   a.createSources(),
		Replacer:  service.LoadReplacements(a.cfg.ReplacementsPath),
		Matcher:   matcher,
		Enricher:  service.NewEnricher(logos, a.cfg.SportWords),
		Recoverer: recoverer,
		Publisher: publisher,
		DryRunOut: os.Stdout,
	})
	return nil
}

func (a *App) createSources() []domain.StreamSource {
	client := &http.Client{Timeout: a.cfg.FetchTimeout}

	var sources []domain.StreamSource
	if a.cfg.M3UURL != "" {
		sources = append(sources, clients.NewFeedSource(a.cfg.M3UURL, client))
	}
	if a.cfg.APIURL != "" {
		sources = append(sources, clients.NewAceAPISource(a.cfg.APIURL, client))
	}
	return sources
}

func (a *App) createMatcher() (*match.Matcher, error) {
	scorer, err := similarity.ForName(a.cfg.Scorer)
	if err != nil {
		return nil, fmt.Errorf("creating scorer: %w", err)
	}
	normalizer := match.NewNormalizer(match.NormalizerOptions{
		FoldDiacritics:  a.cfg.FoldDiacritics,
		StripCountryTag: a.cfg.StripCountryTags,
		NoiseTerms:      a.cfg.NoiseTerms,
	})
	return match.NewMatcher(normalizer, scorer, a.cfg.Threshold), nil
}

func (a *App) createPublisher() (*publish.Publisher, error) {
	schemes, err := m3u.SchemesByName(a.cfg.Schemes)
	if err != nil {
		return nil, fmt.Errorf("resolving schemes: %w", err)
	}
	return publish.NewPublisher(a.cfg.OutputDir, a.cfg.PlaylistName, schemes), nil
}

// Run executes one curation pass.
func (a *App) Run(ctx context.Context) (*domain.RunReport, error) {
	return a.curator.Run(ctx)
}

// Close releases the sighting store. Safe to call on a partially built app.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
