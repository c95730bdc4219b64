package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/m3u"
	"github.com/chanarr/chanarr/internal/match"
	"github.com/chanarr/chanarr/internal/similarity"
)

// Environment variables recognized by FromEnv.
const (
	envPlaylistName = "CHANARR_PLAYLIST_NAME"
	envLineup       = "CHANARR_LINEUP"
	envM3UURL       = "CHANARR_M3U_URL"
	envAPIURL       = "CHANARR_API_URL"
	envReplacements = "CHANARR_REPLACEMENTS"
	envLogos        = "CHANARR_LOGOS"
	envOutputDir    = "CHANARR_OUTPUT_DIR"
	envDataDir      = "CHANARR_DATA_DIR"
	envThreshold    = "CHANARR_THRESHOLD"
	envScorer       = "CHANARR_SCORER"
	envLogLevel     = "CHANARR_LOG_LEVEL"
)

const (
	defaultPlaylistName = "default"
	defaultAPIURL       = "https://api.acestream.me/all?api_version=1&api_key=test_api_key"
	defaultReplacements = "channel_name_replacements.csv"
	defaultLogos        = "channel_logos.xml"
	defaultOutputDir    = "playlists"
	defaultDataDir      = "data"
	defaultThreshold    = 80
	defaultLogoCutoff   = 80
	defaultLogoPartial  = 75
	defaultWindow       = 72 * time.Hour
	defaultFetchTimeout = 10 * time.Second
	defaultLogLevel     = "info"
)

// Config holds every tuning knob of a curation run. Precedence, lowest to
// highest: built-in defaults, environment, TOML profile, CLI flags.
type Config struct {
	PlaylistName string
	LineupPath   string
	M3UURL       string
	APIURL       string

	ReplacementsPath string
	LogosPath        string
	OutputDir        string
	DataDir          string

	Threshold        float64
	Scorer           string
	NoiseTerms       []string
	FoldDiacritics   bool
	StripCountryTags bool

	LogoPrimaryCutoff float64
	LogoPartialCutoff float64

	SportWords []string
	Schemes    []string

	Recover        bool
	RecoveryWindow time.Duration

	FetchTimeout time.Duration
	LogLevel     string

	// DryRun is set from the CLI only: render to stdout, touch nothing.
	DryRun bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PlaylistName:      defaultPlaylistName,
		APIURL:            defaultAPIURL,
		ReplacementsPath:  defaultReplacements,
		LogosPath:         defaultLogos,
		OutputDir:         defaultOutputDir,
		DataDir:           defaultDataDir,
		Threshold:         defaultThreshold,
		Scorer:            similarity.NameRatio,
		NoiseTerms:        match.DefaultNoiseTerms(),
		FoldDiacritics:    true,
		StripCountryTags:  true,
		LogoPrimaryCutoff: defaultLogoCutoff,
		LogoPartialCutoff: defaultLogoPartial,
		SportWords:        defaultSportWords(),
		Schemes:           defaultSchemes(),
		Recover:           true,
		RecoveryWindow:    defaultWindow,
		FetchTimeout:      defaultFetchTimeout,
		LogLevel:          defaultLogLevel,
	}
}

// FromEnv returns the defaults overlaid with any CHANARR_* environment
// variables that are set.
func FromEnv() (*Config, error) {
	cfg := Default()

	cfg.PlaylistName = getEnvOrDefault(envPlaylistName, cfg.PlaylistName)
	cfg.LineupPath = getEnvOrDefault(envLineup, cfg.LineupPath)
	cfg.M3UURL = getEnvOrDefault(envM3UURL, cfg.M3UURL)
	cfg.APIURL = getEnvOrDefault(envAPIURL, cfg.APIURL)
	cfg.ReplacementsPath = getEnvOrDefault(envReplacements, cfg.ReplacementsPath)
	cfg.LogosPath = getEnvOrDefault(envLogos, cfg.LogosPath)
	cfg.OutputDir = getEnvOrDefault(envOutputDir, cfg.OutputDir)
	cfg.DataDir = getEnvOrDefault(envDataDir, cfg.DataDir)
	cfg.Scorer = getEnvOrDefault(envScorer, cfg.Scorer)
	cfg.LogLevel = getEnvOrDefault(envLogLevel, cfg.LogLevel)

	if raw := os.Getenv(envThreshold); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", envThreshold, err)
		}
		cfg.Threshold = value
	}

	return cfg, nil
}

// Validate checks the assembled configuration. It is called once, after all
// overlay layers have been applied.
func (c *Config) Validate() error {
	if c.PlaylistName == "" {
		return fmt.Errorf("playlist name must not be empty")
	}
	if c.LineupPath == "" {
		return fmt.Errorf("lineup path is required")
	}
	if c.M3UURL == "" && c.APIURL == "" {
		return domain.ErrNoSource
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("threshold %v out of range [0, 100]", c.Threshold)
	}
	if c.LogoPrimaryCutoff < 0 || c.LogoPrimaryCutoff > 100 {
		return fmt.Errorf("logo primary cutoff %v out of range [0, 100]", c.LogoPrimaryCutoff)
	}
	if c.LogoPartialCutoff < 0 || c.LogoPartialCutoff > 100 {
		return fmt.Errorf("logo partial cutoff %v out of range [0, 100]", c.LogoPartialCutoff)
	}
	if _, err := similarity.ForName(c.Scorer); err != nil {
		return err
	}
	if _, err := m3u.SchemesByName(c.Schemes); err != nil {
		return err
	}
	if len(c.Schemes) == 0 {
		return fmt.Errorf("at least one playlist scheme is required")
	}
	if c.RecoveryWindow <= 0 {
		return fmt.Errorf("recovery window must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func defaultSchemes() []string {
	return []string{
		m3u.SchemeLocalInfoHash,
		m3u.SchemeLocalContentID,
		m3u.SchemeAce,
		m3u.SchemeHorus,
	}
}

func defaultSportWords() []string {
	return []string{
		"football", "soccer", "basketball", "nba", "sport", "tennis",
		"espn", "moto", "formula 1", "f1", "hockey", "cricket", "rugby",
		"golf", "fórmula 1",
	}
}
