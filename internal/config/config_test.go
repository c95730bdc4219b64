package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chanarr/chanarr/internal/domain"
)

func validConfig() *Config {
	cfg := Default()
	cfg.LineupPath = "lineup.csv"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.PlaylistName != "default" {
		t.Errorf("PlaylistName = %q, want %q", cfg.PlaylistName, "default")
	}
	if cfg.Threshold != 80 {
		t.Errorf("Threshold = %v, want 80", cfg.Threshold)
	}
	if cfg.Scorer != "ratio" {
		t.Errorf("Scorer = %q, want %q", cfg.Scorer, "ratio")
	}
	if len(cfg.Schemes) != 4 {
		t.Errorf("Schemes = %v, want all four schemes", cfg.Schemes)
	}
	if !cfg.Recover {
		t.Error("Recover should default to true")
	}
	if cfg.RecoveryWindow != 72*time.Hour {
		t.Errorf("RecoveryWindow = %v, want 72h", cfg.RecoveryWindow)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.M3UURL != "" {
		t.Errorf("M3UURL = %q, want empty", cfg.M3UURL)
	}
	if cfg.APIURL == "" {
		t.Error("APIURL should have a default")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CHANARR_PLAYLIST_NAME", "sports")
	t.Setenv("CHANARR_LINEUP", "/etc/chanarr/lineup.csv")
	t.Setenv("CHANARR_THRESHOLD", "72.5")
	t.Setenv("CHANARR_SCORER", "token-sort")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
	if cfg.PlaylistName != "sports" {
		t.Errorf("PlaylistName = %q, want %q", cfg.PlaylistName, "sports")
	}
	if cfg.LineupPath != "/etc/chanarr/lineup.csv" {
		t.Errorf("LineupPath = %q, want the env value", cfg.LineupPath)
	}
	if cfg.Threshold != 72.5 {
		t.Errorf("Threshold = %v, want 72.5", cfg.Threshold)
	}
	if cfg.Scorer != "token-sort" {
		t.Errorf("Scorer = %q, want %q", cfg.Scorer, "token-sort")
	}
	// Untouched knobs keep their defaults.
	if cfg.OutputDir != "playlists" {
		t.Errorf("OutputDir = %q, want default", cfg.OutputDir)
	}
}

func TestFromEnvRejectsBadThreshold(t *testing.T) {
	t.Setenv("CHANARR_THRESHOLD", "not-a-number")

	if _, err := FromEnv(); err == nil {
		t.Error("expected an error for a malformed threshold")
	}
}

func TestApplyProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	body := `
playlist_name = "movies"
threshold = 65.0
schemes = ["ace"]
recover = false
recovery_window = "24h"
noise_terms = ["hd"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}

	cfg := validConfig()
	if err := cfg.ApplyProfile(path); err != nil {
		t.Fatalf("ApplyProfile returned error: %v", err)
	}

	if cfg.PlaylistName != "movies" {
		t.Errorf("PlaylistName = %q, want %q", cfg.PlaylistName, "movies")
	}
	if cfg.Threshold != 65 {
		t.Errorf("Threshold = %v, want 65", cfg.Threshold)
	}
	if len(cfg.Schemes) != 1 || cfg.Schemes[0] != "ace" {
		t.Errorf("Schemes = %v, want [ace]", cfg.Schemes)
	}
	if cfg.Recover {
		t.Error("Recover should be overridden to false")
	}
	if cfg.RecoveryWindow != 24*time.Hour {
		t.Errorf("RecoveryWindow = %v, want 24h", cfg.RecoveryWindow)
	}
	if len(cfg.NoiseTerms) != 1 || cfg.NoiseTerms[0] != "hd" {
		t.Errorf("NoiseTerms = %v, want [hd]", cfg.NoiseTerms)
	}
	// Keys absent from the profile keep their values.
	if cfg.LineupPath != "lineup.csv" {
		t.Errorf("LineupPath = %q, want untouched value", cfg.LineupPath)
	}
	if cfg.Scorer != "ratio" {
		t.Errorf("Scorer = %q, want untouched default", cfg.Scorer)
	}
}

func TestApplyProfileErrors(t *testing.T) {
	cfg := validConfig()

	if err := cfg.ApplyProfile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing profile")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("threshold = [not valid"), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
	if err := cfg.ApplyProfile(bad); err == nil {
		t.Error("expected an error for invalid TOML")
	}

	badWindow := filepath.Join(t.TempDir(), "window.toml")
	if err := os.WriteFile(badWindow, []byte(`recovery_window = "three days"`), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
	if err := cfg.ApplyProfile(badWindow); err == nil {
		t.Error("expected an error for an unparseable duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		wantIs  error
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing lineup",
			mutate:  func(c *Config) { c.LineupPath = "" },
			wantErr: true,
		},
		{
			name: "no sources",
			mutate: func(c *Config) {
				c.M3UURL = ""
				c.APIURL = ""
			},
			wantErr: true,
			wantIs:  domain.ErrNoSource,
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Threshold = 101 },
			wantErr: true,
		},
		{
			name:    "unknown scorer",
			mutate:  func(c *Config) { c.Scorer = "metaphone" },
			wantErr: true,
		},
		{
			name:    "unknown scheme",
			mutate:  func(c *Config) { c.Schemes = []string{"webtorrent"} },
			wantErr: true,
		},
		{
			name:    "no schemes",
			mutate:  func(c *Config) { c.Schemes = nil },
			wantErr: true,
		},
		{
			name:    "zero recovery window",
			mutate:  func(c *Config) { c.RecoveryWindow = 0 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: true,
		},
		{
			name:    "empty playlist name",
			mutate:  func(c *Config) { c.PlaylistName = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
					t.Errorf("err = %v, want %v", err, tt.wantIs)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate returned error: %v", err)
			}
		})
	}
}
