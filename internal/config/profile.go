package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// profile mirrors the TOML profile file. Every field is optional; only keys
// present in the file overlay the config.
type profile struct {
	PlaylistName *string `toml:"playlist_name"`
	Lineup       *string `toml:"lineup"`
	M3UURL       *string `toml:"m3u_url"`
	APIURL       *string `toml:"api_url"`

	Replacements *string `toml:"replacements"`
	Logos        *string `toml:"logos"`
	OutputDir    *string `toml:"output_dir"`
	DataDir      *string `toml:"data_dir"`

	Threshold        *float64 `toml:"threshold"`
	Scorer           *string  `toml:"scorer"`
	NoiseTerms       []string `toml:"noise_terms"`
	FoldDiacritics   *bool    `toml:"fold_diacritics"`
	StripCountryTags *bool    `toml:"strip_country_tags"`

	LogoPrimaryCutoff *float64 `toml:"logo_primary_cutoff"`
	LogoPartialCutoff *float64 `toml:"logo_partial_cutoff"`

	SportWords []string `toml:"sport_words"`
	Schemes    []string `toml:"schemes"`

	Recover        *bool   `toml:"recover"`
	RecoveryWindow *string `toml:"recovery_window"`

	FetchTimeout *string `toml:"fetch_timeout"`
	LogLevel     *string `toml:"log_level"`
}

// ApplyProfile overlays a TOML profile file onto the config. Durations are
// written as Go duration strings, for example "72h".
func (c *Config) ApplyProfile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening profile: %w", err)
	}
	defer file.Close()

	var p profile
	if err := toml.NewDecoder(file).Decode(&p); err != nil {
		return fmt.Errorf("decoding profile %s: %w", path, err)
	}

	setString(&c.PlaylistName, p.PlaylistName)
	setString(&c.LineupPath, p.Lineup)
	setString(&c.M3UURL, p.M3UURL)
	setString(&c.APIURL, p.APIURL)
	setString(&c.ReplacementsPath, p.Replacements)
	setString(&c.LogosPath, p.Logos)
	setString(&c.OutputDir, p.OutputDir)
	setString(&c.DataDir, p.DataDir)
	setString(&c.Scorer, p.Scorer)
	setString(&c.LogLevel, p.LogLevel)

	if p.Threshold != nil {
		c.Threshold = *p.Threshold
	}
	if p.LogoPrimaryCutoff != nil {
		c.LogoPrimaryCutoff = *p.LogoPrimaryCutoff
	}
	if p.LogoPartialCutoff != nil {
		c.LogoPartialCutoff = *p.LogoPartialCutoff
	}
	if p.NoiseTerms != nil {
		c.NoiseTerms = p.NoiseTerms
	}
	if p.SportWords != nil {
		c.SportWords = p.SportWords
	}
	if p.Schemes != nil {
		c.Schemes = p.Schemes
	}
	if p.FoldDiacritics != nil {
		c.FoldDiacritics = *p.FoldDiacritics
	}
	if p.StripCountryTags != nil {
		c.StripCountryTags = *p.StripCountryTags
	}
	if p.Recover != nil {
		c.Recover = *p.Recover
	}

	if p.RecoveryWindow != nil {
		window, err := time.ParseDuration(*p.RecoveryWindow)
		if err != nil {
			return fmt.Errorf("parsing recovery_window: %w", err)
		}
		c.RecoveryWindow = window
	}
	if p.FetchTimeout != nil {
		timeout, err := time.ParseDuration(*p.FetchTimeout)
		if err != nil {
			return fmt.Errorf("parsing fetch_timeout: %w", err)
		}
		c.FetchTimeout = timeout
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
