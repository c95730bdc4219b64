package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/chanarr/chanarr/internal/app"
	"github.com/chanarr/chanarr/internal/config"
)

func main() {
	cliApp := &cli.App{
		Name:  "chanarr",
		Usage: "curate AceStream playlists against an approved channel lineup",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "fetch streams, match them against the lineup, and publish playlists",
				Flags:  runFlags(),
				Action: runCuration,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.WithError(err).Fatal("chanarr failed")
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML profile to overlay on the environment"},
		&cli.StringFlag{Name: "playlist-name", Aliases: []string{"n"}, Usage: "name prefix of the published playlist files"},
		&cli.StringFlag{Name: "lineup", Aliases: []string{"l"}, Usage: "CSV of approved channel names, one per row"},
		&cli.StringFlag{Name: "m3u-url", Usage: "M3U feed to pull candidate streams from"},
		&cli.StringFlag{Name: "api-url", Usage: "AceStream directory API to pull candidate streams from"},
		&cli.StringFlag{Name: "replacements", Usage: "CSV of old,new name rewrites applied before matching"},
		&cli.StringFlag{Name: "logos", Usage: "XML file of curated channel logos"},
		&cli.StringFlag{Name: "output-dir", Usage: "directory the playlists are written to"},
		&cli.StringFlag{Name: "data-dir", Usage: "directory holding the sighting database"},
		&cli.Float64Flag{Name: "threshold", Usage: "minimum similarity score (0-100) to accept a match"},
		&cli.StringFlag{Name: "scorer", Usage: "similarity scorer: ratio, token-sort, partial, or jaro-winkler"},
		&cli.BoolFlag{Name: "report", Usage: "print a per-channel table after the run"},
		&cli.BoolFlag{Name: "dry-run", Usage: "render the first scheme to stdout without writing anything"},
		&cli.BoolFlag{Name: "no-recover", Usage: "disable bridging gaps from past sightings"},
		&cli.StringFlag{Name: "log-level", Usage: "logrus level: debug, info, warn, error"},
	}
}

func runCuration(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(level)

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.WithError(err).Error("failed to close sighting store")
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := application.Run(ctx)
	if err != nil {
		return err
	}

	if c.Bool("report") {
		printReport(os.Stdout, report)
	}
	return nil
}

// buildConfig layers the sources in precedence order: defaults, environment,
// TOML profile, CLI flags.
func buildConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if path := c.String("config"); path != "" {
		if err := cfg.ApplyProfile(path); err != nil {
			return nil, fmt.Errorf("applying profile: %w", err)
		}
	}

	applyFlags(cfg, c)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, c *cli.Context) {
	if c.IsSet("playlist-name") {
		cfg.PlaylistName = c.String("playlist-name")
	}
	if c.IsSet("lineup") {
		cfg.LineupPath = c.String("lineup")
	}
	if c.IsSet("m3u-url") {
		cfg.M3UURL = c.String("m3u-url")
	}
	if c.IsSet("api-url") {
		cfg.APIURL = c.String("api-url")
	}
	if c.IsSet("replacements") {
		cfg.ReplacementsPath = c.String("replacements")
	}
	if c.IsSet("logos") {
		cfg.LogosPath = c.String("logos")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("threshold") {
		cfg.Threshold = c.Float64("threshold")
	}
	if c.IsSet("scorer") {
		cfg.Scorer = c.String("scorer")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("dry-run") {
		cfg.DryRun = true
	}
	if c.Bool("no-recover") {
		cfg.Recover = false
	}
}
