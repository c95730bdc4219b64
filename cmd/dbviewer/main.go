package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/timshannon/bolthold"

	"github.com/chanarr/chanarr/internal/domain"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
)

// SightingStats holds statistics about the sighting store
type SightingStats struct {
	Total          int
	UniqueChannels int
	Fresh          int
	Stale          int
	InfoHashKeys   int
	ContentIDKeys  int
	URLKeys        int
}

func main() {
	var (
		dbPath    = flag.String("db", "", "Path to the sightings database file (required)")
		showStats = flag.Bool("stats", false, "Show only statistics")
		channel   = flag.String("channel", "", "Show only channels whose name contains this text")
		staleOnly = flag.Bool("stale", false, "Show only sightings outside the window")
		window    = flag.Duration("window", 72*time.Hour, "Age after which a sighting counts as stale")
		noColor   = flag.Bool("no-color", false, "Disable colored output")
		sortBy    = flag.String("sort", "channel", "Sort by: channel, seen, key")
	)
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -db <database-path> [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s -db data/sightings.db -stats\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -db data/sightings.db -channel news -sort seen\n", os.Args[0])
		os.Exit(1)
	}

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: database file '%s' does not exist\n", *dbPath)
		os.Exit(1)
	}

	store, err := bolthold.Open(*dbPath, 0o600, &bolthold.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var sightings []*domain.Sighting
	if err := store.Find(&sightings, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sightings from database: %v\n", err)
		os.Exit(1)
	}

	cutoff := time.Now().Add(-*window)
	filtered := filterSightings(sightings, *channel, *staleOnly, cutoff)
	sortSightings(filtered, *sortBy)
	stats := calculateStats(sightings, cutoff)

	colorize := getColorizer(*noColor)
	printHeader(colorize, *dbPath, len(filtered), len(sightings))

	if *showStats {
		printStatistics(colorize, stats)
		return
	}

	printSightings(colorize, filtered, cutoff)

	fmt.Println(colorize("cyan", "=== SUMMARY ==="))
	printStatistics(colorize, stats)
}

func filterSightings(sightings []*domain.Sighting, channel string, staleOnly bool, cutoff time.Time) []*domain.Sighting {
	wanted := strings.ToLower(channel)

	var filtered []*domain.Sighting
	for _, s := range sightings {
		if wanted != "" && !strings.Contains(strings.ToLower(s.Canonical), wanted) {
			continue
		}
		if staleOnly && !s.LastSeen.Before(cutoff) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

func sortSightings(sightings []*domain.Sighting, sortBy string) {
	sort.Slice(sightings, func(i, j int) bool {
		switch sortBy {
		case "seen":
			return sightings[i].LastSeen.After(sightings[j].LastSeen)
		case "key":
			return sightings[i].Key < sightings[j].Key
		default: // channel
			if sightings[i].Canonical != sightings[j].Canonical {
				return sightings[i].Canonical < sightings[j].Canonical
			}
			return sightings[i].LastSeen.After(sightings[j].LastSeen)
		}
	})
}

func calculateStats(sightings []*domain.Sighting, cutoff time.Time) SightingStats {
	stats := SightingStats{}
	channels := make(map[string]bool)

	for _, s := range sightings {
		stats.Total++
		channels[s.Canonical] = true

		if s.LastSeen.Before(cutoff) {
			stats.Stale++
		} else {
			stats.Fresh++
		}

		switch {
		case s.InfoHash != "":
			stats.InfoHashKeys++
		case s.ContentID != "":
			stats.ContentIDKeys++
		default:
			stats.URLKeys++
		}
	}

	stats.UniqueChannels = len(channels)
	return stats
}

func getColorizer(noColor bool) func(string, string) string {
	if noColor {
		return func(color, text string) string { return text }
	}

	colors := map[string]string{
		"red":    ColorRed,
		"green":  ColorGreen,
		"yellow": ColorYellow,
		"cyan":   ColorCyan,
		"white":  ColorWhite,
		"bold":   ColorBold,
	}

	return func(color, text string) string {
		if c, ok := colors[color]; ok {
			return c + text + ColorReset
		}
		return text
	}
}

func printHeader(colorize func(string, string) string, dbPath string, filtered, total int) {
	fmt.Println(colorize("bold", "=== CHANARR SIGHTING VIEWER ==="))
	fmt.Printf(colorize("yellow", "Database: ")+"%s\n", filepath.Base(dbPath))
	fmt.Printf(colorize("yellow", "Showing: ")+"%d of %d sightings\n", filtered, total)
	fmt.Printf(colorize("yellow", "Scanned: ")+"%s\n\n", time.Now().Format("2006-01-02 15:04:05"))
}

func printStatistics(colorize func(string, string) string, stats SightingStats) {
	fmt.Println(colorize("bold", "SIGHTING STATISTICS"))
	fmt.Printf("  Total Sightings:  %s\n", colorize("white", fmt.Sprintf("%d", stats.Total)))
	fmt.Printf("  Unique Channels:  %s\n", colorize("white", fmt.Sprintf("%d", stats.UniqueChannels)))
	fmt.Printf("  Fresh:            %s\n", colorize("green", fmt.Sprintf("%d", stats.Fresh)))
	fmt.Printf("  Stale:            %s\n", colorize("yellow", fmt.Sprintf("%d", stats.Stale)))
	fmt.Printf("  InfoHash Keys:    %s\n", colorize("cyan", fmt.Sprintf("%d", stats.InfoHashKeys)))
	fmt.Printf("  Content ID Keys:  %s\n", colorize("cyan", fmt.Sprintf("%d", stats.ContentIDKeys)))
	fmt.Printf("  Plain URL Keys:   %s\n", colorize("cyan", fmt.Sprintf("%d", stats.URLKeys)))

	if stats.Total > 0 {
		freshPercent := float64(stats.Fresh) / float64(stats.Total) * 100
		fmt.Printf("  Recoverable:      %s\n", colorize("green", fmt.Sprintf("%.1f%%", freshPercent)))
	}
	fmt.Println()
}

func printSightings(colorize func(string, string) string, sightings []*domain.Sighting, cutoff time.Time) {
	fmt.Println(colorize("bold", "SIGHTINGS"))

	for i, s := range sightings {
		printSighting(colorize, s, i+1, cutoff)
	}
}

func printSighting(colorize func(string, string) string, s *domain.Sighting, index int, cutoff time.Time) {
	statusColor := "green"
	statusText := "FRESH"
	if s.LastSeen.Before(cutoff) {
		statusColor = "yellow"
		statusText = "STALE"
	}

	fmt.Printf("%s %s %s\n",
		colorize("white", fmt.Sprintf("[%03d]", index)),
		colorize("bold", s.Canonical),
		colorize(statusColor, fmt.Sprintf("[%s]", statusText)))

	details := []string{
		colorize("cyan", keyDescription(s)),
	}
	if s.RawName != "" && s.RawName != s.Canonical {
		details = append(details, colorize("white", fmt.Sprintf("as %q", s.RawName)))
	}
	if s.Group != "" {
		details = append(details, colorize("yellow", fmt.Sprintf("Group: %s", s.Group)))
	}
	fmt.Printf("    %s\n", strings.Join(details, " | "))

	fmt.Printf("    %s %s (%s ago)\n",
		colorize("white", "Last seen:"),
		s.LastSeen.Format("2006-01-02 15:04"),
		formatAge(time.Since(s.LastSeen)))

	fmt.Println()
}

func keyDescription(s *domain.Sighting) string {
	switch {
	case s.InfoHash != "":
		return "infohash " + s.InfoHash
	case s.ContentID != "":
		return "content id " + s.ContentID
	default:
		return "url " + s.Key
	}
}

func formatAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%.1fh", age.Hours())
	default:
		return fmt.Sprintf("%.1fd", age.Hours()/24)
	}
}
