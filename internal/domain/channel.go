package domain

import "time"

// LineupEntry is one approved channel from the operator lineup. Canonical is
// the display name every published stream for this channel is renamed to.
// Ordinal is the 0-based position in the lineup file and fixes output order.
type LineupEntry struct {
	Canonical string
	Ordinal   int
	Group     string
}

// Stream is one entry parsed from a source feed, unmodified except for the
// AceStream identifiers extracted from its URL. Position is the 0-based parse
// order, kept for diagnostics and deterministic tie-breaking.
type Stream struct {
	Name      string
	URL       string
	TvgID     string
	TvgLogo   string
	Group     string
	LastFound int64
	InfoHash  string
	ContentID string
	Position  int
}

// HasAceID reports whether the stream carries an AceStream identifier.
func (s *Stream) HasAceID() bool {
	return s.InfoHash != "" || s.ContentID != ""
}

// Match is the scoring outcome for a single stream. Entry is nil when no
// lineup name reached the acceptance threshold.
type Match struct {
	Stream *Stream
	Entry  *LineupEntry
	Score  float64
}

// ResolvedChannel pairs a lineup entry with the single stream chosen to
// broadcast it this run. Recovered marks channels bridged from a previous
// run's sighting rather than the current feed.
type ResolvedChannel struct {
	Entry     LineupEntry
	Stream    Stream
	Score     float64
	Recovered bool
}

// Sighting records that a stream was published for a canonical channel, so a
// channel that drops out of the feed can be bridged for a bounded window.
type Sighting struct {
	Key       string
	Canonical string `boltholdIndex:"Canonical"`
	RawName   string
	URL       string
	InfoHash  string
	ContentID string
	TvgID     string
	TvgLogo   string
	Group     string
	LastSeen  time.Time
}

// RunReport summarizes one curation run for logging and report rendering.
type RunReport struct {
	PlaylistName string
	Channels     []ResolvedChannel
	Fetched      int
	Malformed    int
	Matched      int
	Unmatched    int
	Recovered    int
	Unfilled     int
}
