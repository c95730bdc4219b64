// Package m3u implements the extended M3U wire format used by the curation
// pipeline: lenient parsing of source feeds, AceStream identifier extraction,
// and deterministic rendering of the published playlists.
package m3u
