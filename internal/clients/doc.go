// Package clients provides the stream source adapters: the HTTP M3U feed and
// the AceStream directory API. Both satisfy domain.StreamSource.
package clients
