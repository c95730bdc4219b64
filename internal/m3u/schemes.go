package m3u

import (
	"fmt"
	"strings"

	"github.com/chanarr/chanarr/internal/domain"
)

// Names of the URI schemes a playlist can be published under.
const (
	SchemeLocalInfoHash  = "local_infohash"
	SchemeLocalContentID = "local_content_id"
	SchemeAce            = "ace"
	SchemeHorus          = "horus"
)

// URL prefixes that carry an AceStream content id. Order matters only for
// readability; the prefixes are mutually exclusive.
var contentIDPrefixes = []string{
	"acestream://",
	"http://127.0.0.1:6878/ace/getstream?id=",
	"http://127.0.0.1:6878/ace/getstream?content_id=",
	"http://127.0.0.1:6878/ace/manifest.m3u8?id=",
	"http://127.0.0.1:6878/ace/manifest.m3u8?content_id=",
	"plugin://script.module.horus?action=play&id=",
}

// URL prefixes that carry an AceStream infohash.
var infoHashPrefixes = []string{
	"http://127.0.0.1:6878/ace/getstream?infohash=",
	"http://127.0.0.1:6878/ace/manifest.m3u8?infohash=",
}

// Scheme describes one publishable URI flavor: the prefix the stream
// identifier is appended to and which identifier kind the scheme needs.
type Scheme struct {
	Name         string
	Prefix       string
	UsesInfoHash bool
}

// DefaultSchemes returns every supported scheme in publish order.
func DefaultSchemes() []Scheme {
	return []Scheme{
		{Name: SchemeLocalInfoHash, Prefix: "http://127.0.0.1:6878/ace/manifest.m3u8?infohash=", UsesInfoHash: true},
		{Name: SchemeLocalContentID, Prefix: "http://127.0.0.1:6878/ace/manifest.m3u8?content_id="},
		{Name: SchemeAce, Prefix: "acestream://"},
		{Name: SchemeHorus, Prefix: "plugin://script.module.horus?action=play&id="},
	}
}

// SchemesByName resolves a list of configured scheme names, preserving the
// requested order.
func SchemesByName(names []string) ([]Scheme, error) {
	known := make(map[string]Scheme)
	for _, scheme := range DefaultSchemes() {
		known[scheme.Name] = scheme
	}

	schemes := make([]Scheme, 0, len(names))
	for _, name := range names {
		scheme, ok := known[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown playlist scheme %q", name)
		}
		schemes = append(schemes, scheme)
	}
	return schemes, nil
}

// StreamURL returns the URL the stream should be published under in this
// scheme. Streams carrying the identifier the scheme needs are rewritten onto
// the scheme prefix; streams with no AceStream identifier at all keep their
// raw URL in every scheme; streams carrying only the other identifier kind
// are not expressible and are reported false.
func (sc Scheme) StreamURL(s *domain.Stream) (string, bool) {
	if sc.UsesInfoHash {
		if s.InfoHash != "" {
			return sc.Prefix + s.InfoHash, true
		}
	} else if s.ContentID != "" {
		return sc.Prefix + s.ContentID, true
	}
	if !s.HasAceID() && s.URL != "" {
		return s.URL, true
	}
	return "", false
}

// ExtractAceID pulls the AceStream identifier out of a stream URL. At most
// one of the return values is non-empty; both are empty for plain URLs.
func ExtractAceID(rawURL string) (infoHash, contentID string) {
	for _, prefix := range infoHashPrefixes {
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], ""
		}
	}
	for _, prefix := range contentIDPrefixes {
		if strings.HasPrefix(rawURL, prefix) {
			return "", rawURL[len(prefix):]
		}
	}
	return "", ""
}
