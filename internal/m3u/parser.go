package m3u

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/chanarr/chanarr/internal/domain"
)

const (
	extinfPrefix      = "#EXTINF:"
	initialScanBuffer = 64 * 1024
	maxLineSize       = 1024 * 1024
)

var (
	tvgLogoPattern   = regexp.MustCompile(`tvg-logo="([^"]+)"`)
	tvgIDPattern     = regexp.MustCompile(`tvg-id="([^"]+)"`)
	groupPattern     = regexp.MustCompile(`group-title="([^"]+)"`)
	lastFoundPattern = regexp.MustCompile(`x-last-found="(\d+)"`)
)

// Parse reads an extended M3U document and returns the well-formed streams in
// parse order plus the number of malformed entries that were skipped. An
// EXTINF directive with no following URL and a URL with no preceding EXTINF
// both count as malformed; blank lines, the #EXTM3U header and unrelated #
// directives are ignored without counting.
func Parse(r io.Reader) ([]domain.Stream, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialScanBuffer), maxLineSize)

	var (
		streams   []domain.Stream
		malformed int
		pending   *pendingEntry
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, extinfPrefix):
			if pending != nil {
				malformed++
			}
			pending = parseExtinf(line)
		case strings.HasPrefix(line, "#"):
			continue
		default:
			if pending == nil {
				malformed++
				continue
			}
			streams = append(streams, pending.toStream(line, len(streams)))
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading playlist: %w", err)
	}
	if pending != nil {
		malformed++
	}

	return streams, malformed, nil
}

type pendingEntry struct {
	name      string
	tvgID     string
	tvgLogo   string
	group     string
	lastFound int64
}

func parseExtinf(line string) *pendingEntry {
	directive := strings.TrimPrefix(line, extinfPrefix)
	entry := &pendingEntry{
		name:    displayName(directive),
		tvgID:   firstGroup(tvgIDPattern, directive),
		tvgLogo: firstGroup(tvgLogoPattern, directive),
		group:   firstGroup(groupPattern, directive),
	}
	if raw := firstGroup(lastFoundPattern, directive); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
			entry.lastFound = value
		}
	}
	return entry
}

// displayName returns the text after the first comma that sits outside double
// quotes, so commas inside attribute values never split the name.
func displayName(directive string) string {
	inQuotes := false
	for i, r := range directive {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				return strings.TrimSpace(directive[i+1:])
			}
		}
	}
	return ""
}

func firstGroup(pattern *regexp.Regexp, s string) string {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return ""
	}
	return match[1]
}

func (p *pendingEntry) toStream(url string, position int) domain.Stream {
	infoHash, contentID := ExtractAceID(url)
	return domain.Stream{
		Name:      p.name,
		URL:       url,
		TvgID:     p.tvgID,
		TvgLogo:   p.tvgLogo,
		Group:     p.group,
		LastFound: p.lastFound,
		InfoHash:  infoHash,
		ContentID: contentID,
		Position:  position,
	}
}
