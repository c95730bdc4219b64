package m3u

import (
	"fmt"
	"io"

	"github.com/chanarr/chanarr/internal/domain"
)

const (
	playlistHeader = "#EXTM3U"
	entryFormat    = "#EXTINF:-1 tvg-logo=\"%s\" tvg-id=\"%s\" group-title=\"%s\" x-last-found=\"%d\", %s\n%s\n"
)

// Render writes the resolved channels as an extended M3U document in the
// given scheme and returns how many entries were written. Channels whose
// stream is not expressible in the scheme are skipped. A duplicate canonical
// name anywhere in the input is an error: published playlists carry at most
// one stream per channel.
func Render(w io.Writer, scheme Scheme, channels []domain.ResolvedChannel) (int, error) {
	if _, err := fmt.Fprintln(w, playlistHeader); err != nil {
		return 0, fmt.Errorf("writing playlist header: %w", err)
	}

	seen := make(map[string]struct{}, len(channels))
	written := 0
	for i := range channels {
		channel := &channels[i]
		if _, dup := seen[channel.Entry.Canonical]; dup {
			return written, fmt.Errorf("%w: %q", domain.ErrDuplicateChannel, channel.Entry.Canonical)
		}
		seen[channel.Entry.Canonical] = struct{}{}

		url, ok := scheme.StreamURL(&channel.Stream)
		if !ok {
			continue
		}
		_, err := fmt.Fprintf(w, entryFormat,
			channel.Stream.TvgLogo,
			channel.Stream.TvgID,
			channel.Stream.Group,
			channel.Stream.LastFound,
			channel.Entry.Canonical,
			url,
		)
		if err != nil {
			return written, fmt.Errorf("writing entry %q: %w", channel.Entry.Canonical, err)
		}
		written++
	}

	return written, nil
}
