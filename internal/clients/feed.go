package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/m3u"
)

type feedSource struct {
	url    string
	client *http.Client
}

// NewFeedSource fetches an extended M3U playlist over HTTP.
func NewFeedSource(url string, client *http.Client) domain.StreamSource {
	return &feedSource{
		url:    url,
		client: client,
	}
}

func (s *feedSource) Name() string {
	return "m3u"
}

func (s *feedSource) Fetch(ctx context.Context) ([]domain.Stream, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetching feed: unexpected status %s", resp.Status)
	}

	streams, malformed, err := m3u.Parse(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing feed: %w", err)
	}
	return streams, malformed, nil
}
