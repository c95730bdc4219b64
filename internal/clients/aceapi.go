package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chanarr/chanarr/internal/domain"
)

type apiChannel struct {
	Name       string   `json:"name"`
	InfoHash   string   `json:"infohash"`
	Categories []string `json:"categories"`
}

type aceAPISource struct {
	url    string
	client *http.Client
}

// NewAceAPISource fetches the AceStream directory API: a JSON array of
// {name, infohash, categories} objects.
func NewAceAPISource(url string, client *http.Client) domain.StreamSource {
	return &aceAPISource{
		url:    url,
		client: client,
	}
}

func (s *aceAPISource) Name() string {
	return "aceapi"
}

func (s *aceAPISource) Fetch(ctx context.Context) ([]domain.Stream, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building api request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetching api: unexpected status %s", resp.Status)
	}

	var channels []apiChannel
	if err := json.NewDecoder(resp.Body).Decode(&channels); err != nil {
		return nil, 0, fmt.Errorf("decoding api response: %w", err)
	}

	return convertFromAPIChannels(channels)
}

// convertFromAPIChannels maps API entries to streams. Entries without a name
// or infohash are skipped and counted; API streams carry no URL, only the
// infohash identifier.
func convertFromAPIChannels(channels []apiChannel) ([]domain.Stream, int, error) {
	streams := make([]domain.Stream, 0, len(channels))
	skipped := 0
	for _, channel := range channels {
		if channel.Name == "" || channel.InfoHash == "" {
			skipped++
			continue
		}

		group := ""
		if len(channel.Categories) > 0 {
			group = channel.Categories[0]
		}
		streams = append(streams, domain.Stream{
			Name:     channel.Name,
			InfoHash: channel.InfoHash,
			Group:    group,
			Position: len(streams),
		})
	}
	return streams, skipped, nil
}
