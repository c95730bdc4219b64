package service

import (
	"strings"

	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/match"
)

const sportsGroup = "Sports"

// Enricher fills in presentation attributes on resolved channels: a derived
// tvg-id when the stream has none, the output group, and the logo URL.
type Enricher struct {
	logos      *LogoIndex
	sportWords []string
}

// NewEnricher builds an enricher. Sport words are matched case-insensitively
// as substrings.
func NewEnricher(logos *LogoIndex, sportWords []string) *Enricher {
	lowered := make([]string, 0, len(sportWords))
	for _, word := range sportWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			lowered = append(lowered, word)
		}
	}
	return &Enricher{
		logos:      logos,
		sportWords: lowered,
	}
}

// Enrich mutates the channels in place.
func (e *Enricher) Enrich(channels []domain.ResolvedChannel) {
	for i := range channels {
		e.enrichChannel(&channels[i])
	}
}

func (e *Enricher) enrichChannel(channel *domain.ResolvedChannel) {
	if channel.Stream.TvgID == "" {
		if country, ok := channelCountry(channel); ok {
			base := match.StripCountryTag(channel.Entry.Canonical)
			channel.Stream.TvgID = base + "." + country
		}
	}

	channel.Stream.Group = e.outputGroup(channel)

	if logo := e.logos.Lookup(channel.Entry.Canonical); logo != "" {
		channel.Stream.TvgLogo = logo
	}
}

// channelCountry finds a country code for the channel: the raw stream name's
// trailing [XX] tag wins, then a tag on the lineup name itself.
func channelCountry(channel *domain.ResolvedChannel) (string, bool) {
	if country, ok := match.CountryTag(channel.Stream.Name); ok {
		return country, true
	}
	return match.CountryTag(channel.Entry.Canonical)
}

// outputGroup picks the published group-title: the lineup's own group label
// wins, then the sport tag, then whatever the stream advertised.
func (e *Enricher) outputGroup(channel *domain.ResolvedChannel) string {
	if channel.Entry.Group != "" {
		return channel.Entry.Group
	}
	if e.isSport(channel) {
		return sportsGroup
	}
	return channel.Stream.Group
}

func (e *Enricher) isSport(channel *domain.ResolvedChannel) bool {
	haystack := strings.ToLower(channel.Entry.Canonical + " " + channel.Stream.Name + " " + channel.Stream.Group)
	for _, word := range e.sportWords {
		if strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}
