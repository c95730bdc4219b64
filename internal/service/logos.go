package service

import (
	"encoding/xml"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/chanarr/chanarr/internal/match"
	"github.com/chanarr/chanarr/internal/similarity"
)

type logosDocument struct {
	Regions []logoRegion `xml:"region"`
}

type logoRegion struct {
	Channels []logoChannel `xml:"channel"`
}

type logoChannel struct {
	Name    string `xml:"name,attr"`
	LogoURL string `xml:"logo_url"`
}

// LogoIndex maps channel names to curated logo URLs. Lookups try an exact
// case-insensitive hit first, then fall back to fuzzy stages with separate
// cutoffs.
type LogoIndex struct {
	names         []string
	byName        map[string]string
	tokenSort     similarity.Scorer
	partial       similarity.Scorer
	primaryCutoff float64
	partialCutoff float64
}

// LoadLogos reads the curated logo XML (region elements holding channel
// elements with a name attribute and a logo_url child; the root element name
// does not matter). A missing or unparseable file degrades to an empty index
// with a warning.
func LoadLogos(path string, primaryCutoff, partialCutoff float64) *LogoIndex {
	index := &LogoIndex{
		byName:        make(map[string]string),
		tokenSort:     similarity.TokenSort(),
		partial:       similarity.Partial(),
		primaryCutoff: primaryCutoff,
		partialCutoff: partialCutoff,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithFields(log.Fields{
			"path":  path,
			"error": err,
		}).Warn("logos file not found, publishing without curated logos")
		return index
	}

	var document logosDocument
	if err := xml.Unmarshal(data, &document); err != nil {
		log.WithFields(log.Fields{
			"path":  path,
			"error": err,
		}).Warn("could not parse logos file, publishing without curated logos")
		return index
	}

	for _, region := range document.Regions {
		for _, channel := range region.Channels {
			name := strings.ToLower(strings.TrimSpace(channel.Name))
			if name == "" || channel.LogoURL == "" {
				continue
			}
			if _, exists := index.byName[name]; exists {
				continue
			}
			index.names = append(index.names, name)
			index.byName[name] = channel.LogoURL
		}
	}
	return index
}

// Lookup returns the curated logo URL for a canonical channel name, or ""
// when nothing matches well enough.
func (idx *LogoIndex) Lookup(canonical string) string {
	if len(idx.names) == 0 {
		return ""
	}

	wanted := strings.ToLower(strings.TrimSpace(match.StripCountryTag(canonical)))
	if wanted == "" {
		return ""
	}
	if url, ok := idx.byName[wanted]; ok {
		return url
	}

	if name := idx.bestAbove(wanted, idx.tokenSort, idx.primaryCutoff); name != "" {
		return idx.byName[name]
	}
	if name := idx.bestAbove(wanted, idx.partial, idx.partialCutoff); name != "" {
		return idx.byName[name]
	}
	return ""
}

// bestAbove scans the names in document order and keeps the first highest
// score, so equal scores resolve deterministically.
func (idx *LogoIndex) bestAbove(wanted string, scorer similarity.Scorer, cutoff float64) string {
	bestName := ""
	bestScore := 0.0
	for _, name := range idx.names {
		if score := scorer.Score(wanted, name); score > bestScore {
			bestScore = score
			bestName = name
		}
	}
	if bestScore < cutoff {
		return ""
	}
	return bestName
}

// Len reports how many logo entries are loaded.
func (idx *LogoIndex) Len() int {
	return len(idx.names)
}
