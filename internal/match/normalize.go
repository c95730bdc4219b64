package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// countryTagPattern matches a trailing bracketed two-letter country tag such
// as " [UK]".
var countryTagPattern = regexp.MustCompile(`\s*\[(\w{2})\]\s*$`)

// CountryTag returns the lowercase country code from a trailing [XX] tag.
func CountryTag(name string) (string, bool) {
	groups := countryTagPattern.FindStringSubmatch(name)
	if groups == nil {
		return "", false
	}
	return strings.ToLower(groups[1]), true
}

// StripCountryTag removes a trailing [XX] tag from a name.
func StripCountryTag(name string) string {
	return countryTagPattern.ReplaceAllString(name, "")
}

// diacriticFolder decomposes to NFD and drops the combining marks, so "é"
// compares equal to "e".
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DefaultNoiseTerms returns the quality suffixes dropped from names before
// scoring.
func DefaultNoiseTerms() []string {
	return []string{"hd", "uhd", "fhd", "sd", "4k", "8k", "1080p", "720p"}
}

// NormalizerOptions selects which normalization steps run. The zero value
// disables the optional steps; use DefaultNormalizer for the standard set.
type NormalizerOptions struct {
	FoldDiacritics  bool
	StripCountryTag bool
	NoiseTerms      []string
}

// Normalizer canonicalizes channel names for scoring: trim, strip the
// trailing country tag, lowercase, fold diacritics, turn punctuation into
// spaces, drop noise terms, collapse whitespace.
type Normalizer struct {
	foldDiacritics  bool
	stripCountryTag bool
	noise           map[string]struct{}
}

// NewNormalizer builds a normalizer from explicit options.
func NewNormalizer(opts NormalizerOptions) *Normalizer {
	noise := make(map[string]struct{}, len(opts.NoiseTerms))
	for _, term := range opts.NoiseTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			noise[term] = struct{}{}
		}
	}
	return &Normalizer{
		foldDiacritics:  opts.FoldDiacritics,
		stripCountryTag: opts.StripCountryTag,
		noise:           noise,
	}
}

// DefaultNormalizer returns a normalizer with every step enabled and the
// default noise terms.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(NormalizerOptions{
		FoldDiacritics:  true,
		StripCountryTag: true,
		NoiseTerms:      DefaultNoiseTerms(),
	})
}

// Normalize returns the canonical scoring form of a name. The result may be
// empty when the name consists entirely of noise.
func (n *Normalizer) Normalize(name string) string {
	s := strings.TrimSpace(name)
	if n.stripCountryTag {
		s = StripCountryTag(s)
	}
	s = strings.ToLower(s)
	if n.foldDiacritics {
		if folded, _, err := transform.String(diacriticFolder, s); err == nil {
			s = folded
		}
	}
	s = replacePunctuation(s)

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, field := range fields {
		if _, noisy := n.noise[field]; noisy {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

func replacePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
}
