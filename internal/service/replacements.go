package service

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

type replacementPair struct {
	old string
	new string
}

// Replacer rewrites raw stream names before matching, applying the operator's
// old,new substitution pairs in file order.
type Replacer struct {
	pairs []replacementPair
}

// LoadReplacements reads the replacements CSV. A missing or unreadable file
// degrades to an empty replacer with a warning; name replacement is an
// optional refinement, not a requirement.
func LoadReplacements(path string) *Replacer {
	file, err := os.Open(path)
	if err != nil {
		log.WithFields(log.Fields{
			"path":  path,
			"error": err,
		}).Warn("replacements file not found, using no replacements")
		return &Replacer{}
	}
	defer file.Close()

	pairs, err := scanReplacements(file)
	if err != nil {
		log.WithFields(log.Fields{
			"path":  path,
			"error": err,
		}).Warn("could not parse replacements file, using no replacements")
		return &Replacer{}
	}
	return &Replacer{pairs: pairs}
}

// scanReplacements keeps only rows with exactly two cells and a non-empty
// pattern.
func scanReplacements(r io.Reader) ([]replacementPair, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	pairs := make([]replacementPair, 0, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			continue
		}
		old := row[0]
		if strings.TrimSpace(old) == "" {
			continue
		}
		pairs = append(pairs, replacementPair{old: old, new: row[1]})
	}
	return pairs, nil
}

// Apply rewrites every occurrence of each configured pattern in the name.
func (r *Replacer) Apply(name string) string {
	for _, pair := range r.pairs {
		name = strings.ReplaceAll(name, pair.old, pair.new)
	}
	return name
}

// Len reports how many replacement pairs are loaded.
func (r *Replacer) Len() int {
	return len(r.pairs)
}
