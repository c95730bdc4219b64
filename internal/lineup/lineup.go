// Package lineup loads the operator-curated channel lineup that drives a
// curation run: which channels may be published, under which canonical names,
// and in what order.
package lineup

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chanarr/chanarr/internal/domain"
)

// Load parses a lineup CSV. Column 0 is the canonical channel name, column 1
// an optional group label; further columns are ignored. Duplicate canonical
// names keep the first occurrence. Rows whose cells are all blank are
// skipped; a blank name next to a non-blank cell is an error, as is a lineup
// with no entries at all.
func Load(r io.Reader) ([]domain.LineupEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading lineup csv: %w", err)
	}

	entries := make([]domain.LineupEntry, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}

		canonical := strings.TrimSpace(row[0])
		if canonical == "" {
			return nil, fmt.Errorf("%w: row %d", domain.ErrLineupName, i+1)
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}

		entry := domain.LineupEntry{
			Canonical: canonical,
			Ordinal:   len(entries),
		}
		if len(row) > 1 {
			entry.Group = strings.TrimSpace(row[1])
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, domain.ErrLineupEmpty
	}
	return entries, nil
}

// LoadFile opens and loads a lineup CSV from disk.
func LoadFile(path string) ([]domain.LineupEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lineup file: %w", err)
	}
	defer file.Close()

	entries, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading lineup %s: %w", path, err)
	}
	return entries, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
