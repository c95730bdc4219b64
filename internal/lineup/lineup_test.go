package lineup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chanarr/chanarr/internal/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []domain.LineupEntry
		wantErr error
	}{
		{
			name:  "names with optional groups",
			input: "Channel One,General\nNews 24,News\nEurosport 2\n",
			want: []domain.LineupEntry{
				{Canonical: "Channel One", Ordinal: 0, Group: "General"},
				{Canonical: "News 24", Ordinal: 1, Group: "News"},
				{Canonical: "Eurosport 2", Ordinal: 2},
			},
		},
		{
			name:  "duplicates keep the first occurrence",
			input: "Channel One,General\nNews 24\nChannel One,Movies\nEurosport 2\n",
			want: []domain.LineupEntry{
				{Canonical: "Channel One", Ordinal: 0, Group: "General"},
				{Canonical: "News 24", Ordinal: 1},
				{Canonical: "Eurosport 2", Ordinal: 2},
			},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: " Channel One , General \n",
			want: []domain.LineupEntry{
				{Canonical: "Channel One", Ordinal: 0, Group: "General"},
			},
		},
		{
			name:  "extra columns are ignored",
			input: "Channel One,General,whatever,else\n",
			want: []domain.LineupEntry{
				{Canonical: "Channel One", Ordinal: 0, Group: "General"},
			},
		},
		{
			name:  "blank rows are skipped",
			input: "Channel One\n , \nNews 24\n",
			want: []domain.LineupEntry{
				{Canonical: "Channel One", Ordinal: 0},
				{Canonical: "News 24", Ordinal: 1},
			},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: domain.ErrLineupEmpty,
		},
		{
			name:    "only blank rows",
			input:   "\n , \n",
			wantErr: domain.ErrLineupEmpty,
		},
		{
			name:    "blank name with a group is an error",
			input:   "Channel One\n,News\n",
			wantErr: domain.ErrLineupName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadReportsRowNumber(t *testing.T) {
	_, err := Load(strings.NewReader("Channel One\nNews 24\n,oops\n"))
	if !errors.Is(err, domain.ErrLineupName) {
		t.Fatalf("err = %v, want ErrLineupName", err)
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("err = %q, want it to name row 3", err.Error())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineup.csv")
	if err := os.WriteFile(path, []byte("Channel One,General\n"), 0o644); err != nil {
		t.Fatalf("writing lineup file: %v", err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Canonical != "Channel One" {
		t.Errorf("entries = %+v, want a single Channel One entry", entries)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
