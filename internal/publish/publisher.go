// Package publish writes the rendered playlists to the output directory, one
// file per configured URI scheme. Writes go through a temp file and rename so
// consumers never observe a partial playlist, and a lock file keeps
// concurrent runs from interleaving their output.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/m3u"
)

const (
	lockFileName = ".chanarr.lock"
	dirMode      = 0o755
	fileMode     = 0o644
)

// Publisher writes one playlist file per scheme as
// <outputDir>/<playlistName>_<scheme>.m3u.
type Publisher struct {
	outputDir    string
	playlistName string
	schemes      []m3u.Scheme
}

// NewPublisher creates a publisher for the given output directory and
// playlist name.
func NewPublisher(outputDir, playlistName string, schemes []m3u.Scheme) *Publisher {
	return &Publisher{
		outputDir:    outputDir,
		playlistName: playlistName,
		schemes:      schemes,
	}
}

// Publish renders every scheme and writes the playlist files, returning the
// paths written. All schemes are rendered before anything touches disk, so a
// render failure leaves the previous output intact.
func (p *Publisher) Publish(ctx context.Context, channels []domain.ResolvedChannel) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rendered := make([][]byte, len(p.schemes))
	for i, scheme := range p.schemes {
		var buf bytes.Buffer
		if _, err := m3u.Render(&buf, scheme, channels); err != nil {
			return nil, fmt.Errorf("rendering %s playlist: %w", scheme.Name, err)
		}
		rendered[i] = buf.Bytes()
	}

	if err := os.MkdirAll(p.outputDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	lock := flock.New(filepath.Join(p.outputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring publish lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("publish lock on %s is held by another process", p.outputDir)
	}
	defer lock.Unlock()

	paths := make([]string, 0, len(p.schemes))
	for i, scheme := range p.schemes {
		path := p.playlistPath(scheme)
		if err := p.writeFile(path, rendered[i]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// DryRun renders the first configured scheme to w without touching disk.
func (p *Publisher) DryRun(w io.Writer, channels []domain.ResolvedChannel) error {
	if len(p.schemes) == 0 {
		return fmt.Errorf("no playlist schemes configured")
	}
	if _, err := m3u.Render(w, p.schemes[0], channels); err != nil {
		return fmt.Errorf("rendering %s playlist: %w", p.schemes[0].Name, err)
	}
	return nil
}

func (p *Publisher) playlistPath(scheme m3u.Scheme) string {
	return filepath.Join(p.outputDir, fmt.Sprintf("%s_%s.m3u", p.playlistName, scheme.Name))
}

func (p *Publisher) writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(p.outputDir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
