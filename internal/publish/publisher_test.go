package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/chanarr/chanarr/internal/domain"
	"github.com/chanarr/chanarr/internal/m3u"
)

func testChannels() []domain.ResolvedChannel {
	return []domain.ResolvedChannel{
		{
			Entry: domain.LineupEntry{Canonical: "Channel One", Ordinal: 0},
			Stream: domain.Stream{
				URL:       "acestream://aaa",
				ContentID: "aaa",
				Group:     "General",
			},
		},
		{
			Entry: domain.LineupEntry{Canonical: "Hash Channel", Ordinal: 1},
			Stream: domain.Stream{
				URL:      "http://127.0.0.1:6878/ace/getstream?infohash=bbb",
				InfoHash: "bbb",
			},
		},
	}
}

func testSchemes(t *testing.T, names ...string) []m3u.Scheme {
	t.Helper()
	schemes, err := m3u.SchemesByName(names)
	if err != nil {
		t.Fatalf("SchemesByName: %v", err)
	}
	return schemes
}

func TestPublishWritesOneFilePerScheme(t *testing.T) {
	dir := t.TempDir()
	publisher := NewPublisher(dir, "default", testSchemes(t, "ace", "local_infohash"))

	paths, err := publisher.Publish(context.Background(), testChannels())
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}

	wantPaths := []string{
		filepath.Join(dir, "default_ace.m3u"),
		filepath.Join(dir, "default_local_infohash.m3u"),
	}
	for i, want := range wantPaths {
		if paths[i] != want {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want)
		}
	}

	aceBody, err := os.ReadFile(wantPaths[0])
	if err != nil {
		t.Fatalf("reading ace playlist: %v", err)
	}
	if !strings.HasPrefix(string(aceBody), "#EXTM3U\n") {
		t.Error("ace playlist missing the #EXTM3U header")
	}
	if !strings.Contains(string(aceBody), "acestream://aaa") {
		t.Error("ace playlist missing the content id stream")
	}
	if strings.Contains(string(aceBody), "bbb") {
		t.Error("ace playlist should not carry the infohash-only stream")
	}

	hashBody, err := os.ReadFile(wantPaths[1])
	if err != nil {
		t.Fatalf("reading infohash playlist: %v", err)
	}
	if !strings.Contains(string(hashBody), "http://127.0.0.1:6878/ace/manifest.m3u8?infohash=bbb") {
		t.Error("infohash playlist missing the rewritten infohash URL")
	}

	// No temp files may survive a successful publish.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", entry.Name())
		}
	}
}

func TestPublishCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "playlists")
	publisher := NewPublisher(dir, "default", testSchemes(t, "ace"))

	if _, err := publisher.Publish(context.Background(), testChannels()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "default_ace.m3u")); err != nil {
		t.Errorf("playlist not written in created directory: %v", err)
	}
}

func TestPublishReplacesExistingPlaylist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default_ace.m3u")
	if err := os.WriteFile(path, []byte("stale content"), 0o644); err != nil {
		t.Fatalf("seeding stale playlist: %v", err)
	}

	publisher := NewPublisher(dir, "default", testSchemes(t, "ace"))
	if _, err := publisher.Publish(context.Background(), testChannels()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading playlist: %v", err)
	}
	if strings.Contains(string(body), "stale content") {
		t.Error("old playlist content survived the publish")
	}
}

func TestPublishFailsWhenLockIsHeld(t *testing.T) {
	dir := t.TempDir()
	holder := flock.New(filepath.Join(dir, lockFileName))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquiring test lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	publisher := NewPublisher(dir, "default", testSchemes(t, "ace"))
	if _, err := publisher.Publish(context.Background(), testChannels()); err == nil {
		t.Error("expected an error while the lock is held")
	}
}

func TestPublishLeavesFilesAloneOnRenderError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default_ace.m3u")
	if err := os.WriteFile(path, []byte("previous good output"), 0o644); err != nil {
		t.Fatalf("seeding playlist: %v", err)
	}

	duplicate := []domain.ResolvedChannel{
		{Entry: domain.LineupEntry{Canonical: "Channel One"}, Stream: domain.Stream{ContentID: "aaa"}},
		{Entry: domain.LineupEntry{Canonical: "Channel One"}, Stream: domain.Stream{ContentID: "bbb"}},
	}

	publisher := NewPublisher(dir, "default", testSchemes(t, "ace"))
	_, err := publisher.Publish(context.Background(), duplicate)
	if !errors.Is(err, domain.ErrDuplicateChannel) {
		t.Fatalf("err = %v, want ErrDuplicateChannel", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading playlist: %v", err)
	}
	if string(body) != "previous good output" {
		t.Error("render failure must not replace the existing playlist")
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	publisher := NewPublisher(dir, "default", testSchemes(t, "ace", "horus"))

	var out strings.Builder
	if err := publisher.DryRun(&out, testChannels()); err != nil {
		t.Fatalf("DryRun returned error: %v", err)
	}

	if !strings.Contains(out.String(), "acestream://aaa") {
		t.Error("dry run output missing the first scheme's URL")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run created %d files, want none", len(entries))
	}
}
