package merge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutkit/analysis/internal/game"
	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/store"
)

var eventStart = time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)

func standJSON(team, match string, captured time.Time) []byte {
	return []byte(fmt.Sprintf(
		`{"info":{"team":%q,"match":%q,"time":%d},"Stand":{"Login":"aq"}}`,
		team, match, captured.UnixMilli()))
}

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s := store.New(t.TempDir())
	require.NoError(t, s.EnsureLayout())
	adapter, err := game.ForYear(2020)
	require.NoError(t, err)
	return New(s, adapter, eventStart), s
}

// writeSource lays out a removable-media style category folder.
func writeSource(t *testing.T, root, category string, files map[string][]byte) {
	t.Helper()
	dir := filepath.Join(root, category)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	manifest := make(models.Manifest, 0, len(files))
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
		manifest = manifest.Add(name)
	}
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0o644))
}

func TestAcceptNewFile(t *testing.T) {
	e, _ := newTestEngine(t)
	older := standJSON("1540", "1", eventStart.Add(1*time.Hour))
	newer := standJSON("1540", "1", eventStart.Add(2*time.Hour))
	stale := standJSON("1540", "1", eventStart.Add(-24*time.Hour))

	tests := []struct {
		name     string
		old, new []byte
		want     bool
	}{
		{name: "no local copy accepts valid", old: nil, new: newer, want: true},
		{name: "newer wins", old: older, new: newer, want: true},
		{name: "older loses", old: newer, new: older, want: false},
		{name: "equal time loses", old: older, new: older, want: false},
		{name: "stale incoming rejected", old: nil, new: stale, want: false},
		{name: "stale incoming rejected even against stale local", old: stale, new: stale, want: false},
		{name: "stale local always replaced", old: stale, new: older, want: true},
		{name: "malformed incoming rejected", old: older, new: []byte(`{`), want: false},
		{name: "malformed local replaced", old: []byte(`{`), new: older, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.AcceptNewFile(tt.old, tt.new))
		})
	}
}

func TestImportSource(t *testing.T) {
	e, s := newTestEngine(t)
	source := t.TempDir()
	writeSource(t, source, store.CategoryStand, map[string][]byte{
		"1540-1.json": standJSON("1540", "1", eventStart.Add(time.Hour)),
		"254-1.json":  standJSON("254", "1", eventStart.Add(time.Hour)),
	})

	report, err := e.ImportSource(source)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Stats(store.CategoryStand).Accepted)
	assert.ElementsMatch(t, models.Manifest{"1540-1.json", "254-1.json"}, s.LoadManifest(store.CategoryStand))

	_, ok := s.ReadRecordFile(store.CategoryStand, "1540-1.json")
	assert.True(t, ok)
}

func TestImportSourceIdempotent(t *testing.T) {
	e, s := newTestEngine(t)
	source := t.TempDir()
	writeSource(t, source, store.CategoryStand, map[string][]byte{
		"1540-1.json": standJSON("1540", "1", eventStart.Add(time.Hour)),
	})

	_, err := e.ImportSource(source)
	require.NoError(t, err)
	report, err := e.ImportSource(source)
	require.NoError(t, err)

	// Same source again: nothing accepted, nothing duplicated.
	assert.Equal(t, 0, report.Stats(store.CategoryStand).Accepted)
	assert.Equal(t, 1, report.Stats(store.CategoryStand).Skipped)
	assert.Equal(t, models.Manifest{"1540-1.json"}, s.LoadManifest(store.CategoryStand))
}

func TestImportSourceRecencyWins(t *testing.T) {
	e, s := newTestEngine(t)

	older := t.TempDir()
	writeSource(t, older, store.CategoryStand, map[string][]byte{
		"1540-1.json": standJSON("1540", "1", eventStart.Add(1*time.Hour)),
	})
	newer := t.TempDir()
	newerData := standJSON("1540", "1", eventStart.Add(2*time.Hour))
	writeSource(t, newer, store.CategoryStand, map[string][]byte{
		"1540-1.json": newerData,
	})

	_, err := e.ImportSource(older)
	require.NoError(t, err)
	report, err := e.ImportSource(newer)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats(store.CategoryStand).Updated)

	stored, ok := s.ReadRecordFile(store.CategoryStand, "1540-1.json")
	require.True(t, ok)
	assert.Equal(t, newerData, stored)

	// Replaying the older source leaves the newer copy in place.
	report, err = e.ImportSource(older)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats(store.CategoryStand).Skipped)
	stored, _ = s.ReadRecordFile(store.CategoryStand, "1540-1.json")
	assert.Equal(t, newerData, stored)
}

func TestImportSourceFiltersStaleRecords(t *testing.T) {
	e, s := newTestEngine(t)
	source := t.TempDir()
	writeSource(t, source, store.CategoryStand, map[string][]byte{
		"leftover.json": standJSON("1540", "1", eventStart.Add(-72*time.Hour)),
	})

	report, err := e.ImportSource(source)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats(store.CategoryStand).Skipped)
	assert.Nil(t, s.LoadManifest(store.CategoryStand))
}

func TestImportSourceToleratesMissingData(t *testing.T) {
	e, _ := newTestEngine(t)

	// Source with no category folders at all.
	report, err := e.ImportSource(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, report.Stats(store.CategoryStand).Accepted)

	// Malformed manifest and a listed-but-absent file.
	source := t.TempDir()
	dir := filepath.Join(source, store.CategoryStand)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`not json`), 0o644))
	_, err = e.ImportSource(source)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`["ghost.json"]`), 0o644))
	report, err = e.ImportSource(source)
	require.NoError(t, err)
	assert.Zero(t, report.Stats(store.CategoryStand).Accepted)
}

func TestSyncDevices(t *testing.T) {
	e, s := newTestEngine(t)

	deviceDir := filepath.Join(s.DevicesDir(), "tablet-red-1")
	writeSource(t, deviceDir, store.CategoryStand, map[string][]byte{
		"1540-1.json": standJSON("1540", "1", eventStart.Add(time.Hour)),
	})
	require.NoError(t, os.WriteFile(
		filepath.Join(s.DevicesDir(), "manifest.json"),
		[]byte(`["tablet-red-1","tablet-ghost"]`), 0o644))

	report, err := e.SyncDevices()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats(store.CategoryStand).Accepted)
	assert.Equal(t, models.Manifest{"1540-1.json"}, s.LoadManifest(store.CategoryStand))
}

func TestWebImages(t *testing.T) {
	e, s := newTestEngine(t)

	added, err := e.AddWebImages([]string{"254@https://i.imgur.com/a.jpg", "1540@https://i.imgur.com/b.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// Idempotent union.
	added, err = e.AddWebImages([]string{"254@https://i.imgur.com/a.jpg"})
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Len(t, s.LoadManifest(store.CategoryImages), 2)
}

func TestScanLocalImages(t *testing.T) {
	e, s := newTestEngine(t)
	require.NoError(t, s.WriteRecordFile(store.CategoryImages, "1540-1.jpg", []byte("jpeg")))

	added, err := e.ScanLocalImages()
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = e.ScanLocalImages()
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, models.Manifest{"1540-1.jpg"}, s.LoadManifest(store.CategoryImages))
}
