package merge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/scoutkit/analysis/internal/game"
	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/store"
)

// Engine reconciles scouting files arriving from removable media and synced
// devices against the local data directory. The same recency-wins rule
// applies on every path; the paths differ only in how sources are
// enumerated.
type Engine struct {
	store      *store.Store
	adapter    game.Adapter
	eventStart time.Time
}

func New(s *store.Store, adapter game.Adapter, eventStart time.Time) *Engine {
	return &Engine{store: s, adapter: adapter, eventStart: eventStart}
}

// validForEvent reports whether a raw file parses and was captured at or
// after the event start. Stale files carried over from a previous event on
// a reused device fail this check.
func (e *Engine) validForEvent(data []byte) bool {
	var fields models.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	captured, ok := e.adapter.Time(fields)
	if !ok {
		return false
	}
	return !captured.Before(e.eventStart)
}

// AcceptNewFile decides whether an incoming copy of a file replaces the
// stored one. An incoming file that is not valid for the event is always
// rejected; a stored file that is not valid is always replaced; otherwise
// the incoming copy must be strictly newer.
func (e *Engine) AcceptNewFile(oldData, newData []byte) bool {
	if !e.validForEvent(newData) {
		return false
	}
	if oldData == nil || !e.validForEvent(oldData) {
		return true
	}
	return e.fileTime(newData).After(e.fileTime(oldData))
}

func (e *Engine) fileTime(data []byte) time.Time {
	var fields models.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return time.Time{}
	}
	captured, _ := e.adapter.Time(fields)
	return captured
}

// ImportSource merges a removable-media folder laid out as
// {stand,pit,notes}/manifest.json plus record files.
func (e *Engine) ImportSource(sourceRoot string) (models.MergeReport, error) {
	report := make(models.MergeReport)
	for _, category := range store.RecordCategories {
		if err := e.importCategory(filepath.Join(sourceRoot, category), category, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// SyncDevices walks the devices directory: a manifest of device names, each
// device holding the same per-category layout as removable media. Image
// files dropped into the images directory by hand are picked up on the same
// pass.
func (e *Engine) SyncDevices() (models.MergeReport, error) {
	report := make(models.MergeReport)
	devices := store.ReadManifestFile(filepath.Join(e.store.DevicesDir(), "manifest.json"))
	for _, device := range devices {
		for _, category := range store.RecordCategories {
			dir := filepath.Join(e.store.DevicesDir(), device, category)
			if err := e.importCategory(dir, category, report); err != nil {
				return nil, err
			}
		}
	}
	added, err := e.ScanLocalImages()
	if err != nil {
		return nil, err
	}
	report.Stats(store.CategoryImages).Accepted += added
	return report, nil
}

// importCategory applies the acceptance rule to every file a source
// manifest names. A missing or malformed source manifest, or a named file
// that does not exist, means no data from this source this round.
func (e *Engine) importCategory(sourceDir, category string, report models.MergeReport) error {
	stats := report.Stats(category)
	manifest := e.store.LoadManifest(category)
	changed := false

	for _, name := range store.ReadManifestFile(filepath.Join(sourceDir, "manifest.json")) {
		data, err := os.ReadFile(filepath.Join(sourceDir, name))
		if err != nil {
			continue
		}
		oldData, exists := e.store.ReadRecordFile(category, name)
		if !exists {
			oldData = nil
		}
		if !e.AcceptNewFile(oldData, data) {
			stats.Skipped++
			continue
		}
		if err := e.store.WriteRecordFile(category, name, data); err != nil {
			return fmt.Errorf("merging %s/%s: %w", category, name, err)
		}
		if exists {
			stats.Updated++
		} else {
			stats.Accepted++
		}
		if !manifest.Contains(name) {
			manifest = manifest.Add(name)
			changed = true
		}
	}

	if changed {
		if err := e.store.SaveManifest(category, manifest); err != nil {
			return fmt.Errorf("saving %s manifest: %w", category, err)
		}
	}
	return nil
}

// AddWebImages unions "<team>@<url>" identities into the image manifest.
func (e *Engine) AddWebImages(identities []string) (int, error) {
	manifest := e.store.LoadManifest(store.CategoryImages)
	added := 0
	for _, id := range identities {
		if !manifest.Contains(id) {
			manifest = manifest.Add(id)
			added++
		}
	}
	if added > 0 {
		if err := e.store.SaveManifest(store.CategoryImages, manifest); err != nil {
			return 0, fmt.Errorf("saving image manifest: %w", err)
		}
	}
	return added, nil
}

// ScanLocalImages picks up image files dropped into the images directory
// outside any manifest, identified by filename.
func (e *Engine) ScanLocalImages() (int, error) {
	entries, err := os.ReadDir(e.store.CategoryDir(store.CategoryImages))
	if err != nil {
		return 0, fmt.Errorf("reading images dir: %w", err)
	}
	manifest := e.store.LoadManifest(store.CategoryImages)
	added := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "manifest.json" {
			continue
		}
		if !manifest.Contains(name) {
			manifest = manifest.Add(name)
			added++
		}
	}
	if added > 0 {
		if err := e.store.SaveManifest(store.CategoryImages, manifest); err != nil {
			return 0, fmt.Errorf("saving image manifest: %w", err)
		}
	}
	slog.Info("Scanned local images", "added", added)
	return added, nil
}
