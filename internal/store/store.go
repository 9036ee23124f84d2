package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scoutkit/analysis/internal/models"
)

// Data categories, each a directory with a manifest.json plus one file per
// record.
const (
	CategoryStand  = "stand"
	CategoryPit    = "pit"
	CategoryNotes  = "notes"
	CategoryImages = "images"
)

// Categories that flow through the recency-wins merge. Images use a
// different identity scheme and are handled separately.
var RecordCategories = []string{CategoryStand, CategoryPit, CategoryNotes}

// Store owns the on-disk data directory: per-category record files and
// manifests, the resources folder, picklists, and exports. All state is
// plain JSON except picklists and the CSV export.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string { return s.root }

// EnsureLayout creates the directory skeleton for a fresh or partially
// initialized data folder.
func (s *Store) EnsureLayout() error {
	dirs := []string{
		s.CategoryDir(CategoryStand),
		s.CategoryDir(CategoryPit),
		s.CategoryDir(CategoryNotes),
		s.CategoryDir(CategoryImages),
		s.DevicesDir(),
		filepath.Join(s.root, "resources"),
		filepath.Join(s.root, "picklists"),
		filepath.Join(s.root, "export"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) CategoryDir(category string) string {
	return filepath.Join(s.root, category)
}

func (s *Store) DevicesDir() string {
	return filepath.Join(s.root, "devices")
}

func (s *Store) resourcePath(name string) string {
	return filepath.Join(s.root, "resources", name)
}

// LoadManifest reads a category's manifest. A missing or malformed manifest
// means no data has been ingested for that category; it is never an error.
func (s *Store) LoadManifest(category string) models.Manifest {
	return ReadManifestFile(filepath.Join(s.CategoryDir(category), "manifest.json"))
}

// ReadManifestFile parses a manifest anywhere on disk (local category dirs,
// removable media, device folders). Anything that is not a JSON array of
// strings counts as "no data from this source".
func ReadManifestFile(path string) models.Manifest {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var manifest models.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	return manifest
}

func (s *Store) SaveManifest(category string, manifest models.Manifest) error {
	return s.writeJSON(filepath.Join(s.CategoryDir(category), "manifest.json"), manifest)
}

// ReadRecordFile returns the raw bytes of a named record file, or false if
// it does not exist.
func (s *Store) ReadRecordFile(category, name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(s.CategoryDir(category), name))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *Store) WriteRecordFile(category, name string, data []byte) error {
	path := filepath.Join(s.CategoryDir(category), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *Store) LoadEvent() (models.Event, error) {
	var event models.Event
	if err := s.readJSON(s.resourcePath("event.json"), &event); err != nil {
		return models.Event{}, fmt.Errorf("loading event: %w", err)
	}
	return event, nil
}

func (s *Store) SaveEvent(event models.Event) error {
	return s.writeJSON(s.resourcePath("event.json"), event)
}

func (s *Store) LoadSchedule() (models.Schedule, error) {
	var schedule models.Schedule
	if err := s.readJSON(s.resourcePath("schedule.json"), &schedule); err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	return schedule, nil
}

// LoadScouts maps scout login ids to display names.
func (s *Store) LoadScouts() (map[string]string, error) {
	var scouts map[string]string
	if err := s.readJSON(s.resourcePath("scouts.json"), &scouts); err != nil {
		return nil, fmt.Errorf("loading scouts: %w", err)
	}
	return scouts, nil
}

// LoadTeamNames returns the persisted team-number to nickname mapping, or
// nil when none has been saved yet.
func (s *Store) LoadTeamNames() map[string]string {
	var names map[string]string
	if err := s.readJSON(s.resourcePath("teams.json"), &names); err != nil {
		return nil
	}
	return names
}

func (s *Store) SaveTeamNames(names map[string]string) error {
	return s.writeJSON(s.resourcePath("teams.json"), names)
}

// LoadAlliances returns the persisted alliance selection, or nil when none
// has been recorded.
func (s *Store) LoadAlliances() models.AllianceSet {
	var raw map[string]models.Alliance
	if err := s.readJSON(s.resourcePath("alliances.json"), &raw); err != nil {
		return nil
	}
	set := make(models.AllianceSet, len(raw))
	for k, alliance := range raw {
		var seed int
		if _, err := fmt.Sscanf(k, "%d", &seed); err != nil {
			continue
		}
		set[seed] = alliance
	}
	return set
}

func (s *Store) SaveAlliances(set models.AllianceSet) error {
	raw := make(map[string]models.Alliance, len(set))
	for seed, alliance := range set {
		raw[fmt.Sprintf("%d", seed)] = alliance
	}
	return s.writeJSON(s.resourcePath("alliances.json"), raw)
}

func (s *Store) readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (s *Store) writeJSON(path string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Archive copies the live data directory to dest, used when switching
// events so the previous event's data survives.
func (s *Store) Archive(dest string) error {
	return copyDir(s.root, dest)
}

// Restore replaces the live data directory with a previously archived one.
func (s *Store) Restore(src string) error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("clearing data dir: %w", err)
	}
	if err := copyDir(src, s.root); err != nil {
		return err
	}
	return s.EnsureLayout()
}

// Reset wipes the data directory back to the empty layout.
func (s *Store) Reset() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("clearing data dir: %w", err)
	}
	return s.EnsureLayout()
}

func copyDir(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, in)
		return err
	})
}
