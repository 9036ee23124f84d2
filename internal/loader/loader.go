package loader

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/scoutkit/analysis/internal/game"
	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/store"
)

// Loader hydrates validated records from the local data directory. Corrupt
// or partial files are an expected real-world occurrence at an event, so
// every rejection here is a silent skip, never a failure.
type Loader struct {
	store   *store.Store
	adapter game.Adapter
}

func New(s *store.Store, adapter game.Adapter) *Loader {
	return &Loader{store: s, adapter: adapter}
}

// LoadStand reads every manifest-listed stand file and returns validated
// records grouped by team, each team's list sorted ascending by match
// order. A record is skipped when it does not parse, carries no scout
// login, or was captured before the event started.
func (l *Loader) LoadStand(eventStart time.Time) map[string][]models.ScoutRecord {
	schema := l.adapter.StandSchema()
	byTeam := make(map[string][]models.ScoutRecord)
	for _, name := range l.store.LoadManifest(store.CategoryStand) {
		data, ok := l.store.ReadRecordFile(store.CategoryStand, name)
		if !ok {
			continue
		}
		var fields models.Fields
		if err := json.Unmarshal(data, &fields); err != nil {
			slog.Debug("Skipping unparseable stand file", "file", name)
			continue
		}
		if l.adapter.Login(fields) == "" {
			continue
		}
		schema.ApplyDefaults(fields)
		captured, ok := l.adapter.Time(fields)
		if !ok || captured.Before(eventStart) {
			continue
		}
		match, err := l.adapter.MatchNumber(fields)
		if err != nil {
			slog.Debug("Skipping stand file without match id", "file", name)
			continue
		}
		team := l.adapter.TeamNumber(fields)
		if team == "" {
			continue
		}
		byTeam[team] = append(byTeam[team], models.ScoutRecord{
			FileName: name,
			Team:     team,
			Match:    match,
			ScoutID:  l.adapter.Login(fields),
			Time:     captured,
			Fields:   fields,
		})
	}
	for team := range byTeam {
		records := byTeam[team]
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Match.Less(records[j].Match)
		})
	}
	return byTeam
}

// LoadPit reads pit snapshots keyed by team. Manifest order decides which
// snapshot wins when a team has several; the merge engine already keeps
// only the newest file per name.
func (l *Loader) LoadPit() map[string]models.PitRecord {
	schema := l.adapter.PitSchema()
	byTeam := make(map[string]models.PitRecord)
	for _, name := range l.store.LoadManifest(store.CategoryPit) {
		data, ok := l.store.ReadRecordFile(store.CategoryPit, name)
		if !ok {
			continue
		}
		var fields models.Fields
		if err := json.Unmarshal(data, &fields); err != nil {
			slog.Debug("Skipping unparseable pit file", "file", name)
			continue
		}
		schema.ApplyDefaults(fields)
		team := l.adapter.TeamNumber(fields)
		if team == "" {
			continue
		}
		byTeam[team] = models.PitRecord{FileName: name, Team: team, Fields: fields}
	}
	return byTeam
}

// noteFile is the notes app's output: one file per match, with a note slot
// per schedule position.
type noteFile struct {
	Info struct {
		Match string `json:"match"`
	} `json:"info"`
	Notes map[string]string `json:"notes"`
}

// LoadNotes distributes each note file's per-slot text to the teams in that
// match's schedule row.
func (l *Loader) LoadNotes(schedule models.Schedule) map[string][]models.NoteRecord {
	byTeam := make(map[string][]models.NoteRecord)
	for _, name := range l.store.LoadManifest(store.CategoryNotes) {
		data, ok := l.store.ReadRecordFile(store.CategoryNotes, name)
		if !ok {
			continue
		}
		var file noteFile
		if err := json.Unmarshal(data, &file); err != nil {
			slog.Debug("Skipping unparseable notes file", "file", name)
			continue
		}
		match, err := models.ParseMatchID(file.Info.Match)
		if err != nil || match.Round != models.RoundQualification {
			continue
		}
		teams := schedule[match.Number]
		for slot, team := range teams {
			text := file.Notes[strconv.Itoa(slot)]
			if text == "" {
				continue
			}
			byTeam[team] = append(byTeam[team], models.NoteRecord{
				Team:  team,
				Match: match,
				Text:  text,
			})
		}
	}
	return byTeam
}

// LoadImages resolves manifest identities to displayable sources: entries
// shaped "team@url" point at the web, anything else is a local file whose
// name leads with the team number.
func (l *Loader) LoadImages() map[string][]string {
	byTeam := make(map[string][]string)
	for _, name := range l.store.LoadManifest(store.CategoryImages) {
		if team, url, ok := strings.Cut(name, "@"); ok {
			byTeam[team] = append(byTeam[team], url)
			continue
		}
		if _, ok := l.store.ReadRecordFile(store.CategoryImages, name); !ok {
			continue
		}
		team, _, _ := strings.Cut(strings.TrimSuffix(name, filepath.Ext(name)), "-")
		byTeam[team] = append(byTeam[team], filepath.Join(l.store.CategoryDir(store.CategoryImages), name))
	}
	return byTeam
}
