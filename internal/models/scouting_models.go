package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Fields holds the raw page -> question -> answer structure of a scouting
// form. The layout varies by season; the game adapter knows how to read it.
type Fields map[string]map[string]any

// ScoutRecord is one robot's performance in one match, as recorded by a
// single scout in the stands. Immutable once accepted into a team's
// collection; a newer file with the same name supersedes it during merge.
type ScoutRecord struct {
	FileName string
	Team     string
	Match    MatchID
	ScoutID  string
	Time     time.Time
	Fields   Fields
}

// PitRecord is a team's pit-scouting snapshot. One per team, latest wins.
type PitRecord struct {
	FileName string
	Team     string
	Fields   Fields
}

// NoteRecord is a free-text annotation for one team in one match.
type NoteRecord struct {
	Team  string
	Match MatchID
	Text  string
}

// PrescoutRecord is the static pre-event research row for a team.
type PrescoutRecord map[string]string

// Schedule maps a qualification match number to its six participant teams,
// first half red, second half blue.
type Schedule map[int][]string

// UnmarshalJSON accepts the on-disk form, which keys matches by string.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Schedule, len(raw))
	for k, teams := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("schedule has non-numeric match key %q", k)
		}
		out[n] = teams
	}
	*s = out
	return nil
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	raw := make(map[string][]string, len(s))
	for n, teams := range s {
		raw[strconv.Itoa(n)] = teams
	}
	return json.Marshal(raw)
}

// Manifest is the append-only set of filenames already ingested for a data
// category.
type Manifest []string

func (m Manifest) Contains(name string) bool {
	for _, existing := range m {
		if existing == name {
			return true
		}
	}
	return false
}

// Add unions a filename into the manifest. Never inserts a name twice.
func (m Manifest) Add(name string) Manifest {
	if m.Contains(name) {
		return m
	}
	return append(m, name)
}

// Alliance is an ordered list of up to four team numbers; the fourth slot
// is the optional backup.
type Alliance []string

// AllianceSet maps alliance seed (1-8) to its member teams.
type AllianceSet map[int]Alliance

// MergeStats counts the outcome of one category during a merge pass.
type MergeStats struct {
	Accepted int
	Updated  int
	Skipped  int
}

// MergeReport summarizes one merge pass per category.
type MergeReport map[string]*MergeStats

func (r MergeReport) Stats(category string) *MergeStats {
	if r[category] == nil {
		r[category] = &MergeStats{}
	}
	return r[category]
}

// RankedTeam is one row of a ranking table.
type RankedTeam struct {
	Team  string
	Score float64
}

// Prediction is the expected alliance scores for a match.
type Prediction struct {
	Red  float64
	Blue float64
}

// Event describes the competition currently loaded, persisted at
// resources/event.json.
type Event struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	StartDate string `json:"start_date"`
}

// Start parses the event's start date. Records captured before this moment
// are treated as leftovers from a previous event.
func (e Event) Start() (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, e.StartDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("event %q has unparseable start date %q", e.Key, e.StartDate)
}
