package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/scoutkit/analysis/internal/loader"
	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/store"
)

// State is the session's loaded view of the data directory. It is built in
// one pass by Load and treated as read-only by the statistics and bracket
// layers; only an explicit reload replaces it.
type State struct {
	Event     models.Event
	Schedule  models.Schedule
	Roster    []string
	TeamNames map[string]string
	Stand     map[string][]models.ScoutRecord
	Pit       map[string]models.PitRecord
	Notes     map[string][]models.NoteRecord
	Prescout  map[string]models.PrescoutRecord
	Images    map[string][]string
	Scouts    map[string]string
	Alliances models.AllianceSet
}

// TeamView is everything known about one team.
type TeamView struct {
	Team     string
	Name     string
	Records  []models.ScoutRecord
	Pit      *models.PitRecord
	Prescout models.PrescoutRecord
	Notes    []models.NoteRecord
	Images   []string
}

// MissingRecord flags a schedule slot with no collected stand record.
type MissingRecord struct {
	Match models.MatchID
	Team  string
}

// Aggregator hydrates State from the store and answers the cross-category
// questions the presentation layer asks.
type Aggregator struct {
	store  *store.Store
	loader *loader.Loader
}

func New(s *store.Store, l *loader.Loader) *Aggregator {
	return &Aggregator{store: s, loader: l}
}

// Load reads every category into a fresh State. The event and schedule are
// required; everything else degrades to empty.
func (a *Aggregator) Load() (*State, error) {
	event, err := a.store.LoadEvent()
	if err != nil {
		return nil, fmt.Errorf("loading aggregate state: %w", err)
	}
	schedule, err := a.store.LoadSchedule()
	if err != nil {
		slog.Warn("No match schedule yet, roster will be empty", "error", err)
		schedule = models.Schedule{}
	}
	start, err := event.Start()
	if err != nil {
		return nil, fmt.Errorf("loading aggregate state: %w", err)
	}

	prescout, err := a.store.LoadPrescout()
	if err != nil {
		slog.Warn("Prescout table unreadable, continuing without it", "error", err)
		prescout = nil
	}
	scouts, err := a.store.LoadScouts()
	if err != nil {
		scouts = nil
	}

	state := &State{
		Event:     event,
		Schedule:  schedule,
		Roster:    rosterFromSchedule(schedule),
		TeamNames: a.store.LoadTeamNames(),
		Stand:     a.loader.LoadStand(start),
		Pit:       a.loader.LoadPit(),
		Notes:     a.loader.LoadNotes(schedule),
		Prescout:  prescout,
		Images:    a.loader.LoadImages(),
		Scouts:    scouts,
		Alliances: a.store.LoadAlliances(),
	}
	slog.Info("Loaded aggregate state",
		"event", event.Key,
		"teams", len(state.Roster),
		"standTeams", len(state.Stand))
	return state, nil
}

// rosterFromSchedule collects every distinct team appearing in any match
// slot, sorted numerically ascending.
func rosterFromSchedule(schedule models.Schedule) []string {
	seen := make(map[string]struct{})
	var roster []string
	for _, teams := range schedule {
		for _, team := range teams {
			if team == "" {
				continue
			}
			if _, ok := seen[team]; !ok {
				seen[team] = struct{}{}
				roster = append(roster, team)
			}
		}
	}
	sort.Slice(roster, func(i, j int) bool {
		return teamLess(roster[i], roster[j])
	})
	return roster
}

func teamLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// Team assembles the full view for one team.
func (s *State) Team(team string) TeamView {
	view := TeamView{
		Team:     team,
		Name:     s.TeamNames[team],
		Records:  s.Stand[team],
		Prescout: s.Prescout[team],
		Notes:    s.Notes[team],
		Images:   s.Images[team],
	}
	if pit, ok := s.Pit[team]; ok {
		view.Pit = &pit
	}
	return view
}

// HasData reports whether any stand record was collected for the team.
func (s *State) HasData(team string) bool {
	return len(s.Stand[team]) > 0
}

// MatchParticipants returns a match's team list in role order. Qualification
// matches come from the schedule; elimination matches from the derived
// bracket list, which the caller supplies since brackets live outside the
// loaded state.
func (s *State) MatchParticipants(id models.MatchID, derived map[models.MatchID][]string) []string {
	if id.IsQualification() {
		return s.Schedule[id.Number]
	}
	return derived[id]
}

// RecordForMatch returns the team's latest collected record for one match.
func (s *State) RecordForMatch(team string, id models.MatchID) (models.ScoutRecord, bool) {
	var best models.ScoutRecord
	found := false
	for _, record := range s.Stand[team] {
		if record.Match != id {
			continue
		}
		if !found || record.Time.After(best.Time) {
			best = record
			found = true
		}
	}
	return best, found
}

// MissingRecords lists every schedule slot without a collected stand record,
// in match order.
func (s *State) MissingRecords() []MissingRecord {
	var missing []MissingRecord
	numbers := make([]int, 0, len(s.Schedule))
	for number := range s.Schedule {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	for _, number := range numbers {
		id := models.QualMatch(number)
		for _, team := range s.Schedule[number] {
			if team == "" {
				continue
			}
			if _, ok := s.RecordForMatch(team, id); !ok {
				missing = append(missing, MissingRecord{Match: id, Team: team})
			}
		}
	}
	return missing
}

// TallyScouts counts collected stand records per scout login, for crediting
// scouts during the event.
func (s *State) TallyScouts() map[string]int {
	tally := make(map[string]int)
	for _, records := range s.Stand {
		for _, record := range records {
			tally[record.ScoutID]++
		}
	}
	return tally
}

// NameLookup resolves one team number to a display name.
type NameLookup func(ctx context.Context, team string) (string, error)

// ResolveTeamNames fills State.TeamNames. A persisted mapping is reused only
// when its key set exactly matches the roster; otherwise every name is
// fetched, and the mapping is persisted once all lookups complete. A failed
// lookup leaves that team blank and skips persistence so the next session
// retries.
func (a *Aggregator) ResolveTeamNames(ctx context.Context, state *State, lookup NameLookup) {
	if namesMatchRoster(state.TeamNames, state.Roster) {
		return
	}

	var mu sync.Mutex
	names := make(map[string]string, len(state.Roster))
	complete := true

	g, ctx := errgroup.WithContext(ctx)
	for _, team := range state.Roster {
		team := team
		g.Go(func() error {
			name, err := lookup(ctx, team)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("Team name lookup failed", "team", team, "error", err)
				complete = false
				return nil
			}
			names[team] = name
			return nil
		})
	}
	_ = g.Wait()

	state.TeamNames = names
	if !complete {
		return
	}
	if err := a.store.SaveTeamNames(names); err != nil {
		slog.Warn("Failed to persist team names", "error", err)
	}
}

func namesMatchRoster(names map[string]string, roster []string) bool {
	if len(names) != len(roster) {
		return false
	}
	for _, team := range roster {
		if _, ok := names[team]; !ok {
			return false
		}
	}
	return true
}
