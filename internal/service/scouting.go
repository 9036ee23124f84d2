package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/scoutkit/analysis/internal/aggregate"
	"github.com/scoutkit/analysis/internal/api/tba"
	"github.com/scoutkit/analysis/internal/bracket"
	"github.com/scoutkit/analysis/internal/game"
	"github.com/scoutkit/analysis/internal/loader"
	"github.com/scoutkit/analysis/internal/merge"
	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/repository/memory"
	"github.com/scoutkit/analysis/internal/stats"
	"github.com/scoutkit/analysis/internal/store"
)

// ScoutingService ties the data directory, the season adapter, and the
// remote provider together behind the operations the bot and scheduler
// call. All mutation of the loaded state goes through LoadAll; everything
// else reads a snapshot.
type ScoutingService struct {
	store    *store.Store
	adapter  game.Adapter
	api      *tba.API
	repo     *memory.Repository
	agg      *aggregate.Aggregator
	cacheTTL time.Duration

	mu        sync.RWMutex
	state     *aggregate.State
	merger    *merge.Engine
	tree      *bracket.Tree
	picklists []*Picklist
}

func NewScoutingService(s *store.Store, adapter game.Adapter, api *tba.API, repo *memory.Repository, cacheTTL time.Duration) *ScoutingService {
	l := loader.New(s, adapter)
	return &ScoutingService{
		store:    s,
		adapter:  adapter,
		api:      api,
		repo:     repo,
		agg:      aggregate.New(s, l),
		cacheTTL: cacheTTL,
	}
}

// LoadAll rebuilds the aggregate state from disk, resolves team names, and
// rebuilds the bracket if an alliance selection is on record.
func (s *ScoutingService) LoadAll(ctx context.Context) error {
	state, err := s.agg.Load()
	if err != nil {
		return err
	}
	s.agg.ResolveTeamNames(ctx, state, s.lookupTeamName)

	start, err := state.Event.Start()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.merger = merge.New(s.store, s.adapter, start)
	if state.Alliances != nil {
		s.tree = bracket.Build(state.Alliances)
	} else {
		s.tree = nil
	}
	return nil
}

// State returns the current loaded snapshot.
func (s *ScoutingService) State() *aggregate.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *ScoutingService) lookupTeamName(ctx context.Context, team string) (string, error) {
	t, err := s.api.GetTeam(ctx, team)
	if err != nil {
		return "", err
	}
	return t.Nickname, nil
}

// TeamRecords implements game.Env.
func (s *ScoutingService) TeamRecords(team string) []models.ScoutRecord {
	state := s.State()
	if state == nil {
		return nil
	}
	return state.Stand[team]
}

// OfficialRankingScore implements game.Env: the team's primary sort value
// from the official event rankings, via the freshness cache.
func (s *ScoutingService) OfficialRankingScore(ctx context.Context, team string) (float64, error) {
	rows, err := s.eventRankings(ctx)
	if err != nil {
		return 0, err
	}
	row, ok := rows[team]
	if !ok || len(row.SortOrders) == 0 {
		return 0, fmt.Errorf("no official ranking for team %s", team)
	}
	return row.SortOrders[0], nil
}

// eventRankings serves the official rankings from cache inside the
// freshness window. On a miss it refreshes; a failed refresh falls back to
// the stale entry rather than failing the caller.
func (s *ScoutingService) eventRankings(ctx context.Context) (map[string]models.TBARankingRow, error) {
	rows, fetchedAt, ok := s.repo.GetRankings()
	if ok && time.Since(fetchedAt) <= s.cacheTTL {
		return rows, nil
	}
	fresh, err := s.api.GetEventRankings(ctx, s.State().Event.Key)
	if err != nil {
		if ok {
			slog.Warn("Rankings refresh failed, serving cached", "error", err)
			return rows, nil
		}
		return nil, err
	}
	s.repo.SaveRankings(fresh)
	return fresh, nil
}

// eventMatches is the same freshness policy over the official match list.
func (s *ScoutingService) eventMatches(ctx context.Context) ([]models.TBAMatch, error) {
	matches, fetchedAt, ok := s.repo.GetMatches()
	if ok && time.Since(fetchedAt) <= s.cacheTTL {
		return matches, nil
	}
	fresh, err := s.api.GetEventMatches(ctx, s.State().Event.Key)
	if err != nil {
		if ok {
			slog.Warn("Match list refresh failed, serving cached", "error", err)
			return matches, nil
		}
		return nil, err
	}
	s.repo.SaveMatches(fresh)
	return fresh, nil
}

// OfficialResult returns TBA's recorded score for a qualification match,
// if the match has been played.
func (s *ScoutingService) OfficialResult(ctx context.Context, id models.MatchID) (red, blue int, ok bool) {
	if !id.IsQualification() {
		return 0, 0, false
	}
	matches, err := s.eventMatches(ctx)
	if err != nil {
		return 0, 0, false
	}
	for _, m := range matches {
		if m.CompLevel == "qm" && m.MatchNumber == id.Number {
			if m.Alliances.Red.Score < 0 || m.Alliances.Blue.Score < 0 {
				return 0, 0, false
			}
			return m.Alliances.Red.Score, m.Alliances.Blue.Score, true
		}
	}
	return 0, 0, false
}

// MergeIncoming ingests a removable-media folder and reloads the aggregate.
func (s *ScoutingService) MergeIncoming(ctx context.Context, sourceRoot string) (models.MergeReport, error) {
	s.mu.RLock()
	merger := s.merger
	s.mu.RUnlock()
	if merger == nil {
		return nil, fmt.Errorf("no event loaded")
	}
	report, err := merger.ImportSource(sourceRoot)
	if err != nil {
		return nil, err
	}
	if err := s.LoadAll(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// SyncDevices ingests every registered device folder and reloads.
func (s *ScoutingService) SyncDevices(ctx context.Context) (models.MergeReport, error) {
	s.mu.RLock()
	merger := s.merger
	s.mu.RUnlock()
	if merger == nil {
		return nil, fmt.Errorf("no event loaded")
	}
	report, err := merger.SyncDevices()
	if err != nil {
		return nil, err
	}
	if err := s.LoadAll(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// Rank computes the named ranking category over every team with data.
func (s *ScoutingService) Rank(ctx context.Context, category string) ([]models.RankedTeam, error) {
	state := s.State()
	if state == nil {
		return nil, fmt.Errorf("no event loaded")
	}
	cat, err := findCategory(s.adapter.RankingCategories(), category)
	if err != nil {
		return nil, err
	}
	ranked := stats.Rank(ctx, state.Roster, state.HasData, func(ctx context.Context, team string) (float64, error) {
		return cat.Score(ctx, team, s)
	})
	return ranked, nil
}

func findCategory(categories []game.Category, name string) (game.Category, error) {
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, nil
		}
	}
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}
	return game.Category{}, fmt.Errorf("unknown category %q, have: %s", name, strings.Join(names, ", "))
}

// Predict estimates a match's alliance totals from collected data. The
// match may be a qualification number or an elimination id; elimination
// participants come from the derived bracket list.
func (s *ScoutingService) Predict(id models.MatchID) (models.Prediction, error) {
	state := s.State()
	if state == nil {
		return models.Prediction{}, fmt.Errorf("no event loaded")
	}
	teams := state.MatchParticipants(id, s.DerivedMatches())
	if len(teams) == 0 {
		return models.Prediction{}, fmt.Errorf("no participants known for match %s", id)
	}
	return stats.Predict(teams, func(team string) []models.ScoutRecord {
		return state.Stand[team]
	}, s.adapter.CalculateScore), nil
}

// CompareResult is the outcome of a two-team comparison on one parameter.
type CompareResult struct {
	P            float64
	Significance stats.Significance
}

// Compare runs the two-sample test for one compare parameter. Fewer than
// two collected matches on either side refuses the comparison.
func (s *ScoutingService) Compare(teamA, teamB, parameter string) (CompareResult, error) {
	state := s.State()
	if state == nil {
		return CompareResult{}, fmt.Errorf("no event loaded")
	}
	params := s.adapter.CompareParameters()
	var param *game.StatCategory
	for i := range params {
		if strings.EqualFold(params[i].Name, parameter) {
			param = &params[i]
			break
		}
	}
	if param == nil {
		return CompareResult{}, fmt.Errorf("unknown compare parameter %q", parameter)
	}
	a := stats.Scores(state.Stand[teamA], param.Value)
	b := stats.Scores(state.Stand[teamB], param.Value)
	p, err := stats.Compare(a, b)
	if err != nil {
		return CompareResult{}, err
	}
	return CompareResult{P: p, Significance: stats.SignificanceOf(p)}, nil
}

// TeamSummary computes one summary category value for a team.
func (s *ScoutingService) TeamSummary(ctx context.Context, team string) (map[string]float64, error) {
	state := s.State()
	if state == nil {
		return nil, fmt.Errorf("no event loaded")
	}
	out := make(map[string]float64)
	for _, cat := range s.adapter.SummaryCategories() {
		v, err := cat.Score(ctx, team, s)
		if err != nil {
			slog.Warn("Summary category unavailable", "team", team, "category", cat.Name, "error", err)
			continue
		}
		out[cat.Name] = v
	}
	return out, nil
}

// SetAlliances records the elimination alliance selection and rebuilds the
// bracket. Every named team must have collected stand data, the same check
// the selection screen applies.
func (s *ScoutingService) SetAlliances(set models.AllianceSet) error {
	state := s.State()
	if state == nil {
		return fmt.Errorf("no event loaded")
	}
	for seed, alliance := range set {
		for _, team := range alliance {
			if team != "" && !state.HasData(team) {
				return fmt.Errorf("there is no team %s at this event", team)
			}
		}
		sorted := append(models.Alliance(nil), alliance...)
		sort.Strings(sorted)
		set[seed] = sorted
	}
	if err := s.store.SaveAlliances(set); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Alliances = set
	s.tree = bracket.Build(set)
	return nil
}

// Bracket returns the current elimination tree, or nil before alliance
// selection.
func (s *ScoutingService) Bracket() *bracket.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// AdvanceAllianceWinner promotes a quarterfinal alliance one level up.
func (s *ScoutingService) AdvanceAllianceWinner(seed int) error {
	tree := s.Bracket()
	if tree == nil {
		return fmt.Errorf("no bracket built")
	}
	var leaf *bracket.Node
	for _, semi := range tree.Root.Children {
		for _, quarter := range semi.Children {
			for _, child := range quarter.Children {
				if child.Alliance == seed {
					leaf = child
				}
			}
		}
	}
	if leaf == nil {
		return fmt.Errorf("no alliance %d in bracket", seed)
	}
	tree.AdvanceWinner(leaf)
	return nil
}

// AdvanceMatchWinner promotes the winner slot of a played elimination match
// into its parent.
func (s *ScoutingService) AdvanceMatchWinner(round models.Round, number int) error {
	tree := s.Bracket()
	if tree == nil {
		return fmt.Errorf("no bracket built")
	}
	node := tree.Find(round, number)
	if node == nil {
		return fmt.Errorf("no match %s-%d in bracket", round, number)
	}
	if !node.Resolved() {
		return fmt.Errorf("match %s-%d has no recorded winner yet", round, number)
	}
	if !tree.AdvanceWinner(node) {
		return fmt.Errorf("match %s-%d has nowhere to advance", round, number)
	}
	return nil
}

// DerivedMatches is the playable elimination match list, recomputed in full.
func (s *ScoutingService) DerivedMatches() map[models.MatchID][]string {
	tree := s.Bracket()
	if tree == nil {
		return nil
	}
	return tree.Matches()
}

// ExportCSV writes the season's full export table, one row per team sorted
// ascending by team number, and returns the file path.
func (s *ScoutingService) ExportCSV() (string, error) {
	state := s.State()
	if state == nil {
		return "", fmt.Errorf("no event loaded")
	}
	columns := s.adapter.ExportColumns()
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}

	var rows [][]string
	for _, team := range state.Roster {
		records := state.Stand[team]
		if len(records) == 0 {
			continue
		}
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = col.Value(records)
		}
		rows = append(rows, row)
	}
	return s.store.WriteExportCSV(header, rows)
}

// SearchTeams fuzzy-matches a query against "number nickname" for every
// roster team and returns matching team numbers, best first.
func (s *ScoutingService) SearchTeams(query string) []string {
	state := s.State()
	if state == nil {
		return nil
	}
	labels := make([]string, len(state.Roster))
	byLabel := make(map[string]string, len(state.Roster))
	for i, team := range state.Roster {
		label := strings.TrimSpace(team + " " + state.TeamNames[team])
		labels[i] = label
		byLabel[label] = team
	}
	ranks := fuzzy.RankFindFold(query, labels)
	sort.Sort(ranks)
	teams := make([]string, 0, len(ranks))
	for _, r := range ranks {
		teams = append(teams, byLabel[r.Target])
	}
	return teams
}

// ImportTeamMedia pulls each roster team's published robot photos from the
// remote provider into the image manifest. Lookup failures skip the team.
func (s *ScoutingService) ImportTeamMedia(ctx context.Context) (int, error) {
	state := s.State()
	if state == nil {
		return 0, fmt.Errorf("no event loaded")
	}
	s.mu.RLock()
	merger := s.merger
	s.mu.RUnlock()

	var identities []string
	for _, team := range state.Roster {
		media, err := s.api.GetTeamMediaByYear(ctx, team, state.Event.Year)
		if err != nil {
			slog.Warn("Media lookup failed", "team", team, "error", err)
			continue
		}
		for _, m := range media {
			url := mediaURL(m)
			if url != "" {
				identities = append(identities, team+"@"+url)
			}
		}
	}
	added, err := merger.AddWebImages(identities)
	if err != nil {
		return 0, err
	}
	if err := s.LoadAll(ctx); err != nil {
		return added, err
	}
	return added, nil
}

func mediaURL(m models.TBAMedia) string {
	if direct, ok := m.Details["direct_url"].(string); ok && direct != "" {
		return direct
	}
	if m.Type == "imgur" && m.ForeignKey != "" {
		return "https://i.imgur.com/" + m.ForeignKey + ".jpg"
	}
	return ""
}

// EventOptions lists the events a team is registered for in a season, via
// the freshness cache.
func (s *ScoutingService) EventOptions(ctx context.Context, team string, year int) ([]models.TBAEvent, error) {
	events, fetchedAt, ok := s.repo.GetTeamEvents(team)
	if ok && time.Since(fetchedAt) <= s.cacheTTL {
		return events, nil
	}
	fresh, err := s.api.GetTeamEventsByYear(ctx, team, year)
	if err != nil {
		if ok {
			return events, nil
		}
		return nil, err
	}
	s.repo.SaveTeamEvents(team, fresh)
	return fresh, nil
}

// SwitchEvent archives the current data directory and starts one for the
// named event, seeded from that event's archive when one exists.
func (s *ScoutingService) SwitchEvent(ctx context.Context, event models.Event) error {
	if current, err := s.store.LoadEvent(); err == nil && current.Key != "" {
		dest := s.store.Root() + "-" + current.Key
		if err := s.store.Archive(dest); err != nil {
			return fmt.Errorf("archiving %s: %w", current.Key, err)
		}
		slog.Info("Archived event data", "event", current.Key, "dest", dest)
	}
	archive := s.store.Root() + "-" + event.Key
	if _, err := os.Stat(archive); err == nil {
		if err := s.store.Restore(archive); err != nil {
			return fmt.Errorf("restoring %s: %w", event.Key, err)
		}
		slog.Info("Restored archived event data", "event", event.Key)
	} else if err := s.store.Reset(); err != nil {
		return err
	}
	if err := s.store.SaveEvent(event); err != nil {
		return err
	}
	return s.LoadAll(ctx)
}
