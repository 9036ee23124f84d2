package game

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/scoutkit/analysis/internal/models"
)

// Env is what season scoring functions are allowed to read: the loaded
// aggregate plus the remote stats provider, both injected by the caller.
// Remote lookups may be answered from cache.
type Env interface {
	// TeamRecords returns a team's collected stand records in match order.
	TeamRecords(team string) []models.ScoutRecord
	// OfficialRankingScore returns the team's primary sort value from the
	// event's official rankings.
	OfficialRankingScore(ctx context.Context, team string) (float64, error)
}

// Category is a named per-team score used by the rankings table and the
// match summary page. Score may reach out to the remote provider through
// env, so it takes a context and can fail.
type Category struct {
	Name  string
	Score func(ctx context.Context, team string, env Env) (float64, error)
}

// StatCategory is a named per-record numeric extractor. These feed the
// overall team statistics (mean/median/max/stdev) and two-team comparisons.
type StatCategory struct {
	Name  string
	Value func(r models.ScoutRecord) float64
}

// TableColumn renders one cell of a team's match table from a record.
type TableColumn struct {
	Name  string
	Value func(r models.ScoutRecord) string
}

// ExportColumn renders one CSV cell from all of a team's records.
type ExportColumn struct {
	Name  string
	Value func(records []models.ScoutRecord) string
}

// Adapter bundles everything that changes between seasons: the form schema,
// the field extractors over the raw JSON, and the scoring formulas. The rest
// of the application is written against this interface and selects one
// adapter at startup.
type Adapter interface {
	Year() int
	Name() string

	// StandSchema and PitSchema describe the season's forms; they drive
	// default backfill and display ordering.
	StandSchema() Schema
	PitSchema() Schema

	// Extractors over the raw record layout.
	Login(f models.Fields) string
	TeamNumber(f models.Fields) string
	MatchNumber(f models.Fields) (models.MatchID, error)
	Time(f models.Fields) (time.Time, bool)
	Notes(f models.Fields) string

	// CalculateScore applies the season scoring formula to one record.
	CalculateScore(r models.ScoutRecord) float64

	RankingCategories() []Category
	SummaryCategories() []Category
	TeamStatCategories() []StatCategory
	CompareParameters() []StatCategory
	TableColumns() []TableColumn
	ExportColumns() []ExportColumn
}

// ForYear selects the season adapter once at startup.
func ForYear(year int) (Adapter, error) {
	switch year {
	case 2019:
		return newDeepSpace(), nil
	case 2020:
		return newInfiniteRecharge(), nil
	default:
		return nil, fmt.Errorf("no game adapter for year %d", year)
	}
}

// infoString reads a value from the record's info block, coercing JSON
// numbers to their string form since the collection apps are inconsistent
// about it.
func infoString(f models.Fields, key string) string {
	return fieldString(f, "info", key)
}

func fieldString(f models.Fields, page, question string) string {
	pg, ok := f[page]
	if !ok {
		return ""
	}
	switch v := pg[question].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func fieldNumber(f models.Fields, page, question string) float64 {
	pg, ok := f[page]
	if !ok {
		return 0
	}
	switch v := pg[question].(type) {
	case float64:
		return v
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// fieldList reads a multi-select answer, tolerating both a list of strings
// and a single string.
func fieldList(f models.Fields, page, question string) []string {
	pg, ok := f[page]
	if !ok {
		return nil
	}
	switch v := pg[question].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

// recordTime parses the info block's millisecond epoch capture time.
func recordTime(f models.Fields) (time.Time, bool) {
	raw := infoString(f, "time")
	if raw == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// recordMatch parses the info block's match identifier.
func recordMatch(f models.Fields) (models.MatchID, error) {
	raw := infoString(f, "match")
	if raw == "" {
		return models.MatchID{}, fmt.Errorf("record has no match identifier")
	}
	return models.ParseMatchID(raw)
}
