package game

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/stats"
)

//go:embed seasons/2019-stand.yaml
var deepSpaceStandYAML []byte

//go:embed seasons/2019-pit.yaml
var deepSpacePitYAML []byte

// deepSpace scores the 2019 game. Hatch panels and cargo at three rocket
// levels plus the cargo ship, and a platform climb that doubles or triples
// when carrying partner robots.
type deepSpace struct {
	stand Schema
	pit   Schema
}

func newDeepSpace() *deepSpace {
	return &deepSpace{
		stand: mustParseSchema(deepSpaceStandYAML),
		pit:   mustParseSchema(deepSpacePitYAML),
	}
}

func (g *deepSpace) Year() int           { return 2019 }
func (g *deepSpace) Name() string        { return "Destination: Deep Space" }
func (g *deepSpace) StandSchema() Schema { return g.stand }
func (g *deepSpace) PitSchema() Schema   { return g.pit }

func (g *deepSpace) Login(f models.Fields) string {
	return fieldString(f, "Stand", "Login")
}

func (g *deepSpace) TeamNumber(f models.Fields) string {
	return infoString(f, "team")
}

func (g *deepSpace) MatchNumber(f models.Fields) (models.MatchID, error) {
	return recordMatch(f)
}

func (g *deepSpace) Time(f models.Fields) (time.Time, bool) {
	return recordTime(f)
}

func (g *deepSpace) Notes(f models.Fields) string {
	return fieldString(f, "Notes", "Notes")
}

var hatchQuestions = []string{"Hatch Ship", "Hatch Low", "Hatch Mid", "Hatch High"}
var cargoQuestions = []string{"Cargo Ship", "Cargo Low", "Cargo Mid", "Cargo High"}

func allHatch(r models.ScoutRecord) float64 {
	var total float64
	for _, q := range hatchQuestions {
		total += fieldNumber(r.Fields, "Teleop", q)
	}
	return total
}

func allCargo(r models.ScoutRecord) float64 {
	var total float64
	for _, q := range cargoQuestions {
		total += fieldNumber(r.Fields, "Teleop", q)
	}
	return total
}

func allPieces(r models.ScoutRecord) float64 {
	return allHatch(r) + allCargo(r)
}

func (g *deepSpace) CalculateScore(r models.ScoutRecord) float64 {
	var score float64
	switch fieldString(r.Fields, "Start", "Cross Line") {
	case "1":
		score += 3
	case "2":
		score += 6
	}
	var climbScore float64
	switch fieldString(r.Fields, "Endgame", "Platform") {
	case "level 1":
		climbScore = 3
	case "level 2":
		climbScore = 6
	case "level 3":
		climbScore = 12
	}
	switch fieldString(r.Fields, "Endgame", "Assistance") {
	case "received":
		climbScore = 0
	case "gave 1":
		climbScore *= 2
	case "gave 2":
		climbScore *= 3
	}
	score += climbScore
	score += allHatch(r) * 2
	score += allCargo(r) * 3
	return score
}

func (g *deepSpace) RankingCategories() []Category {
	return []Category{
		{Name: "Hatch", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allHatch)), nil
		}},
		{Name: "Cargo", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allCargo)), nil
		}},
		{Name: "Total Pieces", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allPieces)), nil
		}},
		{Name: "% Defense", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return defensePercentage(env.TeamRecords(team)), nil
		}},
		{Name: "PCPR", Score: func(ctx context.Context, team string, env Env) (float64, error) {
			official, err := env.OfficialRankingScore(ctx, team)
			if err != nil {
				return 0, fmt.Errorf("official ranking for %s: %w", team, err)
			}
			if official == 0 {
				return 0, nil
			}
			median := stats.Median(stats.Scores(env.TeamRecords(team), g.CalculateScore))
			return median / official, nil
		}},
	}
}

func (g *deepSpace) SummaryCategories() []Category {
	return []Category{
		{Name: "Hatch", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allHatch)), nil
		}},
		{Name: "Cargo", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allCargo)), nil
		}},
		{Name: "Total Pieces", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allPieces)), nil
		}},
		{Name: "Climb 3 %", Score: func(_ context.Context, team string, env Env) (float64, error) {
			records := env.TeamRecords(team)
			if len(records) == 0 {
				return 0, nil
			}
			var total float64
			for _, r := range records {
				p := fieldString(r.Fields, "Endgame", "Platform")
				if p == "level 3" || p == "3" {
					total++
				}
			}
			return total * 100 / float64(len(records)), nil
		}},
		{Name: "Defense %", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return defensePercentage(env.TeamRecords(team)), nil
		}},
	}
}

func (g *deepSpace) TeamStatCategories() []StatCategory {
	return []StatCategory{
		{Name: "hatch", Value: allHatch},
		{Name: "cargo", Value: allCargo},
	}
}

func (g *deepSpace) CompareParameters() []StatCategory {
	return []StatCategory{
		{Name: "Average Points", Value: g.CalculateScore},
		{Name: "Hatch Pieces", Value: allHatch},
		{Name: "Cargo Pieces", Value: allCargo},
	}
}

func (g *deepSpace) TableColumns() []TableColumn {
	return []TableColumn{
		{Name: "Cross", Value: func(r models.ScoutRecord) string {
			return fieldString(r.Fields, "Start", "Cross Line")
		}},
		{Name: "Hatch", Value: func(r models.ScoutRecord) string {
			return formatCount(allHatch(r))
		}},
		{Name: "Cargo", Value: func(r models.ScoutRecord) string {
			return formatCount(allCargo(r))
		}},
		{Name: "Stop", Value: func(r models.ScoutRecord) string {
			return fieldString(r.Fields, "Notes", "Stopped")
		}},
	}
}

func (g *deepSpace) ExportColumns() []ExportColumn {
	cols := []ExportColumn{{Name: "Team", Value: teamNumberCell(g)}}
	cols = append(cols, summaryExportColumns("Hatch", allHatch)...)
	cols = append(cols, summaryExportColumns("Cargo", allCargo)...)
	cols = append(cols, ExportColumn{Name: "Climb", Value: func(records []models.ScoutRecord) string {
		var out string
		for _, r := range records {
			out += fieldString(r.Fields, "Endgame", "Platform")
			if a := fieldString(r.Fields, "Endgame", "Assistance"); a != "none" && a != "" {
				out += " (" + a + ")"
			}
			out += "; "
		}
		return out
	}})
	return cols
}
