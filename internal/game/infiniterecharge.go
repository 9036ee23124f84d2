package game

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/stats"
)

//go:embed seasons/2020-stand.yaml
var infiniteRechargeStandYAML []byte

//go:embed seasons/2020-pit.yaml
var infiniteRechargePitYAML []byte

// infiniteRecharge scores the 2020 game. Power cells in two goals, the
// control panel, and a generator switch climb that can be balanced.
type infiniteRecharge struct {
	stand Schema
	pit   Schema
}

func newInfiniteRecharge() *infiniteRecharge {
	return &infiniteRecharge{
		stand: mustParseSchema(infiniteRechargeStandYAML),
		pit:   mustParseSchema(infiniteRechargePitYAML),
	}
}

func (g *infiniteRecharge) Year() int           { return 2020 }
func (g *infiniteRecharge) Name() string        { return "Infinite Recharge" }
func (g *infiniteRecharge) StandSchema() Schema { return g.stand }
func (g *infiniteRecharge) PitSchema() Schema   { return g.pit }

func (g *infiniteRecharge) Login(f models.Fields) string {
	return fieldString(f, "Stand", "Login")
}

func (g *infiniteRecharge) TeamNumber(f models.Fields) string {
	return infoString(f, "team")
}

func (g *infiniteRecharge) MatchNumber(f models.Fields) (models.MatchID, error) {
	return recordMatch(f)
}

func (g *infiniteRecharge) Time(f models.Fields) (time.Time, bool) {
	return recordTime(f)
}

func (g *infiniteRecharge) Notes(f models.Fields) string {
	return fieldString(f, "Notes", "Notes")
}

func autoCellLow(r models.ScoutRecord) float64  { return fieldNumber(r.Fields, "Autonomous", "Cells in Low") }
func autoCellHigh(r models.ScoutRecord) float64 { return fieldNumber(r.Fields, "Autonomous", "Cells in High") }
func cellLow(r models.ScoutRecord) float64      { return fieldNumber(r.Fields, "Teleop", "Low Goal") }
func cellHigh(r models.ScoutRecord) float64     { return fieldNumber(r.Fields, "Teleop", "High Goal") }

func allLowCells(r models.ScoutRecord) float64  { return cellLow(r) + autoCellLow(r) }
func allHighCells(r models.ScoutRecord) float64 { return cellHigh(r) + autoCellHigh(r) }
func allCells(r models.ScoutRecord) float64     { return allLowCells(r) + allHighCells(r) }

func allMissedCells(r models.ScoutRecord) float64 {
	return fieldNumber(r.Fields, "Teleop", "Dropped Cell") +
		fieldNumber(r.Fields, "Teleop", "Missed Low") +
		fieldNumber(r.Fields, "Teleop", "Missed High")
}

func climb(r models.ScoutRecord) string      { return fieldString(r.Fields, "Endgame", "Climb") }
func climbAssist(r models.ScoutRecord) string { return fieldString(r.Fields, "Endgame", "Assistance") }
func climbLevel(r models.ScoutRecord) string  { return fieldString(r.Fields, "Endgame", "Level") }

func playedDefense(r models.ScoutRecord) bool {
	v := fieldString(r.Fields, "Teleop", "Played Defense")
	return v == "true" || v == "yes"
}

func (g *infiniteRecharge) CalculateScore(r models.ScoutRecord) float64 {
	var score float64
	if fieldString(r.Fields, "Autonomous", "Leave Line") == "yes" {
		score += 5
	}
	score += autoCellLow(r) * 2
	score += autoCellHigh(r) * 4
	score += cellLow(r)
	score += cellHigh(r) * 3
	panel := fieldList(r.Fields, "Teleop", "Control Panel")
	if contains(panel, "stage2") {
		score += 10
	}
	if contains(panel, "stage3") {
		score += 20
	}
	c := climb(r)
	level := climbLevel(r)
	switch c {
	case "park", "attempted", "assisted":
		score += 5
	case "side", "center":
		score += 25
	}
	if (level == "balanced" && c != "center") || (c == "center" && level == "alone") {
		score += 15
	}
	switch climbAssist(r) {
	case "gave1":
		score += 25
	case "gave2":
		score += 50
	}
	return score
}

func (g *infiniteRecharge) RankingCategories() []Category {
	return []Category{
		{Name: "Cells", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allCells)), nil
		}},
		{Name: "Level Climbs", Score: func(_ context.Context, team string, env Env) (float64, error) {
			var total float64
			for _, r := range env.TeamRecords(team) {
				if climbLevel(r) == "balanced" && climb(r) != "center" {
					total++
				}
			}
			return total, nil
		}},
		{Name: "% Defense", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return defensePercentage(env.TeamRecords(team)), nil
		}},
		// PCPR: median scouted points per official ranking point, the one
		// category that needs the remote breakdown.
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

func (g *infiniteRecharge) SummaryCategories() []Category {
	return []Category{
		{Name: "Cells", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), allCells)), nil
		}},
		{Name: "Climb %", Score: func(_ context.Context, team string, env Env) (float64, error) {
			records := env.TeamRecords(team)
			if len(records) == 0 {
				return 0, nil
			}
			var total float64
			for _, r := range records {
				if c := climb(r); c == "side" || c == "center" {
					total++
				}
			}
			return total * 100 / float64(len(records)), nil
		}},
		{Name: "Level %", Score: func(_ context.Context, team string, env Env) (float64, error) {
			var attempts, level float64
			for _, r := range env.TeamRecords(team) {
				if climb(r) == "center" {
					continue
				}
				switch climbLevel(r) {
				case "balanced":
					attempts++
					level++
				case "unbalanced":
					attempts++
				}
			}
			if attempts == 0 {
				return 0, nil
			}
			return level * 100 / attempts, nil
		}},
		{Name: "Defense %", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return defensePercentage(env.TeamRecords(team)), nil
		}},
		{Name: "Scores", Score: func(_ context.Context, team string, env Env) (float64, error) {
			return stats.Median(stats.Scores(env.TeamRecords(team), g.CalculateScore)), nil
		}},
	}
}

func (g *infiniteRecharge) TeamStatCategories() []StatCategory {
	return []StatCategory{
		{Name: "cell", Value: allCells},
	}
}

func (g *infiniteRecharge) CompareParameters() []StatCategory {
	return []StatCategory{
		{Name: "Average Points", Value: g.CalculateScore},
		{Name: "Cells", Value: allCells},
	}
}

func (g *infiniteRecharge) TableColumns() []TableColumn {
	return []TableColumn{
		{Name: "Cross", Value: func(r models.ScoutRecord) string {
			return fieldString(r.Fields, "Autonomous", "Leave Line")
		}},
		{Name: "Cells", Value: func(r models.ScoutRecord) string {
			return formatCount(allCells(r))
		}},
		{Name: "Spinner", Value: func(r models.ScoutRecord) string {
			return strings.Join(fieldList(r.Fields, "Teleop", "Control Panel"), ", ")
		}},
		{Name: "Climb", Value: func(r models.ScoutRecord) string { return climb(r) }},
		{Name: "Stop", Value: func(r models.ScoutRecord) string {
			return fieldString(r.Fields, "Notes", "Stopped")
		}},
	}
}

func (g *infiniteRecharge) ExportColumns() []ExportColumn {
	cols := []ExportColumn{{Name: "Team", Value: teamNumberCell(g)}}
	cols = append(cols, summaryExportColumns("Low Cell", allLowCells)...)
	cols = append(cols, summaryExportColumns("High Cell", allHighCells)...)
	cols = append(cols, summaryExportColumns("Cell", allCells)...)
	cols = append(cols, ExportColumn{Name: "Climb", Value: func(records []models.ScoutRecord) string {
		var sb strings.Builder
		for _, r := range records {
			sb.WriteString(climb(r))
			if a := climbAssist(r); a != "none" && a != "" {
				sb.WriteString(" (" + a + ")")
			}
			sb.WriteString("; ")
		}
		return sb.String()
	}})
	return cols
}

func defensePercentage(records []models.ScoutRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, r := range records {
		if playedDefense(r) {
			total++
		}
	}
	return total * 100 / float64(len(records))
}
