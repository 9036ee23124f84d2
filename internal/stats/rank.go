package stats

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/scoutkit/analysis/internal/models"
)

// ScoreFunc computes a team's score for one ranking category. It may need
// the remote provider, so it takes a context and can fail.
type ScoreFunc func(ctx context.Context, team string) (float64, error)

// Rank scores every team with data and sorts descending. Lookups fan out
// concurrently and are joined only once all have completed; a team whose
// lookup fails is dropped from this ranking rather than failing the table.
// Ties break by ascending team number so the ordering is deterministic.
func Rank(ctx context.Context, teams []string, hasData func(team string) bool, score ScoreFunc) []models.RankedTeam {
	type result struct {
		team  string
		score float64
		ok    bool
	}
	results := make([]result, len(teams))

	var g errgroup.Group
	for i, team := range teams {
		if !hasData(team) {
			continue
		}
		i, team := i, team
		g.Go(func() error {
			s, err := score(ctx, team)
			if err != nil {
				slog.Warn("Dropping team from ranking", "team", team, "error", err)
				return nil
			}
			results[i] = result{team: team, score: s, ok: true}
			return nil
		})
	}
	// Lookups only report per-team outcomes, so the join cannot fail.
	_ = g.Wait()

	ranked := make([]models.RankedTeam, 0, len(teams))
	for _, r := range results {
		if r.ok {
			ranked = append(ranked, models.RankedTeam{Team: r.team, Score: r.score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return teamLess(ranked[i].Team, ranked[j].Team)
	})
	return ranked
}

// Predict sums each alliance's mean score for a match. The first half of
// the team list is red, the second half blue; in the 8-team elimination
// format each alliance's fourth slot is the backup and is excluded.
func Predict(matchTeams []string, records func(team string) []models.ScoutRecord, scorer func(models.ScoutRecord) float64) models.Prediction {
	var red, blue float64
	half := len(matchTeams) / 2
	for i, team := range matchTeams {
		if team == "" {
			continue
		}
		if len(matchTeams) == 8 && i%4 == 3 {
			continue
		}
		teamRecords := records(team)
		if len(teamRecords) == 0 {
			slog.Warn("No collected matches for prediction", "team", team)
			continue
		}
		mean := Round2(Mean(Scores(teamRecords, scorer)))
		if i < half {
			red += mean
		} else {
			blue += mean
		}
	}
	return models.Prediction{Red: Round2(red), Blue: Round2(blue)}
}

func teamLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
