package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutkit/analysis/internal/models"
)

func TestRank(t *testing.T) {
	scores := map[string]float64{
		"1540": 42,
		"254":  42,
		"971":  10,
		"118":  60,
	}
	ranked := Rank(context.Background(),
		[]string{"1540", "254", "971", "118", "2056"},
		func(team string) bool { return team != "2056" },
		func(_ context.Context, team string) (float64, error) {
			return scores[team], nil
		})

	require.Len(t, ranked, 4)
	assert.Equal(t, "118", ranked[0].Team)
	// Equal scores break ties by ascending team number.
	assert.Equal(t, "254", ranked[1].Team)
	assert.Equal(t, "1540", ranked[2].Team)
	assert.Equal(t, "971", ranked[3].Team)
}

func TestRankDropsFailedLookups(t *testing.T) {
	ranked := Rank(context.Background(),
		[]string{"1540", "254"},
		func(string) bool { return true },
		func(_ context.Context, team string) (float64, error) {
			if team == "254" {
				return 0, errors.New("provider down")
			}
			return 5, nil
		})

	require.Len(t, ranked, 1)
	assert.Equal(t, "1540", ranked[0].Team)
}

func TestRankDeterministic(t *testing.T) {
	teams := []string{"8", "33", "254", "971", "1540", "2056", "2471", "4488"}
	score := func(_ context.Context, team string) (float64, error) { return 7, nil }
	first := Rank(context.Background(), teams, func(string) bool { return true }, score)
	for i := 0; i < 10; i++ {
		again := Rank(context.Background(), teams, func(string) bool { return true }, score)
		assert.Equal(t, first, again)
	}
}

func scoreRecord(v float64) models.ScoutRecord {
	return models.ScoutRecord{Fields: models.Fields{"t": {"v": v}}}
}

func recordValue(r models.ScoutRecord) float64 {
	return r.Fields["t"]["v"].(float64)
}

func TestPredictQualification(t *testing.T) {
	records := map[string][]models.ScoutRecord{
		"1540": {scoreRecord(10), scoreRecord(20)},
		"254":  {scoreRecord(30)},
		"971":  {scoreRecord(5), scoreRecord(7)},
		"118":  {scoreRecord(8)},
		"2056": {scoreRecord(12), scoreRecord(14)},
		"33":   {scoreRecord(40)},
	}
	p := Predict([]string{"1540", "254", "971", "118", "2056", "33"},
		func(team string) []models.ScoutRecord { return records[team] },
		recordValue)

	// Red: 15 + 30 + 6, Blue: 8 + 13 + 40.
	assert.InDelta(t, 51, p.Red, 1e-9)
	assert.InDelta(t, 61, p.Blue, 1e-9)
}

func TestPredictSkipsBackupSlot(t *testing.T) {
	records := func(team string) []models.ScoutRecord {
		if team == "backupA" || team == "backupB" {
			return []models.ScoutRecord{scoreRecord(1000)}
		}
		return []models.ScoutRecord{scoreRecord(10)}
	}
	p := Predict([]string{"r1", "r2", "r3", "backupA", "b1", "b2", "b3", "backupB"}, records, recordValue)

	assert.InDelta(t, 30, p.Red, 1e-9)
	assert.InDelta(t, 30, p.Blue, 1e-9)
}

func TestPredictNoDataContributesZero(t *testing.T) {
	records := func(team string) []models.ScoutRecord {
		if team == "971" {
			return nil
		}
		return []models.ScoutRecord{scoreRecord(10)}
	}
	p := Predict([]string{"1540", "254", "971", "118", "2056", "33"}, records, recordValue)

	assert.InDelta(t, 20, p.Red, 1e-9)
	assert.InDelta(t, 30, p.Blue, 1e-9)
}
