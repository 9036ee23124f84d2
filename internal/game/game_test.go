package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutkit/analysis/internal/models"
)

func TestForYear(t *testing.T) {
	for year, name := range map[int]string{
		2019: "Destination: Deep Space",
		2020: "Infinite Recharge",
	} {
		adapter, err := ForYear(year)
		require.NoError(t, err)
		assert.Equal(t, year, adapter.Year())
		assert.Equal(t, name, adapter.Name())
	}

	_, err := ForYear(2021)
	require.Error(t, err)
}

func TestInfiniteRechargeExtractors(t *testing.T) {
	adapter, err := ForYear(2020)
	require.NoError(t, err)

	f := models.Fields{
		"info":  {"team": "1540", "match": "12", "time": float64(1583107200000)},
		"Stand": {"Login": "aq"},
	}
	assert.Equal(t, "aq", adapter.Login(f))
	assert.Equal(t, "1540", adapter.TeamNumber(f))

	match, err := adapter.MatchNumber(f)
	require.NoError(t, err)
	assert.Equal(t, models.QualMatch(12), match)

	captured, ok := adapter.Time(f)
	require.True(t, ok)
	assert.Equal(t, time.UnixMilli(1583107200000), captured)
}

func TestInfiniteRechargeScore(t *testing.T) {
	adapter, err := ForYear(2020)
	require.NoError(t, err)

	tests := []struct {
		name   string
		fields models.Fields
		want   float64
	}{
		{
			name:   "empty record scores zero",
			fields: models.Fields{},
			want:   0,
		},
		{
			name: "cells only",
			fields: models.Fields{
				"Autonomous": {"Leave Line": "yes", "Cells in Low": "2", "Cells in High": "1"},
				"Teleop":     {"Low Goal": "3", "High Goal": "2"},
			},
			// 5 + 2*2 + 1*4 + 3 + 2*3
			want: 22,
		},
		{
			name: "control panel stages",
			fields: models.Fields{
				"Teleop": {"Control Panel": []any{"stage2", "stage3"}},
			},
			want: 30,
		},
		{
			name: "balanced side climb",
			fields: models.Fields{
				"Endgame": {"Climb": "side", "Level": "balanced", "Assistance": "none"},
			},
			// 25 + 15
			want: 40,
		},
		{
			name: "center climb balances only alone",
			fields: models.Fields{
				"Endgame": {"Climb": "center", "Level": "balanced"},
			},
			want: 25,
		},
		{
			name: "center climb alone",
			fields: models.Fields{
				"Endgame": {"Climb": "center", "Level": "alone"},
			},
			want: 40,
		},
		{
			name: "park with assists given",
			fields: models.Fields{
				"Endgame": {"Climb": "park", "Assistance": "gave2"},
			},
			// 5 + 50
			want: 55,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.ScoutRecord{Fields: tt.fields}
			assert.InDelta(t, tt.want, adapter.CalculateScore(record), 1e-9)
		})
	}
}

func TestDeepSpaceScore(t *testing.T) {
	adapter, err := ForYear(2019)
	require.NoError(t, err)

	tests := []struct {
		name   string
		fields models.Fields
		want   float64
	}{
		{
			name: "cross and pieces",
			fields: models.Fields{
				"Start":  {"Cross Line": "2"},
				"Teleop": {"Hatch Ship": "1", "Hatch Low": "2", "Cargo Ship": "2"},
			},
			// 6 + 3*2 + 2*3
			want: 18,
		},
		{
			name: "climb doubled by giving one assist",
			fields: models.Fields{
				"Endgame": {"Platform": "level 2", "Assistance": "gave 1"},
			},
			want: 12,
		},
		{
			name: "climb tripled by giving two assists",
			fields: models.Fields{
				"Endgame": {"Platform": "level 3", "Assistance": "gave 2"},
			},
			want: 36,
		},
		{
			name: "received assist scores no climb",
			fields: models.Fields{
				"Endgame": {"Platform": "level 3", "Assistance": "received"},
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.ScoutRecord{Fields: tt.fields}
			assert.InDelta(t, tt.want, adapter.CalculateScore(record), 1e-9)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	adapter, err := ForYear(2020)
	require.NoError(t, err)
	schema := adapter.StandSchema()

	f := models.Fields{
		"Teleop": {"Low Goal": "4"},
	}
	schema.ApplyDefaults(f)

	// Existing answers stay, missing ones fill with the season default.
	assert.Equal(t, "4", f["Teleop"]["Low Goal"])
	assert.Equal(t, "0", f["Teleop"]["High Goal"])
	assert.Equal(t, "no", f["Autonomous"]["Leave Line"])
	assert.Equal(t, "none", f["Endgame"]["Climb"])
	assert.Equal(t, "", f["Stand"]["Login"])
}

func TestApplyDefaultsCompletesEveryQuestion(t *testing.T) {
	for _, year := range []int{2019, 2020} {
		adapter, err := ForYear(year)
		require.NoError(t, err)
		for _, schema := range []Schema{adapter.StandSchema(), adapter.PitSchema()} {
			f := models.Fields{}
			schema.ApplyDefaults(f)
			schema.Walk(func(page string, q Question) {
				_, ok := f[page][q.Name]
				assert.True(t, ok, "year %d: %s/%s not backfilled", year, page, q.Name)
			})
		}
	}
}

func TestFieldHelpers(t *testing.T) {
	f := models.Fields{
		"Teleop": {
			"count":  float64(3),
			"text":   "7",
			"flag":   true,
			"multi":  []any{"a", "b"},
			"single": "a",
		},
	}
	assert.Equal(t, 3.0, fieldNumber(f, "Teleop", "count"))
	assert.Equal(t, 7.0, fieldNumber(f, "Teleop", "text"))
	assert.Equal(t, 0.0, fieldNumber(f, "Teleop", "missing"))
	assert.Equal(t, "3", fieldString(f, "Teleop", "count"))
	assert.Equal(t, "true", fieldString(f, "Teleop", "flag"))
	assert.Equal(t, []string{"a", "b"}, fieldList(f, "Teleop", "multi"))
	assert.Equal(t, []string{"a"}, fieldList(f, "Teleop", "single"))
	assert.Nil(t, fieldList(f, "Teleop", "missing"))
}

func TestExportColumnsIncludeTeam(t *testing.T) {
	for _, year := range []int{2019, 2020} {
		adapter, err := ForYear(year)
		require.NoError(t, err)
		cols := adapter.ExportColumns()
		require.NotEmpty(t, cols)
		assert.Equal(t, "Team", cols[0].Name)

		records := []models.ScoutRecord{{Team: "1540", Fields: models.Fields{}}}
		assert.Equal(t, "1540", cols[0].Value(records))
	}
}
