package models

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MatchID
		wantErr bool
	}{
		{name: "qualification number", input: "12", want: QualMatch(12)},
		{name: "quarterfinal", input: "quarterfinals-3", want: ElimMatch(RoundQuarterfinals, 3)},
		{name: "semifinal", input: "semifinals-1", want: ElimMatch(RoundSemifinals, 1)},
		{name: "final", input: "finals-1", want: ElimMatch(RoundFinals, 1)},
		{name: "unknown round", input: "octofinals-1", wantErr: true},
		{name: "missing number", input: "semifinals", wantErr: true},
		{name: "non-numeric number", input: "semifinals-x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMatchID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchIDString(t *testing.T) {
	assert.Equal(t, "12", QualMatch(12).String())
	assert.Equal(t, "quarterfinals-3", ElimMatch(RoundQuarterfinals, 3).String())
}

func TestMatchIDRoundTrip(t *testing.T) {
	for _, id := range []MatchID{QualMatch(7), ElimMatch(RoundSemifinals, 2)} {
		parsed, err := ParseMatchID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestMatchOrdering(t *testing.T) {
	matches := []MatchID{
		ElimMatch(RoundFinals, 1),
		QualMatch(30),
		ElimMatch(RoundQuarterfinals, 2),
		QualMatch(2),
		ElimMatch(RoundSemifinals, 1),
		ElimMatch(RoundQuarterfinals, 1),
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Less(matches[j]) })

	want := []MatchID{
		QualMatch(2),
		QualMatch(30),
		ElimMatch(RoundQuarterfinals, 1),
		ElimMatch(RoundQuarterfinals, 2),
		ElimMatch(RoundSemifinals, 1),
		ElimMatch(RoundFinals, 1),
	}
	assert.Equal(t, want, matches)
}

func TestManifestAdd(t *testing.T) {
	var m Manifest
	m = m.Add("a.json")
	m = m.Add("b.json")
	m = m.Add("a.json")
	assert.Equal(t, Manifest{"a.json", "b.json"}, m)
	assert.True(t, m.Contains("a.json"))
	assert.False(t, m.Contains("c.json"))
}

func TestScheduleJSON(t *testing.T) {
	var s Schedule
	require.NoError(t, s.UnmarshalJSON([]byte(`{"1":["254","1540","971","118","2056","33"]}`)))
	assert.Equal(t, []string{"254", "1540", "971", "118", "2056", "33"}, s[1])

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	var back Schedule
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, s, back)

	require.Error(t, s.UnmarshalJSON([]byte(`{"abc":[]}`)))
}

func TestEventStart(t *testing.T) {
	e := Event{Key: "2020orore", StartDate: "2020-03-04"}
	start, err := e.Start()
	require.NoError(t, err)
	assert.Equal(t, 2020, start.Year())

	_, err = Event{Key: "bad", StartDate: "soon"}.Start()
	require.Error(t, err)
}
