package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Round is the stage of play a match belongs to. Qualification matches
// order before every elimination round.
type Round int

const (
	RoundQualification Round = iota
	RoundQuarterfinals
	RoundSemifinals
	RoundFinals
)

var roundNames = map[Round]string{
	RoundQualification: "qualification",
	RoundQuarterfinals: "quarterfinals",
	RoundSemifinals:    "semifinals",
	RoundFinals:        "finals",
}

func (r Round) String() string {
	if name, ok := roundNames[r]; ok {
		return name
	}
	return fmt.Sprintf("round(%d)", int(r))
}

func ParseRound(s string) (Round, error) {
	for r, name := range roundNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown round %q", s)
}

// MatchID identifies a single match: a bare number for qualification
// matches, or a round plus a number within that round for eliminations.
type MatchID struct {
	Round  Round
	Number int
}

func QualMatch(n int) MatchID {
	return MatchID{Round: RoundQualification, Number: n}
}

func ElimMatch(round Round, n int) MatchID {
	return MatchID{Round: round, Number: n}
}

// ParseMatchID accepts either a qualification match number ("12") or an
// elimination code like "quarterfinals-3".
func ParseMatchID(s string) (MatchID, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return QualMatch(n), nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return MatchID{}, fmt.Errorf("invalid match id %q", s)
	}
	round, err := ParseRound(parts[0])
	if err != nil {
		return MatchID{}, fmt.Errorf("invalid match id %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return MatchID{}, fmt.Errorf("invalid match id %q: %w", s, err)
	}
	return ElimMatch(round, n), nil
}

func (m MatchID) String() string {
	if m.Round == RoundQualification {
		return strconv.Itoa(m.Number)
	}
	return fmt.Sprintf("%s-%d", m.Round, m.Number)
}

func (m MatchID) IsQualification() bool {
	return m.Round == RoundQualification
}

// Less defines the stable match order: qualification matches numerically,
// then quarterfinals, semifinals, and finals, each by number.
func (m MatchID) Less(other MatchID) bool {
	if m.Round != other.Round {
		return m.Round < other.Round
	}
	return m.Number < other.Number
}
