package models

import "encoding/json"

// TBATeam is the subset of The Blue Alliance team payload we read.
type TBATeam struct {
	Key      string `json:"key"`
	Number   int    `json:"team_number"`
	Nickname string `json:"nickname"`
}

// TBAEvent is one event from /team/{key}/events/{year}.
type TBAEvent struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	StartDate string `json:"start_date"`
}

// TBAMedia is one media reference from /team/{key}/media/{year}.
type TBAMedia struct {
	Type       string         `json:"type"`
	ForeignKey string         `json:"foreign_key"`
	Details    map[string]any `json:"details"`
}

// TBARankings is the /event/{key}/rankings payload.
type TBARankings struct {
	Rankings []TBARankingRow `json:"rankings"`
}

// TBARankingRow is one team's row in the official event rankings.
type TBARankingRow struct {
	TeamKey    string    `json:"team_key"`
	Rank       int       `json:"rank"`
	SortOrders []float64 `json:"sort_orders"`
}

// TBAMatch is the subset of a match payload needed for per-match score
// breakdowns. ScoreBreakdown stays raw because its shape changes by season;
// the game adapter digs into it.
type TBAMatch struct {
	Key            string          `json:"key"`
	CompLevel      string          `json:"comp_level"`
	MatchNumber    int             `json:"match_number"`
	Alliances      TBAAlliances    `json:"alliances"`
	ScoreBreakdown json.RawMessage `json:"score_breakdown"`
}

type TBAAlliances struct {
	Red  TBAAlliance `json:"red"`
	Blue TBAAlliance `json:"blue"`
}

type TBAAlliance struct {
	Score    int      `json:"score"`
	TeamKeys []string `json:"team_keys"`
}
