package tba

import (
	"context"
	"fmt"

	"github.com/scoutkit/analysis/internal/models"
)

// API wraps the read endpoints we use from The Blue Alliance.
type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// TeamKey converts a bare team number to TBA's key form, e.g. "frc1540".
func TeamKey(team string) string {
	return "frc" + team
}

// GetEventRankings returns the official ranking rows keyed by team number.
func (a *API) GetEventRankings(ctx context.Context, eventKey string) (map[string]models.TBARankingRow, error) {
	var response models.TBARankings
	endpoint := fmt.Sprintf("/event/%s/rankings", eventKey)

	if err := a.client.Get(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("fetching event rankings: %w", err)
	}

	rows := make(map[string]models.TBARankingRow, len(response.Rankings))
	for _, row := range response.Rankings {
		team := row.TeamKey
		if len(team) > 3 && team[:3] == "frc" {
			team = team[3:]
		}
		rows[team] = row
	}
	return rows, nil
}

// GetEventMatches returns every match TBA knows for the event, including
// raw season-specific score breakdowns.
func (a *API) GetEventMatches(ctx context.Context, eventKey string) ([]models.TBAMatch, error) {
	var matches []models.TBAMatch
	endpoint := fmt.Sprintf("/event/%s/matches", eventKey)

	if err := a.client.Get(ctx, endpoint, &matches); err != nil {
		return nil, fmt.Errorf("fetching event matches: %w", err)
	}
	return matches, nil
}

// GetTeam returns a team's registry entry, used for nickname resolution.
func (a *API) GetTeam(ctx context.Context, team string) (models.TBATeam, error) {
	var response models.TBATeam
	endpoint := fmt.Sprintf("/team/%s", TeamKey(team))

	if err := a.client.Get(ctx, endpoint, &response); err != nil {
		return models.TBATeam{}, fmt.Errorf("fetching team %s: %w", team, err)
	}
	return response, nil
}

// GetTeamMediaByYear lists a team's published media for a season.
func (a *API) GetTeamMediaByYear(ctx context.Context, team string, year int) ([]models.TBAMedia, error) {
	var media []models.TBAMedia
	endpoint := fmt.Sprintf("/team/%s/media/%d", TeamKey(team), year)

	if err := a.client.Get(ctx, endpoint, &media); err != nil {
		return nil, fmt.Errorf("fetching media for team %s: %w", team, err)
	}
	return media, nil
}

// GetTeamEventsByYear lists the events a team is registered for in a
// season, used when selecting the active event.
func (a *API) GetTeamEventsByYear(ctx context.Context, team string, year int) ([]models.TBAEvent, error) {
	var events []models.TBAEvent
	endpoint := fmt.Sprintf("/team/%s/events/%d", TeamKey(team), year)

	if err := a.client.Get(ctx, endpoint, &events); err != nil {
		return nil, fmt.Errorf("fetching events for team %s: %w", team, err)
	}
	return events, nil
}
