package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/stats"
	"github.com/scoutkit/analysis/internal/store"
)

// RankReport renders one ranking category as a Markdown table for the bot.
func (s *ScoutingService) RankReport(ctx context.Context, category string) (string, error) {
	ranked, err := s.Rank(ctx, category)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *%s Rankings*\n\n", category))
	if len(ranked) == 0 {
		sb.WriteString("No scouting data collected yet.")
		return sb.String(), nil
	}
	state := s.State()
	for i, entry := range ranked {
		name := state.TeamNames[entry.Team]
		if name != "" {
			name = " " + name
		}
		sb.WriteString(fmt.Sprintf("%d. *%s*%s - %.2f\n", i+1, entry.Team, name, entry.Score))
	}
	return sb.String(), nil
}

// PredictReport renders a match prediction, with the official result
// alongside when the match has already been played.
func (s *ScoutingService) PredictReport(ctx context.Context, matchArg string) (string, error) {
	id, err := models.ParseMatchID(matchArg)
	if err != nil {
		return "", err
	}
	prediction, err := s.Predict(id)
	if err != nil {
		return "", err
	}

	state := s.State()
	teams := state.MatchParticipants(id, s.DerivedMatches())
	half := len(teams) / 2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔮 *Match %s Prediction*\n\n", id))
	sb.WriteString(fmt.Sprintf("🔴 Red: %s\n", strings.Join(presentHalf(teams[:half]), ", ")))
	sb.WriteString(fmt.Sprintf("🔵 Blue: %s\n\n", strings.Join(presentHalf(teams[half:]), ", ")))
	sb.WriteString(fmt.Sprintf("Predicted: %.2f - %.2f\n", prediction.Red, prediction.Blue))
	if red, blue, ok := s.OfficialResult(ctx, id); ok {
		sb.WriteString(fmt.Sprintf("Actual: %d - %d\n", red, blue))
	}
	return sb.String(), nil
}

func presentHalf(teams []string) []string {
	var out []string
	for _, team := range teams {
		if team != "" {
			out = append(out, team)
		}
	}
	return out
}

// CompareReport renders a two-team comparison; the insufficient-data
// refusal passes through as the error message.
func (s *ScoutingService) CompareReport(teamA, teamB, parameter string) (string, error) {
	result, err := s.Compare(teamA, teamB, parameter)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚖️ *%s vs %s* (%s)\n\n", teamA, teamB, parameter))
	sb.WriteString(fmt.Sprintf("p-value: %.4f\n", result.P))
	sb.WriteString(fmt.Sprintf("Significance: %s\n", result.Significance))
	return sb.String(), nil
}

// TeamReport renders everything known about one team.
func (s *ScoutingService) TeamReport(ctx context.Context, team string) (string, error) {
	state := s.State()
	if state == nil {
		return "", fmt.Errorf("no event loaded")
	}
	view := state.Team(team)

	var sb strings.Builder
	title := team
	if view.Name != "" {
		title = fmt.Sprintf("%s - %s", team, view.Name)
	}
	sb.WriteString(fmt.Sprintf("🤖 *%s*\n\n", title))

	if len(view.Records) == 0 {
		sb.WriteString("No stand data collected.\n")
	} else {
		sb.WriteString(fmt.Sprintf("Matches collected: %d\n\n", len(view.Records)))
		for _, cat := range s.adapter.TeamStatCategories() {
			summary := stats.Summarize(stats.Scores(view.Records, cat.Value))
			sb.WriteString(fmt.Sprintf("*%s*: mean %.2f, median %.2f, max %.2f, stdev %.2f\n",
				cat.Name, summary.Mean, summary.Median, summary.Max, summary.StDev))
		}
		if summaries, err := s.TeamSummary(ctx, team); err == nil && len(summaries) > 0 {
			names := make([]string, 0, len(summaries))
			for name := range summaries {
				names = append(names, name)
			}
			sort.Strings(names)
			sb.WriteString("\n")
			for _, name := range names {
				sb.WriteString(fmt.Sprintf("%s: %.2f\n", name, summaries[name]))
			}
		}
	}

	if view.Pit != nil {
		sb.WriteString("\nPit data collected.\n")
	}
	if len(view.Prescout) > 0 {
		keys := make([]string, 0, len(view.Prescout))
		for k := range view.Prescout {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("\n*Prescout:*\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, view.Prescout[k]))
		}
	}
	if len(view.Notes) > 0 {
		sb.WriteString("\n*Notes:*\n")
		for _, note := range view.Notes {
			sb.WriteString(fmt.Sprintf("  Match %s: %s\n", note.Match, note.Text))
		}
	}
	if len(view.Images) > 0 {
		sb.WriteString(fmt.Sprintf("\n%d robot photo(s) on file.\n", len(view.Images)))
	}
	return sb.String(), nil
}

// TallyReport credits scouts by collected record count, most first.
func (s *ScoutingService) TallyReport() (string, error) {
	state := s.State()
	if state == nil {
		return "", fmt.Errorf("no event loaded")
	}
	tally := state.TallyScouts()
	type entry struct {
		scout string
		count int
	}
	entries := make([]entry, 0, len(tally))
	for scout, count := range tally {
		entries = append(entries, entry{scout, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].scout < entries[j].scout
	})

	var sb strings.Builder
	sb.WriteString("📝 *Scout Tally*\n\n")
	if len(entries) == 0 {
		sb.WriteString("No records collected yet.")
		return sb.String(), nil
	}
	for _, e := range entries {
		name := e.scout
		if display, ok := state.Scouts[e.scout]; ok && display != "" {
			name = display
		}
		sb.WriteString(fmt.Sprintf("%s: %d\n", name, e.count))
	}
	return sb.String(), nil
}

// MissingReport lists schedule slots without a collected stand record.
func (s *ScoutingService) MissingReport() (string, error) {
	state := s.State()
	if state == nil {
		return "", fmt.Errorf("no event loaded")
	}
	missing := state.MissingRecords()

	var sb strings.Builder
	sb.WriteString("🔍 *Missing Records*\n\n")
	if len(missing) == 0 {
		sb.WriteString("Every schedule slot has data. Nice work.")
		return sb.String(), nil
	}
	for _, m := range missing {
		sb.WriteString(fmt.Sprintf("Match %s: team %s\n", m.Match, m.Team))
	}
	return sb.String(), nil
}

// MergeReportText renders per-category merge counts.
func MergeReportText(report models.MergeReport) string {
	var sb strings.Builder
	sb.WriteString("🔄 *Sync Complete*\n\n")
	for _, category := range store.RecordCategories {
		st, ok := report[category]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d new, %d updated, %d skipped\n",
			category, st.Accepted, st.Updated, st.Skipped))
	}
	if len(report) == 0 {
		sb.WriteString("No sources had data.")
	}
	return sb.String()
}

// BracketReport renders the playable elimination matches.
func (s *ScoutingService) BracketReport() (string, error) {
	matches := s.DerivedMatches()
	if matches == nil {
		return "", fmt.Errorf("no bracket built; record an alliance selection first")
	}

	ids := make([]models.MatchID, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	var sb strings.Builder
	sb.WriteString("🏆 *Elimination Matches*\n\n")
	if len(ids) == 0 {
		sb.WriteString("No matches playable yet.")
		return sb.String(), nil
	}
	for _, id := range ids {
		teams := matches[id]
		half := len(teams) / 2
		sb.WriteString(fmt.Sprintf("*%s*: %s vs %s\n", id,
			strings.Join(teams[:half], ", "), strings.Join(teams[half:], ", ")))
	}
	return sb.String(), nil
}
