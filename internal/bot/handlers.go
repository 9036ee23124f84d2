package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/scoutkit/analysis/internal/service"
)

type Handler struct {
	scouting *service.ScoutingService
}

func NewHandler(scouting *service.ScoutingService) *Handler {
	return &Handler{scouting: scouting}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Scouting analysis online. Use /help to see available commands."
	case "help":
		msg.Text = "Available commands:\n" +
			"/rank <category> - Rank teams by a category\n" +
			"/predict <match> - Predict a match (e.g. 12 or quarterfinals-3)\n" +
			"/compare <teamA> <teamB> <parameter> - Two-team comparison\n" +
			"/team <team> - Everything known about a team\n" +
			"/search <query> - Fuzzy team search\n" +
			"/sync - Pull data from registered devices\n" +
			"/export - Write the CSV export\n" +
			"/tally - Records collected per scout\n" +
			"/missing - Schedule slots without data\n" +
			"/bracket - Playable elimination matches"
	case "rank":
		h.handleRank(ctx, &msg, args)
	case "predict":
		h.handlePredict(ctx, &msg, args)
	case "compare":
		h.handleCompare(&msg, args)
	case "team":
		h.handleTeam(ctx, &msg, args)
	case "search":
		h.handleSearch(&msg, args)
	case "sync":
		h.handleSync(ctx, &msg)
	case "export":
		h.handleExport(&msg)
	case "tally":
		h.handleTally(&msg)
	case "missing":
		h.handleMissing(&msg)
	case "bracket":
		h.handleBracket(&msg)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleRank(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a category. Usage: /rank <category>"
		return
	}
	report, err := h.scouting.RankReport(ctx, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error ranking teams: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handlePredict(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a match. Usage: /predict <match>"
		return
	}
	report, err := h.scouting.PredictReport(ctx, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error predicting match: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleCompare(msg *tgbotapi.MessageConfig, args string) {
	parts := strings.Fields(args)
	if len(parts) < 3 {
		msg.Text = "Usage: /compare <teamA> <teamB> <parameter>"
		return
	}
	parameter := strings.Join(parts[2:], " ")
	report, err := h.scouting.CompareReport(parts[0], parts[1], parameter)
	if err != nil {
		msg.Text = fmt.Sprintf("Error comparing teams: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleTeam(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team number. Usage: /team <team>"
		return
	}
	report, err := h.scouting.TeamReport(ctx, strings.TrimSpace(args))
	if err != nil {
		msg.Text = fmt.Sprintf("Error getting team: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleSearch(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a query. Usage: /search <query>"
		return
	}
	teams := h.scouting.SearchTeams(args)
	if len(teams) == 0 {
		msg.Text = fmt.Sprintf("🔍 No team found matching '%s'.", args)
		return
	}
	msg.Text = "🔍 Matches:\n" + strings.Join(teams, "\n")
}

func (h *Handler) handleSync(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.scouting.SyncDevices(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error syncing devices: %v", err)
	} else {
		msg.Text = service.MergeReportText(report)
	}
}

func (h *Handler) handleExport(msg *tgbotapi.MessageConfig) {
	path, err := h.scouting.ExportCSV()
	if err != nil {
		msg.Text = fmt.Sprintf("Error writing export: %v", err)
	} else {
		msg.Text = fmt.Sprintf("📁 Export written to %s", path)
	}
}

func (h *Handler) handleTally(msg *tgbotapi.MessageConfig) {
	report, err := h.scouting.TallyReport()
	if err != nil {
		msg.Text = fmt.Sprintf("Error tallying scouts: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleMissing(msg *tgbotapi.MessageConfig) {
	report, err := h.scouting.MissingReport()
	if err != nil {
		msg.Text = fmt.Sprintf("Error checking for missing records: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleBracket(msg *tgbotapi.MessageConfig) {
	report, err := h.scouting.BracketReport()
	if err != nil {
		msg.Text = fmt.Sprintf("Error rendering bracket: %v", err)
	} else {
		msg.Text = report
	}
}
