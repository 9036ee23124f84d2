package game

import (
	"strconv"

	"github.com/scoutkit/analysis/internal/models"
	"github.com/scoutkit/analysis/internal/stats"
)

// summaryExportColumns builds the Mean/Median/Maximum CSV columns every
// season exports for its counted game pieces.
func summaryExportColumns(prefix string, value func(models.ScoutRecord) float64) []ExportColumn {
	return []ExportColumn{
		{Name: prefix + " Mean", Value: func(records []models.ScoutRecord) string {
			return formatStat(stats.Mean(stats.Scores(records, value)))
		}},
		{Name: prefix + " Median", Value: func(records []models.ScoutRecord) string {
			return formatStat(stats.Median(stats.Scores(records, value)))
		}},
		{Name: prefix + " Maximum", Value: func(records []models.ScoutRecord) string {
			return formatStat(stats.Max(stats.Scores(records, value)))
		}},
	}
}

func teamNumberCell(a Adapter) func(records []models.ScoutRecord) string {
	return func(records []models.ScoutRecord) string {
		if len(records) == 0 {
			return ""
		}
		return records[0].Team
	}
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCount(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}
