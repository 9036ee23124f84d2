package stats

import (
	"math"
	"sort"

	"github.com/scoutkit/analysis/internal/models"
)

// Scores applies a per-record extractor to a team's collected records,
// one value per match played.
func Scores(records []models.ScoutRecord, value func(models.ScoutRecord) float64) []float64 {
	scores := make([]float64, 0, len(records))
	for _, r := range records {
		scores = append(scores, value(r))
	}
	return scores
}

// Summary holds the descriptive statistics shown for a category.
type Summary struct {
	Mean   float64
	Median float64
	Max    float64
	StDev  float64
}

func Summarize(scores []float64) Summary {
	return Summary{
		Mean:   Mean(scores),
		Median: Median(scores),
		Max:    Max(scores),
		StDev:  StDev(scores),
	}
}

func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func Median(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func Max(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	return max
}

// StDev is the population standard deviation.
func StDev(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	mean := Mean(scores)
	var sum float64
	for _, s := range scores {
		d := s - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(scores)))
}

// sampleVariance divides by n-1; it feeds the pooled two-sample t statistic.
func sampleVariance(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	mean := Mean(scores)
	var sum float64
	for _, s := range scores {
		d := s - mean
		sum += d * d
	}
	return sum / float64(len(scores)-1)
}

// Round2 rounds to two decimal places, the precision every displayed stat
// uses.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
