package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptive(t *testing.T) {
	scores := []float64{4, 2, 8, 6}

	assert.InDelta(t, 5, Mean(scores), 1e-9)
	assert.InDelta(t, 5, Median(scores), 1e-9)
	assert.InDelta(t, 8, Max(scores), 1e-9)
	assert.InDelta(t, 2.2360679, StDev(scores), 1e-6)
}

func TestMedianOddCount(t *testing.T) {
	assert.InDelta(t, 6, Median([]float64{9, 6, 2}), 1e-9)
}

func TestDescriptiveEmpty(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.Zero(t, Median(nil))
	assert.Zero(t, Max(nil))
	assert.Zero(t, StDev(nil))
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	scores := []float64{3, 1, 2}
	Median(scores)
	assert.Equal(t, []float64{3, 1, 2}, scores)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(10.0/3.0))
	assert.Equal(t, 2.0, Round2(2.0000001))
	assert.Equal(t, -1.25, Round2(-1.249))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3})
	assert.InDelta(t, 2, s.Mean, 1e-9)
	assert.InDelta(t, 2, s.Median, 1e-9)
	assert.InDelta(t, 3, s.Max, 1e-9)
	assert.Greater(t, s.StDev, 0.0)
}
