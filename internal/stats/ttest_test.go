package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRefusesSmallSamples(t *testing.T) {
	_, err := Compare([]float64{1}, []float64{2, 3})
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = Compare([]float64{1, 2}, []float64{3})
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = Compare(nil, nil)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestCompareIdenticalSamples(t *testing.T) {
	p, err := Compare([]float64{10, 12, 14}, []float64{10, 12, 14})
	require.NoError(t, err)
	assert.InDelta(t, 1, p, 1e-9)
}

func TestCompareSeparatedSamples(t *testing.T) {
	p, err := Compare([]float64{10, 11, 12, 11}, []float64{40, 41, 42, 41})
	require.NoError(t, err)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 0.01)
}

func TestCompareOverlappingSamples(t *testing.T) {
	p, err := Compare([]float64{10, 14, 12, 16}, []float64{11, 15, 13, 12})
	require.NoError(t, err)
	assert.Greater(t, p, 0.2)
	assert.LessOrEqual(t, p, 1.0)
}

func TestCompareSymmetric(t *testing.T) {
	a := []float64{3, 5, 7, 9}
	b := []float64{4, 8, 12, 16}
	pab, err := Compare(a, b)
	require.NoError(t, err)
	pba, err := Compare(b, a)
	require.NoError(t, err)
	assert.InDelta(t, pab, pba, 1e-12)
}

func TestStudentTCDF(t *testing.T) {
	// Symmetric around zero for any df.
	for _, df := range []float64{1, 4, 10} {
		assert.InDelta(t, 0.5, studentTCDF(0, df), 1e-9)
		assert.InDelta(t, 1, studentTCDF(-2, df)+studentTCDF(2, df), 1e-9)
	}
	// Known value: CDF(-2.776, 4) is about 0.025 (the 95% two-tailed
	// critical point for df=4).
	assert.InDelta(t, 0.025, studentTCDF(-2.776, 4), 1e-3)
}

func TestSignificanceBands(t *testing.T) {
	tests := []struct {
		p     float64
		want  Significance
		color string
	}{
		{0.001, SignificanceCritical, "red"},
		{0.01, SignificanceCritical, "red"},
		{0.03, SignificanceHigh, "orange"},
		{0.05, SignificanceHigh, "orange"},
		{0.08, SignificanceModerate, "gold"},
		{0.1, SignificanceModerate, "gold"},
		{0.15, SignificanceLow, "green"},
		{0.2, SignificanceLow, "green"},
		{0.5, SignificanceNone, ""},
		{1.0, SignificanceNone, ""},
	}
	for _, tt := range tests {
		got := SignificanceOf(tt.p)
		assert.Equal(t, tt.want, got, "p=%v", tt.p)
		assert.Equal(t, tt.color, got.Color(), "p=%v", tt.p)
	}
}
