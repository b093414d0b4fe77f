package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRateVector() [NumRates]float64 {
	var base [NumRates]float64
	for i := range base {
		base[i] = 1
	}
	base[RateCritPH1H1] = 200
	base[RateCritPH7H13] = 300
	base[RateCritPDelta] = 400
	return base
}

func TestNewRates_ValidatesNegativity(t *testing.T) {
	base := baseRateVector()
	_, err := NewRates(base)
	require.NoError(t, err)

	bad := base
	bad[RateMSH1] = -1
	_, err = NewRates(bad)
	assert.Error(t, err)
}

func TestNewRates_CriticalCountsMustBePositive(t *testing.T) {
	base := baseRateVector()
	base[RateCritPDelta] = 0
	_, err := NewRates(base)
	assert.Error(t, err)
}

func TestNewRates_DelayMH13SentinelAllowsZero(t *testing.T) {
	base := baseRateVector()
	base[RateDelayMH13] = 0
	_, err := NewRates(base)
	assert.NoError(t, err)
}

func TestRates_CurrentWithoutGradient_IsNeutral(t *testing.T) {
	base := baseRateVector()
	base[RateMSH1] = 42
	r, err := NewRates(base)
	require.NoError(t, err)
	assert.Equal(t, 42.0, r.Current(RateMSH1, 3))
	assert.False(t, r.HasGradient(RateMSH1))
}

func TestRates_LoadGradients_InterpolatesLinearly(t *testing.T) {
	base := baseRateVector()
	base[RateMSH1] = 10
	r, err := NewRates(base)
	require.NoError(t, err)

	// rate 0 (msh1): anchors at position 0 (100%) and position 4 (200%).
	src := strings.NewReader("0 (0 100) (4 200)\n")
	require.NoError(t, r.LoadGradients(src, 5))

	assert.True(t, r.HasGradient(RateMSH1))
	assert.Equal(t, 10.0, r.Current(RateMSH1, 0))  // 100% -> neutral
	assert.Equal(t, 20.0, r.Current(RateMSH1, 4))  // 200% -> doubled
	assert.Equal(t, 15.0, r.Current(RateMSH1, 2))  // midpoint interpolation
}

func TestRates_Gradient_BelowFirstAnchorIsNeutral(t *testing.T) {
	base := baseRateVector()
	r, err := NewRates(base)
	require.NoError(t, err)
	src := strings.NewReader("0 (2 150)\n")
	require.NoError(t, r.LoadGradients(src, 5))
	assert.Equal(t, base[RateMSH1]*1.0, r.Current(RateMSH1, 0))
	assert.Equal(t, base[RateMSH1]*1.0, r.Current(RateMSH1, 1))
}

func TestRates_Gradient_BeyondLastAnchorCarriesLastValue(t *testing.T) {
	base := baseRateVector()
	r, err := NewRates(base)
	require.NoError(t, err)
	src := strings.NewReader("0 (0 100) (2 150)\n")
	require.NoError(t, r.LoadGradients(src, 5))
	assert.Equal(t, base[RateMSH1]*1.5, r.Current(RateMSH1, 4))
}

func TestRates_LoadGradients_RejectsOutOfRangeIndex(t *testing.T) {
	base := baseRateVector()
	r, err := NewRates(base)
	require.NoError(t, err)
	src := strings.NewReader("999 (0 100)\n")
	assert.Error(t, r.LoadGradients(src, 5))
}

func TestRates_LoadGradients_RejectsPositionOutOfWidth(t *testing.T) {
	base := baseRateVector()
	r, err := NewRates(base)
	require.NoError(t, err)
	src := strings.NewReader("0 (10 100)\n")
	assert.Error(t, r.LoadGradients(src, 5))
}

func TestGradientRefreshStride_DefaultsTo50Windows(t *testing.T) {
	assert.Equal(t, 2, GradientRefreshStride(100, 0))
	assert.Equal(t, 1, GradientRefreshStride(10, 0))
}

func TestGradientRefreshStride_ParameterizedWindowCount(t *testing.T) {
	assert.Equal(t, 10, GradientRefreshStride(100, 10))
}
