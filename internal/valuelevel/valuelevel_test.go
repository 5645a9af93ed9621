package valuelevel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncreaseDecreaseRoundTrip(t *testing.T) {
	for level := Min + 1; level <= Max; level++ {
		require.Equal(t, level, Increase(Decrease(level, 1), 1), "level %d", level)
	}
}

func TestClampAtBoundaries(t *testing.T) {
	require.Equal(t, Max, Increase(Max, 1))
	require.Equal(t, Min, Decrease(Min, 1))
	require.Equal(t, Max, Increase(3, 5))
	require.Equal(t, Min, Decrease(-2, 10))
}

func TestWeightOfStrictlyIncreasing(t *testing.T) {
	prev := WeightOf(Min)
	for level := Min + 1; level <= Max; level++ {
		w := WeightOf(level)
		require.Greater(t, w, prev, "weight at level %d must exceed level %d", level, level-1)
		prev = w
	}
}

func TestWeightOfFixedPoints(t *testing.T) {
	require.Equal(t, 0.50, WeightOf(-4))
	require.Equal(t, 1.00, WeightOf(0))
	require.Equal(t, 1.50, WeightOf(4))
	// Out-of-range input clamps rather than panicking
	require.Equal(t, 0.50, WeightOf(-100))
	require.Equal(t, 1.50, WeightOf(100))
}

func TestOverdueAdjustment(t *testing.T) {
	cases := []struct {
		daysLate int
		want     int
	}{
		{0, 0},
		{1, -1},
		{5, -1},
		{7, -1},
		{8, -2},
		{30, -2},
		{31, -3},
		{40, -3},
		{119, -3},
		{120, -4},
		{1000, -4},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, OverdueAdjustment(tc.daysLate), "daysLate=%d", tc.daysLate)
	}
}
