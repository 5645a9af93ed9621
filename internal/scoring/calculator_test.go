package scoring

import (
	"testing"

	"habit-quest-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCalculateHabitEasyNeutral(t *testing.T) {
	r := Calculate(models.KindHabit, models.DifficultyEasy, 0, false)
	require.Equal(t, 2.00, r.Experience) // 2.0 * 1.0 * 1.0 * 1.00
	require.Equal(t, 1.00, r.Coins)
}

func TestCalculateDeterministic(t *testing.T) {
	a := Calculate(models.KindDaily, models.DifficultyHard, 3, false)
	b := Calculate(models.KindDaily, models.DifficultyHard, 3, false)
	require.Equal(t, a, b)
}

func TestCalculateTodoDueWeight(t *testing.T) {
	withDue := Calculate(models.KindTodo, models.DifficultyEasy, 0, true)
	withoutDue := Calculate(models.KindTodo, models.DifficultyEasy, 0, false)
	require.Equal(t, 2.60, withDue.Experience)    // 2.0 * 1.3
	require.Equal(t, 2.40, withoutDue.Experience) // 2.0 * 1.2
	require.Greater(t, withDue.Coins, withoutDue.Coins)
}

func TestCalculateDifficultySpread(t *testing.T) {
	veryEasy := Calculate(models.KindHabit, models.DifficultyVeryEasy, 0, false)
	hard := Calculate(models.KindHabit, models.DifficultyHard, 0, false)
	require.Equal(t, 1.60, veryEasy.Experience) // 2.0 * 0.8
	require.Equal(t, 3.20, hard.Experience)     // 2.0 * 1.6
}

func TestCalculateLevelModulation(t *testing.T) {
	low := Calculate(models.KindHabit, models.DifficultyEasy, -4, false)
	high := Calculate(models.KindHabit, models.DifficultyEasy, 4, false)
	require.Equal(t, 1.00, low.Experience)  // 2.0 * 0.50
	require.Equal(t, 3.00, high.Experience) // 2.0 * 1.50
	require.Equal(t, 0.50, low.Coins)
	require.Equal(t, 1.50, high.Coins)
}

func TestCalculateRounding(t *testing.T) {
	// daily * medium * level 1: 2.0 * 1.1 * 1.2 * 1.10 = 2.904 -> 2.90
	r := Calculate(models.KindDaily, models.DifficultyMedium, 1, false)
	require.Equal(t, 2.90, r.Experience)
	// 1.0 * 1.1 * 1.2 * 1.10 = 1.452 -> 1.45
	require.Equal(t, 1.45, r.Coins)
}

func TestCalculateNeverNegative(t *testing.T) {
	for level := -4; level <= 4; level++ {
		r := Calculate(models.KindHabit, models.DifficultyVeryEasy, level, false)
		require.GreaterOrEqual(t, r.Experience, 0.0)
		require.GreaterOrEqual(t, r.Coins, 0.0)
	}
}
