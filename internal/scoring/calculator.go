package scoring

import (
	"math"

	"habit-quest-api/internal/models"
	"habit-quest-api/internal/valuelevel"
)

// Base amounts before any weighting.
const (
	BaseExp   = 2.0
	BaseCoins = 1.0
)

// Reward is the experience and coin amounts earned by one completion
// event. Both are always >= 0; the caller decides sign (a habit "bad"
// tick debits the coin amount instead of crediting it).
type Reward struct {
	Experience float64 `json:"experience"`
	Coins      float64 `json:"coins"`
}

// taskTypeWeight returns the multiplier for a task kind. A todo with a
// due date signals commitment and is rewarded more.
func taskTypeWeight(kind models.TaskKind, todoHasDue bool) float64 {
	switch kind {
	case models.KindHabit:
		return 1.0
	case models.KindDaily:
		return 1.1
	case models.KindTodo:
		if todoHasDue {
			return 1.3
		}
		return 1.2
	default:
		return 1.0
	}
}

func difficultyWeight(d models.Difficulty) float64 {
	switch d {
	case models.DifficultyVeryEasy:
		return 0.8
	case models.DifficultyEasy:
		return 1.0
	case models.DifficultyMedium:
		return 1.2
	case models.DifficultyHard:
		return 1.6
	default:
		return 1.0
	}
}

// round2 rounds half-up to two decimal places.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// Calculate computes the reward for completing a task of the given
// kind and difficulty at the given value level. The level passed in
// must be the level BEFORE the transition caused by the event, so the
// reward reflects the performance that earned it.
func Calculate(kind models.TaskKind, difficulty models.Difficulty, level int, todoHasDue bool) Reward {
	tw := taskTypeWeight(kind, todoHasDue)
	dw := difficultyWeight(difficulty)
	lw := valuelevel.WeightOf(level)
	return Reward{
		Experience: round2(BaseExp * tw * dw * lw),
		Coins:      round2(BaseCoins * tw * dw * lw),
	}
}
