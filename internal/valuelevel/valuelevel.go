package valuelevel

// Level bounds for the per-task performance score.
const (
	Min = -4
	Max = 4
)

// weights maps each level in [Min, Max] to its reward multiplier.
// Index 0 corresponds to level -4.
var weights = [9]float64{0.50, 0.60, 0.75, 0.90, 1.00, 1.10, 1.25, 1.40, 1.50}

// Clamp bounds a level into [Min, Max].
func Clamp(level int) int {
	if level < Min {
		return Min
	}
	if level > Max {
		return Max
	}
	return level
}

// Increase raises a level by step, clamped at Max.
func Increase(level, step int) int {
	return Clamp(Clamp(level) + step)
}

// Decrease lowers a level by step, clamped at Min.
func Decrease(level, step int) int {
	return Clamp(Clamp(level) - step)
}

// WeightOf returns the reward multiplier for a level. Out-of-range
// levels are clamped first.
func WeightOf(level int) float64 {
	return weights[Clamp(level)-Min]
}

// OverdueAdjustment returns the absolute level a todo should be set to
// given how many whole days it is past due. Unlike Increase/Decrease
// this is a target, not a delta, so lateness severity tracks elapsed
// time rather than sweep count.
func OverdueAdjustment(daysLate int) int {
	switch {
	case daysLate < 1:
		return 0
	case daysLate < 8:
		return -1
	case daysLate < 31:
		return -2
	case daysLate < 120:
		return -3
	default:
		return -4
	}
}
