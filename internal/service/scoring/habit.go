package scoring

import "math"

// HabitRule is the part of a habit that drives scoring.
type HabitRule struct {
	TargetValue int
	Points      int
}

// HabitProgress is the scored state of one habit on one date.
type HabitProgress struct {
	Status    bool
	ValueDone int
	Points    int
}

// BasePoints derives a habit's full-completion value from its difficulty and priority.
// It rounds rather than truncates.
func BasePoints(difficulty, priority int) int {
	return int(math.Round(10 * float64(difficulty) * float64(priority+1) / 2))
}

func (h HabitRule) target() int {
	if h.TargetValue < 1 {
		return 1
	}
	return h.TargetValue
}

func (h HabitRule) IsMultiStep() bool {
	return h.TargetValue > 1
}

// Prorated awards partial points for valueDone steps out of target, truncating.
func Prorated(points, valueDone, target int) int {
	if target < 1 {
		return 0
	}
	return points * valueDone / target
}

// NextHabitState applies one tap to the habit's state for a date. A nil current
// means no log exists yet.
//
// Binary habits complete on the first tap and flip afterwards. Multi-step habits
// advance one step per tap and wrap back to empty when tapped past completion.
func NextHabitState(h HabitRule, current *HabitProgress) HabitProgress {
	target := h.target()

	if current == nil {
		if !h.IsMultiStep() {
			return complete(h)
		}
		return step(h, 1)
	}

	if !h.IsMultiStep() {
		if current.Status {
			return HabitProgress{}
		}
		return complete(h)
	}

	if current.ValueDone >= target {
		return HabitProgress{}
	}
	return step(h, current.ValueDone+1)
}

func complete(h HabitRule) HabitProgress {
	return HabitProgress{Status: true, ValueDone: h.target(), Points: h.Points}
}

func step(h HabitRule, valueDone int) HabitProgress {
	target := h.target()
	if valueDone >= target {
		return HabitProgress{Status: true, ValueDone: valueDone, Points: h.Points}
	}
	return HabitProgress{ValueDone: valueDone, Points: Prorated(h.Points, valueDone, target)}
}
