package scoring

// NextStreak advances a signed streak counter: positive counts wins, negative
// counts losses. A result against the current direction restarts at one.
func NextStreak(current int, win bool) int {
	if win {
		if current >= 0 {
			return current + 1
		}
		return 1
	}
	if current <= 0 {
		return current - 1
	}
	return -1
}

// CalculateStreakBonus computes the streak bonus for a game given the streak
// before it. The progressive part applies every game from magnitude two, the
// milestone part only when the new magnitude lands exactly on a threshold.
func CalculateStreakBonus(win bool, current int) StreakBonus {
	next := NextStreak(current, win)

	magnitude := next
	if magnitude < 0 {
		magnitude = -magnitude
	}

	var progressive, milestone int
	if win {
		if magnitude >= StreakMinMagnitude {
			progressive = min(magnitude, WinStreakProgressCap)
		}
		milestone = winStreakMilestones[magnitude]
	} else {
		if magnitude >= StreakMinMagnitude {
			progressive = -min(magnitude, LossStreakProgressCap)
		}
		milestone = lossStreakMilestones[magnitude]
	}

	return StreakBonus{
		Progressive: progressive,
		Milestone:   milestone,
		Total:       progressive + milestone,
		NewStreak:   next,
	}
}
