package scoring

import "math"

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ApplyPlayerCap bounds a player subtotal. It never rounds.
func ApplyPlayerCap(subtotal float64) float64 {
	return clamp(subtotal, PlayerCapMin, PlayerCapMax)
}

// ApplyDuoCap bounds a duo subtotal. It never rounds.
func ApplyDuoCap(subtotal float64) float64 {
	return clamp(subtotal, DuoCapMin, DuoCapMax)
}
