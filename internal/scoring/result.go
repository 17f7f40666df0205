package scoring

// CalculateResult returns the base points for the game outcome. The checks run
// in a fixed order and the first match wins, so a surrendered win still scores
// as a win.
func CalculateResult(win bool, durationSeconds int, surrender, remake bool) int {
	switch {
	case remake:
		return RemakePoints
	case surrender && !win:
		return SurrenderLossPoints
	case win && durationSeconds < FastWinThresholdSeconds:
		return FastWinPoints
	case win:
		return WinPoints
	default:
		return LossPoints
	}
}
