package scoring

// CalculateRiskBonus rewards a duo for playing off-role or off-champion. Only
// three or four hazards out of four pay out; the per-kind counts are kept for
// display.
func CalculateRiskBonus(noob, carry PlayerGameStats) RiskBonus {
	var r RiskBonus
	for _, p := range []PlayerGameStats{noob, carry} {
		if p.OffRole {
			r.OffRoleCount++
		}
		if p.OffChampion {
			r.OffChampionCount++
		}
	}
	r.Hazards = r.OffRoleCount + r.OffChampionCount

	switch {
	case r.Hazards >= 4:
		r.Final = RiskBonusAllHazards
	case r.Hazards == 3:
		r.Final = RiskBonusThreeHazards
	}
	return r
}

// NoDeathBonus pays out only when both players finished with exactly zero
// deaths. Negative counts do not qualify.
func NoDeathBonus(noobDeaths, carryDeaths int) int {
	if noobDeaths == 0 && carryDeaths == 0 {
		return NoDeathDuoBonus
	}
	return 0
}
