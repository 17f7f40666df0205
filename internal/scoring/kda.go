package scoring

// CalculateKDA scores kills, deaths and assists for the given role. The
// result is left unbounded; capping happens later in the pipeline.
func CalculateKDA(stats PlayerGameStats, role Role) KDAScore {
	k := float64(stats.Kills)
	d := float64(stats.Deaths)
	a := float64(stats.Assists)

	base := KillWeight*k + AssistWeight*a - DeathWeight*d

	var adjustment float64
	switch role {
	case RoleNoob:
		adjustment = NoobKillBonus*k + NoobAssistBonus*a
	case RoleCarry:
		adjustment = -CarryDeathMalus * d
	}

	return KDAScore{
		Base:       base,
		Adjustment: adjustment,
		Final:      base + adjustment,
	}
}
