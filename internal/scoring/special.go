package scoring

// CalculateSpecialBonuses scores multi-kills, first blood and killing sprees.
// Only the highest multi-kill tier reached counts, scaled by how often it
// happened.
func CalculateSpecialBonuses(stats PlayerGameStats) SpecialBonuses {
	var b SpecialBonuses

	switch {
	case stats.PentaKills > 0:
		b.Multikill = PentakillBonus * stats.PentaKills
	case stats.QuadraKills > 0:
		b.Multikill = QuadrakillBonus * stats.QuadraKills
	case stats.TripleKills > 0:
		b.Multikill = TriplekillBonus * stats.TripleKills
	}

	if stats.FirstBlood {
		b.FirstBlood = FirstBloodBonus
	}
	if stats.LargestKillingSpree >= KillingSpreeThreshold {
		b.KillingSpree = KillingSpreeBonus
	}

	b.Total = b.Multikill + b.FirstBlood + b.KillingSpree
	return b
}
