// Package scoring turns one duo game's raw statistics into an itemised score
// and a final integer point delta.
//
// Every function here is pure. Streak state is passed in and the next value
// is returned inside the breakdown; the caller persists it. Games for one duo
// must be scored in chronological order, games for different duos may be
// scored concurrently.
package scoring

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ComputeGameScore runs the full pipeline for one game.
//
// Per player: KDA, result, streak and special bonuses are summed, capped,
// scaled by the peak multiplier and rounded. The duo total is the sum of both
// player finals plus the risk and no-death bonuses, capped and rounded.
// Remakes and games under five minutes short-circuit to an all-zero breakdown.
func ComputeGameScore(game GameData, noobPreStreak, carryPreStreak int) (ScoreBreakdown, error) {
	if err := game.Validate(); err != nil {
		return ScoreBreakdown{}, err
	}

	if game.Remake || game.DurationSeconds < EarlyGameThresholdSeconds {
		return shortCircuit(), nil
	}

	noob, err := scorePlayer(game, game.Noob, RoleNoob, noobPreStreak)
	if err != nil {
		return ScoreBreakdown{}, fmt.Errorf("noob: %w", err)
	}
	carry, err := scorePlayer(game, game.Carry, RoleCarry, carryPreStreak)
	if err != nil {
		return ScoreBreakdown{}, fmt.Errorf("carry: %w", err)
	}

	duo := DuoBreakdown{
		Sum:     noob.Final + carry.Final,
		Risk:    CalculateRiskBonus(game.Noob, game.Carry),
		NoDeath: NoDeathBonus(game.Noob.Deaths, game.Carry.Deaths),
	}
	duo.Subtotal = float64(duo.Sum + duo.Risk.Final + duo.NoDeath)
	duo.Capped = ApplyDuoCap(duo.Subtotal)
	duo.Final = int(math.Round(duo.Capped))

	return ScoreBreakdown{
		Noob:   noob,
		Carry:  carry,
		Duo:    duo,
		Alerts: collectAlerts(game, noob, carry, duo),
	}, nil
}

func scorePlayer(game GameData, stats PlayerGameStats, role Role, preStreak int) (PlayerBreakdown, error) {
	if err := stats.NewRank.Validate(); err != nil {
		return PlayerBreakdown{}, fmt.Errorf("current rank: %w", err)
	}

	b := PlayerBreakdown{
		Role:    role,
		KDA:     CalculateKDA(stats, role),
		Result:  CalculateResult(game.Win, game.DurationSeconds, game.Surrender, game.Remake),
		Streak:  CalculateStreakBonus(game.Win, preStreak),
		Special: CalculateSpecialBonuses(stats),
	}

	b.Subtotal = b.KDA.Final + float64(b.Result+b.Streak.Total+b.Special.Total)
	b.Capped = ApplyPlayerCap(b.Subtotal)

	peak, err := CalculatePeakMultiplier(stats.PeakElo, stats.NewRank)
	if err != nil {
		return PlayerBreakdown{}, err
	}
	b.Peak = peak
	b.Final = applyMultiplier(b.Capped, peak.Multiplier)
	return b, nil
}

// applyMultiplier scales a capped subtotal and rounds half away from zero.
// Multipliers such as 1.15 have no exact float64 form, so the product is
// taken in decimal.
func applyMultiplier(capped, multiplier float64) int {
	scaled := decimal.NewFromFloat(capped).Mul(decimal.NewFromFloat(multiplier))
	return int(scaled.Round(0).IntPart())
}

func shortCircuit() ScoreBreakdown {
	return ScoreBreakdown{
		Noob:                PlayerBreakdown{Role: RoleNoob},
		Carry:               PlayerBreakdown{Role: RoleCarry},
		Alerts:              Alerts{},
		IsRemakeOrEarlyGame: true,
	}
}
