package scoring

import (
	"fmt"
	"math"
	"strings"

	"duo-ladder/internal/rank"
)

// CalculatePeakMultiplier compares a player's historical peak with their
// current rank in whole tiers. Playing far below peak scales the score down,
// climbing above it scales the score up. An empty peak means no signal.
func CalculatePeakMultiplier(peakElo string, current rank.RankInfo) (PeakAdjustment, error) {
	if strings.TrimSpace(peakElo) == "" {
		return PeakAdjustment{Multiplier: 1.0}, nil
	}

	peakValue, err := rank.CompactValue(peakElo)
	if err != nil {
		return PeakAdjustment{}, fmt.Errorf("peak rank: %w", err)
	}
	currentValue, err := rank.ToValue(current)
	if err != nil {
		return PeakAdjustment{}, fmt.Errorf("current rank: %w", err)
	}

	diff := int(math.Floor(float64(peakValue-currentValue) / TierSize))
	return PeakAdjustment{
		HasPeak:    true,
		TierDiff:   diff,
		Multiplier: peakMultiplier(diff),
	}, nil
}

func peakMultiplier(tierDiff int) float64 {
	switch {
	case tierDiff <= -3:
		return AbovePeakMultiplier3
	case tierDiff == -2:
		return AbovePeakMultiplier2
	case tierDiff == -1:
		return AbovePeakMultiplier1
	case tierDiff <= PeakToleranceTiers:
		return 1.0
	case tierDiff == 2:
		return BelowPeakMultiplier2
	case tierDiff == 3:
		return BelowPeakMultiplier3
	case tierDiff == 4:
		return BelowPeakMultiplier4
	default:
		return BelowPeakMultiplier5
	}
}
