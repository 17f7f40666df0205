package scoring

// KDA weights. The noob role is rewarded for kills and assists, the carry
// role is punished harder for deaths.
const (
	KillWeight   = 1.0
	AssistWeight = 0.5
	DeathWeight  = 1.0

	NoobKillBonus   = 0.5
	NoobAssistBonus = 0.25
	CarryDeathMalus = 0.5
)

// Base points by game result.
const (
	RemakePoints        = 0
	SurrenderLossPoints = -30
	FastWinPoints       = 25
	WinPoints           = 20
	LossPoints          = -20

	FastWinThresholdSeconds = 1200 // 20 minutes
)

// Games shorter than this never score, whatever the outcome.
const EarlyGameThresholdSeconds = 300

// Streak scaling. The progressive bonus equals the streak magnitude once it
// reaches StreakMinMagnitude, up to the cap for its direction.
const (
	StreakMinMagnitude    = 2
	WinStreakProgressCap  = 7
	LossStreakProgressCap = 5
)

var (
	winStreakMilestones  = map[int]int{3: 10, 5: 20, 7: 30}
	lossStreakMilestones = map[int]int{3: -10, 5: -25}
)

// Special action bonuses.
const (
	PentakillBonus    = 30
	QuadrakillBonus   = 15
	TriplekillBonus   = 5
	FirstBloodBonus   = 5
	KillingSpreeBonus = 10

	KillingSpreeThreshold = 7
)

// Duo-level bonuses.
const (
	RiskBonusAllHazards   = 15 // all four off-role/off-champion flags
	RiskBonusThreeHazards = 10
	NoDeathDuoBonus       = 20
)

// Caps applied to player and duo subtotals.
const (
	PlayerCapMin = -40.0
	PlayerCapMax = 60.0
	DuoCapMin    = -70.0
	DuoCapMax    = 120.0
)

// Peak multipliers, indexed by whole-tier distance from peak.
const (
	TierSize             = 4
	PeakToleranceTiers   = 1 // 0 or 1 tier below peak is not penalised
	AbovePeakMultiplier1 = 1.05
	AbovePeakMultiplier2 = 1.10
	AbovePeakMultiplier3 = 1.15 // cap, three or more tiers above peak
	BelowPeakMultiplier2 = 0.95
	BelowPeakMultiplier3 = 0.875
	BelowPeakMultiplier4 = 0.80
	BelowPeakMultiplier5 = 0.75 // cap, five or more tiers below peak
)
