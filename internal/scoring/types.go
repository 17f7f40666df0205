package scoring

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"duo-ladder/internal/rank"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type Role string

const (
	RoleNoob  Role = "noob"
	RoleCarry Role = "carry"
)

// PlayerGameStats holds one player's raw facts for a single game.
type PlayerGameStats struct {
	Kills               int           `json:"kills" validate:"gte=0"`
	Deaths              int           `json:"deaths" validate:"gte=0"`
	Assists             int           `json:"assists" validate:"gte=0"`
	TripleKills         int           `json:"tripleKills,omitempty" validate:"gte=0"`
	QuadraKills         int           `json:"quadraKills,omitempty" validate:"gte=0"`
	PentaKills          int           `json:"pentaKills,omitempty" validate:"gte=0"`
	FirstBlood          bool          `json:"firstBlood,omitempty"`
	LargestKillingSpree int           `json:"largestKillingSpree,omitempty" validate:"gte=0"`
	OffRole             bool          `json:"offRole,omitempty"`
	OffChampion         bool          `json:"offChampion,omitempty"`
	PeakElo             string        `json:"peakElo,omitempty"` // compact rank, "" when unknown
	NewRank             rank.RankInfo `json:"newRank"`
}

// GameData is one match as seen by the duo.
type GameData struct {
	Noob            PlayerGameStats `json:"noob"`
	Carry           PlayerGameStats `json:"carry"`
	Win             bool            `json:"win"`
	DurationSeconds int             `json:"duration" validate:"gte=0"`
	Surrender       bool            `json:"surrender"`
	Remake          bool            `json:"remake"`
}

// Validate checks the game for malformed counts. Rank data is checked when it
// is used.
func (g GameData) Validate() error {
	err := validate.Struct(g)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", ErrMalformedGameStats, err)
	}
	fe := fields[0]
	field := strings.TrimPrefix(fe.Namespace(), "GameData.")
	return fmt.Errorf("%w: %s must be %s %s, got %v", ErrMalformedGameStats, field, fe.Tag(), fe.Param(), fe.Value())
}

type KDAScore struct {
	Base       float64 `json:"base"`
	Adjustment float64 `json:"adjustment"`
	Final      float64 `json:"final"`
}

type StreakBonus struct {
	Progressive int `json:"progressive"`
	Milestone   int `json:"milestone"`
	Total       int `json:"total"`
	NewStreak   int `json:"newStreak"`
}

type SpecialBonuses struct {
	Multikill    int `json:"multikill"`
	FirstBlood   int `json:"firstBlood"`
	KillingSpree int `json:"killingSpree"`
	Total        int `json:"total"`
}

type RiskBonus struct {
	OffRoleCount     int `json:"offRoleCount"`
	OffChampionCount int `json:"offChampionCount"`
	Hazards          int `json:"hazards"`
	Final            int `json:"final"`
}

type PeakAdjustment struct {
	HasPeak    bool    `json:"hasPeak"`
	TierDiff   int     `json:"tierDiff"`
	Multiplier float64 `json:"multiplier"`
}

type PlayerBreakdown struct {
	Role     Role           `json:"role"`
	KDA      KDAScore       `json:"kda"`
	Result   int            `json:"result"`
	Streak   StreakBonus    `json:"streak"`
	Special  SpecialBonuses `json:"specialBonuses"`
	Subtotal float64        `json:"subtotal"`
	Capped   float64        `json:"capped"`
	Peak     PeakAdjustment `json:"peak"`
	Final    int            `json:"final"`
}

type DuoBreakdown struct {
	Sum      int       `json:"sum"`
	Risk     RiskBonus `json:"risk"`
	NoDeath  int       `json:"noDeath"`
	Subtotal float64   `json:"subtotal"`
	Capped   float64   `json:"capped"`
	Final    int       `json:"final"`
}

// ScoreBreakdown is the itemised result of scoring one game.
type ScoreBreakdown struct {
	Noob                PlayerBreakdown `json:"noob"`
	Carry               PlayerBreakdown `json:"carry"`
	Duo                 DuoBreakdown    `json:"duo"`
	Alerts              Alerts          `json:"alerts"`
	IsRemakeOrEarlyGame bool            `json:"isRemakeOrEarlyGame"`
}

// Points is the delta applied to the duo's ladder total.
func (b ScoreBreakdown) Points() int {
	return b.Duo.Final
}

// NextStreaks returns the streak values to persist after this game. A
// short-circuited game leaves both streaks where they were.
func (b ScoreBreakdown) NextStreaks(noobPre, carryPre int) (noob, carry int) {
	if b.IsRemakeOrEarlyGame {
		return noobPre, carryPre
	}
	return b.Noob.Streak.NewStreak, b.Carry.Streak.NewStreak
}
