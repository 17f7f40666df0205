// Package rank maps ranked-ladder tiers and divisions onto a single ordinal
// scale so that ranks can be compared and differenced as plain integers.
package rank

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRankString is returned when a compact rank string does not name a known tier.
	ErrInvalidRankString = errors.New("invalid rank string")

	// ErrInvalidRankValue is returned when a rank or ordinal falls outside the ladder.
	ErrInvalidRankValue = errors.New("invalid rank value")
)

type Tier int

const (
	Iron Tier = iota
	Bronze
	Silver
	Gold
	Platinum
	Emerald
	Diamond
	Master
	Grandmaster
	Challenger
)

// Division zero means "no division" and is only valid for apex tiers.
type Division int

const (
	NoDivision Division = iota
	DivisionIV
	DivisionIII
	DivisionII
	DivisionI
)

const (
	MinValue = 0
	MaxValue = 36

	divisionsPerTier = 4
)

type tierInfo struct {
	name    string
	compact string
	base    int
}

var tiers = [...]tierInfo{
	Iron:        {"Iron", "I", 0},
	Bronze:      {"Bronze", "B", 4},
	Silver:      {"Silver", "S", 8},
	Gold:        {"Gold", "G", 12},
	Platinum:    {"Platinum", "P", 16},
	Emerald:     {"Emerald", "E", 20},
	Diamond:     {"Diamond", "D", 24},
	Master:      {"Master", "M", 28},
	Grandmaster: {"Grandmaster", "GM", 32},
	Challenger:  {"Challenger", "C", 36},
}

var divisionNames = [...]string{
	NoDivision:  "",
	DivisionIV:  "IV",
	DivisionIII: "III",
	DivisionII:  "II",
	DivisionI:   "I",
}

func (t Tier) Valid() bool { return t >= Iron && t <= Challenger }

// Apex tiers have no divisions and occupy a single ordinal each.
func (t Tier) Apex() bool { return t >= Master && t <= Challenger }

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tiers[t].name
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %d", ErrInvalidRankValue, int(t))
	}
	return []byte(strings.ToUpper(tiers[t].name)), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTierName(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (d Division) Valid() bool { return d >= NoDivision && d <= DivisionI }

func (d Division) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown division %d", ErrInvalidRankValue, int(d))
	}
	return []byte(divisionNames[d]), nil
}

func (d *Division) UnmarshalText(b []byte) error {
	if strings.TrimSpace(string(b)) == "" {
		*d = NoDivision
		return nil
	}
	parsed, err := ParseDivisionRoman(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Division) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Division(%d)", int(d))
	}
	return divisionNames[d]
}

// RankInfo is a player's position on the ladder. LeaguePoints are only
// meaningful inside a single tier/division and take no part in ordering.
type RankInfo struct {
	Tier         Tier     `json:"tier"`
	Division     Division `json:"division"`
	LeaguePoints int      `json:"leaguePoints"`
}

func (r RankInfo) String() string {
	if r.Tier.Apex() {
		return fmt.Sprintf("%s %d LP", r.Tier, r.LeaguePoints)
	}
	return fmt.Sprintf("%s %s %d LP", r.Tier, r.Division, r.LeaguePoints)
}

// Validate reports whether r names a real ladder position: a known tier, and a
// division if and only if the tier is below the apex tiers.
func (r RankInfo) Validate() error {
	if !r.Tier.Valid() {
		return fmt.Errorf("%w: unknown tier %d", ErrInvalidRankValue, int(r.Tier))
	}
	if !r.Division.Valid() {
		return fmt.Errorf("%w: unknown division %d", ErrInvalidRankValue, int(r.Division))
	}
	if !r.Tier.Apex() && r.Division == NoDivision {
		return fmt.Errorf("%w: %s requires a division", ErrInvalidRankValue, r.Tier)
	}
	if r.Tier.Apex() && r.Division != NoDivision {
		return fmt.Errorf("%w: %s has no divisions", ErrInvalidRankValue, r.Tier)
	}
	if r.LeaguePoints < 0 {
		return fmt.Errorf("%w: negative league points %d", ErrInvalidRankValue, r.LeaguePoints)
	}
	return nil
}

// ToValue converts r to its ordinal in [MinValue, MaxValue]. Apex tiers ignore
// the division.
func ToValue(r RankInfo) (int, error) {
	if !r.Tier.Valid() {
		return 0, fmt.Errorf("%w: unknown tier %d", ErrInvalidRankValue, int(r.Tier))
	}
	base := tiers[r.Tier].base
	if r.Tier.Apex() {
		return base, nil
	}
	if r.Division < DivisionIV || r.Division > DivisionI {
		return 0, fmt.Errorf("%w: %s requires a division, got %d", ErrInvalidRankValue, r.Tier, int(r.Division))
	}
	return base + int(r.Division-DivisionIV), nil
}

// FromValue is the inverse of ToValue. The input is clamped to the ladder
// first, so any integer yields a rank. Ordinals between two apex tiers snap
// down to the lower one.
func FromValue(v int) RankInfo {
	v = Clamp(v)
	switch {
	case v >= tiers[Challenger].base:
		return RankInfo{Tier: Challenger}
	case v >= tiers[Grandmaster].base:
		return RankInfo{Tier: Grandmaster}
	case v >= tiers[Master].base:
		return RankInfo{Tier: Master}
	}
	return RankInfo{
		Tier:     Tier(v / divisionsPerTier),
		Division: DivisionIV + Division(v%divisionsPerTier),
	}
}

func Clamp(v int) int {
	return min(max(v, MinValue), MaxValue)
}

// ParseCompact parses the short forms used in player records: a tier letter
// ("I", "B", "S", "G", "P", "E", "D") followed by a division digit 4..1, or an
// apex tier on its own ("M", "GM", "C"). A missing digit on a divisible tier
// reads as division IV. Apex tiers reject a trailing digit.
func ParseCompact(s string) (RankInfo, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return RankInfo{}, fmt.Errorf("%w: empty", ErrInvalidRankString)
	}

	letters := strings.TrimRight(s, "0123456789")
	digits := s[len(letters):]

	tier, ok := tierFromCompact(letters)
	if !ok {
		return RankInfo{}, fmt.Errorf("%w: unknown tier in %q", ErrInvalidRankString, raw)
	}

	if tier.Apex() {
		if digits != "" {
			return RankInfo{}, fmt.Errorf("%w: %s takes no division, got %q", ErrInvalidRankString, tier, raw)
		}
		return RankInfo{Tier: tier}, nil
	}

	switch digits {
	case "":
		return RankInfo{Tier: tier, Division: DivisionIV}, nil
	case "4":
		return RankInfo{Tier: tier, Division: DivisionIV}, nil
	case "3":
		return RankInfo{Tier: tier, Division: DivisionIII}, nil
	case "2":
		return RankInfo{Tier: tier, Division: DivisionII}, nil
	case "1":
		return RankInfo{Tier: tier, Division: DivisionI}, nil
	}
	return RankInfo{}, fmt.Errorf("%w: bad division in %q", ErrInvalidRankString, raw)
}

// FormatCompact renders r in the form accepted by ParseCompact.
func FormatCompact(r RankInfo) (string, error) {
	if _, err := ToValue(r); err != nil {
		return "", err
	}
	if r.Tier.Apex() {
		return tiers[r.Tier].compact, nil
	}
	// IV..I print as 4..1
	return fmt.Sprintf("%s%d", tiers[r.Tier].compact, int(DivisionI-r.Division)+1), nil
}

// CompactValue parses s and returns its ordinal.
func CompactValue(s string) (int, error) {
	r, err := ParseCompact(s)
	if err != nil {
		return 0, err
	}
	return ToValue(r)
}

func tierFromCompact(letters string) (Tier, bool) {
	for t := Iron; t <= Challenger; t++ {
		if tiers[t].compact == letters {
			return t, true
		}
	}
	return 0, false
}

// ParseTierName reads upper-case ladder API tier names such as "GOLD" or
// "GRANDMASTER".
func ParseTierName(name string) (Tier, error) {
	name = strings.TrimSpace(name)
	for t := Iron; t <= Challenger; t++ {
		if strings.EqualFold(tiers[t].name, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tier name %q", ErrInvalidRankString, name)
}

// ParseDivisionRoman reads "IV".."I".
func ParseDivisionRoman(s string) (Division, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for d := DivisionIV; d <= DivisionI; d++ {
		if divisionNames[d] == s {
			return d, nil
		}
	}
	return NoDivision, fmt.Errorf("%w: unknown division %q", ErrInvalidRankString, s)
}
