package scoring

import (
	"encoding/json"
	"fmt"
)

type AlertKind string

const (
	AlertPentakill       AlertKind = "pentakill"
	AlertNoDeath         AlertKind = "no_death"
	AlertSurrenderLoss   AlertKind = "surrender_loss"
	AlertStreakMilestone AlertKind = "streak_milestone"
)

// Alert is a human-readable annotation on a scored game. Alerts never feed
// back into the numbers. The set of implementations is closed.
type Alert interface {
	Kind() AlertKind
	Message() string
	sealed()
}

type PentakillAlert struct {
	Role  Role
	Count int
}

type NoDeathAlert struct{}

type SurrenderLossAlert struct{}

type StreakMilestoneAlert struct {
	Role   Role
	Streak int
	Bonus  int
}

func (PentakillAlert) Kind() AlertKind       { return AlertPentakill }
func (NoDeathAlert) Kind() AlertKind         { return AlertNoDeath }
func (SurrenderLossAlert) Kind() AlertKind   { return AlertSurrenderLoss }
func (StreakMilestoneAlert) Kind() AlertKind { return AlertStreakMilestone }

func (PentakillAlert) sealed()       {}
func (NoDeathAlert) sealed()         {}
func (SurrenderLossAlert) sealed()   {}
func (StreakMilestoneAlert) sealed() {}

func (a PentakillAlert) Message() string {
	if a.Count > 1 {
		return fmt.Sprintf("%s scored %d pentakills", a.Role, a.Count)
	}
	return fmt.Sprintf("%s scored a pentakill", a.Role)
}

func (NoDeathAlert) Message() string {
	return "flawless game: neither player died"
}

func (SurrenderLossAlert) Message() string {
	return "the duo surrendered and lost"
}

func (a StreakMilestoneAlert) Message() string {
	if a.Streak > 0 {
		return fmt.Sprintf("%s reached a %d-game win streak (%+d)", a.Role, a.Streak, a.Bonus)
	}
	return fmt.Sprintf("%s hit a %d-game loss streak (%+d)", a.Role, -a.Streak, a.Bonus)
}

type Alerts []Alert

type alertRecord struct {
	Kind    AlertKind `json:"kind"`
	Role    Role      `json:"role,omitempty"`
	Count   int       `json:"count,omitempty"`
	Streak  int       `json:"streak,omitempty"`
	Bonus   int       `json:"bonus,omitempty"`
	Message string    `json:"message"`
}

func (as Alerts) MarshalJSON() ([]byte, error) {
	records := make([]alertRecord, 0, len(as))
	for _, a := range as {
		rec := alertRecord{Kind: a.Kind(), Message: a.Message()}
		switch v := a.(type) {
		case PentakillAlert:
			rec.Role, rec.Count = v.Role, v.Count
		case StreakMilestoneAlert:
			rec.Role, rec.Streak, rec.Bonus = v.Role, v.Streak, v.Bonus
		case NoDeathAlert, SurrenderLossAlert:
		default:
			return nil, fmt.Errorf("unknown alert type %T", a)
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

func (as *Alerts) UnmarshalJSON(b []byte) error {
	var records []alertRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return err
	}
	out := make(Alerts, 0, len(records))
	for _, rec := range records {
		switch rec.Kind {
		case AlertPentakill:
			out = append(out, PentakillAlert{Role: rec.Role, Count: rec.Count})
		case AlertNoDeath:
			out = append(out, NoDeathAlert{})
		case AlertSurrenderLoss:
			out = append(out, SurrenderLossAlert{})
		case AlertStreakMilestone:
			out = append(out, StreakMilestoneAlert{Role: rec.Role, Streak: rec.Streak, Bonus: rec.Bonus})
		default:
			return fmt.Errorf("unknown alert kind %q", rec.Kind)
		}
	}
	*as = out
	return nil
}

func collectAlerts(game GameData, noob, carry PlayerBreakdown, duo DuoBreakdown) Alerts {
	alerts := Alerts{}

	players := []struct {
		stats     PlayerGameStats
		breakdown PlayerBreakdown
	}{
		{game.Noob, noob},
		{game.Carry, carry},
	}
	for _, p := range players {
		if p.stats.PentaKills > 0 {
			alerts = append(alerts, PentakillAlert{Role: p.breakdown.Role, Count: p.stats.PentaKills})
		}
	}
	for _, p := range players {
		if p.breakdown.Streak.Milestone != 0 {
			alerts = append(alerts, StreakMilestoneAlert{
				Role:   p.breakdown.Role,
				Streak: p.breakdown.Streak.NewStreak,
				Bonus:  p.breakdown.Streak.Milestone,
			})
		}
	}

	if duo.NoDeath > 0 {
		alerts = append(alerts, NoDeathAlert{})
	}
	if game.Surrender && !game.Win {
		alerts = append(alerts, SurrenderLossAlert{})
	}
	return alerts
}
