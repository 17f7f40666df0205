package api

import (
	"fmt"
	"time"

	"duo-ladder/internal/constants"
	"duo-ladder/internal/rank"
)

type AccountDto struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type LeagueEntryDto struct {
	LeagueID     string `json:"leagueId"`
	Puuid        string `json:"puuid"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type MatchDto struct {
	Metadata MatchMetadataDto `json:"metadata"`
	Info     MatchInfoDto     `json:"info"`
}

type MatchMetadataDto struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfoDto struct {
	GameCreation     int64            `json:"gameCreation"`
	GameDuration     int64            `json:"gameDuration"`
	GameEndTimestamp int64            `json:"gameEndTimestamp"`
	QueueID          int              `json:"queueId"`
	Participants     []ParticipantDto `json:"participants"`
}

type ParticipantDto struct {
	Puuid                     string `json:"puuid"`
	TeamID                    int    `json:"teamId"`
	TeamPosition              string `json:"teamPosition"`
	ChampionName              string `json:"championName"`
	Kills                     int    `json:"kills"`
	Deaths                    int    `json:"deaths"`
	Assists                   int    `json:"assists"`
	TripleKills               int    `json:"tripleKills"`
	QuadraKills               int    `json:"quadraKills"`
	PentaKills                int    `json:"pentaKills"`
	FirstBloodKill            bool   `json:"firstBloodKill"`
	LargestKillingSpree       int    `json:"largestKillingSpree"`
	Win                       bool   `json:"win"`
	GameEndedInEarlySurrender bool   `json:"gameEndedInEarlySurrender"`
	GameEndedInSurrender      bool   `json:"gameEndedInSurrender"`
}

// DurationSeconds normalises gameDuration, which older matches report in
// milliseconds (those lack gameEndTimestamp).
func (i MatchInfoDto) DurationSeconds() int {
	if i.GameEndTimestamp == 0 {
		return int(i.GameDuration / 1000)
	}
	return int(i.GameDuration)
}

func (i MatchInfoDto) PlayedAt() time.Time {
	if i.GameEndTimestamp > 0 {
		return time.UnixMilli(i.GameEndTimestamp).UTC()
	}
	return time.UnixMilli(i.GameCreation).UTC()
}

func (m *MatchDto) Participant(puuid string) (*ParticipantDto, bool) {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].Puuid == puuid {
			return &m.Info.Participants[i], true
		}
	}
	return nil, false
}

// SoloQueueRank picks the ranked solo/duo entry. Players without one are
// treated as Iron IV with 0 LP.
func SoloQueueRank(entries []LeagueEntryDto) (rank.RankInfo, error) {
	for _, e := range entries {
		if e.QueueType != constants.SoloQueueType {
			continue
		}
		tier, err := rank.ParseTierName(e.Tier)
		if err != nil {
			return rank.RankInfo{}, fmt.Errorf("failed to parse tier: %w", err)
		}
		current := rank.RankInfo{Tier: tier, LeaguePoints: e.LeaguePoints}
		if !tier.Apex() {
			current.Division, err = rank.ParseDivisionRoman(e.Rank)
			if err != nil {
				return rank.RankInfo{}, fmt.Errorf("failed to parse division: %w", err)
			}
		}
		return current, nil
	}
	return rank.RankInfo{Tier: rank.Iron, Division: rank.DivisionIV}, nil
}
