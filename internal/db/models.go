package db

import (
	"time"
)

type Player struct {
	Puuid         string
	GameName      string
	TagLine       string
	MainRole      string
	MainChampions string
	PeakElo       string
	Tier          int64
	Division      int64
	LeaguePoints  int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Duo struct {
	ID          string
	Name        string
	NoobPuuid   string
	CarryPuuid  string
	TotalPoints int64
	NoobStreak  int64
	CarryStreak int64
	GamesPlayed int64
	Wins        int64
	Losses      int64
	LastMatchID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Game struct {
	ID              string
	DuoID           string
	MatchID         string
	Win             bool
	DurationSeconds int64
	Points          int64
	RemakeOrEarly   bool
	NoobFinal       int64
	CarryFinal      int64
	Breakdown       []byte
	PlayedAt        time.Time
	CreatedAt       time.Time
}

type RankHistory struct {
	ID           string
	Puuid        string
	MatchID      string
	Tier         int64
	Division     int64
	LeaguePoints int64
	RankValue    int64
	RecordedAt   time.Time
}
