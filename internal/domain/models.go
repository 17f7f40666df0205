package domain

import (
	"time"

	"duo-ladder/internal/rank"
)

type Player struct {
	Puuid         string
	GameName      string
	TagLine       string
	MainRole      string   // "TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"
	MainChampions []string // champion names, empty = any
	PeakElo       string   // compact rank, "" when unknown
	Rank          rank.RankInfo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Duo struct {
	ID          string // nanoid
	Name        string
	NoobPuuid   string
	CarryPuuid  string
	TotalPoints int
	NoobStreak  int // signed: +wins / -losses
	CarryStreak int
	GamesPlayed int
	Wins        int
	Losses      int
	LastMatchID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Game struct {
	ID              string // nanoid
	DuoID           string
	MatchID         string
	Win             bool
	DurationSeconds int
	Points          int
	RemakeOrEarly   bool
	NoobFinal       int
	CarryFinal      int
	Breakdown       []byte // scoring.ScoreBreakdown as JSON
	PlayedAt        time.Time
	CreatedAt       time.Time
}

type RankSnapshot struct {
	ID         string // nanoid
	Puuid      string
	MatchID    string // "" for manual refreshes
	Rank       rank.RankInfo
	RankValue  int
	RecordedAt time.Time
}
