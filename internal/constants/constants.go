package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	SyncTimeout        = 90 * time.Second
)

const (
	DBMaxOpenConns    = 1 // sqlite allows a single writer
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LadderPageLimit   = 50
	DuoGamesLimit     = 20
	RankHistoryLimit  = 50
	PollerConcurrency = 4
)

const (
	SoloQueueType = "RANKED_SOLO_5x5"
)
