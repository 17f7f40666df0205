package service

import (
	"context"

	"duo-ladder/internal/api"
)

// RiotAPI is the subset of the Riot client the services depend on.
type RiotAPI interface {
	GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*api.AccountDto, error)
	GetLeagueEntries(ctx context.Context, puuid string) ([]api.LeagueEntryDto, error)
	GetMatchIDs(ctx context.Context, puuid string, queue, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*api.MatchDto, error)
}

var _ RiotAPI = (*api.RiotClient)(nil)
