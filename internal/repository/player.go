package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"duo-ladder/internal/db"
	"duo-ladder/internal/domain"
	"duo-ladder/internal/rank"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Get(ctx context.Context, puuid string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByPuuid(ctx, puuid)
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) GetByRiotID(ctx context.Context, gameName, tagLine string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByRiotID(ctx, db.GetPlayerByRiotIDParams{
		GameName: gameName,
		TagLine:  tagLine,
	})
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = *toDomainPlayer(p)
	}
	return result, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	now := time.Now().UTC()
	if player.CreatedAt.IsZero() {
		player.CreatedAt = now
	}
	player.UpdatedAt = now

	err := r.queries.UpsertPlayer(ctx, db.UpsertPlayerParams{
		Puuid:         player.Puuid,
		GameName:      player.GameName,
		TagLine:       player.TagLine,
		MainRole:      player.MainRole,
		MainChampions: strings.Join(player.MainChampions, ","),
		PeakElo:       player.PeakElo,
		Tier:          int64(player.Rank.Tier),
		Division:      int64(player.Rank.Division),
		LeaguePoints:  int64(player.Rank.LeaguePoints),
		CreatedAt:     player.CreatedAt,
		UpdatedAt:     player.UpdatedAt,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("puuid", player.Puuid).Msg("failed to upsert player")
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpdateRank(ctx context.Context, puuid string, current rank.RankInfo) error {
	if err := current.Validate(); err != nil {
		return err
	}

	n, err := r.queries.UpdatePlayerRank(ctx, db.UpdatePlayerRankParams{
		Tier:         int64(current.Tier),
		Division:     int64(current.Division),
		LeaguePoints: int64(current.LeaguePoints),
		UpdatedAt:    time.Now().UTC(),
		Puuid:        puuid,
	})
	if err != nil {
		return fmt.Errorf("failed to update player rank: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	r.logger.Debug().Str("puuid", puuid).Str("rank", current.String()).Msg("player rank updated")
	return nil
}

func (r *PlayerRepository) UpdatePeak(ctx context.Context, puuid, peakElo string) error {
	if _, err := rank.ParseCompact(peakElo); err != nil {
		return err
	}

	n, err := r.queries.UpdatePlayerPeak(ctx, db.UpdatePlayerPeakParams{
		PeakElo:   peakElo,
		UpdatedAt: time.Now().UTC(),
		Puuid:     puuid,
	})
	if err != nil {
		return fmt.Errorf("failed to update player peak: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	r.logger.Info().Str("puuid", puuid).Str("peak_elo", peakElo).Msg("player peak raised")
	return nil
}

func toDomainPlayer(p db.Player) *domain.Player {
	var champions []string
	if p.MainChampions != "" {
		champions = strings.Split(p.MainChampions, ",")
	}
	return &domain.Player{
		Puuid:         p.Puuid,
		GameName:      p.GameName,
		TagLine:       p.TagLine,
		MainRole:      p.MainRole,
		MainChampions: champions,
		PeakElo:       p.PeakElo,
		Rank: rank.RankInfo{
			Tier:         rank.Tier(p.Tier),
			Division:     rank.Division(p.Division),
			LeaguePoints: int(p.LeaguePoints),
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
