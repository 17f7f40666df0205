package repository

import (
	"context"
	"database/sql"
	"fmt"

	"duo-ladder/internal/db"
	"duo-ladder/internal/domain"

	"github.com/rs/zerolog"
)

type GameRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GameRepository {
	return &GameRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// ListByDuo returns the duo's most recent games, newest first.
func (r *GameRepository) ListByDuo(ctx context.Context, duoID string, limit int) ([]domain.Game, error) {
	games, err := r.queries.ListGamesByDuo(ctx, db.ListGamesByDuoParams{
		DuoID: duoID,
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	result := make([]domain.Game, len(games))
	for i, g := range games {
		result[i] = domain.Game{
			ID:              g.ID,
			DuoID:           g.DuoID,
			MatchID:         g.MatchID,
			Win:             g.Win,
			DurationSeconds: int(g.DurationSeconds),
			Points:          int(g.Points),
			RemakeOrEarly:   g.RemakeOrEarly,
			NoobFinal:       int(g.NoobFinal),
			CarryFinal:      int(g.CarryFinal),
			Breakdown:       g.Breakdown,
			PlayedAt:        g.PlayedAt,
			CreatedAt:       g.CreatedAt,
		}
	}
	return result, nil
}

func (r *GameRepository) Exists(ctx context.Context, duoID, matchID string) (bool, error) {
	exists, err := r.queries.GameExists(ctx, db.GameExistsParams{DuoID: duoID, MatchID: matchID})
	if err != nil {
		return false, fmt.Errorf("failed to check game: %w", err)
	}
	return exists, nil
}
