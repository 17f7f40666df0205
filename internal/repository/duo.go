package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"duo-ladder/internal/db"
	"duo-ladder/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type DuoRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewDuoRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *DuoRepository {
	return &DuoRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *DuoRepository) Create(ctx context.Context, duo *domain.Duo) error {
	if duo.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		duo.ID = id
	}
	now := time.Now().UTC()
	duo.CreatedAt, duo.UpdatedAt = now, now

	err := r.queries.CreateDuo(ctx, db.CreateDuoParams{
		ID:         duo.ID,
		Name:       duo.Name,
		NoobPuuid:  duo.NoobPuuid,
		CarryPuuid: duo.CarryPuuid,
		CreatedAt:  duo.CreatedAt,
		UpdatedAt:  duo.UpdatedAt,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("name", duo.Name).Msg("failed to create duo")
		return fmt.Errorf("failed to create duo: %w", err)
	}

	r.logger.Info().Str("duo_id", duo.ID).Str("name", duo.Name).Msg("duo created")
	return nil
}

func (r *DuoRepository) Get(ctx context.Context, id string) (*domain.Duo, error) {
	duo, err := r.queries.GetDuo(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainDuo(duo), nil
}

// List returns duos in ladder order. A limit <= 0 returns all of them.
func (r *DuoRepository) List(ctx context.Context, limit int) ([]domain.Duo, error) {
	if limit <= 0 {
		limit = -1
	}
	duos, err := r.queries.ListDuos(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list duos: %w", err)
	}
	result := make([]domain.Duo, len(duos))
	for i, d := range duos {
		result[i] = *toDomainDuo(d)
	}
	return result, nil
}

// ApplyGame stores a scored game and folds it into the duo's standing in one
// transaction. noobStreak and carryStreak are the values to persist after the
// game. Remakes and early games are stored but leave the standing untouched
// apart from the last match id.
func (r *DuoRepository) ApplyGame(ctx context.Context, game *domain.Game, noobStreak, carryStreak int) (*domain.Duo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	exists, err := qtx.GameExists(ctx, db.GameExistsParams{DuoID: game.DuoID, MatchID: game.MatchID})
	if err != nil {
		return nil, fmt.Errorf("failed to check game: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRecorded
	}

	row, err := qtx.GetDuo(ctx, game.DuoID)
	if err != nil {
		return nil, notFound(err)
	}
	duo := toDomainDuo(row)

	if game.ID == "" {
		game.ID, err = gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}
	now := time.Now().UTC()
	game.CreatedAt = now
	if game.PlayedAt.IsZero() {
		game.PlayedAt = now
	}

	err = qtx.InsertGame(ctx, db.InsertGameParams{
		ID:              game.ID,
		DuoID:           game.DuoID,
		MatchID:         game.MatchID,
		Win:             game.Win,
		DurationSeconds: int64(game.DurationSeconds),
		Points:          int64(game.Points),
		RemakeOrEarly:   game.RemakeOrEarly,
		NoobFinal:       int64(game.NoobFinal),
		CarryFinal:      int64(game.CarryFinal),
		Breakdown:       game.Breakdown,
		PlayedAt:        game.PlayedAt,
		CreatedAt:       game.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}

	if !game.RemakeOrEarly {
		duo.TotalPoints += game.Points
		duo.NoobStreak = noobStreak
		duo.CarryStreak = carryStreak
		duo.GamesPlayed++
		if game.Win {
			duo.Wins++
		} else {
			duo.Losses++
		}
	}
	duo.LastMatchID = game.MatchID
	duo.UpdatedAt = now

	err = qtx.UpdateDuoStats(ctx, db.UpdateDuoStatsParams{
		TotalPoints: int64(duo.TotalPoints),
		NoobStreak:  int64(duo.NoobStreak),
		CarryStreak: int64(duo.CarryStreak),
		GamesPlayed: int64(duo.GamesPlayed),
		Wins:        int64(duo.Wins),
		Losses:      int64(duo.Losses),
		LastMatchID: duo.LastMatchID,
		UpdatedAt:   duo.UpdatedAt,
		ID:          duo.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update duo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game: %w", err)
	}

	r.logger.Debug().
		Str("duo_id", duo.ID).
		Str("match_id", game.MatchID).
		Int("points", game.Points).
		Int("total_points", duo.TotalPoints).
		Msg("game applied")

	return duo, nil
}

func toDomainDuo(d db.Duo) *domain.Duo {
	return &domain.Duo{
		ID:          d.ID,
		Name:        d.Name,
		NoobPuuid:   d.NoobPuuid,
		CarryPuuid:  d.CarryPuuid,
		TotalPoints: int(d.TotalPoints),
		NoobStreak:  int(d.NoobStreak),
		CarryStreak: int(d.CarryStreak),
		GamesPlayed: int(d.GamesPlayed),
		Wins:        int(d.Wins),
		Losses:      int(d.Losses),
		LastMatchID: d.LastMatchID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
