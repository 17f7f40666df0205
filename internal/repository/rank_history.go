package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"duo-ladder/internal/db"
	"duo-ladder/internal/domain"
	"duo-ladder/internal/rank"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RankHistoryRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewRankHistoryRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *RankHistoryRepository {
	return &RankHistoryRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *RankHistoryRepository) Insert(ctx context.Context, snapshot *domain.RankSnapshot) error {
	value, err := rank.ToValue(snapshot.Rank)
	if err != nil {
		return err
	}
	snapshot.RankValue = value

	if snapshot.ID == "" {
		snapshot.ID, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}
	if snapshot.RecordedAt.IsZero() {
		snapshot.RecordedAt = time.Now().UTC()
	}

	err = r.queries.InsertRankHistory(ctx, db.InsertRankHistoryParams{
		ID:           snapshot.ID,
		Puuid:        snapshot.Puuid,
		MatchID:      snapshot.MatchID,
		Tier:         int64(snapshot.Rank.Tier),
		Division:     int64(snapshot.Rank.Division),
		LeaguePoints: int64(snapshot.Rank.LeaguePoints),
		RankValue:    int64(snapshot.RankValue),
		RecordedAt:   snapshot.RecordedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert rank history: %w", err)
	}
	return nil
}

func (r *RankHistoryRepository) ListByPuuid(ctx context.Context, puuid string, limit int) ([]domain.RankSnapshot, error) {
	records, err := r.queries.GetRankHistoryByPuuid(ctx, db.GetRankHistoryByPuuidParams{
		Puuid: puuid,
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rank history: %w", err)
	}

	result := make([]domain.RankSnapshot, len(records))
	for i, rec := range records {
		result[i] = domain.RankSnapshot{
			ID:      rec.ID,
			Puuid:   rec.Puuid,
			MatchID: rec.MatchID,
			Rank: rank.RankInfo{
				Tier:         rank.Tier(rec.Tier),
				Division:     rank.Division(rec.Division),
				LeaguePoints: int(rec.LeaguePoints),
			},
			RankValue:  int(rec.RankValue),
			RecordedAt: rec.RecordedAt,
		}
	}
	return result, nil
}
