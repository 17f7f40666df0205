package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"duo-ladder/internal/constants"
	"duo-ladder/internal/domain"
	"duo-ladder/internal/metrics"
	"duo-ladder/internal/rank"
	"duo-ladder/internal/repository"
	"duo-ladder/internal/scoring"

	"github.com/rs/zerolog"
)

type LadderService struct {
	duos    *repository.DuoRepository
	games   *repository.GameRepository
	players *repository.PlayerRepository
	logger  zerolog.Logger

	// one mutex per duo id; streaks must be read and written in game order
	duoLocks sync.Map
}

func NewLadderService(duos *repository.DuoRepository, games *repository.GameRepository, players *repository.PlayerRepository, logger zerolog.Logger) *LadderService {
	return &LadderService{duos: duos, games: games, players: players, logger: logger}
}

// RecordResult is the outcome of recording one game.
type RecordResult struct {
	Duo       *domain.Duo
	Game      *domain.Game
	Breakdown scoring.ScoreBreakdown
}

func (s *LadderService) CreateDuo(ctx context.Context, name, noobPuuid, carryPuuid string) (*domain.Duo, error) {
	name = strings.TrimSpace(name)
	if err := validateInput(createDuoInput{Name: name, NoobPuuid: noobPuuid, CarryPuuid: carryPuuid}); err != nil {
		return nil, err
	}

	for _, puuid := range []string{noobPuuid, carryPuuid} {
		if _, err := s.players.Get(ctx, puuid); err != nil {
			return nil, fmt.Errorf("player %s: %w", puuid, err)
		}
	}

	duo := &domain.Duo{Name: name, NoobPuuid: noobPuuid, CarryPuuid: carryPuuid}
	if err := s.duos.Create(ctx, duo); err != nil {
		return nil, err
	}
	return duo, nil
}

func (s *LadderService) GetDuo(ctx context.Context, id string) (*domain.Duo, error) {
	return s.duos.Get(ctx, id)
}

// Ladder returns duo standings, best first.
func (s *LadderService) Ladder(ctx context.Context, limit int) ([]domain.Duo, error) {
	if limit <= 0 || limit > constants.LadderPageLimit {
		limit = constants.LadderPageLimit
	}
	return s.duos.List(ctx, limit)
}

func (s *LadderService) DuoGames(ctx context.Context, duoID string, limit int) ([]domain.Game, error) {
	if _, err := s.duos.Get(ctx, duoID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > constants.DuoGamesLimit {
		limit = constants.DuoGamesLimit
	}
	return s.games.ListByDuo(ctx, duoID, limit)
}

// Preview scores a game without touching storage.
func (s *LadderService) Preview(game scoring.GameData, noobStreak, carryStreak int) (scoring.ScoreBreakdown, error) {
	return scoring.ComputeGameScore(game, noobStreak, carryStreak)
}

// RecordGame scores a game against the duo's stored streaks and folds the
// result into the ladder. Games of one duo must be recorded in the order they
// were played.
func (s *LadderService) RecordGame(ctx context.Context, duoID, matchID string, game scoring.GameData, playedAt time.Time) (*RecordResult, error) {
	if err := validateInput(recordGameInput{DuoID: duoID, MatchID: matchID}); err != nil {
		return nil, err
	}

	// Only existing duos get a lock.
	if _, err := s.duos.Get(ctx, duoID); err != nil {
		return nil, err
	}

	mu, _ := s.duoLocks.LoadOrStore(duoID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	exists, err := s.games.Exists(ctx, duoID, matchID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRecorded
	}

	// Re-read under the lock for the latest streaks.
	duo, err := s.duos.Get(ctx, duoID)
	if err != nil {
		return nil, err
	}

	breakdown, err := scoring.ComputeGameScore(game, duo.NoobStreak, duo.CarryStreak)
	if err != nil {
		metrics.ScoringFailures.WithLabelValues(failureReason(err)).Inc()
		s.logger.Error().Err(err).Str("duo_id", duoID).Str("match_id", matchID).Msg("failed to score game")
		return nil, fmt.Errorf("failed to score game: %w", err)
	}

	encoded, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breakdown: %w", err)
	}

	record := &domain.Game{
		DuoID:           duoID,
		MatchID:         matchID,
		Win:             game.Win,
		DurationSeconds: game.DurationSeconds,
		Points:          breakdown.Points(),
		RemakeOrEarly:   breakdown.IsRemakeOrEarlyGame,
		NoobFinal:       breakdown.Noob.Final,
		CarryFinal:      breakdown.Carry.Final,
		Breakdown:       encoded,
		PlayedAt:        playedAt,
	}

	noobStreak, carryStreak := breakdown.NextStreaks(duo.NoobStreak, duo.CarryStreak)
	updated, err := s.duos.ApplyGame(ctx, record, noobStreak, carryStreak)
	if err != nil {
		if !errors.Is(err, ErrAlreadyRecorded) {
			metrics.ScoringFailures.WithLabelValues("storage").Inc()
			s.logger.Error().Err(err).Str("duo_id", duoID).Str("match_id", matchID).Msg("failed to apply game")
		}
		return nil, err
	}

	metrics.GamesScored.WithLabelValues(metrics.Outcome(game.Win, breakdown.IsRemakeOrEarlyGame)).Inc()
	if !breakdown.IsRemakeOrEarlyGame {
		metrics.DuoPoints.Observe(float64(breakdown.Points()))
	}
	for _, alert := range breakdown.Alerts {
		metrics.AlertsEmitted.WithLabelValues(string(alert.Kind())).Inc()
		s.logger.Info().
			Str("duo_id", duoID).
			Str("match_id", matchID).
			Str("kind", string(alert.Kind())).
			Msg(alert.Message())
	}

	s.logger.Info().
		Str("duo_id", duoID).
		Str("match_id", matchID).
		Int("points", breakdown.Points()).
		Int("noob_final", breakdown.Noob.Final).
		Int("carry_final", breakdown.Carry.Final).
		Bool("remake_or_early", breakdown.IsRemakeOrEarlyGame).
		Int("total_points", updated.TotalPoints).
		Msg("game recorded")

	return &RecordResult{Duo: updated, Game: record, Breakdown: breakdown}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, scoring.ErrMalformedGameStats):
		return "malformed_stats"
	case errors.Is(err, rank.ErrInvalidRankString), errors.Is(err, rank.ErrInvalidRankValue):
		return "invalid_rank"
	default:
		return "other"
	}
}
