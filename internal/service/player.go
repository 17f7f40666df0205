package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"duo-ladder/internal/api"
	"duo-ladder/internal/constants"
	"duo-ladder/internal/domain"
	"duo-ladder/internal/rank"
	"duo-ladder/internal/repository"

	"github.com/rs/zerolog"
)

type PlayerService struct {
	riot    RiotAPI
	repo    *repository.PlayerRepository
	history *repository.RankHistoryRepository
	logger  zerolog.Logger
}

func NewPlayerService(riot RiotAPI, repo *repository.PlayerRepository, history *repository.RankHistoryRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{riot: riot, repo: repo, history: history, logger: logger}
}

type RegisterPlayerInput struct {
	GameName      string `validate:"required"`
	TagLine       string `validate:"required"`
	MainRole      string `validate:"omitempty,oneof=TOP JUNGLE MIDDLE BOTTOM UTILITY"`
	MainChampions []string
	PeakElo       string
}

// Register resolves a Riot ID, stores the player with their current solo
// queue rank and records a first rank snapshot. Registering an existing
// player updates their preferences.
func (s *PlayerService) Register(ctx context.Context, in RegisterPlayerInput) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	in.GameName = strings.TrimSpace(in.GameName)
	in.TagLine = strings.TrimPrefix(strings.TrimSpace(in.TagLine), "#")
	in.MainRole = strings.ToUpper(strings.TrimSpace(in.MainRole))
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var peakValue int
	if in.PeakElo != "" {
		peak, err := rank.ParseCompact(in.PeakElo)
		if err != nil {
			return nil, err
		}
		in.PeakElo, _ = rank.FormatCompact(peak)
		peakValue, _ = rank.ToValue(peak)
	}

	s.logger.Info().Str("game_name", in.GameName).Str("tag_line", in.TagLine).Msg("registering player")

	account, err := s.riot.GetAccountByRiotID(ctx, in.GameName, in.TagLine)
	if err != nil {
		s.logger.Error().Err(err).Str("game_name", in.GameName).Str("tag_line", in.TagLine).Msg("failed to fetch account")
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("riot id %s#%s: %w", in.GameName, in.TagLine, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	current, err := s.fetchRank(ctx, account.Puuid)
	if err != nil {
		return nil, err
	}

	champions := make([]string, 0, len(in.MainChampions))
	for _, c := range in.MainChampions {
		if c = strings.TrimSpace(c); c != "" {
			champions = append(champions, c)
		}
	}

	player := &domain.Player{
		Puuid:         account.Puuid,
		GameName:      account.GameName,
		TagLine:       account.TagLine,
		MainRole:      in.MainRole,
		MainChampions: champions,
		PeakElo:       in.PeakElo,
		Rank:          current,
	}
	if existing, err := s.repo.Get(ctx, account.Puuid); err == nil {
		player.CreatedAt = existing.CreatedAt
	}

	if currentValue, _ := rank.ToValue(current); player.PeakElo != "" && currentValue > peakValue {
		player.PeakElo, _ = rank.FormatCompact(current)
	}

	if err := s.repo.Upsert(ctx, player); err != nil {
		return nil, err
	}
	if err := s.history.Insert(ctx, &domain.RankSnapshot{Puuid: player.Puuid, Rank: current}); err != nil {
		s.logger.Warn().Err(err).Str("puuid", player.Puuid).Msg("failed to record rank snapshot")
	}

	s.logger.Info().
		Str("puuid", player.Puuid).
		Str("rank", current.String()).
		Str("peak_elo", player.PeakElo).
		Msg("player registered")
	return player, nil
}

// RefreshRank fetches the player's current rank, stores it with a snapshot
// tagged with matchID, and raises the stored peak when the new rank is higher.
// A player with no peak gets their current rank as peak.
func (s *PlayerService) RefreshRank(ctx context.Context, puuid, matchID string) (rank.RankInfo, error) {
	player, err := s.repo.Get(ctx, puuid)
	if err != nil {
		return rank.RankInfo{}, err
	}

	current, err := s.fetchRank(ctx, puuid)
	if err != nil {
		return rank.RankInfo{}, err
	}

	if err := s.repo.UpdateRank(ctx, puuid, current); err != nil {
		s.logger.Error().Err(err).Str("puuid", puuid).Msg("failed to store rank")
		return rank.RankInfo{}, err
	}
	if err := s.history.Insert(ctx, &domain.RankSnapshot{Puuid: puuid, MatchID: matchID, Rank: current}); err != nil {
		s.logger.Error().Err(err).Str("puuid", puuid).Msg("failed to record rank snapshot")
		return rank.RankInfo{}, err
	}

	raise, err := peakRaised(player.PeakElo, current)
	if err != nil {
		s.logger.Warn().Err(err).Str("puuid", puuid).Str("peak_elo", player.PeakElo).Msg("stored peak is invalid, replacing it")
	}
	if raise != "" {
		if err := s.repo.UpdatePeak(ctx, puuid, raise); err != nil {
			return rank.RankInfo{}, err
		}
	}

	return current, nil
}

func (s *PlayerService) RankHistory(ctx context.Context, puuid string) ([]domain.RankSnapshot, error) {
	return s.history.ListByPuuid(ctx, puuid, constants.RankHistoryLimit)
}

func (s *PlayerService) fetchRank(ctx context.Context, puuid string) (rank.RankInfo, error) {
	entries, err := s.riot.GetLeagueEntries(ctx, puuid)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", puuid).Msg("failed to fetch league entries")
		return rank.RankInfo{}, fmt.Errorf("failed to fetch league entries: %w", err)
	}
	current, err := api.SoloQueueRank(entries)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", puuid).Msg("failed to parse solo queue rank")
		return rank.RankInfo{}, err
	}
	return current, nil
}

// peakRaised returns the compact rank to store as the new peak, or "" when
// the stored peak still stands.
func peakRaised(peakElo string, current rank.RankInfo) (string, error) {
	currentCompact, err := rank.FormatCompact(current)
	if err != nil {
		return "", err
	}
	if peakElo == "" {
		return currentCompact, nil
	}
	peakValue, err := rank.CompactValue(peakElo)
	if err != nil {
		return currentCompact, err
	}
	currentValue, _ := rank.ToValue(current)
	if currentValue > peakValue {
		return currentCompact, nil
	}
	return "", nil
}
