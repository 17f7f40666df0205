package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"duo-ladder/internal/api"
	"duo-ladder/internal/config"
	"duo-ladder/internal/constants"
	"duo-ladder/internal/domain"
	"duo-ladder/internal/rank"
	"duo-ladder/internal/repository"
	"duo-ladder/internal/scoring"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type MatchService struct {
	riot       RiotAPI
	players    *repository.PlayerRepository
	duos       *repository.DuoRepository
	games      *repository.GameRepository
	playerSvc  *PlayerService
	ladder     *LadderService
	queueID    int
	matchCount int
	logger     zerolog.Logger
}

func NewMatchService(
	cfg *config.Config,
	riot RiotAPI,
	players *repository.PlayerRepository,
	duos *repository.DuoRepository,
	games *repository.GameRepository,
	playerSvc *PlayerService,
	ladder *LadderService,
	logger zerolog.Logger,
) *MatchService {
	return &MatchService{
		riot:       riot,
		players:    players,
		duos:       duos,
		games:      games,
		playerSvc:  playerSvc,
		ladder:     ladder,
		queueID:    cfg.MatchQueueID,
		matchCount: cfg.MatchCount,
		logger:     logger,
	}
}

type SyncResult struct {
	DuoID    string
	Recorded int
	Skipped  int
	Points   int
}

// BuildGameData converts a Riot match into scoring input for the duo. Both
// players must have played on the same team. Ranks are the players' ranks
// after the game; peaks come from the player records.
func BuildGameData(noob, carry *domain.Player, match *api.MatchDto, noobRank, carryRank rank.RankInfo) (scoring.GameData, error) {
	np, ok := match.Participant(noob.Puuid)
	if !ok {
		return scoring.GameData{}, fmt.Errorf("%w: %s in %s", ErrPlayerNotInMatch, noob.Puuid, match.Metadata.MatchID)
	}
	cp, ok := match.Participant(carry.Puuid)
	if !ok {
		return scoring.GameData{}, fmt.Errorf("%w: %s in %s", ErrPlayerNotInMatch, carry.Puuid, match.Metadata.MatchID)
	}
	if np.TeamID != cp.TeamID {
		return scoring.GameData{}, fmt.Errorf("%w: %s", ErrNotSameTeam, match.Metadata.MatchID)
	}

	return scoring.GameData{
		Noob:            playerStats(noob, np, noobRank),
		Carry:           playerStats(carry, cp, carryRank),
		Win:             cp.Win,
		DurationSeconds: match.Info.DurationSeconds(),
		Surrender:       cp.GameEndedInSurrender,
		Remake:          cp.GameEndedInEarlySurrender,
	}, nil
}

func playerStats(player *domain.Player, p *api.ParticipantDto, newRank rank.RankInfo) scoring.PlayerGameStats {
	return scoring.PlayerGameStats{
		Kills:               p.Kills,
		Deaths:              p.Deaths,
		Assists:             p.Assists,
		TripleKills:         p.TripleKills,
		QuadraKills:         p.QuadraKills,
		PentaKills:          p.PentaKills,
		FirstBlood:          p.FirstBloodKill,
		LargestKillingSpree: p.LargestKillingSpree,
		OffRole:             player.MainRole != "" && p.TeamPosition != "" && !strings.EqualFold(p.TeamPosition, player.MainRole),
		OffChampion: len(player.MainChampions) > 0 && !slices.ContainsFunc(player.MainChampions, func(c string) bool {
			return strings.EqualFold(c, p.ChampionName)
		}),
		PeakElo: player.PeakElo,
		NewRank: newRank,
	}
}

// SyncDuo records every unseen ranked game the duo played together, oldest
// first so streaks thread through in order. Candidates are the match ids
// present in both players' recent histories.
func (s *MatchService) SyncDuo(ctx context.Context, duoID string) (*SyncResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SyncTimeout)
	defer cancel()

	duo, err := s.duos.Get(ctx, duoID)
	if err != nil {
		return nil, err
	}
	noob, err := s.players.Get(ctx, duo.NoobPuuid)
	if err != nil {
		return nil, fmt.Errorf("noob: %w", err)
	}
	carry, err := s.players.Get(ctx, duo.CarryPuuid)
	if err != nil {
		return nil, fmt.Errorf("carry: %w", err)
	}

	result := &SyncResult{DuoID: duoID}

	var carryIDs, noobIDs []string
	lg, lCtx := errgroup.WithContext(ctx)
	lg.Go(func() error {
		var err error
		carryIDs, err = s.riot.GetMatchIDs(lCtx, carry.Puuid, s.queueID, s.matchCount)
		return err
	})
	lg.Go(func() error {
		var err error
		noobIDs, err = s.riot.GetMatchIDs(lCtx, noob.Puuid, s.queueID, s.matchCount)
		return err
	})
	if err := lg.Wait(); err != nil {
		s.logger.Error().Err(err).Str("duo_id", duoID).Msg("failed to fetch match ids")
		return nil, fmt.Errorf("failed to fetch match ids: %w", err)
	}

	var unseen []string
	for _, id := range slices.Backward(carryIDs) {
		if !slices.Contains(noobIDs, id) {
			continue
		}
		exists, err := s.games.Exists(ctx, duoID, id)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		unseen = append(unseen, id)
	}
	if len(unseen) == 0 {
		s.logger.Debug().Str("duo_id", duoID).Msg("no new matches")
		return result, nil
	}

	matches := make([]*api.MatchDto, len(unseen))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.PollerConcurrency)
	for i, id := range unseen {
		g.Go(func() error {
			m, err := s.riot.GetMatch(gCtx, id)
			if err != nil {
				return fmt.Errorf("failed to fetch match %s: %w", id, err)
			}
			matches[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("duo_id", duoID).Msg("failed to fetch matches")
		return nil, err
	}

	var together []*api.MatchDto
	for _, m := range matches {
		if _, ok := m.Participant(noob.Puuid); !ok || m.Info.QueueID != s.queueID {
			result.Skipped++
			continue
		}
		together = append(together, m)
	}
	if len(together) == 0 {
		return result, nil
	}

	// Peaks are read before the refresh so a climb past peak is rewarded on
	// the game that achieved it.
	latest := together[len(together)-1].Metadata.MatchID
	var noobRank, carryRank rank.RankInfo
	rg, rCtx := errgroup.WithContext(ctx)
	rg.Go(func() error {
		var err error
		noobRank, err = s.playerSvc.RefreshRank(rCtx, noob.Puuid, latest)
		return err
	})
	rg.Go(func() error {
		var err error
		carryRank, err = s.playerSvc.RefreshRank(rCtx, carry.Puuid, latest)
		return err
	})
	if err := rg.Wait(); err != nil {
		s.logger.Error().Err(err).Str("duo_id", duoID).Msg("failed to refresh ranks")
		return nil, fmt.Errorf("failed to refresh ranks: %w", err)
	}

	for _, m := range together {
		game, err := BuildGameData(noob, carry, m, noobRank, carryRank)
		if err != nil {
			s.logger.Warn().Err(err).Str("duo_id", duoID).Str("match_id", m.Metadata.MatchID).Msg("skipping match")
			result.Skipped++
			continue
		}

		recorded, err := s.ladder.RecordGame(ctx, duoID, m.Metadata.MatchID, game, m.Info.PlayedAt())
		if errors.Is(err, ErrAlreadyRecorded) {
			result.Skipped++
			continue
		}
		if err != nil {
			return result, err
		}
		result.Recorded++
		result.Points += recorded.Breakdown.Points()
	}

	s.logger.Info().
		Str("duo_id", duoID).
		Int("recorded", result.Recorded).
		Int("skipped", result.Skipped).
		Int("points", result.Points).
		Msg("duo synced")
	return result, nil
}
