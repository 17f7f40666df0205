package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"duo-ladder/internal/api"
	"duo-ladder/internal/domain"
	"duo-ladder/internal/rank"
	"duo-ladder/internal/repository"
	"duo-ladder/internal/scoring"
	"duo-ladder/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"
)

const LadderServicePath = "/ladder.v1.LadderService/"

type (
	request  = connect.Request[structpb.Struct]
	response = connect.Response[structpb.Struct]
)

type LadderServer struct {
	playerSvc *service.PlayerService
	ladderSvc *service.LadderService
	matchSvc  *service.MatchService
	logger    zerolog.Logger
}

func NewLadderServer(playerSvc *service.PlayerService, ladderSvc *service.LadderService, matchSvc *service.MatchService, logger zerolog.Logger) *LadderServer {
	return &LadderServer{playerSvc: playerSvc, ladderSvc: ladderSvc, matchSvc: matchSvc, logger: logger}
}

// NewLadderServiceHandler mounts every procedure under LadderServicePath.
// Messages are google.protobuf.Struct, so clients may speak JSON or binary.
func NewLadderServiceHandler(s *LadderServer, opts ...connect.HandlerOption) (string, http.Handler) {
	procedures := []struct {
		name string
		fn   func(context.Context, *request) (*response, error)
	}{
		{"GetLadder", s.GetLadder},
		{"GetDuo", s.GetDuo},
		{"GetDuoGames", s.GetDuoGames},
		{"PreviewScore", s.PreviewScore},
		{"RecordGame", s.RecordGame},
		{"RegisterPlayer", s.RegisterPlayer},
		{"CreateDuo", s.CreateDuo},
		{"SyncDuo", s.SyncDuo},
	}

	mux := http.NewServeMux()
	for _, p := range procedures {
		procedure := LadderServicePath + p.name
		mux.Handle(procedure, connect.NewUnaryHandler(procedure, p.fn, opts...))
	}
	return LadderServicePath, mux
}

type duoView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	NoobPuuid   string    `json:"noobPuuid"`
	CarryPuuid  string    `json:"carryPuuid"`
	TotalPoints int       `json:"totalPoints"`
	NoobStreak  int       `json:"noobStreak"`
	CarryStreak int       `json:"carryStreak"`
	GamesPlayed int       `json:"gamesPlayed"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	LastMatchID string    `json:"lastMatchId,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type gameView struct {
	MatchID         string          `json:"matchId"`
	Win             bool            `json:"win"`
	DurationSeconds int             `json:"durationSeconds"`
	Points          int             `json:"points"`
	RemakeOrEarly   bool            `json:"remakeOrEarly"`
	NoobFinal       int             `json:"noobFinal"`
	CarryFinal      int             `json:"carryFinal"`
	Breakdown       json.RawMessage `json:"breakdown,omitempty"`
	PlayedAt        time.Time       `json:"playedAt"`
}

type playerView struct {
	Puuid         string        `json:"puuid"`
	GameName      string        `json:"gameName"`
	TagLine       string        `json:"tagLine"`
	MainRole      string        `json:"mainRole,omitempty"`
	MainChampions []string      `json:"mainChampions,omitempty"`
	PeakElo       string        `json:"peakElo,omitempty"`
	Rank          rank.RankInfo `json:"rank"`
	RankDisplay   string        `json:"rankDisplay"`
}

func toDuoView(d *domain.Duo) duoView {
	return duoView{
		ID:          d.ID,
		Name:        d.Name,
		NoobPuuid:   d.NoobPuuid,
		CarryPuuid:  d.CarryPuuid,
		TotalPoints: d.TotalPoints,
		NoobStreak:  d.NoobStreak,
		CarryStreak: d.CarryStreak,
		GamesPlayed: d.GamesPlayed,
		Wins:        d.Wins,
		Losses:      d.Losses,
		LastMatchID: d.LastMatchID,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toGameView(g *domain.Game) gameView {
	return gameView{
		MatchID:         g.MatchID,
		Win:             g.Win,
		DurationSeconds: g.DurationSeconds,
		Points:          g.Points,
		RemakeOrEarly:   g.RemakeOrEarly,
		NoobFinal:       g.NoobFinal,
		CarryFinal:      g.CarryFinal,
		Breakdown:       json.RawMessage(g.Breakdown),
		PlayedAt:        g.PlayedAt,
	}
}

func (s *LadderServer) GetLadder(ctx context.Context, req *request) (*response, error) {
	var in struct {
		Limit int `json:"limit"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	duos, err := s.ladderSvc.Ladder(ctx, in.Limit)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}

	type entry struct {
		Position int `json:"position"`
		duoView
	}
	standings := make([]entry, len(duos))
	for i := range duos {
		standings[i] = entry{Position: i + 1, duoView: toDuoView(&duos[i])}
	}
	return encode(map[string]any{"duos": standings})
}

func (s *LadderServer) GetDuo(ctx context.Context, req *request) (*response, error) {
	var in struct {
		DuoID string `json:"duoId"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	duo, err := s.ladderSvc.GetDuo(ctx, in.DuoID)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return encode(map[string]any{"duo": toDuoView(duo)})
}

func (s *LadderServer) GetDuoGames(ctx context.Context, req *request) (*response, error) {
	var in struct {
		DuoID string `json:"duoId"`
		Limit int    `json:"limit"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	games, err := s.ladderSvc.DuoGames(ctx, in.DuoID, in.Limit)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	views := make([]gameView, len(games))
	for i := range games {
		views[i] = toGameView(&games[i])
	}
	return encode(map[string]any{"games": views})
}

func (s *LadderServer) PreviewScore(ctx context.Context, req *request) (*response, error) {
	var in struct {
		Game        scoring.GameData `json:"game"`
		NoobStreak  int              `json:"noobStreak"`
		CarryStreak int              `json:"carryStreak"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	breakdown, err := s.ladderSvc.Preview(in.Game, in.NoobStreak, in.CarryStreak)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return encode(map[string]any{"points": breakdown.Points(), "breakdown": breakdown})
}

func (s *LadderServer) RecordGame(ctx context.Context, req *request) (*response, error) {
	var in struct {
		DuoID    string           `json:"duoId"`
		MatchID  string           `json:"matchId"`
		Game     scoring.GameData `json:"game"`
		PlayedAt time.Time        `json:"playedAt"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	res, err := s.ladderSvc.RecordGame(ctx, in.DuoID, in.MatchID, in.Game, in.PlayedAt)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return encode(map[string]any{
		"duo":       toDuoView(res.Duo),
		"game":      toGameView(res.Game),
		"breakdown": res.Breakdown,
	})
}

func (s *LadderServer) RegisterPlayer(ctx context.Context, req *request) (*response, error) {
	var in struct {
		GameName      string   `json:"gameName"`
		TagLine       string   `json:"tagLine"`
		MainRole      string   `json:"mainRole"`
		MainChampions []string `json:"mainChampions"`
		PeakElo       string   `json:"peakElo"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	player, err := s.playerSvc.Register(ctx, service.RegisterPlayerInput{
		GameName:      in.GameName,
		TagLine:       in.TagLine,
		MainRole:      in.MainRole,
		MainChampions: in.MainChampions,
		PeakElo:       in.PeakElo,
	})
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return encode(map[string]any{"player": playerView{
		Puuid:         player.Puuid,
		GameName:      player.GameName,
		TagLine:       player.TagLine,
		MainRole:      player.MainRole,
		MainChampions: player.MainChampions,
		PeakElo:       player.PeakElo,
		Rank:          player.Rank,
		RankDisplay:   player.Rank.String(),
	}})
}

func (s *LadderServer) CreateDuo(ctx context.Context, req *request) (*response, error) {
	var in struct {
		Name       string `json:"name"`
		NoobPuuid  string `json:"noobPuuid"`
		CarryPuuid string `json:"carryPuuid"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	duo, err := s.ladderSvc.CreateDuo(ctx, in.Name, in.NoobPuuid, in.CarryPuuid)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return encode(map[string]any{"duo": toDuoView(duo)})
}

func (s *LadderServer) SyncDuo(ctx context.Context, req *request) (*response, error) {
	var in struct {
		DuoID string `json:"duoId"`
	}
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	res, err := s.matchSvc.SyncDuo(ctx, in.DuoID)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return encode(map[string]any{
		"duoId":    res.DuoID,
		"recorded": res.Recorded,
		"skipped":  res.Skipped,
		"points":   res.Points,
	})
}

func decode(msg *structpb.Struct, dst any) error {
	b, err := msg.MarshalJSON()
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("failed to read request: %w", err))
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("failed to decode request: %w", err))
	}
	return nil
}

func encode(v any) (*response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to encode response: %w", err))
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(b); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to encode response: %w", err))
	}
	return connect.NewResponse(out), nil
}

func (s *LadderServer) toConnectError(ctx context.Context, err error) error {
	code := errorCode(err)
	if code == connect.CodeInternal {
		logger := zerolog.Ctx(ctx)
		if logger.GetLevel() == zerolog.Disabled {
			logger = &s.logger
		}
		logger.Error().Err(err).Msg("request failed")
	}
	return connect.NewError(code, err)
}

func errorCode(err error) connect.Code {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, api.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, service.ErrAlreadyRecorded):
		return connect.CodeAlreadyExists
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrPlayerNotInMatch),
		errors.Is(err, service.ErrNotSameTeam),
		errors.Is(err, scoring.ErrMalformedGameStats),
		errors.Is(err, rank.ErrInvalidRankString),
		errors.Is(err, rank.ErrInvalidRankValue):
		return connect.CodeInvalidArgument
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		return connect.CodeResourceExhausted
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	}
	return connect.CodeInternal
}
