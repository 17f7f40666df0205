package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"duo-ladder/internal/api"
	"duo-ladder/internal/config"
	"duo-ladder/internal/database"
	"duo-ladder/internal/db"
	"duo-ladder/internal/domain"
	"duo-ladder/internal/rank"
	"duo-ladder/internal/repository"
	"duo-ladder/internal/scoring"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRiot struct {
	mu       sync.Mutex
	accounts map[string]*api.AccountDto
	entries  map[string][]api.LeagueEntryDto
	matchIDs map[string][]string
	matches  map[string]*api.MatchDto
	calls    int
}

func newFakeRiot() *fakeRiot {
	return &fakeRiot{
		accounts: map[string]*api.AccountDto{},
		entries:  map[string][]api.LeagueEntryDto{},
		matchIDs: map[string][]string{},
		matches:  map[string]*api.MatchDto{},
	}
}

func (f *fakeRiot) GetAccountByRiotID(_ context.Context, gameName, tagLine string) (*api.AccountDto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	acc, ok := f.accounts[gameName+"#"+tagLine]
	if !ok {
		return nil, &api.APIError{StatusCode: 404}
	}
	return acc, nil
}

func (f *fakeRiot) GetLeagueEntries(_ context.Context, puuid string) ([]api.LeagueEntryDto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.entries[puuid], nil
}

func (f *fakeRiot) GetMatchIDs(_ context.Context, puuid string, _, count int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	ids := f.matchIDs[puuid]
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

func (f *fakeRiot) GetMatch(_ context.Context, matchID string) (*api.MatchDto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	m, ok := f.matches[matchID]
	if !ok {
		return nil, &api.APIError{StatusCode: 404}
	}
	return m, nil
}

func (f *fakeRiot) setRank(puuid, tier, division string, lp int) {
	f.entries[puuid] = []api.LeagueEntryDto{{QueueType: "RANKED_SOLO_5x5", Tier: tier, Rank: division, LeaguePoints: lp}}
}

type testEnv struct {
	riot    *fakeRiot
	players *PlayerService
	ladder  *LadderService
	matches *MatchService
	duoRepo *repository.DuoRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "ladder.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	playerRepo := repository.NewPlayerRepository(sqlDB, queries, logger)
	duoRepo := repository.NewDuoRepository(sqlDB, queries, logger)
	gameRepo := repository.NewGameRepository(sqlDB, queries, logger)
	historyRepo := repository.NewRankHistoryRepository(sqlDB, queries, logger)

	riot := newFakeRiot()
	cfg := &config.Config{MatchQueueID: 420, MatchCount: 20}

	players := NewPlayerService(riot, playerRepo, historyRepo, logger)
	ladder := NewLadderService(duoRepo, gameRepo, playerRepo, logger)
	matches := NewMatchService(cfg, riot, playerRepo, duoRepo, gameRepo, players, ladder, logger)

	return &testEnv{riot: riot, players: players, ladder: ladder, matches: matches, duoRepo: duoRepo}
}

// seed registers a noob (Silver II, no peak, support mains) and a carry
// (Emerald II, peak D4, bottom lane) and pairs them.
func (e *testEnv) seed(t *testing.T) (*domain.Player, *domain.Player, *domain.Duo) {
	t.Helper()
	ctx := context.Background()

	e.riot.accounts["Noobie#EUW"] = &api.AccountDto{Puuid: "noob", GameName: "Noobie", TagLine: "EUW"}
	e.riot.accounts["Carry#EUW"] = &api.AccountDto{Puuid: "carry", GameName: "Carry", TagLine: "EUW"}
	e.riot.setRank("noob", "SILVER", "II", 20)
	e.riot.setRank("carry", "EMERALD", "II", 60)

	noob, err := e.players.Register(ctx, RegisterPlayerInput{
		GameName: "Noobie", TagLine: "EUW", MainRole: "utility", MainChampions: []string{"Lulu", " Nami "},
	})
	require.NoError(t, err)
	carry, err := e.players.Register(ctx, RegisterPlayerInput{
		GameName: "Carry", TagLine: "#EUW", MainRole: "BOTTOM", PeakElo: "d4",
	})
	require.NoError(t, err)

	duo, err := e.ladder.CreateDuo(ctx, "bot lane", noob.Puuid, carry.Puuid)
	require.NoError(t, err)
	return noob, carry, duo
}

func standardGame() scoring.GameData {
	gold := rank.RankInfo{Tier: rank.Gold, Division: rank.DivisionIV}
	return scoring.GameData{
		Noob:            scoring.PlayerGameStats{Kills: 8, Deaths: 2, Assists: 12, PeakElo: "G4", NewRank: gold},
		Carry:           scoring.PlayerGameStats{Kills: 10, Deaths: 3, Assists: 9, PeakElo: "G4", NewRank: gold},
		Win:             true,
		DurationSeconds: 25 * 60,
	}
}

func TestPlayerService_Register(t *testing.T) {
	env := newTestEnv(t)
	noob, carry, _ := env.seed(t)

	assert.Equal(t, "UTILITY", noob.MainRole)
	assert.Equal(t, []string{"Lulu", "Nami"}, noob.MainChampions)
	assert.Empty(t, noob.PeakElo)
	assert.Equal(t, rank.RankInfo{Tier: rank.Silver, Division: rank.DivisionII, LeaguePoints: 20}, noob.Rank)

	assert.Equal(t, "D4", carry.PeakElo)
	assert.Equal(t, "EUW", carry.TagLine)

	history, err := env.players.RankHistory(context.Background(), "carry")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 22, history[0].RankValue)
}

func TestPlayerService_RegisterRaisesStalePeak(t *testing.T) {
	env := newTestEnv(t)
	env.riot.accounts["Climber#EUW"] = &api.AccountDto{Puuid: "climber", GameName: "Climber", TagLine: "EUW"}
	env.riot.setRank("climber", "PLATINUM", "I", 0)

	p, err := env.players.Register(context.Background(), RegisterPlayerInput{GameName: "Climber", TagLine: "EUW", PeakElo: "G2"})
	require.NoError(t, err)
	assert.Equal(t, "P1", p.PeakElo)
}

func TestPlayerService_RegisterRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.players.Register(ctx, RegisterPlayerInput{GameName: "A", TagLine: "B", PeakElo: "Q7"})
	assert.ErrorIs(t, err, rank.ErrInvalidRankString)
	assert.Zero(t, env.riot.calls, "bad peak must fail before any api call")

	_, err = env.players.Register(ctx, RegisterPlayerInput{GameName: "A", TagLine: "B", MainRole: "ADC"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "MainRole must be one of TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY")

	_, err = env.players.Register(ctx, RegisterPlayerInput{GameName: " ", TagLine: "B"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.players.Register(ctx, RegisterPlayerInput{GameName: "Ghost", TagLine: "EUW"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlayerService_RefreshRank(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t)

	env.riot.setRank("noob", "GOLD", "III", 5)
	current, err := env.players.RefreshRank(ctx, "noob", "EUW1_1")
	require.NoError(t, err)
	assert.Equal(t, rank.RankInfo{Tier: rank.Gold, Division: rank.DivisionIII, LeaguePoints: 5}, current)

	history, err := env.players.RankHistory(ctx, "noob")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "EUW1_1", history[0].MatchID)

	// peak is filled on first refresh, then only rises
	env.riot.setRank("noob", "SILVER", "I", 90)
	_, err = env.players.RefreshRank(ctx, "noob", "EUW1_2")
	require.NoError(t, err)

	env.riot.setRank("carry", "MASTER", "I", 10)
	_, err = env.players.RefreshRank(ctx, "carry", "EUW1_2")
	require.NoError(t, err)

	noob, err := env.storedPlayer(ctx, "noob")
	require.NoError(t, err)
	assert.Equal(t, "G3", noob.PeakElo)
	carry, err := env.storedPlayer(ctx, "carry")
	require.NoError(t, err)
	assert.Equal(t, "M", carry.PeakElo)

	_, err = env.players.RefreshRank(ctx, "missing", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func (e *testEnv) storedPlayer(ctx context.Context, puuid string) (*domain.Player, error) {
	return e.ladder.players.Get(ctx, puuid)
}

func TestLadderService_CreateDuoValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t)

	_, err := env.ladder.CreateDuo(ctx, "", "noob", "carry")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "Name is required")
	_, err = env.ladder.CreateDuo(ctx, "  ", "noob", "carry")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = env.ladder.CreateDuo(ctx, "solo", "noob", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = env.ladder.CreateDuo(ctx, "mirror", "noob", "noob")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "CarryPuuid must differ from NoobPuuid")
	_, err = env.ladder.CreateDuo(ctx, "ghost", "noob", "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLadderService_RecordGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, duo := env.seed(t)
	playedAt := time.Now().UTC().Add(-time.Hour)

	res, err := env.ladder.RecordGame(ctx, duo.ID, "EUW1_1", standardGame(), playedAt)
	require.NoError(t, err)

	want, err := scoring.ComputeGameScore(standardGame(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, want.Points(), res.Game.Points)
	assert.Equal(t, want.Points(), res.Duo.TotalPoints)
	assert.Equal(t, 1, res.Duo.NoobStreak)
	assert.Equal(t, 1, res.Duo.CarryStreak)
	assert.Equal(t, 1, res.Duo.Wins)

	// second win threads the stored streak
	res, err = env.ladder.RecordGame(ctx, duo.ID, "EUW1_2", standardGame(), playedAt.Add(40*time.Minute))
	require.NoError(t, err)
	second, err := scoring.ComputeGameScore(standardGame(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, second.Points(), res.Breakdown.Points())
	assert.Equal(t, want.Points()+second.Points(), res.Duo.TotalPoints)
	assert.Equal(t, 2, res.Duo.NoobStreak)

	_, err = env.ladder.RecordGame(ctx, duo.ID, "EUW1_2", standardGame(), playedAt)
	assert.ErrorIs(t, err, ErrAlreadyRecorded)

	games, err := env.ladder.DuoGames(ctx, duo.ID, 0)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "EUW1_2", games[0].MatchID)
	assert.Contains(t, string(games[0].Breakdown), `"isRemakeOrEarlyGame":false`)

	ladder, err := env.ladder.Ladder(ctx, 0)
	require.NoError(t, err)
	require.Len(t, ladder, 1)
	assert.Equal(t, res.Duo.TotalPoints, ladder[0].TotalPoints)
}

func TestLadderService_RecordRemakeKeepsStreaks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, duo := env.seed(t)

	_, err := env.ladder.RecordGame(ctx, duo.ID, "EUW1_1", standardGame(), time.Time{})
	require.NoError(t, err)

	remake := standardGame()
	remake.Win = false
	remake.Remake = true
	remake.DurationSeconds = 200
	res, err := env.ladder.RecordGame(ctx, duo.ID, "EUW1_2", remake, time.Time{})
	require.NoError(t, err)

	assert.True(t, res.Breakdown.IsRemakeOrEarlyGame)
	assert.Zero(t, res.Game.Points)
	assert.Equal(t, 1, res.Duo.NoobStreak)
	assert.Equal(t, 1, res.Duo.CarryStreak)
	assert.Equal(t, 1, res.Duo.GamesPlayed)
	assert.Zero(t, res.Duo.Losses)
	assert.Equal(t, "EUW1_2", res.Duo.LastMatchID)
}

func TestLadderService_RecordGameRejectsMalformed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, duo := env.seed(t)

	bad := standardGame()
	bad.Carry.Deaths = -1
	_, err := env.ladder.RecordGame(ctx, duo.ID, "EUW1_1", bad, time.Time{})
	assert.ErrorIs(t, err, scoring.ErrMalformedGameStats)

	bad = standardGame()
	bad.Noob.PeakElo = "Z1"
	_, err = env.ladder.RecordGame(ctx, duo.ID, "EUW1_1", bad, time.Time{})
	assert.ErrorIs(t, err, rank.ErrInvalidRankString)

	_, err = env.ladder.RecordGame(ctx, duo.ID, "", standardGame(), time.Time{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.ladder.RecordGame(ctx, "nope", "EUW1_1", standardGame(), time.Time{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.ladder.RecordGame(ctx, "", "EUW1_1", standardGame(), time.Time{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, tracked := env.ladder.duoLocks.Load("nope")
	assert.False(t, tracked, "unknown duo left a lock behind")

	stored, err := env.ladder.GetDuo(ctx, duo.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.GamesPlayed)
}

func TestLadderService_Preview(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.ladder.Preview(standardGame(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 95, got.Points())
}

func participant(puuid string, team int, position, champion string, win bool) api.ParticipantDto {
	return api.ParticipantDto{
		Puuid:        puuid,
		TeamID:       team,
		TeamPosition: position,
		ChampionName: champion,
		Kills:        5,
		Deaths:       4,
		Assists:      10,
		Win:          win,
	}
}

func newMatch(id string, end time.Time, ps ...api.ParticipantDto) *api.MatchDto {
	m := &api.MatchDto{
		Metadata: api.MatchMetadataDto{MatchID: id},
		Info: api.MatchInfoDto{
			GameCreation:     end.Add(-30 * time.Minute).UnixMilli(),
			GameDuration:     1800,
			GameEndTimestamp: end.UnixMilli(),
			QueueID:          420,
			Participants:     ps,
		},
	}
	for _, p := range ps {
		m.Metadata.Participants = append(m.Metadata.Participants, p.Puuid)
	}
	return m
}

func TestBuildGameData(t *testing.T) {
	noob := &domain.Player{Puuid: "noob", MainRole: "UTILITY", MainChampions: []string{"Lulu"}, PeakElo: "S1"}
	carry := &domain.Player{Puuid: "carry", MainRole: "BOTTOM", PeakElo: "D4"}
	noobRank := rank.RankInfo{Tier: rank.Silver, Division: rank.DivisionII}
	carryRank := rank.RankInfo{Tier: rank.Emerald, Division: rank.DivisionII}

	t.Run("mapping", func(t *testing.T) {
		np := participant("noob", 100, "MIDDLE", "lulu", true)
		cp := participant("carry", 100, "BOTTOM", "Jinx", true)
		cp.PentaKills = 1
		cp.FirstBloodKill = true
		cp.LargestKillingSpree = 9
		cp.GameEndedInSurrender = true

		game, err := BuildGameData(noob, carry, newMatch("EUW1_1", time.Now(), np, cp), noobRank, carryRank)
		require.NoError(t, err)

		assert.True(t, game.Win)
		assert.True(t, game.Surrender)
		assert.False(t, game.Remake)
		assert.Equal(t, 1800, game.DurationSeconds)
		assert.True(t, game.Noob.OffRole)
		assert.False(t, game.Noob.OffChampion, "champion match ignores case")
		assert.False(t, game.Carry.OffRole)
		assert.False(t, game.Carry.OffChampion, "no champion pool means any champion")
		assert.Equal(t, 1, game.Carry.PentaKills)
		assert.True(t, game.Carry.FirstBlood)
		assert.Equal(t, 9, game.Carry.LargestKillingSpree)
		assert.Equal(t, "S1", game.Noob.PeakElo)
		assert.Equal(t, carryRank, game.Carry.NewRank)
	})

	t.Run("off champion and remake", func(t *testing.T) {
		np := participant("noob", 200, "UTILITY", "Thresh", false)
		cp := participant("carry", 200, "BOTTOM", "Jinx", false)
		cp.GameEndedInEarlySurrender = true

		game, err := BuildGameData(noob, carry, newMatch("EUW1_2", time.Now(), np, cp), noobRank, carryRank)
		require.NoError(t, err)
		assert.True(t, game.Noob.OffChampion)
		assert.False(t, game.Noob.OffRole)
		assert.True(t, game.Remake)
	})

	t.Run("missing player", func(t *testing.T) {
		_, err := BuildGameData(noob, carry, newMatch("EUW1_3", time.Now(), participant("carry", 100, "BOTTOM", "Jinx", true)), noobRank, carryRank)
		assert.ErrorIs(t, err, ErrPlayerNotInMatch)
	})

	t.Run("opposing teams", func(t *testing.T) {
		m := newMatch("EUW1_4", time.Now(),
			participant("noob", 100, "UTILITY", "Lulu", true),
			participant("carry", 200, "BOTTOM", "Jinx", false))
		_, err := BuildGameData(noob, carry, m, noobRank, carryRank)
		assert.ErrorIs(t, err, ErrNotSameTeam)
	})
}

func TestMatchService_SyncDuo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	noob, carry, duo := env.seed(t)

	base := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Second)
	env.riot.matches["EUW1_1"] = newMatch("EUW1_1", base,
		participant("noob", 100, "UTILITY", "Lulu", true),
		participant("carry", 100, "BOTTOM", "Jinx", true))
	env.riot.matches["EUW1_2"] = newMatch("EUW1_2", base.Add(time.Hour),
		participant("carry", 100, "BOTTOM", "Jinx", false),
		participant("stranger", 100, "UTILITY", "Nami", false))
	env.riot.matches["EUW1_3"] = newMatch("EUW1_3", base.Add(2*time.Hour),
		participant("noob", 200, "UTILITY", "Nami", true),
		participant("carry", 200, "BOTTOM", "Jinx", true))
	env.riot.matchIDs["carry"] = []string{"EUW1_3", "EUW1_2", "EUW1_1"}
	env.riot.matchIDs["noob"] = []string{"EUW1_9", "EUW1_3", "EUW1_1"}

	res, err := env.matches.SyncDuo(ctx, duo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Recorded)
	assert.Zero(t, res.Skipped)

	noobRank := rank.RankInfo{Tier: rank.Silver, Division: rank.DivisionII, LeaguePoints: 20}
	carryRank := rank.RankInfo{Tier: rank.Emerald, Division: rank.DivisionII, LeaguePoints: 60}
	first, err := BuildGameData(noob, carry, env.riot.matches["EUW1_1"], noobRank, carryRank)
	require.NoError(t, err)
	third, err := BuildGameData(noob, carry, env.riot.matches["EUW1_3"], noobRank, carryRank)
	require.NoError(t, err)
	a, err := scoring.ComputeGameScore(first, 0, 0)
	require.NoError(t, err)
	b, err := scoring.ComputeGameScore(third, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, a.Points()+b.Points(), res.Points)

	stored, err := env.ladder.GetDuo(ctx, duo.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Points, stored.TotalPoints)
	assert.Equal(t, 2, stored.Wins)
	assert.Equal(t, 2, stored.NoobStreak)
	assert.Equal(t, "EUW1_3", stored.LastMatchID)

	games, err := env.ladder.DuoGames(ctx, duo.ID, 10)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "EUW1_3", games[0].MatchID)
	assert.WithinDuration(t, base.Add(2*time.Hour), games[0].PlayedAt, time.Second)

	// a second sync finds nothing new and only lists ids
	calls := env.riot.calls
	res, err = env.matches.SyncDuo(ctx, duo.ID)
	require.NoError(t, err)
	assert.Zero(t, res.Recorded)
	assert.Equal(t, calls+2, env.riot.calls)
}

type countingSyncer struct {
	mu    sync.Mutex
	seen  []string
	fail  string
	games int
}

func (c *countingSyncer) SyncDuo(_ context.Context, duoID string) (*SyncResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, duoID)
	if duoID == c.fail {
		return nil, assert.AnError
	}
	return &SyncResult{DuoID: duoID, Recorded: c.games}, nil
}

func TestPoller_PollOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, first := env.seed(t)
	second, err := env.ladder.CreateDuo(ctx, "swapped", "carry", "noob")
	require.NoError(t, err)

	syncer := &countingSyncer{fail: first.ID, games: 3}
	p := &Poller{matches: syncer, duos: env.duoRepo, interval: time.Minute, logger: zerolog.Nop()}

	recorded := p.PollOnce(ctx)
	assert.Equal(t, 3, recorded)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, syncer.seen)
}

func TestPoller_StartStop(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	syncer := &countingSyncer{}
	p := &Poller{matches: syncer, duos: env.duoRepo, interval: time.Hour, logger: zerolog.Nop()}
	p.Start()
	require.Eventually(t, func() bool {
		syncer.mu.Lock()
		defer syncer.mu.Unlock()
		return len(syncer.seen) == 1
	}, 2*time.Second, 10*time.Millisecond)
	p.Stop()
}
