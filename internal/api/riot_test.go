package api

import (
	"context"
	"net"
	"testing"
	"time"

	"duo-ladder/internal/rank"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, handler fasthttp.RequestHandler) *RiotClient {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() {
		srv.Shutdown()
		ln.Close()
	})

	return &RiotClient{
		apiKey:      "RGAPI-test",
		platformURL: "http://euw1.riot.test",
		regionURL:   "http://europe.riot.test",
		client: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  zerolog.Nop(),
	}
}

func TestRiotClient_GetAccountByRiotID(t *testing.T) {
	var gotPath, gotToken, gotHost string
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		gotPath = string(ctx.Path())
		gotHost = string(ctx.Host())
		gotToken = string(ctx.Request.Header.Peek("X-Riot-Token"))
		ctx.Response.Header.Set("X-App-Rate-Limit", "20:1,100:120")
		ctx.Response.Header.Set("X-App-Rate-Limit-Count", "1:1,1:120")
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"puuid":"abc","gameName":"Faker","tagLine":"KR1"}`)
	})

	account, err := client.GetAccountByRiotID(context.Background(), "Faker", "KR1")
	require.NoError(t, err)
	assert.Equal(t, "abc", account.Puuid)
	assert.Equal(t, "Faker", account.GameName)
	assert.Equal(t, "/riot/account/v1/accounts/by-riot-id/Faker/KR1", gotPath)
	assert.Equal(t, "europe.riot.test", gotHost)
	assert.Equal(t, "RGAPI-test", gotToken)

	info := client.GetRateLimitInfo()
	assert.Equal(t, "20:1,100:120", info.AppLimit)
	assert.Equal(t, "1:1,1:120", info.AppLimitCount)
	assert.False(t, info.UpdatedAt.IsZero())
}

func TestRiotClient_GetMatchIDs(t *testing.T) {
	var gotQueue, gotCount string
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		gotQueue = string(ctx.QueryArgs().Peek("queue"))
		gotCount = string(ctx.QueryArgs().Peek("count"))
		ctx.SetBodyString(`["EUW1_3","EUW1_2","EUW1_1"]`)
	})

	ids, err := client.GetMatchIDs(context.Background(), "abc", 420, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"EUW1_3", "EUW1_2", "EUW1_1"}, ids)
	assert.Equal(t, "420", gotQueue)
	assert.Equal(t, "3", gotCount)
}

func TestRiotClient_GetMatch(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{
			"metadata": {"matchId": "EUW1_1", "participants": ["a", "b"]},
			"info": {
				"gameCreation": 1700000000000,
				"gameDuration": 1534,
				"gameEndTimestamp": 1700001600000,
				"queueId": 420,
				"participants": [
					{"puuid": "a", "teamId": 100, "teamPosition": "UTILITY", "championName": "Lulu", "kills": 2, "deaths": 3, "assists": 14, "win": true},
					{"puuid": "b", "teamId": 100, "teamPosition": "BOTTOM", "championName": "Jinx", "kills": 11, "deaths": 2, "assists": 6, "pentaKills": 1, "firstBloodKill": true, "largestKillingSpree": 8, "win": true}
				]
			}
		}`)
	})

	match, err := client.GetMatch(context.Background(), "EUW1_1")
	require.NoError(t, err)
	assert.Equal(t, "EUW1_1", match.Metadata.MatchID)
	assert.Equal(t, 1534, match.Info.DurationSeconds())
	assert.Equal(t, time.UnixMilli(1700001600000).UTC(), match.Info.PlayedAt())

	carry, ok := match.Participant("b")
	require.True(t, ok)
	assert.Equal(t, 1, carry.PentaKills)
	assert.True(t, carry.FirstBloodKill)

	_, ok = match.Participant("zzz")
	assert.False(t, ok)
}

func TestRiotClient_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		})
		_, err := client.GetMatch(context.Background(), "EUW1_404")
		assert.ErrorIs(t, err, ErrNotFound)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
	})

	t.Run("rate limited", func(t *testing.T) {
		client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set("Retry-After", "7")
			ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
		})
		_, err := client.GetLeagueEntries(context.Background(), "abc")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 429, apiErr.StatusCode)
		assert.Equal(t, 7*time.Second, apiErr.RetryAfter)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 7*time.Second, client.GetRateLimitInfo().RetryAfter)
	})

	t.Run("bad body", func(t *testing.T) {
		client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			ctx.SetBodyString(`{not json`)
		})
		_, err := client.GetAccountByRiotID(context.Background(), "a", "b")
		assert.ErrorContains(t, err, "decode")
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {})
		client.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
		client.limiter.Allow()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.GetMatch(ctx, "EUW1_1")
		assert.Error(t, err)
	})
}

func TestMatchInfo_DurationMilliseconds(t *testing.T) {
	info := MatchInfoDto{GameDuration: 1_534_000}
	assert.Equal(t, 1534, info.DurationSeconds())
}

func TestSoloQueueRank(t *testing.T) {
	tests := []struct {
		name    string
		entries []LeagueEntryDto
		want    rank.RankInfo
	}{
		{
			name: "solo entry",
			entries: []LeagueEntryDto{
				{QueueType: "RANKED_FLEX_SR", Tier: "DIAMOND", Rank: "I", LeaguePoints: 10},
				{QueueType: "RANKED_SOLO_5x5", Tier: "GOLD", Rank: "II", LeaguePoints: 45},
			},
			want: rank.RankInfo{Tier: rank.Gold, Division: rank.DivisionII, LeaguePoints: 45},
		},
		{
			name:    "apex ignores rank",
			entries: []LeagueEntryDto{{QueueType: "RANKED_SOLO_5x5", Tier: "MASTER", Rank: "I", LeaguePoints: 212}},
			want:    rank.RankInfo{Tier: rank.Master, LeaguePoints: 212},
		},
		{
			name:    "unranked",
			entries: []LeagueEntryDto{{QueueType: "RANKED_FLEX_SR", Tier: "SILVER", Rank: "IV"}},
			want:    rank.RankInfo{Tier: rank.Iron, Division: rank.DivisionIV},
		},
		{
			name: "no entries",
			want: rank.RankInfo{Tier: rank.Iron, Division: rank.DivisionIV},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SoloQueueRank(tt.entries)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SoloQueueRank([]LeagueEntryDto{{QueueType: "RANKED_SOLO_5x5", Tier: "WOOD", Rank: "I"}})
	assert.ErrorIs(t, err, rank.ErrInvalidRankString)
}
