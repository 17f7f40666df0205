package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"duo-ladder/internal/config"
	"duo-ladder/internal/constants"
	"duo-ladder/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

var ErrNotFound = errors.New("riot api: not found")

type APIError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("riot api error: %d (retry after %s)", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("riot api error: %d", e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == fasthttp.StatusNotFound
}

type RiotClient struct {
	apiKey      string
	platformURL string
	regionURL   string
	client      *fasthttp.Client
	limiter     *rate.Limiter
	logger      zerolog.Logger
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	// raw "limit:window" pairs, e.g. "20:1,100:120"
	AppLimit      string        `json:"app_limit"`
	AppLimitCount string        `json:"app_limit_count"`
	RetryAfter    time.Duration `json:"retry_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config, logger zerolog.Logger) *RiotClient {
	return &RiotClient{
		apiKey:      cfg.RiotAPIKey,
		platformURL: fmt.Sprintf("https://%s.api.riotgames.com", cfg.RiotPlatform),
		regionURL:   fmt.Sprintf("https://%s.api.riotgames.com", cfg.RiotRegion),
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RiotRatePerSecond), cfg.RiotRateBurst),
		logger:  logger,
	}
}

func (c *RiotClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-App-Rate-Limit")); limit != "" {
		c.rateLimit.AppLimit = limit
	}
	if count := string(resp.Header.Peek("X-App-Rate-Limit-Count")); count != "" {
		c.rateLimit.AppLimitCount = count
	}
	c.rateLimit.RetryAfter = retryAfter(resp)
	c.rateLimit.UpdatedAt = time.Now()
}

func retryAfter(resp *fasthttp.Response) time.Duration {
	v := string(resp.Header.Peek("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func (c *RiotClient) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountDto, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionURL, url.PathEscape(gameName), url.PathEscape(tagLine))
	return doRequest[AccountDto](ctx, c, u)
}

func (c *RiotClient) GetLeagueEntries(ctx context.Context, puuid string) ([]LeagueEntryDto, error) {
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s", c.platformURL, url.PathEscape(puuid))
	entries, err := doRequest[[]LeagueEntryDto](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// GetMatchIDs returns the player's most recent match ids in the queue, newest first.
func (c *RiotClient) GetMatchIDs(ctx context.Context, puuid string, queue, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?queue=%d&count=%d",
		c.regionURL, url.PathEscape(puuid), queue, count)
	ids, err := doRequest[[]string](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *RiotClient) GetMatch(ctx context.Context, matchID string) (*MatchDto, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionURL, url.PathEscape(matchID))
	return doRequest[MatchDto](ctx, c, u)
}

func doRequest[T any](ctx context.Context, client *RiotClient, url string) (*T, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			metrics.RiotRequests.WithLabelValues("error").Inc()
			return nil, err
		}
	} else {
		if err := client.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
			metrics.RiotRequests.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	client.updateRateLimit(resp)
	metrics.RiotRequests.WithLabelValues(strconv.Itoa(resp.StatusCode())).Inc()

	if resp.StatusCode() != fasthttp.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode(),
			RetryAfter: retryAfter(resp),
			Body:       string(resp.Body()),
		}
		client.logger.Warn().
			Int("status", apiErr.StatusCode).
			Dur("retry_after", apiErr.RetryAfter).
			Str("url", url).
			Msg("riot api request failed")
		return nil, apiErr
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode riot response: %w", err)
	}
	return &result, nil
}
