package service

import (
	"context"
	"sync"
	"time"

	"duo-ladder/internal/config"
	"duo-ladder/internal/constants"
	"duo-ladder/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type duoSyncer interface {
	SyncDuo(ctx context.Context, duoID string) (*SyncResult, error)
}

// Poller periodically syncs every duo. Duos are synced concurrently, each
// duo's games sequentially.
type Poller struct {
	matches  duoSyncer
	duos     *repository.DuoRepository
	interval time.Duration
	logger   zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller(cfg *config.Config, matches *MatchService, duos *repository.DuoRepository, logger zerolog.Logger) *Poller {
	return &Poller{
		matches:  matches,
		duos:     duos,
		interval: cfg.PollInterval,
		logger:   logger.With().Str("component", "poller").Logger(),
	}
}

func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
	p.logger.Info().Dur("interval", p.interval).Msg("poller started")
}

func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.wg.Wait()
	p.logger.Info().Msg("poller stopped")
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.PollOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PollOnce syncs all duos and returns how many games were recorded. A failing
// duo is logged and does not stop the others.
func (p *Poller) PollOnce(ctx context.Context) int {
	duos, err := p.duos.List(ctx, 0)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to list duos")
		return 0
	}

	var (
		mu       sync.Mutex
		recorded int
	)
	var g errgroup.Group
	g.SetLimit(constants.PollerConcurrency)
	for _, duo := range duos {
		g.Go(func() error {
			res, err := p.matches.SyncDuo(ctx, duo.ID)
			if err != nil {
				p.logger.Warn().Err(err).Str("duo_id", duo.ID).Msg("duo sync failed")
			}
			if res != nil {
				mu.Lock()
				recorded += res.Recorded
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Debug().Int("duos", len(duos)).Int("recorded", recorded).Msg("poll complete")
	return recorded
}
