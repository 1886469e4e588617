// Package sweeper closes Active job postings whose application deadline has
// passed.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/skillbridge/skillbridge/internal/cache"
	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository"
)

type Sweeper struct {
	jobRepo  repository.JobRepo
	cache    *cache.Cache
	logger   *slog.Logger
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New(jobRepo repository.JobRepo, c *cache.Cache, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{jobRepo: jobRepo, cache: c, logger: logger, interval: interval, stop: make(chan struct{})}
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop signals the loop to exit and waits for it.
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			s.logger.Info("sweeper stopping")
			return
		case <-ctx.Done():
			s.logger.Info("context canceled, sweeper exiting")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass: every Active job past its deadline moves to Closed.
func (s *Sweeper) Sweep(ctx context.Context) {
	nowMillis := time.Now().UTC().UnixMilli()
	ids, err := s.jobRepo.ListExpiredActive(ctx, nowMillis)
	if err != nil {
		s.logger.Error("list expired jobs", slog.Any("err", err))
		return
	}

	for _, id := range ids {
		if err := s.jobRepo.SetJobStatus(ctx, id, models.JobClosed); err != nil {
			s.logger.Error("close expired job", slog.Int64("job_id", id), slog.Any("err", err))
			continue
		}
		s.logger.Info("closed expired job", slog.Int64("job_id", id))
	}

	if len(ids) > 0 {
		s.cache.InvalidateListings(ctx)
	}
}
