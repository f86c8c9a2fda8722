package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSchedule runs the TTL sweep once a day at 03:00.
const DefaultSweepSchedule = "0 3 * * *"

// Sweeper periodically evicts expired cache records on a cron schedule.
// Overlapping runs are skipped rather than queued.
type Sweeper struct {
	cache *EmbeddingCache
	cron  *cron.Cron
	log   *zap.Logger
	ctx   context.Context
}

// NewSweeper schedules a TTL sweep of the given cache. The schedule is a
// standard five-field cron expression.
func NewSweeper(cache *EmbeddingCache, schedule string, log *zap.Logger) (*Sweeper, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s := &Sweeper{
		cache: cache,
		cron:  cron.New(cron.WithParser(parser)),
		log:   log.With(zap.String("job", "cache-sweep")),
	}

	var running atomic.Bool
	_, err := s.cron.AddFunc(schedule, func() {
		if !running.CompareAndSwap(false, true) {
			s.log.Info("sweep skipped: still running")
			return
		}
		defer running.Store(false)
		s.runOnce()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) runOnce() {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	deleted, err := s.cache.Sweep(ctx)
	if err != nil {
		s.log.Error("sweep finished", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	s.log.Info("sweep finished",
		zap.Int64("deleted", deleted),
		zap.Duration("duration", time.Since(start)))
}

// Start begins running scheduled sweeps.
func (s *Sweeper) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.cron.Start()
}

// Stop halts the schedule and waits for any in-flight sweep.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
