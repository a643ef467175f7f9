// AngelaMos | 2026
// sweeper.go

package session

import (
	"context"
	"log/slog"
	"time"
)

const DefaultSweepInterval = time.Hour

// Sweeper periodically deletes expired sessions so abandoned ones do
// not pile up between lookups.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(manager *Manager, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		manager:  manager,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.manager.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("session sweep failed", "error", err)
		}
		return
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", "count", removed)
	}
}
