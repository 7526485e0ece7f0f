package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/accounts/internal/auth/store"
)

// HousekeepingService periodically clears password reset codes that have
// outlived the code TTL so stale codes do not linger in the database.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	CodeTTL  time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(
	store store.Store,
	logger *slog.Logger,
	interval, codeTTL time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		CodeTTL:  codeTTL,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	s.startOnce.Do(func() {
		s.started = true
		go s.run()
		s.Logger.Info("housekeeping service started", "interval", s.Interval)
	})
}

// Stop blocks until the worker has finished any in-progress cleanup. It is a
// no-op when the worker was never started.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		if !s.started {
			return
		}
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs a single pass and returns the number of cleared reset codes.
// Codes never expire when CodeTTL is zero, so there is nothing to do.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	if s.CodeTTL <= 0 {
		return 0
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	cleared, err := s.Store.Users().ClearExpiredResetCodes(ctx, now.Add(-s.CodeTTL))
	if err != nil {
		s.Logger.Error("failed to clear expired reset codes", "error", err)
		return 0
	}
	s.Logger.Debug("housekeeping cleanup completed", "cleared_reset_codes", cleared)
	return cleared
}
