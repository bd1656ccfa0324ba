package service

import (
	"context"
	"time"

	"membership-backend/internal/apps/otp/repository"

	"github.com/rs/zerolog/log"
)

// CleanupWorker periodically purges stale OTP records
type CleanupWorker struct {
	repo               repository.PhoneOTPRepository
	interval           time.Duration
	verificationWindow time.Duration
	now                func() time.Time
}

// NewCleanupWorker creates a new CleanupWorker
func NewCleanupWorker(repo repository.PhoneOTPRepository, interval, verificationWindow time.Duration) *CleanupWorker {
	return &CleanupWorker{
		repo:               repo,
		interval:           interval,
		verificationWindow: verificationWindow,
		now:                time.Now,
	}
}

// Run purges on every tick until ctx is cancelled
func (w *CleanupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("otp cleanup worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("otp cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce deletes expired unverified codes and verified codes past the window
func (w *CleanupWorker) RunOnce(ctx context.Context) {
	now := w.now()
	deleted, err := w.repo.DeleteStale(ctx, now, now.Add(-w.verificationWindow))
	if err != nil {
		log.Error().Err(err).Msg("otp cleanup failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("otp cleanup removed stale records")
	}
}
