package workers

import (
	"context"
	"time"

	"braindump_backend/internal/logger"
	"braindump_backend/internal/repositories"
)

const premiumSweepInterval = 6 * time.Hour

// QuotaWorker runs the periodic profile maintenance: zeroing stale daily
// counters after midnight and demoting expired premium subscriptions.
// Both jobs are hygiene only; reads apply the same rules on the fly, so a
// missed run never grants extra quota or extends premium access.
type QuotaWorker struct {
	profileRepo repositories.ProfileRepository
	tokenRepo   repositories.RefreshTokenRepository
}

func NewQuotaWorker(profileRepo repositories.ProfileRepository, tokenRepo repositories.RefreshTokenRepository) *QuotaWorker {
	return &QuotaWorker{
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
	}
}

func (w *QuotaWorker) Start(ctx context.Context) {
	go w.resetDailyCounters(ctx)
	go w.expirePremium(ctx)
}

// resetDailyCounters fires shortly after each local midnight.
func (w *QuotaWorker) resetDailyCounters(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 30, 0, now.Location())

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("quota reset worker stopped")
			return
		case <-timer.C:
		}

		rows, err := w.profileRepo.ResetStaleCounters(time.Now())
		if err != nil {
			logger.WithError(err).Error("failed to reset daily dump counters")
		} else if rows > 0 {
			logger.Info("reset daily dump counters", "profiles", rows)
		}

		// Piggyback session hygiene on the nightly run.
		if err := w.tokenRepo.CleanExpired(); err != nil {
			logger.WithError(err).Error("failed to clean expired refresh tokens")
		}
	}
}

func (w *QuotaWorker) expirePremium(ctx context.Context) {
	ticker := time.NewTicker(premiumSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("premium expiry worker stopped")
			return
		case <-ticker.C:
			rows, err := w.profileRepo.ExpirePremium(time.Now())
			if err != nil {
				logger.WithError(err).Error("failed to expire premium subscriptions")
			} else if rows > 0 {
				logger.Info("demoted expired premium subscriptions", "profiles", rows)
			}
		}
	}
}
