package services

import (
	"time"

	"braindump_backend/internal/models"
	"braindump_backend/internal/repositories"
	"braindump_backend/internal/services/dto"
	"braindump_backend/pkg/apperrors"
)

// QuotaService gates dump creation by a per-day allowance for free-tier
// users. Premium users are unconditionally allowed.
type QuotaService interface {
	// CheckLimit reports the current allowance. It never consumes quota:
	// calling it any number of times leaves RemainingDumps unchanged.
	CheckLimit(userID string) (*dto.QuotaStatus, error)

	// IncrementDump records one accepted submission batch. Same calendar
	// day advances the counter; a new day restarts it at 1.
	IncrementDump(userID string) error
}

type QuotaServiceImpl struct {
	profileRepo repositories.ProfileRepository
	dailyLimit  int
}

func NewQuotaService(profileRepo repositories.ProfileRepository, dailyLimit int) QuotaService {
	return &QuotaServiceImpl{
		profileRepo: profileRepo,
		dailyLimit:  dailyLimit,
	}
}

func (s *QuotaServiceImpl) CheckLimit(userID string) (*dto.QuotaStatus, error) {
	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()

	if profile.IsPremium(now) {
		return &dto.QuotaStatus{
			CanDump:        true,
			RemainingDumps: dto.UnlimitedDumps,
			IsPremium:      true,
		}, nil
	}

	count := counterForToday(profile, now)

	remaining := s.dailyLimit - count
	if remaining < 0 {
		remaining = 0
	}

	return &dto.QuotaStatus{
		CanDump:        count < s.dailyLimit,
		RemainingDumps: remaining,
		IsPremium:      false,
	}, nil
}

func (s *QuotaServiceImpl) IncrementDump(userID string) error {
	if err := s.profileRepo.IncrementDump(userID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// counterForToday applies the stale-counter rule: a count recorded on a
// prior date reads as zero without requiring a persisted reset.
func counterForToday(profile *models.Profile, now time.Time) int {
	if profile.LastDumpDate == nil {
		return 0
	}
	last := *profile.LastDumpDate
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	if ly == ny && lm == nm && ld == nd {
		return profile.DailyDumpCount
	}
	return 0
}
