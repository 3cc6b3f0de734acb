package repositories

import (
	"errors"
	"time"

	"braindump_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByUserID(userID string) (*models.Profile, error)
	// GetOrCreate returns the user's profile, lazily creating a default
	// free-tier row when none exists yet.
	GetOrCreate(userID string) (*models.Profile, error)
	Update(profile *models.Profile) error
	// IncrementDump advances the daily counter inside a transaction:
	// same day -> count+1, new day -> count=1 and last_dump_date=today.
	// Upserts a profile row with count=1 when the user has none.
	IncrementDump(userID string, now time.Time) error
	UpdateSubscription(userID string, status models.SubscriptionStatus, end *time.Time, paypalSubscriptionID string) error
	// ResetStaleCounters zeroes counters whose last dump date predates the
	// given day. Maintenance only: reads never depend on it.
	ResetStaleCounters(today time.Time) (int64, error)
	// ExpirePremium demotes premium profiles whose subscription_end has
	// passed. Returns the number of rows demoted.
	ExpirePremium(now time.Time) (int64, error)
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) GetOrCreate(userID string) (*models.Profile, error) {
	profile, err := r.FindByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	profile = &models.Profile{
		UserID:             userID,
		SubscriptionStatus: models.SubscriptionStatusFree,
		DailyDumpCount:     0,
	}
	if err := r.db.Create(profile).Error; err != nil {
		// Lost a race with a concurrent creator: re-read.
		if existing, findErr := r.FindByUserID(userID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepositoryImpl) Update(profile *models.Profile) error {
	result := r.db.Model(profile).Updates(map[string]interface{}{
		"display_name": profile.DisplayName,
		"avatar_url":   profile.AvatarURL,
		"updated_at":   time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) IncrementDump(userID string, now time.Time) error {
	today := truncateToDay(now)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.First(&profile, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.Profile{
				UserID:             userID,
				SubscriptionStatus: models.SubscriptionStatusFree,
				DailyDumpCount:     1,
				LastDumpDate:       &today,
			}
			return tx.Create(&profile).Error
		}
		if err != nil {
			return err
		}

		count := 1
		if profile.LastDumpDate != nil && sameDay(*profile.LastDumpDate, now) {
			count = profile.DailyDumpCount + 1
		}

		return tx.Model(&profile).Updates(map[string]interface{}{
			"daily_dump_count": count,
			"last_dump_date":   today,
			"updated_at":       time.Now(),
		}).Error
	})
}

func (r *ProfileRepositoryImpl) UpdateSubscription(userID string, status models.SubscriptionStatus, end *time.Time, paypalSubscriptionID string) error {
	updates := map[string]interface{}{
		"subscription_status": status,
		"subscription_end":    end,
		"updated_at":          time.Now(),
	}
	if paypalSubscriptionID != "" {
		updates["paypal_subscription_id"] = paypalSubscriptionID
	}

	result := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) ResetStaleCounters(today time.Time) (int64, error) {
	result := r.db.Model(&models.Profile{}).
		Where("last_dump_date < ? AND daily_dump_count > 0", truncateToDay(today)).
		Updates(map[string]interface{}{
			"daily_dump_count": 0,
			"updated_at":       time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *ProfileRepositoryImpl) ExpirePremium(now time.Time) (int64, error) {
	result := r.db.Model(&models.Profile{}).
		Where("subscription_status = ? AND subscription_end IS NOT NULL AND subscription_end < ?",
			models.SubscriptionStatusPremium, now).
		Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionStatusFree,
			"subscription_end":    nil,
			"updated_at":          time.Now(),
		})
	return result.RowsAffected, result.Error
}

// sameDay compares calendar dates in local time.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
