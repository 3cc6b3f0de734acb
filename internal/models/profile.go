package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusFree    SubscriptionStatus = "free"
	SubscriptionStatusPremium SubscriptionStatus = "premium"
)

// Profile holds per-user display data and the quota/subscription state.
// One row per user, created at registration or lazily on the first quota
// check. Never hard-deleted by application code.
type Profile struct {
	BaseModel
	UserID               string             `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DisplayName          string             `json:"display_name"`
	AvatarURL            string             `json:"avatar_url"`
	SubscriptionStatus   SubscriptionStatus `gorm:"type:varchar(20);default:'free'" json:"subscription_status"`
	SubscriptionEnd      *time.Time         `json:"subscription_end"`
	PayPalSubscriptionID string             `gorm:"column:paypal_subscription_id" json:"paypal_subscription_id,omitempty"`

	// DailyDumpCount is only meaningful relative to LastDumpDate: a count
	// left over from a prior date is stale and reads as zero.
	LastDumpDate   *time.Time `json:"last_dump_date"`
	DailyDumpCount int        `gorm:"default:0" json:"daily_dump_count"`
}

// IsPremium reports whether the profile currently has premium access,
// treating a past SubscriptionEnd as already expired even if no sweep has
// demoted the row yet.
func (p *Profile) IsPremium(now time.Time) bool {
	if p.SubscriptionStatus != SubscriptionStatusPremium {
		return false
	}
	if p.SubscriptionEnd != nil && p.SubscriptionEnd.Before(now) {
		return false
	}
	return true
}
