package dto

import (
	"time"

	"braindump_backend/internal/models"
)

type CreateSubscriptionResponse struct {
	ApprovalURL    string `json:"approval_url"`
	SubscriptionID string `json:"subscription_id"`
}

type VerifySubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required" validate:"required"`
}

type VerifySubscriptionResponse struct {
	Success            bool                      `json:"success"`
	SubscriptionStatus models.SubscriptionStatus `json:"subscription_status"`
	SubscriptionEnd    *time.Time                `json:"subscription_end"`
}

type SubscriptionStatusResponse struct {
	SubscriptionStatus models.SubscriptionStatus `json:"subscription_status"`
	SubscriptionEnd    *time.Time                `json:"subscription_end"`
	SubscriptionID     string                    `json:"subscription_id,omitempty"`
}
