package services

import (
	"context"
	"time"

	"braindump_backend/internal/logger"
	"braindump_backend/internal/models"
	"braindump_backend/internal/repositories"
	"braindump_backend/internal/services/dto"
	"braindump_backend/pkg/apperrors"
)

// Remote subscription status the provider reports for a settled checkout.
const remoteStatusActive = "ACTIVE"

// fallbackPremiumPeriod is granted when the provider omits the next
// billing time on an active subscription.
const fallbackPremiumPeriod = 30 * 24 * time.Hour

// SubscriptionService bridges profile state to the billing provider.
// Verification is pull-based: there is no webhook receiver, the client
// calls Verify after being redirected back from checkout approval.
type SubscriptionService interface {
	Create(ctx context.Context, userID string) (*dto.CreateSubscriptionResponse, error)
	Verify(ctx context.Context, userID, subscriptionID string) (*dto.VerifySubscriptionResponse, error)
	Status(userID string) (*dto.SubscriptionStatusResponse, error)
}

type SubscriptionServiceImpl struct {
	paypal      PayPalClient
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
}

func NewSubscriptionService(
	paypal PayPalClient,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		paypal:      paypal,
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

// Create starts a checkout: authenticates with the provider, ensures the
// product/plan exist, creates the subscription, stores its id on the
// profile and returns the approval URL for the redirect. A failure at any
// step aborts; state persisted by earlier steps is not rolled back.
func (s *SubscriptionServiceImpl) Create(ctx context.Context, userID string) (*dto.CreateSubscriptionResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	accessToken, err := s.paypal.GetAccessToken(ctx)
	if err != nil {
		if apperrors.Is(err, ErrPayPalNotConfigured) {
			return nil, apperrors.ErrBillingNotConfigured
		}
		return nil, apperrors.ErrExternalService(err, "billing", "Failed to authenticate with billing provider")
	}

	planID, err := s.paypal.EnsurePlan(ctx, accessToken)
	if err != nil {
		return nil, apperrors.ErrExternalService(err, "billing", "Failed to prepare billing plan")
	}

	sub, err := s.paypal.CreateSubscription(ctx, accessToken, planID, user.Email)
	if err != nil {
		return nil, apperrors.ErrExternalService(err, "billing", "Failed to create subscription")
	}

	if _, err := s.profileRepo.GetOrCreate(userID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.profileRepo.UpdateSubscription(userID, models.SubscriptionStatusFree, nil, sub.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "subscription checkout created", "subscription_id", sub.ID)

	return &dto.CreateSubscriptionResponse{
		ApprovalURL:    sub.ApprovalURL,
		SubscriptionID: sub.ID,
	}, nil
}

// Verify fetches the remote subscription and maps its status onto the
// profile: ACTIVE becomes premium with an expiry from the next billing
// time (30 days when absent); anything else becomes free with no expiry.
// The write is unconditional and idempotent, so a user can retry (page
// refresh) until the provider has settled.
func (s *SubscriptionServiceImpl) Verify(ctx context.Context, userID, subscriptionID string) (*dto.VerifySubscriptionResponse, error) {
	accessToken, err := s.paypal.GetAccessToken(ctx)
	if err != nil {
		if apperrors.Is(err, ErrPayPalNotConfigured) {
			return nil, apperrors.ErrBillingNotConfigured
		}
		return nil, apperrors.ErrExternalService(err, "billing", "Failed to authenticate with billing provider")
	}

	sub, err := s.paypal.GetSubscription(ctx, accessToken, subscriptionID)
	if err != nil {
		return nil, apperrors.ErrExternalService(err, "billing", "Failed to fetch subscription")
	}

	status := models.SubscriptionStatusFree
	var end *time.Time

	if sub.Status == remoteStatusActive {
		status = models.SubscriptionStatusPremium
		expiry := sub.NextBillingTime
		if expiry.IsZero() {
			expiry = time.Now().Add(fallbackPremiumPeriod)
		}
		end = &expiry
	}

	if _, err := s.profileRepo.GetOrCreate(userID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.profileRepo.UpdateSubscription(userID, status, end, subscriptionID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "subscription verified",
		"subscription_id", subscriptionID,
		"remote_status", sub.Status,
		"local_status", string(status),
	)

	return &dto.VerifySubscriptionResponse{
		Success:            status == models.SubscriptionStatusPremium,
		SubscriptionStatus: status,
		SubscriptionEnd:    end,
	}, nil
}

// Status reads the profile's subscription view with the lazy expiry check
// applied: a premium row whose end has passed reads as free.
func (s *SubscriptionServiceImpl) Status(userID string) (*dto.SubscriptionStatusResponse, error) {
	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	status := profile.SubscriptionStatus
	end := profile.SubscriptionEnd
	if status == models.SubscriptionStatusPremium && !profile.IsPremium(time.Now()) {
		status = models.SubscriptionStatusFree
		end = nil
	}

	return &dto.SubscriptionStatusResponse{
		SubscriptionStatus: status,
		SubscriptionEnd:    end,
		SubscriptionID:     profile.PayPalSubscriptionID,
	}, nil
}
