package services

import (
	"context"
	"testing"
	"time"

	"braindump_backend/internal/models"
	"braindump_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, assert.AnError
}

func (r *fakeUserRepo) FindByEmail(string) (*models.User, error)             { return nil, assert.AnError }
func (r *fakeUserRepo) FindByVerificationToken(string) (*models.User, error) { return nil, assert.AnError }
func (r *fakeUserRepo) FindByResetToken(string) (*models.User, error)        { return nil, assert.AnError }
func (r *fakeUserRepo) Create(*models.User) error                            { return nil }
func (r *fakeUserRepo) Update(*models.User) error                            { return nil }
func (r *fakeUserRepo) VerifyUser(string) error                              { return nil }
func (r *fakeUserRepo) Delete(string) error                                  { return nil }

func newSubscriptionServiceForTest(paypal PayPalClient) (SubscriptionService, *fakeProfileRepo) {
	profileRepo := newFakeProfileRepo()
	userRepo := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {BaseModel: models.BaseModel{ID: "user-1"}, Email: "user@example.com"},
	}}
	return NewSubscriptionService(paypal, profileRepo, userRepo), profileRepo
}

func TestCreateSubscription_ReturnsApprovalURLAndStoresID(t *testing.T) {
	svc, profileRepo := newSubscriptionServiceForTest(&fakePayPal{})

	response, err := svc.Create(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "sub-1", response.SubscriptionID)
	assert.Contains(t, response.ApprovalURL, "paypal.com")

	// The checkout does not grant premium; only Verify does.
	profile := profileRepo.profiles["user-1"]
	assert.Equal(t, models.SubscriptionStatusFree, profile.SubscriptionStatus)
	assert.Equal(t, "sub-1", profile.PayPalSubscriptionID)
}

func TestCreateSubscription_NotConfigured(t *testing.T) {
	svc, _ := newSubscriptionServiceForTest(&fakePayPal{tokenErr: ErrPayPalNotConfigured})

	_, err := svc.Create(context.Background(), "user-1")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBillingNotConfigured))
}

func TestVerifySubscription_ActiveGrantsPremiumUntilNextBilling(t *testing.T) {
	nextBilling := time.Now().Add(31 * 24 * time.Hour).Truncate(time.Second)
	svc, profileRepo := newSubscriptionServiceForTest(&fakePayPal{
		subscription: &PayPalSubscription{ID: "sub-1", Status: "ACTIVE", NextBillingTime: nextBilling},
	})

	response, err := svc.Verify(context.Background(), "user-1", "sub-1")
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Equal(t, models.SubscriptionStatusPremium, response.SubscriptionStatus)
	require.NotNil(t, response.SubscriptionEnd)
	assert.True(t, response.SubscriptionEnd.Equal(nextBilling))

	profile := profileRepo.profiles["user-1"]
	assert.Equal(t, models.SubscriptionStatusPremium, profile.SubscriptionStatus)
}

func TestVerifySubscription_ActiveWithoutBillingTimeGetsThirtyDays(t *testing.T) {
	svc, _ := newSubscriptionServiceForTest(&fakePayPal{
		subscription: &PayPalSubscription{ID: "sub-1", Status: "ACTIVE"},
	})

	response, err := svc.Verify(context.Background(), "user-1", "sub-1")
	require.NoError(t, err)

	require.NotNil(t, response.SubscriptionEnd)
	expected := time.Now().Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *response.SubscriptionEnd, time.Minute)
}

func TestVerifySubscription_PendingStaysFree(t *testing.T) {
	svc, profileRepo := newSubscriptionServiceForTest(&fakePayPal{
		subscription: &PayPalSubscription{ID: "sub-1", Status: "APPROVAL_PENDING"},
	})

	response, err := svc.Verify(context.Background(), "user-1", "sub-1")
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, models.SubscriptionStatusFree, response.SubscriptionStatus)
	assert.Nil(t, response.SubscriptionEnd)
	assert.Equal(t, models.SubscriptionStatusFree, profileRepo.profiles["user-1"].SubscriptionStatus)
}

func TestVerifySubscription_CancelledDemotesToFree(t *testing.T) {
	paypal := &fakePayPal{subscription: &PayPalSubscription{ID: "sub-1", Status: "ACTIVE"}}
	svc, profileRepo := newSubscriptionServiceForTest(paypal)

	_, err := svc.Verify(context.Background(), "user-1", "sub-1")
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionStatusPremium, profileRepo.profiles["user-1"].SubscriptionStatus)

	// Repeated verification after a remote cancellation demotes the row.
	paypal.subscription = &PayPalSubscription{ID: "sub-1", Status: "CANCELLED"}
	response, err := svc.Verify(context.Background(), "user-1", "sub-1")
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, models.SubscriptionStatusFree, profileRepo.profiles["user-1"].SubscriptionStatus)
}

func TestSubscriptionStatus_AppliesLazyExpiry(t *testing.T) {
	svc, profileRepo := newSubscriptionServiceForTest(&fakePayPal{})
	past := time.Now().Add(-time.Hour)
	profileRepo.profiles["user-1"] = &models.Profile{
		UserID:               "user-1",
		SubscriptionStatus:   models.SubscriptionStatusPremium,
		SubscriptionEnd:      &past,
		PayPalSubscriptionID: "sub-1",
	}

	response, err := svc.Status("user-1")
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionStatusFree, response.SubscriptionStatus)
	assert.Nil(t, response.SubscriptionEnd)
	assert.Equal(t, "sub-1", response.SubscriptionID)
}
