package services

import (
	"testing"
	"time"

	"braindump_backend/internal/models"
	"braindump_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDailyLimit = 10

func TestCheckLimit_NewUserHasFullAllowance(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewQuotaService(repo, testDailyLimit)

	status, err := svc.CheckLimit("user-1")
	require.NoError(t, err)

	assert.True(t, status.CanDump)
	assert.Equal(t, testDailyLimit, status.RemainingDumps)
	assert.False(t, status.IsPremium)
}

func TestCheckLimit_IsIdempotent(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewQuotaService(repo, testDailyLimit)

	first, err := svc.CheckLimit("user-1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		status, err := svc.CheckLimit("user-1")
		require.NoError(t, err)
		assert.Equal(t, first.RemainingDumps, status.RemainingDumps)
	}
}

func TestCheckLimit_CountsDownAndBlocksAtLimit(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewQuotaService(repo, testDailyLimit)

	for i := 0; i < testDailyLimit; i++ {
		status, err := svc.CheckLimit("user-1")
		require.NoError(t, err)
		assert.True(t, status.CanDump, "dump %d should be allowed", i+1)
		assert.Equal(t, testDailyLimit-i, status.RemainingDumps)

		require.NoError(t, svc.IncrementDump("user-1"))
	}

	status, err := svc.CheckLimit("user-1")
	require.NoError(t, err)
	assert.False(t, status.CanDump)
	assert.Equal(t, 0, status.RemainingDumps)
}

func TestCheckLimit_RemainingNeverNegative(t *testing.T) {
	repo := newFakeProfileRepo()
	now := time.Now()
	repo.profiles["user-1"] = &models.Profile{
		UserID:             "user-1",
		SubscriptionStatus: models.SubscriptionStatusFree,
		DailyDumpCount:     testDailyLimit + 5,
		LastDumpDate:       &now,
	}
	svc := NewQuotaService(repo, testDailyLimit)

	status, err := svc.CheckLimit("user-1")
	require.NoError(t, err)
	assert.False(t, status.CanDump)
	assert.Equal(t, 0, status.RemainingDumps)
}

func TestCheckLimit_StaleCounterReadsAsZero(t *testing.T) {
	repo := newFakeProfileRepo()
	yesterday := time.Now().AddDate(0, 0, -1)
	repo.profiles["user-1"] = &models.Profile{
		UserID:             "user-1",
		SubscriptionStatus: models.SubscriptionStatusFree,
		DailyDumpCount:     testDailyLimit,
		LastDumpDate:       &yesterday,
	}
	svc := NewQuotaService(repo, testDailyLimit)

	// The persisted counter is exhausted but dated yesterday; no reset
	// job has run. The allowance must still read as full.
	status, err := svc.CheckLimit("user-1")
	require.NoError(t, err)
	assert.True(t, status.CanDump)
	assert.Equal(t, testDailyLimit, status.RemainingDumps)
}

func TestCheckLimit_PremiumIsUnlimited(t *testing.T) {
	repo := newFakeProfileRepo()
	now := time.Now()
	end := now.Add(24 * time.Hour)
	repo.profiles["user-1"] = &models.Profile{
		UserID:             "user-1",
		SubscriptionStatus: models.SubscriptionStatusPremium,
		SubscriptionEnd:    &end,
		DailyDumpCount:     testDailyLimit * 3,
		LastDumpDate:       &now,
	}
	svc := NewQuotaService(repo, testDailyLimit)

	status, err := svc.CheckLimit("user-1")
	require.NoError(t, err)
	assert.True(t, status.CanDump)
	assert.Equal(t, dto.UnlimitedDumps, status.RemainingDumps)
	assert.True(t, status.IsPremium)
}

func TestCheckLimit_ExpiredPremiumFallsBackToFreeLimit(t *testing.T) {
	repo := newFakeProfileRepo()
	now := time.Now()
	end := now.Add(-time.Hour)
	repo.profiles["user-1"] = &models.Profile{
		UserID:             "user-1",
		SubscriptionStatus: models.SubscriptionStatusPremium,
		SubscriptionEnd:    &end,
		DailyDumpCount:     2,
		LastDumpDate:       &now,
	}
	svc := NewQuotaService(repo, testDailyLimit)

	// Premium expired an hour ago; no sweep has demoted the row yet.
	status, err := svc.CheckLimit("user-1")
	require.NoError(t, err)
	assert.False(t, status.IsPremium)
	assert.Equal(t, testDailyLimit-2, status.RemainingDumps)
}

func TestIncrementDump_RestartsCountOnNewDay(t *testing.T) {
	repo := newFakeProfileRepo()
	yesterday := time.Now().AddDate(0, 0, -1)
	repo.profiles["user-1"] = &models.Profile{
		UserID:             "user-1",
		SubscriptionStatus: models.SubscriptionStatusFree,
		DailyDumpCount:     7,
		LastDumpDate:       &yesterday,
	}
	svc := NewQuotaService(repo, testDailyLimit)

	require.NoError(t, svc.IncrementDump("user-1"))

	assert.Equal(t, 1, repo.profiles["user-1"].DailyDumpCount)

	status, err := svc.CheckLimit("user-1")
	require.NoError(t, err)
	assert.Equal(t, testDailyLimit-1, status.RemainingDumps)
}
