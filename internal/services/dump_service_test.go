package services

import (
	"context"
	"testing"
	"time"

	"braindump_backend/internal/models"
	"braindump_backend/internal/services/dto"
	"braindump_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDumpServiceForTest(categorizer CategorizeService) (DumpService, *fakeDumpRepo, *fakeProfileRepo, *fakeBroadcaster) {
	dumpRepo := newFakeDumpRepo()
	profileRepo := newFakeProfileRepo()
	broadcaster := &fakeBroadcaster{}
	quota := NewQuotaService(profileRepo, testDailyLimit)

	if categorizer == nil {
		categorizer = &fakeCategorizer{}
	}

	return NewDumpService(dumpRepo, quota, categorizer, broadcaster), dumpRepo, profileRepo, broadcaster
}

func TestCreateDump_PersistsAndBroadcasts(t *testing.T) {
	svc, dumpRepo, profileRepo, broadcaster := newDumpServiceForTest(nil)

	response, err := svc.Create(context.Background(), "user-1", "buy milk")
	require.NoError(t, err)

	require.Len(t, response.Dumps, 1)
	assert.Equal(t, "buy milk", response.Dumps[0].Text)
	assert.Equal(t, models.CategoryNote, response.Dumps[0].Category)
	assert.NotEmpty(t, response.Dumps[0].ID)

	assert.Len(t, dumpRepo.dumps, 1)
	assert.Equal(t, 1, profileRepo.profiles["user-1"].DailyDumpCount)

	require.Len(t, broadcaster.messages, 1)
	event, ok := broadcaster.messages[0].(DumpEvent)
	require.True(t, ok)
	assert.Equal(t, EventDumpCreated, event.Type)
	assert.Equal(t, []string{"user-1"}, broadcaster.userIDs)
}

func TestCreateDump_MultiItemBatchCountsOnce(t *testing.T) {
	categorizer := &fakeCategorizer{items: []dto.DumpItem{
		{Category: "task", RefinedText: "Buy milk"},
		{Category: "reminder", RefinedText: "Call the dentist"},
		{Category: "idea", RefinedText: "Plant watering app"},
	}}
	svc, dumpRepo, profileRepo, broadcaster := newDumpServiceForTest(categorizer)

	response, err := svc.Create(context.Background(), "user-1", "several thoughts at once")
	require.NoError(t, err)

	// Three rows and three realtime events, but a single quota unit.
	assert.Len(t, response.Dumps, 3)
	assert.Len(t, dumpRepo.dumps, 3)
	assert.Len(t, broadcaster.messages, 3)
	assert.Equal(t, 1, profileRepo.profiles["user-1"].DailyDumpCount)
}

func TestCreateDump_RejectsWhenLimitReached(t *testing.T) {
	svc, dumpRepo, profileRepo, broadcaster := newDumpServiceForTest(nil)
	now := time.Now()
	profileRepo.profiles["user-1"] = &models.Profile{
		UserID:             "user-1",
		SubscriptionStatus: models.SubscriptionStatusFree,
		DailyDumpCount:     testDailyLimit,
		LastDumpDate:       &now,
	}

	_, err := svc.Create(context.Background(), "user-1", "one more thought")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDailyLimitReached))
	assert.Empty(t, dumpRepo.dumps)
	assert.Empty(t, broadcaster.messages)
}

func TestCreateDump_RejectsBlankText(t *testing.T) {
	svc, dumpRepo, _, _ := newDumpServiceForTest(nil)

	_, err := svc.Create(context.Background(), "user-1", "   \n\t  ")

	require.Error(t, err)
	assert.Empty(t, dumpRepo.dumps)
}

func TestToggleComplete_BroadcastsUpdate(t *testing.T) {
	svc, _, _, broadcaster := newDumpServiceForTest(nil)

	created, err := svc.Create(context.Background(), "user-1", "finish the report")
	require.NoError(t, err)
	dumpID := created.Dumps[0].ID
	broadcaster.messages = nil

	dump, err := svc.ToggleComplete("user-1", dumpID, true)
	require.NoError(t, err)
	assert.True(t, dump.Completed)

	require.Len(t, broadcaster.messages, 1)
	event := broadcaster.messages[0].(DumpEvent)
	assert.Equal(t, EventDumpUpdated, event.Type)
	assert.True(t, event.Dump.Completed)
}

func TestUpdateText_UnknownDumpIsNotFound(t *testing.T) {
	svc, _, _, _ := newDumpServiceForTest(nil)

	_, err := svc.UpdateText("user-1", "missing-id", "new text")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDumpNotFound))
}

func TestDump_OwnershipIsolation(t *testing.T) {
	svc, _, _, _ := newDumpServiceForTest(nil)

	created, err := svc.Create(context.Background(), "user-1", "private thought")
	require.NoError(t, err)
	dumpID := created.Dumps[0].ID

	// Another user sees not-found, never someone else's row.
	_, err = svc.ToggleComplete("user-2", dumpID, true)
	assert.True(t, apperrors.Is(err, apperrors.ErrDumpNotFound))

	err = svc.Delete("user-2", dumpID)
	assert.True(t, apperrors.Is(err, apperrors.ErrDumpNotFound))

	list, err := svc.List("user-2")
	require.NoError(t, err)
	assert.Empty(t, list.Dumps)
}

func TestDelete_BroadcastsDeletedID(t *testing.T) {
	svc, dumpRepo, _, broadcaster := newDumpServiceForTest(nil)

	created, err := svc.Create(context.Background(), "user-1", "temporary note")
	require.NoError(t, err)
	dumpID := created.Dumps[0].ID
	broadcaster.messages = nil

	require.NoError(t, svc.Delete("user-1", dumpID))

	assert.Empty(t, dumpRepo.dumps)
	require.Len(t, broadcaster.messages, 1)
	event := broadcaster.messages[0].(DumpEvent)
	assert.Equal(t, EventDumpDeleted, event.Type)
	assert.Equal(t, dumpID, event.ID)
	assert.Nil(t, event.Dump)
}

func TestCreateDump_IncrementFailureDoesNotLoseDumps(t *testing.T) {
	dumpRepo := newFakeDumpRepo()
	profileRepo := newFakeProfileRepo()
	profileRepo.incrementErr = assert.AnError
	broadcaster := &fakeBroadcaster{}
	svc := NewDumpService(dumpRepo, NewQuotaService(profileRepo, testDailyLimit), &fakeCategorizer{}, broadcaster)

	response, err := svc.Create(context.Background(), "user-1", "still worth keeping")

	// Counter bookkeeping is advisory; the accepted dump survives.
	require.NoError(t, err)
	assert.Len(t, response.Dumps, 1)
	assert.Len(t, dumpRepo.dumps, 1)
}
