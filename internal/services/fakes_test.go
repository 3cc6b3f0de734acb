package services

import (
	"context"
	"fmt"
	"time"

	"braindump_backend/internal/models"
	"braindump_backend/internal/repositories"
	"braindump_backend/internal/services/dto"
)

// In-memory repository fakes. They mirror the persistence semantics the
// real implementations promise (stale-counter rollover, ownership
// scoping) closely enough for service-level tests.

type fakeProfileRepo struct {
	profiles map[string]*models.Profile

	incrementErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (r *fakeProfileRepo) Create(profile *models.Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) FindByUserID(userID string) (*models.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) GetOrCreate(userID string) (*models.Profile, error) {
	if profile, ok := r.profiles[userID]; ok {
		return profile, nil
	}
	profile := &models.Profile{
		UserID:             userID,
		SubscriptionStatus: models.SubscriptionStatusFree,
	}
	r.profiles[userID] = profile
	return profile, nil
}

func (r *fakeProfileRepo) Update(profile *models.Profile) error {
	if _, ok := r.profiles[profile.UserID]; !ok {
		return repositories.ErrProfileNotFound
	}
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) IncrementDump(userID string, now time.Time) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}

	profile, ok := r.profiles[userID]
	if !ok {
		today := now
		r.profiles[userID] = &models.Profile{
			UserID:             userID,
			SubscriptionStatus: models.SubscriptionStatusFree,
			DailyDumpCount:     1,
			LastDumpDate:       &today,
		}
		return nil
	}

	count := 1
	if profile.LastDumpDate != nil && sameCalendarDay(*profile.LastDumpDate, now) {
		count = profile.DailyDumpCount + 1
	}
	profile.DailyDumpCount = count
	profile.LastDumpDate = &now
	return nil
}

func (r *fakeProfileRepo) UpdateSubscription(userID string, status models.SubscriptionStatus, end *time.Time, paypalSubscriptionID string) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	profile.SubscriptionStatus = status
	profile.SubscriptionEnd = end
	if paypalSubscriptionID != "" {
		profile.PayPalSubscriptionID = paypalSubscriptionID
	}
	return nil
}

func (r *fakeProfileRepo) ResetStaleCounters(today time.Time) (int64, error) {
	var n int64
	for _, profile := range r.profiles {
		if profile.LastDumpDate != nil && profile.LastDumpDate.Before(today) && profile.DailyDumpCount > 0 {
			profile.DailyDumpCount = 0
			n++
		}
	}
	return n, nil
}

func (r *fakeProfileRepo) ExpirePremium(now time.Time) (int64, error) {
	var n int64
	for _, profile := range r.profiles {
		if profile.SubscriptionStatus == models.SubscriptionStatusPremium &&
			profile.SubscriptionEnd != nil && profile.SubscriptionEnd.Before(now) {
			profile.SubscriptionStatus = models.SubscriptionStatusFree
			profile.SubscriptionEnd = nil
			n++
		}
	}
	return n, nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type fakeDumpRepo struct {
	dumps  []*models.BrainDump
	nextID int

	createErr error
}

func newFakeDumpRepo() *fakeDumpRepo {
	return &fakeDumpRepo{}
}

func (r *fakeDumpRepo) CreateBatch(dumps []*models.BrainDump) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, dump := range dumps {
		r.nextID++
		dump.ID = fmt.Sprintf("dump-%d", r.nextID)
		dump.CreatedAt = time.Now()
		r.dumps = append(r.dumps, dump)
	}
	return nil
}

func (r *fakeDumpRepo) ListByUser(userID string) ([]models.BrainDump, error) {
	var out []models.BrainDump
	for i := len(r.dumps) - 1; i >= 0; i-- {
		if r.dumps[i].UserID == userID {
			out = append(out, *r.dumps[i])
		}
	}
	return out, nil
}

func (r *fakeDumpRepo) FindByID(userID, dumpID string) (*models.BrainDump, error) {
	for _, dump := range r.dumps {
		if dump.ID == dumpID && dump.UserID == userID {
			return dump, nil
		}
	}
	return nil, repositories.ErrDumpNotFound
}

func (r *fakeDumpRepo) UpdateCompleted(userID, dumpID string, completed bool) (*models.BrainDump, error) {
	dump, err := r.FindByID(userID, dumpID)
	if err != nil {
		return nil, err
	}
	dump.Completed = completed
	return dump, nil
}

func (r *fakeDumpRepo) UpdateText(userID, dumpID, text string) (*models.BrainDump, error) {
	dump, err := r.FindByID(userID, dumpID)
	if err != nil {
		return nil, err
	}
	dump.Text = text
	return dump, nil
}

func (r *fakeDumpRepo) Delete(userID, dumpID string) error {
	for i, dump := range r.dumps {
		if dump.ID == dumpID && dump.UserID == userID {
			r.dumps = append(r.dumps[:i], r.dumps[i+1:]...)
			return nil
		}
	}
	return repositories.ErrDumpNotFound
}

type fakeBroadcaster struct {
	messages []any
	userIDs  []string
}

func (b *fakeBroadcaster) SendToUser(userID string, message any) {
	b.userIDs = append(b.userIDs, userID)
	b.messages = append(b.messages, message)
}

type fakeCategorizer struct {
	items []dto.DumpItem
}

func (c *fakeCategorizer) Process(_ context.Context, text string) []dto.DumpItem {
	if c.items != nil {
		return c.items
	}
	return []dto.DumpItem{{Category: models.CategoryNote, RefinedText: text, Priority: "medium"}}
}

type fakePayPal struct {
	tokenErr     error
	subscription *PayPalSubscription
	getErr       error

	createdPlanID string
}

func (p *fakePayPal) GetAccessToken(context.Context) (string, error) {
	if p.tokenErr != nil {
		return "", p.tokenErr
	}
	return "test-token", nil
}

func (p *fakePayPal) EnsurePlan(context.Context, string) (string, error) {
	p.createdPlanID = "plan-1"
	return p.createdPlanID, nil
}

func (p *fakePayPal) CreateSubscription(_ context.Context, _, planID, email string) (*PayPalSubscription, error) {
	return &PayPalSubscription{
		ID:          "sub-1",
		Status:      "APPROVAL_PENDING",
		ApprovalURL: "https://www.sandbox.paypal.com/webapps/billing/subscriptions?ba_token=BA-1",
	}, nil
}

func (p *fakePayPal) GetSubscription(context.Context, string, string) (*PayPalSubscription, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	return p.subscription, nil
}
