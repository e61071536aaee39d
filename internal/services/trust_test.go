package services

import (
	"context"
	"testing"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTrust struct {
	events   []*models.TrustEvent
	regs     []*models.TrustRegistration
	weddings []*models.WeddingRegistration
	stats    *models.FundStats
}

func (m *memTrust) CreateEvent(_ context.Context, e *models.TrustEvent) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memTrust) GetEvent(_ context.Context, id string) (*models.TrustEvent, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (m *memTrust) ListEvents(context.Context) ([]*models.TrustEvent, error) {
	return m.events, nil
}

func (m *memTrust) attend(eventID *string) error {
	if eventID == nil {
		return nil
	}
	e, err := m.GetEvent(context.Background(), *eventID)
	if err != nil {
		return err
	}
	e.AttendeesCount++
	return nil
}

func (m *memTrust) CreateRegistration(_ context.Context, reg *models.TrustRegistration) error {
	if err := m.attend(reg.EventID); err != nil {
		return err
	}
	m.regs = append(m.regs, reg)
	return nil
}

func (m *memTrust) CreateWeddingRegistration(_ context.Context, reg *models.WeddingRegistration) error {
	if err := m.attend(reg.EventID); err != nil {
		return err
	}
	m.weddings = append(m.weddings, reg)
	return nil
}

func (m *memTrust) ListWeddingRegistrations(context.Context) ([]*models.WeddingRegistration, error) {
	return m.weddings, nil
}

func (m *memTrust) CreateSuggestion(context.Context, *models.TrustSuggestion) error { return nil }

func (m *memTrust) GetFundStats(context.Context) (*models.FundStats, error) {
	if m.stats == nil {
		return &models.FundStats{}, nil
	}
	return m.stats, nil
}

func (m *memTrust) UpdateFundStats(_ context.Context, s *models.FundStats) error {
	m.stats = s
	return nil
}

func newTrustFixture() (*TrustService, *memTrust) {
	repo := &memTrust{}
	accounts := &fakeAccounts{users: newFakeUsers(), admins: map[string]bool{"admin": true}}
	return NewTrustService(repo, accounts), repo
}

func TestTrustService_AdminOnly(t *testing.T) {
	svc, _ := newTrustFixture()
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, "member", EventInput{Title: "Sneh Milan", Date: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrAdminOnly)

	_, err = svc.ListWeddings(ctx, "member")
	assert.ErrorIs(t, err, apperrors.ErrAdminOnly)

	_, err = svc.UpdateFundStats(ctx, "member", models.FundStats{TotalFund: "1,00,000"})
	assert.ErrorIs(t, err, apperrors.ErrAdminOnly)

	stats, err := svc.UpdateFundStats(ctx, "admin", models.FundStats{TotalFund: "1,00,000"})
	require.NoError(t, err)
	assert.False(t, stats.UpdatedAt.IsZero())
}

func TestTrustService_RegisterCountsAttendee(t *testing.T) {
	svc, repo := newTrustFixture()
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, "admin", EventInput{Title: "Inam Vitaran", Date: time.Now().AddDate(0, 1, 0)})
	require.NoError(t, err)

	_, err = svc.Register(ctx, "student", RegistrationInput{EventID: &event.ID, FullName: "Nisha", Mobile: "12345"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMobile)

	reg, err := svc.Register(ctx, "student", RegistrationInput{EventID: &event.ID, FullName: "Nisha", Mobile: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, event.ID, *reg.EventID)
	assert.Equal(t, 1, repo.events[0].AttendeesCount)

	blank := "  "
	reg, err = svc.Register(ctx, "student", RegistrationInput{EventID: &blank, FullName: "Nisha", Mobile: "9876543210"})
	require.NoError(t, err)
	assert.Nil(t, reg.EventID)
	assert.Equal(t, 1, repo.events[0].AttendeesCount)

	missing := "no-such-event"
	_, err = svc.Register(ctx, "student", RegistrationInput{EventID: &missing, FullName: "Nisha", Mobile: "9876543210"})
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestTrustService_RegisterWedding(t *testing.T) {
	svc, _ := newTrustFixture()
	ctx := context.Background()

	groom := models.WeddingParty{Name: "Amit", Mobile: "9876500001", PhotoURL: "https://cdn/groom.jpg"}
	bride := models.WeddingParty{Name: "Pooja", Mobile: "9876500002", PhotoURL: "https://cdn/bride.jpg"}

	noPhoto := bride
	noPhoto.PhotoURL = ""
	_, err := svc.RegisterWedding(ctx, "u1", WeddingInput{Groom: groom, Bride: noPhoto})
	require.Error(t, err)
	assert.Equal(t, "bride photo is required", apperrors.MessageOf(err))

	badMobile := groom
	badMobile.Mobile = "98765"
	_, err = svc.RegisterWedding(ctx, "u1", WeddingInput{Groom: badMobile, Bride: bride})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	reg, err := svc.RegisterWedding(ctx, "u1", WeddingInput{Groom: groom, Bride: bride})
	require.NoError(t, err)
	assert.Equal(t, WeddingStatusPending, reg.Status)

	list, err := svc.ListWeddings(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type memNotices struct {
	notices []*models.Notice
	reads   map[string]time.Time
}

func (m *memNotices) Create(_ context.Context, n *models.Notice) error {
	m.notices = append(m.notices, n)
	return nil
}

func (m *memNotices) List(context.Context) ([]*models.Notice, error) { return m.notices, nil }

func (m *memNotices) MarkRead(_ context.Context, userID string, at time.Time) error {
	m.reads[userID] = at
	return nil
}

func (m *memNotices) LastReadAt(_ context.Context, userID string) (*time.Time, error) {
	at, ok := m.reads[userID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

func (m *memNotices) CountSince(_ context.Context, since *time.Time) (int, error) {
	n := 0
	for _, notice := range m.notices {
		if since == nil || notice.CreatedAt.After(*since) {
			n++
		}
	}
	return n, nil
}

func TestNoticeService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	repo := &memNotices{reads: map[string]time.Time{}}
	accounts := &fakeAccounts{users: newFakeUsers(), admins: map[string]bool{"admin": true}}
	svc := NewNoticeService(repo, accounts)

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	_, err := svc.Post(ctx, "member", NoticeInput{Title: "Meeting"})
	assert.ErrorIs(t, err, apperrors.ErrAdminOnly)

	_, err = svc.Post(ctx, "admin", NoticeInput{Title: "Meeting", Message: "Sunday 10am"})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, "member")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	clock = clock.Add(time.Hour)
	require.NoError(t, svc.MarkRead(ctx, "member"))
	count, err = svc.UnreadCount(ctx, "member")
	require.NoError(t, err)
	assert.Zero(t, count)

	clock = clock.Add(time.Hour)
	_, err = svc.Post(ctx, "admin", NoticeInput{Title: "Diwali"})
	require.NoError(t, err)
	count, err = svc.UnreadCount(ctx, "member")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
