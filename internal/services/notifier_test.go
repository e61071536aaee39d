package services

import (
	"context"
	"errors"
	"testing"

	"samaj-backend/internal/models"
	"samaj-backend/internal/phone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func household(id, headMobile string, memberMobiles ...string) *models.Household {
	h := &models.Household{ID: id, HeadName: "Head " + id, Village: "Anand", MobileNumber: headMobile, MobileKey: phone.Key(headMobile)}
	for i, m := range memberMobiles {
		h.Members = append(h.Members, &models.FamilyMember{
			ID:           id + "-m" + string(rune('a'+i)),
			HouseholdID:  id,
			MemberName:   "Member",
			MemberMobile: m,
			MobileKey:    phone.Key(m),
		})
	}
	return h
}

type notifierFixture struct {
	users         *fakeUsers
	households    *fakeHouseholds
	matrimony     *fakeMatrimony
	notifications *fakeNotifications
	publisher     *fakePublisher
	pusher        *fakePusher
	notifier      *FamilyNotifier
}

func newNotifierFixture() *notifierFixture {
	f := &notifierFixture{
		users:         newFakeUsers(),
		households:    &fakeHouseholds{},
		matrimony:     newFakeMatrimony(),
		notifications: &fakeNotifications{},
		publisher:     &fakePublisher{},
		pusher:        &fakePusher{},
	}
	f.notifier = NewFamilyNotifier(f.households, f.users, f.matrimony, f.notifications, f.publisher, f.pusher)
	return f
}

func TestFamilyNotifier_NotifiesBothFamiliesExceptActors(t *testing.T) {
	f := newNotifierFixture()

	// accepter household: accepter (head) + 2 registered members + 1 unregistered
	f.households.households = append(f.households.households,
		household("h1", "9000000001", "+91 90000 00002", "9000000003", "9000000004"))
	f.users.add(&models.User{ID: "accepter", Mobile: "9000000001", FullName: "Account Name"})
	f.users.add(&models.User{ID: "a-bro", Mobile: "09000000002"})
	f.users.add(&models.User{ID: "a-sis", Mobile: "9000000003", PushToken: strPtr("tok-sis")})

	// sender household: sender is a member, head is registered
	f.households.households = append(f.households.households,
		household("h2", "8000000001", "8000000002"))
	f.users.add(&models.User{ID: "s-head", Mobile: "8000000001"})
	f.users.add(&models.User{ID: "sender", Mobile: "8000000002"})

	f.matrimony.profiles["accepter"] = &models.MatrimonyProfile{UserID: "accepter", FullName: "Priya", Village: "Nadiad"}

	n, err := f.notifier.NotifyOnAccept(context.Background(), "accepter", "sender")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a-bro", "a-sis", "s-head"}, f.notifications.recipients())

	for _, note := range f.notifications.stored {
		require.NotNil(t, note.RelatedUserID)
		switch note.UserID {
		case "s-head":
			assert.Equal(t, senderFamilyTitle, note.Title)
			assert.Equal(t, "accepter", *note.RelatedUserID)
			assert.Contains(t, note.Message, "Priya")
			assert.Contains(t, note.Message, "Nadiad")
		default:
			assert.Equal(t, accepterFamilyTitle, note.Title)
			assert.Equal(t, "sender", *note.RelatedUserID)
			assert.Contains(t, note.Message, "Priya")
		}
		assert.Equal(t, models.NotificationTypeSuccess, note.Type)
	}

	assert.Equal(t, []string{"tok-sis"}, f.pusher.tokens)
	assert.Len(t, f.publisher.toUser, 3)
}

func TestFamilyNotifier_NoHousehold(t *testing.T) {
	f := newNotifierFixture()
	f.users.add(&models.User{ID: "accepter", Mobile: "9000000001"})
	f.users.add(&models.User{ID: "sender", Mobile: "8000000002"})

	n, err := f.notifier.NotifyOnAccept(context.Background(), "accepter", "sender")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.notifications.stored)
}

func TestFamilyNotifier_FallbackNames(t *testing.T) {
	f := newNotifierFixture()
	f.households.households = append(f.households.households, household("h1", "9000000001", "9000000002"))
	f.users.add(&models.User{ID: "accepter", Mobile: "9000000001", FullName: "Ravi"})
	f.users.add(&models.User{ID: "relative", Mobile: "9000000002"})
	f.users.add(&models.User{ID: "sender", Mobile: "8000000002"})

	n, err := f.notifier.NotifyOnAccept(context.Background(), "accepter", "sender")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Contains(t, f.notifications.stored[0].Message, "'Ravi'")
	assert.Contains(t, f.notifications.stored[0].Message, "'User'")
}

func TestFamilyNotifier_StoreFailureDeliversNothing(t *testing.T) {
	f := newNotifierFixture()
	f.households.households = append(f.households.households, household("h1", "9000000001", "9000000002", "9000000003"))
	f.users.add(&models.User{ID: "accepter", Mobile: "9000000001"})
	f.users.add(&models.User{ID: "ok", Mobile: "9000000002", PushToken: strPtr("tok-ok")})
	f.users.add(&models.User{ID: "broken", Mobile: "9000000003"})
	f.users.add(&models.User{ID: "sender", Mobile: "8000000002"})
	f.notifications.err = errors.New("insert failed")

	n, err := f.notifier.NotifyOnAccept(context.Background(), "accepter", "sender")
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.notifications.stored)
	assert.Empty(t, f.publisher.toUser)
	assert.Empty(t, f.pusher.tokens)
}

func TestFamilyNotifier_LookupErrorIsReported(t *testing.T) {
	f := newNotifierFixture()
	f.users.add(&models.User{ID: "accepter", Mobile: "9000000001"})
	f.users.add(&models.User{ID: "sender", Mobile: "8000000002"})
	f.households.findErr = errors.New("db down")

	n, err := f.notifier.NotifyOnAccept(context.Background(), "accepter", "sender")
	assert.Error(t, err)
	assert.Zero(t, n)
}
