package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/metrics"
	"samaj-backend/internal/models"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
)

const (
	accepterFamilyTitle = "✅ રિક્વેસ્ટ સ્વીકારાઈ"
	senderFamilyTitle   = "🎉 અભિનંદન! રિક્વેસ્ટ સ્વીકારાઈ"
	fallbackName        = "User"
)

// HouseholdLookup resolves a mobile number to its household's numbers
type HouseholdLookup interface {
	FindIDByMobileKey(ctx context.Context, mobileKey string) (string, error)
	MobileKeys(ctx context.Context, householdID string) ([]string, error)
}

// ProfileLookup loads a matrimony profile by owner
type ProfileLookup interface {
	GetProfileByUserID(ctx context.Context, userID string) (*models.MatrimonyProfile, error)
}

// NotificationWriter stores notifications in bulk, all or nothing
type NotificationWriter interface {
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
}

// FamilyNotifier tells both families when a matrimony request is accepted
type FamilyNotifier struct {
	households    HouseholdLookup
	users         UserRepository
	profiles      ProfileLookup
	notifications NotificationWriter
	publisher     UserPublisher
	pusher        Pusher
	now           func() time.Time
}

// NewFamilyNotifier creates a new family notifier
func NewFamilyNotifier(
	households HouseholdLookup,
	users UserRepository,
	profiles ProfileLookup,
	notifications NotificationWriter,
	publisher UserPublisher,
	pusher Pusher,
) *FamilyNotifier {
	return &FamilyNotifier{
		households:    households,
		users:         users,
		profiles:      profiles,
		notifications: notifications,
		publisher:     publisher,
		pusher:        pusher,
		now:           time.Now,
	}
}

type party struct {
	user    *models.User
	name    string
	village string
}

// NotifyOnAccept writes a notification for every registered family member of
// the accepter and of the sender, the actor on each side excluded. It returns
// how many rows were written. Lookup and store failures are aggregated in the
// error; nothing is delivered when the store fails.
func (n *FamilyNotifier) NotifyOnAccept(ctx context.Context, accepterID, senderID string) (int, error) {
	accepter, err := n.loadParty(ctx, accepterID)
	if err != nil {
		return 0, err
	}
	sender, err := n.loadParty(ctx, senderID)
	if err != nil {
		return 0, err
	}

	var result *multierror.Error
	recipients := make(map[string]*models.User)
	var batch []*models.Notification

	accepterFamily, err := n.familyOf(ctx, accepter.user)
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, u := range accepterFamily {
		recipients[u.ID] = u
		batch = append(batch, n.newNotification(u.ID, sender.user.ID, accepterFamilyTitle,
			fmt.Sprintf("તમારા ઘરના સભ્ય '%s' એ '%s' (%s) ની રિક્વેસ્ટ સ્વીકારી છે.", accepter.name, sender.name, sender.village)))
	}

	senderFamily, err := n.familyOf(ctx, sender.user)
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, u := range senderFamily {
		recipients[u.ID] = u
		batch = append(batch, n.newNotification(u.ID, accepter.user.ID, senderFamilyTitle,
			fmt.Sprintf("તમારા ઘરના સભ્ય '%s' ની રિક્વેસ્ટ '%s' (%s) એ સ્વીકારી લીધી છે.", sender.name, accepter.name, accepter.village)))
	}

	if len(batch) == 0 {
		log.Info().Str("accepter_id", accepterID).Str("sender_id", senderID).Msg("No family members to notify")
		return 0, result.ErrorOrNil()
	}

	if err := n.notifications.CreateBatch(ctx, batch); err != nil {
		metrics.NotificationFailures.WithLabelValues("store").Inc()
		result = multierror.Append(result, err)
		return 0, result.ErrorOrNil()
	}

	written := len(batch)
	for _, note := range batch {
		n.deliver(ctx, recipients[note.UserID], note)
	}
	metrics.NotificationsCreated.Add(float64(written))

	log.Info().
		Str("accepter_id", accepterID).
		Str("sender_id", senderID).
		Int("notifications", written).
		Msg("Family notifications sent")

	return written, result.ErrorOrNil()
}

func (n *FamilyNotifier) loadParty(ctx context.Context, userID string) (*party, error) {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	p := &party{user: user, name: user.FullName}
	profile, err := n.profiles.GetProfileByUserID(ctx, userID)
	switch {
	case err == nil:
		if profile.FullName != "" {
			p.name = profile.FullName
		}
		p.village = profile.Village
	case !errors.Is(err, apperrors.ErrProfileNotFound):
		return nil, fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}
	if p.name == "" {
		p.name = fallbackName
	}
	return p, nil
}

// familyOf returns the registered users sharing a household with actor, actor excluded
func (n *FamilyNotifier) familyOf(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if actor.MobileKey == "" {
		return nil, nil
	}

	householdID, err := n.households.FindIDByMobileKey(ctx, actor.MobileKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrHouseholdNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve household for %s: %w", actor.ID, err)
	}

	keys, err := n.households.MobileKeys(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list household %s mobiles: %w", householdID, err)
	}

	users, err := n.users.ListByMobileKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to match household %s users: %w", householdID, err)
	}

	family := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.ID != actor.ID {
			family = append(family, u)
		}
	}
	return family, nil
}

func (n *FamilyNotifier) newNotification(userID, relatedUserID, title, message string) *models.Notification {
	related := relatedUserID
	return &models.Notification{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         title,
		Message:       message,
		Type:          models.NotificationTypeSuccess,
		RelatedUserID: &related,
		CreatedAt:     n.now(),
	}
}

// deliver pushes a stored notification to the recipient's socket and device. Failures are logged.
func (n *FamilyNotifier) deliver(ctx context.Context, user *models.User, notification *models.Notification) {
	_ = n.publisher.SendToUser(notification.UserID, WSMessage{Type: WSTypeNotification, Data: notification})

	if user == nil || user.PushToken == nil || *user.PushToken == "" {
		return
	}
	if err := n.pusher.Push(ctx, *user.PushToken, notification.Title, notification.Message); err != nil {
		metrics.NotificationFailures.WithLabelValues("push").Inc()
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to push notification")
	}
}
