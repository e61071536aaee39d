package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"
	"samaj-backend/internal/phone"
)

type fakeUsers struct {
	byID map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[string]*models.User)}
	for _, u := range users {
		f.add(u)
	}
	return f
}

func (f *fakeUsers) add(u *models.User) {
	if u.MobileKey == "" {
		u.MobileKey = phone.Key(u.Mobile)
	}
	f.byID[u.ID] = u
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range f.byID {
		if u.MobileKey == user.MobileKey {
			return apperrors.ErrMobileTaken
		}
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByMobileKey(_ context.Context, key string) (*models.User, error) {
	for _, u := range f.byID {
		if u.MobileKey == key {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) ListByMobileKeys(_ context.Context, keys []string) ([]*models.User, error) {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []*models.User
	for _, u := range f.byID {
		if want[u.MobileKey] {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *models.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	u, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) UpdatePushToken(_ context.Context, userID string, token *string) error {
	u, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PushToken = token
	return nil
}

func (f *fakeUsers) MatchesBirthDate(_ context.Context, key string, dob time.Time) (string, error) {
	for _, u := range f.byID {
		if u.MobileKey == key && u.DOB != nil && u.DOB.Equal(dob) {
			return u.ID, nil
		}
	}
	return "", apperrors.ErrIdentityMismatch
}

// fakeAccounts resolves users from fakeUsers and treats the listed ids as admins
type fakeAccounts struct {
	users  *fakeUsers
	admins map[string]bool
}

func (f *fakeAccounts) GetUser(ctx context.Context, id string) (*models.User, error) {
	return f.users.GetByID(ctx, id)
}

func (f *fakeAccounts) IsAdmin(_ context.Context, id string) (bool, error) {
	return f.admins[id], nil
}

type fakeHouseholds struct {
	households []*models.Household
	findErr    error
}

func (f *fakeHouseholds) Create(_ context.Context, h *models.Household) error {
	f.households = append(f.households, h)
	return nil
}

func (f *fakeHouseholds) AddMember(_ context.Context, m *models.FamilyMember) error {
	for _, h := range f.households {
		if h.ID == m.HouseholdID {
			h.Members = append(h.Members, m)
			return nil
		}
	}
	return apperrors.ErrHouseholdNotFound
}

func (f *fakeHouseholds) GetByID(_ context.Context, id string) (*models.Household, error) {
	for _, h := range f.households {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, apperrors.ErrHouseholdNotFound
}

func (f *fakeHouseholds) List(_ context.Context, _ string, limit, offset int) ([]*models.Household, error) {
	if offset >= len(f.households) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.households) {
		end = len(f.households)
	}
	return f.households[offset:end], nil
}

func (f *fakeHouseholds) GetMember(_ context.Context, id string) (*models.FamilyMember, error) {
	for _, h := range f.households {
		for _, m := range h.Members {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return nil, apperrors.ErrMemberNotFound
}

func (f *fakeHouseholds) DeleteMember(_ context.Context, id string) error {
	for _, h := range f.households {
		for i, m := range h.Members {
			if m.ID == id {
				h.Members = append(h.Members[:i], h.Members[i+1:]...)
				return nil
			}
		}
	}
	return apperrors.ErrMemberNotFound
}

func (f *fakeHouseholds) Delete(_ context.Context, id string) error {
	for i, h := range f.households {
		if h.ID == id {
			f.households = append(f.households[:i], f.households[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrHouseholdNotFound
}

func (f *fakeHouseholds) FindIDByMobileKey(_ context.Context, key string) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	for _, h := range f.households {
		if h.MobileKey == key {
			return h.ID, nil
		}
		for _, m := range h.Members {
			if m.MobileKey == key {
				return h.ID, nil
			}
		}
	}
	return "", apperrors.ErrHouseholdNotFound
}

func (f *fakeHouseholds) MobileKeys(_ context.Context, householdID string) ([]string, error) {
	for _, h := range f.households {
		if h.ID != householdID {
			continue
		}
		seen := make(map[string]bool)
		var keys []string
		for _, k := range append([]string{h.MobileKey}, memberKeys(h)...) {
			if k != "" && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		return keys, nil
	}
	return nil, apperrors.ErrHouseholdNotFound
}

func memberKeys(h *models.Household) []string {
	keys := make([]string, 0, len(h.Members))
	for _, m := range h.Members {
		keys = append(keys, m.MobileKey)
	}
	return keys
}

type fakeMatrimony struct {
	profiles map[string]*models.MatrimonyProfile
	requests map[string]*models.Request
}

func newFakeMatrimony() *fakeMatrimony {
	return &fakeMatrimony{
		profiles: make(map[string]*models.MatrimonyProfile),
		requests: make(map[string]*models.Request),
	}
}

func (f *fakeMatrimony) UpsertProfile(_ context.Context, p *models.MatrimonyProfile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeMatrimony) GetProfileByUserID(_ context.Context, userID string) (*models.MatrimonyProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeMatrimony) ListProfilesByUserIDs(_ context.Context, ids []string) (map[string]*models.MatrimonyProfile, error) {
	out := make(map[string]*models.MatrimonyProfile)
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeMatrimony) ListProfiles(_ context.Context, exclude string, _, _ int) ([]*models.MatrimonyProfile, error) {
	var out []*models.MatrimonyProfile
	for id, p := range f.profiles {
		if id != exclude {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeMatrimony) DeleteProfile(_ context.Context, userID string) error {
	if _, ok := f.profiles[userID]; !ok {
		return apperrors.ErrProfileNotFound
	}
	delete(f.profiles, userID)
	return nil
}

func (f *fakeMatrimony) CreateRequest(_ context.Context, r *models.Request) error {
	f.requests[r.ID] = r
	return nil
}

func (f *fakeMatrimony) GetRequest(_ context.Context, id string) (*models.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeMatrimony) UpdateRequestStatus(_ context.Context, id, status string) error {
	r, ok := f.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeMatrimony) exists(a, b, status string) bool {
	for _, r := range f.requests {
		if r.Status == status && ((r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a)) {
			return true
		}
	}
	return false
}

func (f *fakeMatrimony) PendingExists(_ context.Context, a, b string) (bool, error) {
	return f.exists(a, b, models.RequestStatusPending), nil
}

func (f *fakeMatrimony) AcceptedExists(_ context.Context, a, b string) (bool, error) {
	return f.exists(a, b, models.RequestStatusAccepted), nil
}

func (f *fakeMatrimony) ListReceived(_ context.Context, receiverID, status string) ([]*models.Request, error) {
	var out []*models.Request
	for _, r := range f.requests {
		if r.ReceiverID == receiverID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMatrimony) ListInvolving(_ context.Context, userID, status string) ([]*models.Request, error) {
	var out []*models.Request
	for _, r := range f.requests {
		if (r.SenderID == userID || r.ReceiverID == userID) && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeChat struct {
	rooms    []*models.ChatRoom
	messages []*models.Message
}

func (f *fakeChat) CreateRoom(_ context.Context, room *models.ChatRoom) error {
	f.rooms = append(f.rooms, room)
	return nil
}

func (f *fakeChat) GetRoom(_ context.Context, id string) (*models.ChatRoom, error) {
	for _, r := range f.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.ErrRoomNotFound
}

func (f *fakeChat) FindRoomsContaining(_ context.Context, roomType string, ids []string) ([]*models.ChatRoom, error) {
	var out []*models.ChatRoom
	for _, r := range f.rooms {
		if r.Type != roomType {
			continue
		}
		all := true
		for _, id := range ids {
			if !r.HasParticipant(id) {
				all = false
			}
		}
		if all {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeChat) ListRoomsForUser(_ context.Context, userID string) ([]*models.ChatRoom, error) {
	var out []*models.ChatRoom
	for _, r := range f.rooms {
		if r.HasParticipant(userID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeChat) CreateMessage(_ context.Context, msg *models.Message) error {
	cp := *msg
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeChat) ListMessages(_ context.Context, roomID string) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChat) MarkRead(_ context.Context, roomID, receiverID, senderID string) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.RoomID == roomID && m.ReceiverID == receiverID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeNotifications struct {
	stored []*models.Notification
	err    error
}

func (f *fakeNotifications) CreateBatch(_ context.Context, ns []*models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, ns...)
	return nil
}

func (f *fakeNotifications) recipients() []string {
	ids := make([]string, 0, len(f.stored))
	for _, n := range f.stored {
		ids = append(ids, n.UserID)
	}
	sort.Strings(ids)
	return ids
}

type sentFrame struct {
	to      string
	message WSMessage
}

// fakePublisher records frames sent to users and rooms
type fakePublisher struct {
	mu     sync.Mutex
	toUser []sentFrame
	toRoom []sentFrame
	online map[string][]string
}

func (f *fakePublisher) SendToUser(userID string, message WSMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toUser = append(f.toUser, sentFrame{to: userID, message: message})
	return nil
}

func (f *fakePublisher) PublishToRoom(roomID string, message WSMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toRoom = append(f.toRoom, sentFrame{to: roomID, message: message})
}

func (f *fakePublisher) OnlineInRoom(roomID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[roomID]
}

func (f *fakePublisher) roomFrames(frameType string) []WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []WSMessage
	for _, s := range f.toRoom {
		if s.message.Type == frameType {
			out = append(out, s.message)
		}
	}
	return out
}

type fakePusher struct {
	tokens []string
	err    error
}

func (f *fakePusher) Push(_ context.Context, token, _, _ string) error {
	f.tokens = append(f.tokens, token)
	return f.err
}

type fakePayments struct {
	payments []*models.Payment
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakePayments) GetByTransactionID(_ context.Context, txnID string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.TransactionID == txnID {
			return p, nil
		}
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (f *fakePayments) UpdateStatus(_ context.Context, txnID, status string) error {
	for _, p := range f.payments {
		if p.TransactionID == txnID {
			p.Status = status
			return nil
		}
	}
	return apperrors.ErrPaymentNotFound
}

func (f *fakePayments) LatestSuccessful(_ context.Context, userPhone string) (*models.Payment, error) {
	var latest *models.Payment
	for _, p := range f.payments {
		if p.UserPhone == userPhone && p.Status == models.PaymentStatusSuccess &&
			(latest == nil || p.CreatedAt.After(latest.CreatedAt)) {
			latest = p
		}
	}
	if latest == nil {
		return nil, apperrors.ErrPaymentNotFound
	}
	return latest, nil
}

func (f *fakePayments) ListByUser(_ context.Context, userID string) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
