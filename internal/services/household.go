package services

import (
	"context"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"
	"samaj-backend/internal/phone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Accounts resolves callers and the admin role
type Accounts interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// requireAdmin returns ErrAdminOnly unless userID is an administrator
func requireAdmin(ctx context.Context, accounts Accounts, userID string) error {
	ok, err := accounts.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrAdminOnly
	}
	return nil
}

// HouseholdRepository is the storage HouseholdService needs
type HouseholdRepository interface {
	Create(ctx context.Context, household *models.Household) error
	AddMember(ctx context.Context, member *models.FamilyMember) error
	GetByID(ctx context.Context, id string) (*models.Household, error)
	List(ctx context.Context, search string, limit, offset int) ([]*models.Household, error)
	GetMember(ctx context.Context, id string) (*models.FamilyMember, error)
	DeleteMember(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// HouseholdService handles the family registry
type HouseholdService struct {
	repo     HouseholdRepository
	accounts Accounts
	now      func() time.Time
}

// NewHouseholdService creates a new household service
func NewHouseholdService(repo HouseholdRepository, accounts Accounts) *HouseholdService {
	return &HouseholdService{repo: repo, accounts: accounts, now: time.Now}
}

// MemberInput carries one family member
type MemberInput struct {
	MemberName   string `json:"member_name"`
	Relationship string `json:"relationship"`
	MemberMobile string `json:"member_mobile"`
}

// HouseholdInput carries a new household with its members
type HouseholdInput struct {
	HeadName     string        `json:"head_name"`
	SubSurname   string        `json:"sub_surname"`
	Village      string        `json:"village"`
	District     string        `json:"district"`
	MobileNumber string        `json:"mobile_number"`
	Members      []MemberInput `json:"members"`
}

// Create registers a household with its members
func (s *HouseholdService) Create(ctx context.Context, userID string, in HouseholdInput) (*models.Household, error) {
	headName := strings.TrimSpace(in.HeadName)
	village := strings.TrimSpace(in.Village)
	if headName == "" || village == "" {
		return nil, apperrors.InvalidArg("head name and village are required")
	}

	h := &models.Household{
		ID:           uuid.New().String(),
		HeadName:     headName,
		SubSurname:   strings.TrimSpace(in.SubSurname),
		Village:      village,
		District:     strings.TrimSpace(in.District),
		MobileNumber: strings.TrimSpace(in.MobileNumber),
		MobileKey:    phone.Key(in.MobileNumber),
		CreatedBy:    userID,
		CreatedAt:    s.now(),
	}
	for _, m := range in.Members {
		member, err := s.newMember(h.ID, userID, m)
		if err != nil {
			return nil, err
		}
		h.Members = append(h.Members, member)
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}

	log.Info().Str("household_id", h.ID).Str("user_id", userID).Int("members", len(h.Members)).Msg("Household created")
	return h, nil
}

func (s *HouseholdService) newMember(householdID, userID string, in MemberInput) (*models.FamilyMember, error) {
	name := strings.TrimSpace(in.MemberName)
	if name == "" {
		return nil, apperrors.InvalidArg("member name is required")
	}
	return &models.FamilyMember{
		ID:           uuid.New().String(),
		HouseholdID:  householdID,
		MemberName:   name,
		Relationship: strings.TrimSpace(in.Relationship),
		MemberMobile: strings.TrimSpace(in.MemberMobile),
		MobileKey:    phone.Key(in.MemberMobile),
		CreatedBy:    userID,
		CreatedAt:    s.now(),
	}, nil
}

// Get returns a household with its members
func (s *HouseholdService) Get(ctx context.Context, id string) (*models.Household, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns households newest first, optionally filtered by a search term
func (s *HouseholdService) List(ctx context.Context, search string, limit, offset int) ([]*models.Household, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.List(ctx, strings.TrimSpace(search), limit, offset)
}

// AddMember appends a member to a household the caller may edit
func (s *HouseholdService) AddMember(ctx context.Context, householdID, userID string, in MemberInput) (*models.FamilyMember, error) {
	h, err := s.repo.GetByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditor(ctx, h, userID); err != nil {
		return nil, err
	}

	member, err := s.newMember(h.ID, userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember deletes a member from a household the caller may edit
func (s *HouseholdService) RemoveMember(ctx context.Context, memberID, userID string) error {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	h, err := s.repo.GetByID(ctx, member.HouseholdID)
	if err != nil {
		return err
	}
	if err := s.requireEditor(ctx, h, userID); err != nil {
		return err
	}
	return s.repo.DeleteMember(ctx, memberID)
}

// Delete removes a household the caller may edit
func (s *HouseholdService) Delete(ctx context.Context, householdID, userID string) error {
	h, err := s.repo.GetByID(ctx, householdID)
	if err != nil {
		return err
	}
	if err := s.requireEditor(ctx, h, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, householdID); err != nil {
		return err
	}
	log.Info().Str("household_id", householdID).Str("user_id", userID).Msg("Household deleted")
	return nil
}

// CanEdit reports whether userID created the household, is its head or one of
// its members by mobile number, or is an administrator.
func (s *HouseholdService) CanEdit(ctx context.Context, h *models.Household, userID string) (bool, error) {
	if h.CreatedBy == userID {
		return true, nil
	}

	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if phone.Same(h.MobileNumber, user.Mobile) {
		return true, nil
	}
	for _, m := range h.Members {
		if phone.Same(m.MemberMobile, user.Mobile) {
			return true, nil
		}
	}

	return s.accounts.IsAdmin(ctx, userID)
}

func (s *HouseholdService) requireEditor(ctx context.Context, h *models.Household, userID string) error {
	ok, err := s.CanEdit(ctx, h, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotOwner
	}
	return nil
}
