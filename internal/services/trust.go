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

// WeddingStatusPending is the initial status of a group wedding registration
const WeddingStatusPending = "Pending"

// TrustRepository is the storage TrustService needs
type TrustRepository interface {
	CreateEvent(ctx context.Context, e *models.TrustEvent) error
	GetEvent(ctx context.Context, id string) (*models.TrustEvent, error)
	ListEvents(ctx context.Context) ([]*models.TrustEvent, error)
	CreateRegistration(ctx context.Context, reg *models.TrustRegistration) error
	CreateWeddingRegistration(ctx context.Context, reg *models.WeddingRegistration) error
	ListWeddingRegistrations(ctx context.Context) ([]*models.WeddingRegistration, error)
	CreateSuggestion(ctx context.Context, s *models.TrustSuggestion) error
	GetFundStats(ctx context.Context) (*models.FundStats, error)
	UpdateFundStats(ctx context.Context, s *models.FundStats) error
}

// TrustService handles trust events, registrations, suggestions and fund stats
type TrustService struct {
	repo     TrustRepository
	accounts Accounts
	now      func() time.Time
}

// NewTrustService creates a new trust service
func NewTrustService(repo TrustRepository, accounts Accounts) *TrustService {
	return &TrustService{repo: repo, accounts: accounts, now: time.Now}
}

// EventInput carries a new trust event
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

// ListEvents returns events ordered by date
func (s *TrustService) ListEvents(ctx context.Context) ([]*models.TrustEvent, error) {
	return s.repo.ListEvents(ctx)
}

// CreateEvent adds an event; administrators only
func (s *TrustService) CreateEvent(ctx context.Context, userID string, in EventInput) (*models.TrustEvent, error) {
	if err := requireAdmin(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Date.IsZero() {
		return nil, apperrors.InvalidArg("title and date are required")
	}

	e := &models.TrustEvent{
		ID:          uuid.New().String(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Location:    strings.TrimSpace(in.Location),
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// RegistrationInput carries a student's trust registration
type RegistrationInput struct {
	EventID       *string `json:"event_id"`
	FullName      string  `json:"full_name"`
	SubSurname    string  `json:"sub_surname"`
	Village       string  `json:"village"`
	Taluko        string  `json:"taluko"`
	District      string  `json:"district"`
	Gol           string  `json:"gol"`
	SchoolCollege string  `json:"school_college"`
	Percentage    string  `json:"percentage"`
	PassingYear   string  `json:"passing_year"`
	MarksheetURL  string  `json:"marksheet_url"`
	Mobile        string  `json:"mobile"`
}

// Register stores a student registration and counts the attendee on the event
func (s *TrustService) Register(ctx context.Context, userID string, in RegistrationInput) (*models.TrustRegistration, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, apperrors.InvalidArg("full name is required")
	}
	if !phone.Valid(in.Mobile) {
		return nil, apperrors.ErrInvalidMobile
	}

	reg := &models.TrustRegistration{
		ID:            uuid.New().String(),
		EventID:       nonEmpty(in.EventID),
		UserID:        userID,
		FullName:      name,
		SubSurname:    strings.TrimSpace(in.SubSurname),
		Village:       strings.TrimSpace(in.Village),
		Taluko:        strings.TrimSpace(in.Taluko),
		District:      strings.TrimSpace(in.District),
		Gol:           strings.TrimSpace(in.Gol),
		SchoolCollege: strings.TrimSpace(in.SchoolCollege),
		Percentage:    strings.TrimSpace(in.Percentage),
		PassingYear:   strings.TrimSpace(in.PassingYear),
		MarksheetURL:  strings.TrimSpace(in.MarksheetURL),
		Mobile:        strings.TrimSpace(in.Mobile),
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	log.Info().Str("registration_id", reg.ID).Str("user_id", userID).Msg("Trust registration created")
	return reg, nil
}

// WeddingInput carries a group wedding registration
type WeddingInput struct {
	EventID *string             `json:"event_id"`
	Groom   models.WeddingParty `json:"groom"`
	Bride   models.WeddingParty `json:"bride"`
}

// RegisterWedding stores a group wedding registration. Both parties need a
// name, a photo and a mobile number of at least 10 digits.
func (s *TrustService) RegisterWedding(ctx context.Context, userID string, in WeddingInput) (*models.WeddingRegistration, error) {
	for _, p := range []struct {
		role  string
		party models.WeddingParty
	}{{"groom", in.Groom}, {"bride", in.Bride}} {
		if strings.TrimSpace(p.party.Name) == "" {
			return nil, apperrors.InvalidArg(p.role + " name is required")
		}
		if strings.TrimSpace(p.party.PhotoURL) == "" {
			return nil, apperrors.InvalidArg(p.role + " photo is required")
		}
		if !phone.Valid(p.party.Mobile) {
			return nil, apperrors.InvalidArg(p.role + " mobile number must have at least 10 digits")
		}
	}

	reg := &models.WeddingRegistration{
		ID:        uuid.New().String(),
		EventID:   nonEmpty(in.EventID),
		UserID:    userID,
		Groom:     in.Groom,
		Bride:     in.Bride,
		Status:    WeddingStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateWeddingRegistration(ctx, reg); err != nil {
		return nil, err
	}

	log.Info().Str("registration_id", reg.ID).Str("user_id", userID).Msg("Wedding registration created")
	return reg, nil
}

// ListWeddings returns all group wedding registrations; administrators only
func (s *TrustService) ListWeddings(ctx context.Context, userID string) ([]*models.WeddingRegistration, error) {
	if err := requireAdmin(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	return s.repo.ListWeddingRegistrations(ctx)
}

// Suggest stores a suggestion for the trust
func (s *TrustService) Suggest(ctx context.Context, userID, message string) (*models.TrustSuggestion, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.InvalidArg("suggestion text is required")
	}
	sug := &models.TrustSuggestion{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateSuggestion(ctx, sug); err != nil {
		return nil, err
	}
	return sug, nil
}

// FundStats returns the trust's headline numbers
func (s *TrustService) FundStats(ctx context.Context) (*models.FundStats, error) {
	return s.repo.GetFundStats(ctx)
}

// UpdateFundStats overwrites the headline numbers; administrators only
func (s *TrustService) UpdateFundStats(ctx context.Context, userID string, stats models.FundStats) (*models.FundStats, error) {
	if err := requireAdmin(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	stats.UpdatedAt = s.now()
	if err := s.repo.UpdateFundStats(ctx, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
