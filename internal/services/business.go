package services

import (
	"context"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"
	"samaj-backend/internal/phone"

	"github.com/google/uuid"
)

// CategoryAll disables the category filter
const CategoryAll = "All"

// BusinessRepository is the storage BusinessService needs
type BusinessRepository interface {
	Create(ctx context.Context, b *models.Business) error
	GetByID(ctx context.Context, id string) (*models.Business, error)
	List(ctx context.Context) ([]*models.Business, error)
	Update(ctx context.Context, b *models.Business) error
	Delete(ctx context.Context, id string) error
}

// BusinessService handles the business directory
type BusinessService struct {
	repo     BusinessRepository
	accounts Accounts
	now      func() time.Time
}

// NewBusinessService creates a new business service
func NewBusinessService(repo BusinessRepository, accounts Accounts) *BusinessService {
	return &BusinessService{repo: repo, accounts: accounts, now: time.Now}
}

// BusinessInput carries the editable listing fields
type BusinessInput struct {
	BusinessName string   `json:"business_name"`
	BusinessType string   `json:"business_type"`
	Description  string   `json:"description"`
	OwnerName    string   `json:"owner_name"`
	Village      string   `json:"village"`
	Taluka       string   `json:"taluka"`
	District     string   `json:"district"`
	Mobile       string   `json:"mobile"`
	Services     []string `json:"services"`
}

func (in BusinessInput) apply(b *models.Business) error {
	name := strings.TrimSpace(in.BusinessName)
	if name == "" {
		return apperrors.InvalidArg("business name is required")
	}
	if !phone.Valid(in.Mobile) {
		return apperrors.ErrInvalidMobile
	}

	b.BusinessName = name
	b.BusinessType = strings.TrimSpace(in.BusinessType)
	b.Description = strings.TrimSpace(in.Description)
	b.OwnerName = strings.TrimSpace(in.OwnerName)
	b.Village = strings.TrimSpace(in.Village)
	b.Taluka = strings.TrimSpace(in.Taluka)
	b.District = strings.TrimSpace(in.District)
	b.Mobile = strings.TrimSpace(in.Mobile)
	b.Services = b.Services[:0]
	for _, svc := range in.Services {
		if svc = strings.TrimSpace(svc); svc != "" {
			b.Services = append(b.Services, svc)
		}
	}
	if b.Services == nil {
		b.Services = []string{}
	}
	return nil
}

// Create adds a listing owned by userID
func (s *BusinessService) Create(ctx context.Context, userID string, in BusinessInput) (*models.Business, error) {
	b := &models.Business{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := in.apply(b); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns a listing
func (s *BusinessService) Get(ctx context.Context, id string) (*models.Business, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the listings matching query and category
func (s *BusinessService) List(ctx context.Context, query, category string) ([]*models.Business, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBusinesses(all, query, category), nil
}

// Update replaces a listing's fields; only the owner may update
func (s *BusinessService) Update(ctx context.Context, id, userID string, in BusinessInput) (*models.Business, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}
	if err := in.apply(b); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a listing; the owner or an administrator may delete
func (s *BusinessService) Delete(ctx context.Context, id, userID string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		admin, err := s.accounts.IsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return apperrors.ErrNotOwner
		}
	}
	return s.repo.Delete(ctx, id)
}

// FilterBusinesses keeps listings whose name, village or owner contains query
// case-insensitively and whose type equals category. An empty or "All"
// category matches every type.
func FilterBusinesses(list []*models.Business, query, category string) []*models.Business {
	q := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]*models.Business, 0, len(list))
	for _, b := range list {
		if category != "" && category != CategoryAll && b.BusinessType != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(b.BusinessName), q) &&
			!strings.Contains(strings.ToLower(b.Village), q) &&
			!strings.Contains(strings.ToLower(b.OwnerName), q) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}
