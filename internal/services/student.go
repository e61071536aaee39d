package services

import (
	"context"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"
	"samaj-backend/internal/repository"

	"github.com/google/uuid"
)

// StudentRepository is the storage StudentService needs
type StudentRepository interface {
	Create(ctx context.Context, s *models.StudentProfile) error
	List(ctx context.Context, f repository.StudentFilter) ([]*models.StudentProfile, error)
}

// StudentService handles student profiles
type StudentService struct {
	repo StudentRepository
	now  func() time.Time
}

// NewStudentService creates a new student service
func NewStudentService(repo StudentRepository) *StudentService {
	return &StudentService{repo: repo, now: time.Now}
}

// StudentInput carries a student's profile fields
type StudentInput struct {
	FullName           string `json:"full_name"`
	Age                int    `json:"age"`
	StudyLevel         string `json:"study_level"`
	FieldOfStudy       string `json:"field_of_study"`
	CurrentInstitution string `json:"current_institution"`
	FutureGoal         string `json:"future_goal"`
	IsFirstGraduate    bool   `json:"is_first_graduate"`
	Village            string `json:"village"`
	Taluko             string `json:"taluko"`
	District           string `json:"district"`
	Gol                string `json:"gol"`
}

// Create stores a student profile for userID
func (s *StudentService) Create(ctx context.Context, userID string, in StudentInput) (*models.StudentProfile, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, apperrors.InvalidArg("full name is required")
	}

	p := &models.StudentProfile{
		ID:                 uuid.New().String(),
		UserID:             userID,
		FullName:           name,
		Age:                in.Age,
		StudyLevel:         strings.TrimSpace(in.StudyLevel),
		FieldOfStudy:       strings.TrimSpace(in.FieldOfStudy),
		CurrentInstitution: strings.TrimSpace(in.CurrentInstitution),
		FutureGoal:         strings.TrimSpace(in.FutureGoal),
		IsFirstGraduate:    in.IsFirstGraduate,
		Village:            strings.TrimSpace(in.Village),
		Taluko:             strings.TrimSpace(in.Taluko),
		District:           strings.TrimSpace(in.District),
		Gol:                strings.TrimSpace(in.Gol),
		CreatedAt:          s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns student profiles matching the filter
func (s *StudentService) List(ctx context.Context, f repository.StudentFilter) ([]*models.StudentProfile, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.StudyLevel = strings.TrimSpace(f.StudyLevel)
	f.Gol = strings.TrimSpace(f.Gol)
	if f.StudyLevel == CategoryAll {
		f.StudyLevel = ""
	}
	return s.repo.List(ctx, f)
}
