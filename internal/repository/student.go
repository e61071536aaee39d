package repository

import (
	"context"
	"fmt"

	"samaj-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StudentFilter narrows a student listing; empty fields are ignored
type StudentFilter struct {
	Query      string
	StudyLevel string
	Gol        string
}

// StudentRepository handles database operations for student profiles
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student profile
func (r *StudentRepository) Create(ctx context.Context, s *models.StudentProfile) error {
	query := `
		INSERT INTO student_profiles (id, user_id, full_name, age, study_level, field_of_study, current_institution,
			future_goal, is_first_graduate, village, taluko, district, gol, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.UserID, s.FullName, s.Age, s.StudyLevel, s.FieldOfStudy, s.CurrentInstitution,
		s.FutureGoal, s.IsFirstGraduate, s.Village, s.Taluko, s.District, s.Gol, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

// List returns student profiles matching the filter, newest first
func (r *StudentRepository) List(ctx context.Context, f StudentFilter) ([]*models.StudentProfile, error) {
	query := `
		SELECT id, user_id, full_name, age, study_level, field_of_study, current_institution,
			future_goal, is_first_graduate, village, taluko, district, gol, created_at
		FROM student_profiles
		WHERE ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR village ILIKE '%' || $1 || '%' OR field_of_study ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR study_level = $2)
		  AND ($3 = '' OR gol ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, f.Query, f.StudyLevel, f.Gol)
	if err != nil {
		return nil, fmt.Errorf("failed to list student profiles: %w", err)
	}
	defer rows.Close()

	var students []*models.StudentProfile
	for rows.Next() {
		var s models.StudentProfile
		err := rows.Scan(
			&s.ID, &s.UserID, &s.FullName, &s.Age, &s.StudyLevel, &s.FieldOfStudy, &s.CurrentInstitution,
			&s.FutureGoal, &s.IsFirstGraduate, &s.Village, &s.Taluko, &s.District, &s.Gol, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student profile: %w", err)
		}
		students = append(students, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student profiles: %w", err)
	}
	return students, nil
}
