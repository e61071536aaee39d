package repository

import (
	"context"
	"errors"
	"fmt"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatrimonyRepository handles database operations for matrimony profiles and requests
type MatrimonyRepository struct {
	db *pgxpool.Pool
}

// NewMatrimonyRepository creates a new matrimony repository
func NewMatrimonyRepository(db *pgxpool.Pool) *MatrimonyRepository {
	return &MatrimonyRepository{db: db}
}

const profileColumns = `id, user_id, full_name, age, village, peta_atak, occupation, image_url, created_at`

func scanProfile(row pgx.Row) (*models.MatrimonyProfile, error) {
	var p models.MatrimonyProfile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Age, &p.Village, &p.PetaAtak, &p.Occupation, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile creates or replaces the profile owned by profile.UserID
func (r *MatrimonyRepository) UpsertProfile(ctx context.Context, profile *models.MatrimonyProfile) error {
	query := `
		INSERT INTO matrimony_profiles (id, user_id, full_name, age, village, peta_atak, occupation, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			age = EXCLUDED.age,
			village = EXCLUDED.village,
			peta_atak = EXCLUDED.peta_atak,
			occupation = EXCLUDED.occupation,
			image_url = EXCLUDED.image_url
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		profile.ID, profile.UserID, profile.FullName, profile.Age, profile.Village,
		profile.PetaAtak, profile.Occupation, profile.ImageURL, profile.CreatedAt,
	).Scan(&profile.ID, &profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save matrimony profile: %w", err)
	}
	return nil
}

// GetProfileByUserID retrieves the profile of a user
func (r *MatrimonyRepository) GetProfileByUserID(ctx context.Context, userID string) (*models.MatrimonyProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM matrimony_profiles WHERE user_id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get matrimony profile: %w", err)
	}
	return p, nil
}

// ListProfilesByUserIDs returns profiles keyed by user id
func (r *MatrimonyRepository) ListProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.MatrimonyProfile, error) {
	result := make(map[string]*models.MatrimonyProfile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + profileColumns + ` FROM matrimony_profiles WHERE user_id = ANY($1::uuid[])`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list matrimony profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matrimony profile: %w", err)
		}
		result[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matrimony profiles: %w", err)
	}
	return result, nil
}

// ListProfiles returns profiles other than the caller's, newest first
func (r *MatrimonyRepository) ListProfiles(ctx context.Context, excludeUserID string, limit, offset int) ([]*models.MatrimonyProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM matrimony_profiles
		WHERE user_id <> $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, excludeUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list matrimony profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.MatrimonyProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matrimony profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matrimony profiles: %w", err)
	}
	return profiles, nil
}

// DeleteProfile removes a user's profile
func (r *MatrimonyRepository) DeleteProfile(ctx context.Context, userID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM matrimony_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete matrimony profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

const requestColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

func scanRequest(row pgx.Row) (*models.Request, error) {
	var req models.Request
	err := row.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateRequest inserts a new request
func (r *MatrimonyRepository) CreateRequest(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO requests (id, sender_id, receiver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.SenderID, req.ReceiverID, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetRequest retrieves a request by ID
func (r *MatrimonyRepository) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// UpdateRequestStatus sets the status of a request
func (r *MatrimonyRepository) UpdateRequestStatus(ctx context.Context, id, status string) error {
	query := `UPDATE requests SET status = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// PendingExists reports whether a pending request exists between two users in either direction
func (r *MatrimonyRepository) PendingExists(ctx context.Context, userA, userB string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM requests
			WHERE status = 'pending'
			  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userA, userB).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// AcceptedExists reports whether two users share an accepted request
func (r *MatrimonyRepository) AcceptedExists(ctx context.Context, userA, userB string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM requests
			WHERE status = 'accepted'
			  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userA, userB).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check accepted request: %w", err)
	}
	return exists, nil
}

// ListReceived returns requests addressed to the user with the given status
func (r *MatrimonyRepository) ListReceived(ctx context.Context, receiverID, status string) ([]*models.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE receiver_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	return r.listRequests(ctx, query, receiverID, status)
}

// ListInvolving returns requests sent or received by the user with the given status
func (r *MatrimonyRepository) ListInvolving(ctx context.Context, userID, status string) ([]*models.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE (sender_id = $1 OR receiver_id = $1) AND status = $2
		ORDER BY updated_at DESC
	`
	return r.listRequests(ctx, query, userID, status)
}

func (r *MatrimonyRepository) listRequests(ctx context.Context, query string, args ...any) ([]*models.Request, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}
	return reqs, nil
}
