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

const businessColumns = `id, user_id, business_name, business_type, description, owner_name, village, taluka, district, mobile, services, created_at`

// BusinessRepository handles database operations for the business directory
type BusinessRepository struct {
	db *pgxpool.Pool
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func scanBusiness(row pgx.Row) (*models.Business, error) {
	var b models.Business
	err := row.Scan(
		&b.ID, &b.UserID, &b.BusinessName, &b.BusinessType, &b.Description, &b.OwnerName,
		&b.Village, &b.Taluka, &b.District, &b.Mobile, &b.Services, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a business listing
func (r *BusinessRepository) Create(ctx context.Context, b *models.Business) error {
	query := `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.UserID, b.BusinessName, b.BusinessType, b.Description, b.OwnerName,
		b.Village, b.Taluka, b.District, b.Mobile, b.Services, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// GetByID retrieves a business by ID
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	b, err := scanBusiness(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return b, nil
}

// List returns every business, newest first
func (r *BusinessRepository) List(ctx context.Context) ([]*models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	var businesses []*models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}
	return businesses, nil
}

// Update replaces the editable fields of a business
func (r *BusinessRepository) Update(ctx context.Context, b *models.Business) error {
	query := `
		UPDATE businesses SET
			business_name = $1, business_type = $2, description = $3, owner_name = $4,
			village = $5, taluka = $6, district = $7, mobile = $8, services = $9
		WHERE id = $10
	`
	result, err := r.db.Exec(ctx, query,
		b.BusinessName, b.BusinessType, b.Description, b.OwnerName,
		b.Village, b.Taluka, b.District, b.Mobile, b.Services, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrBusinessNotFound
	}
	return nil
}

// Delete deletes a business
func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrBusinessNotFound
	}
	return nil
}
