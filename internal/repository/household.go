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

// HouseholdRepository handles database operations for households and their members
type HouseholdRepository struct {
	db *pgxpool.Pool
}

// NewHouseholdRepository creates a new household repository
func NewHouseholdRepository(db *pgxpool.Pool) *HouseholdRepository {
	return &HouseholdRepository{db: db}
}

// Create inserts a household together with its initial members in one transaction
func (r *HouseholdRepository) Create(ctx context.Context, household *models.Household) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO households (id, head_name, sub_surname, village, district, mobile_number, mobile_key, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		household.ID, household.HeadName, household.SubSurname, household.Village, household.District,
		household.MobileNumber, household.MobileKey, household.CreatedBy, household.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create household: %w", err)
	}

	for _, member := range household.Members {
		if err := insertMember(ctx, tx, member); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit household: %w", err)
	}
	return nil
}

// AddMember inserts one member into an existing household
func (r *HouseholdRepository) AddMember(ctx context.Context, member *models.FamilyMember) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertMember(ctx, tx, member); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertMember(ctx context.Context, tx pgx.Tx, member *models.FamilyMember) error {
	query := `
		INSERT INTO family_members (id, household_id, member_name, relationship, member_mobile, mobile_key, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.Exec(ctx, query,
		member.ID, member.HouseholdID, member.MemberName, member.Relationship,
		member.MemberMobile, member.MobileKey, member.CreatedBy, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create family member: %w", err)
	}
	return nil
}

// GetByID retrieves a household with its members
func (r *HouseholdRepository) GetByID(ctx context.Context, id string) (*models.Household, error) {
	query := `
		SELECT id, head_name, sub_surname, village, district, mobile_number, mobile_key, created_by, created_at
		FROM households
		WHERE id = $1
	`
	var h models.Household
	err := r.db.QueryRow(ctx, query, id).Scan(
		&h.ID, &h.HeadName, &h.SubSurname, &h.Village, &h.District,
		&h.MobileNumber, &h.MobileKey, &h.CreatedBy, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("failed to get household: %w", err)
	}

	members, err := r.membersOf(ctx, []string{h.ID})
	if err != nil {
		return nil, err
	}
	h.Members = members[h.ID]
	return &h, nil
}

// List returns households newest first, each with its members. A non-empty
// search matches head name, village or sub-surname case-insensitively.
func (r *HouseholdRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Household, error) {
	query := `
		SELECT id, head_name, sub_surname, village, district, mobile_number, mobile_key, created_by, created_at
		FROM households
		WHERE $1 = '' OR head_name ILIKE '%' || $1 || '%' OR village ILIKE '%' || $1 || '%' OR sub_surname ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()

	var households []*models.Household
	var ids []string
	for rows.Next() {
		var h models.Household
		err := rows.Scan(
			&h.ID, &h.HeadName, &h.SubSurname, &h.Village, &h.District,
			&h.MobileNumber, &h.MobileKey, &h.CreatedBy, &h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		households = append(households, &h)
		ids = append(ids, h.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating households: %w", err)
	}

	members, err := r.membersOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, h := range households {
		h.Members = members[h.ID]
	}
	return households, nil
}

func (r *HouseholdRepository) membersOf(ctx context.Context, householdIDs []string) (map[string][]*models.FamilyMember, error) {
	result := make(map[string][]*models.FamilyMember, len(householdIDs))
	if len(householdIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, household_id, member_name, relationship, member_mobile, mobile_key, created_by, created_at
		FROM family_members
		WHERE household_id = ANY($1::uuid[])
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, householdIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.FamilyMember
		err := rows.Scan(
			&m.ID, &m.HouseholdID, &m.MemberName, &m.Relationship,
			&m.MemberMobile, &m.MobileKey, &m.CreatedBy, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		result[m.HouseholdID] = append(result[m.HouseholdID], &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating family members: %w", err)
	}
	return result, nil
}

// GetMember retrieves a single family member row
func (r *HouseholdRepository) GetMember(ctx context.Context, id string) (*models.FamilyMember, error) {
	query := `
		SELECT id, household_id, member_name, relationship, member_mobile, mobile_key, created_by, created_at
		FROM family_members
		WHERE id = $1
	`
	var m models.FamilyMember
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.HouseholdID, &m.MemberName, &m.Relationship,
		&m.MemberMobile, &m.MobileKey, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get family member: %w", err)
	}
	return &m, nil
}

// DeleteMember deletes a family member row
func (r *HouseholdRepository) DeleteMember(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM family_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete family member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// Delete deletes a household; members go with it
func (r *HouseholdRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM households WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete household: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrHouseholdNotFound
	}
	return nil
}

// FindIDByMobileKey returns the household whose head or any member carries the
// normalized mobile number. The oldest household wins when several match.
func (r *HouseholdRepository) FindIDByMobileKey(ctx context.Context, mobileKey string) (string, error) {
	query := `
		SELECT h.id
		FROM households h
		WHERE h.mobile_key = $1
		   OR EXISTS (SELECT 1 FROM family_members m WHERE m.household_id = h.id AND m.mobile_key = $1)
		ORDER BY h.created_at
		LIMIT 1
	`
	var id string
	err := r.db.QueryRow(ctx, query, mobileKey).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrHouseholdNotFound
		}
		return "", fmt.Errorf("failed to find household by mobile: %w", err)
	}
	return id, nil
}

// MobileKeys returns the distinct normalized mobile numbers of a household's head and members
func (r *HouseholdRepository) MobileKeys(ctx context.Context, householdID string) ([]string, error) {
	query := `
		SELECT mobile_key FROM households WHERE id = $1 AND mobile_key <> ''
		UNION
		SELECT mobile_key FROM family_members WHERE household_id = $1 AND mobile_key <> ''
	`
	rows, err := r.db.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list household mobiles: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect household mobiles: %w", err)
	}
	return keys, nil
}
