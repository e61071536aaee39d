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

// TrustRepository handles database operations for trust events, registrations and fund stats
type TrustRepository struct {
	db *pgxpool.Pool
}

// NewTrustRepository creates a new trust repository
func NewTrustRepository(db *pgxpool.Pool) *TrustRepository {
	return &TrustRepository{db: db}
}

// CreateEvent inserts a trust event
func (r *TrustRepository) CreateEvent(ctx context.Context, e *models.TrustEvent) error {
	query := `
		INSERT INTO trust_events (id, title, description, date, location, attendees_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, e.ID, e.Title, e.Description, e.Date, e.Location, e.AttendeesCount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trust event: %w", err)
	}
	return nil
}

// GetEvent retrieves a trust event by ID
func (r *TrustRepository) GetEvent(ctx context.Context, id string) (*models.TrustEvent, error) {
	query := `
		SELECT id, title, description, date, location, attendees_count, created_at
		FROM trust_events
		WHERE id = $1
	`
	var e models.TrustEvent
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.AttendeesCount, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get trust event: %w", err)
	}
	return &e, nil
}

// ListEvents returns trust events ordered by date
func (r *TrustRepository) ListEvents(ctx context.Context) ([]*models.TrustEvent, error) {
	query := `
		SELECT id, title, description, date, location, attendees_count, created_at
		FROM trust_events
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trust events: %w", err)
	}
	defer rows.Close()

	var events []*models.TrustEvent
	for rows.Next() {
		var e models.TrustEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.AttendeesCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trust event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trust events: %w", err)
	}
	return events, nil
}

// CreateRegistration inserts a student registration and bumps the event's attendee count
func (r *TrustRepository) CreateRegistration(ctx context.Context, reg *models.TrustRegistration) error {
	query := `
		INSERT INTO trust_registrations (id, event_id, user_id, full_name, sub_surname, village, taluko, district,
			gol, school_college, percentage, passing_year, marksheet_url, mobile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	return r.withAttendee(ctx, reg.EventID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			reg.ID, reg.EventID, reg.UserID, reg.FullName, reg.SubSurname, reg.Village, reg.Taluko, reg.District,
			reg.Gol, reg.SchoolCollege, reg.Percentage, reg.PassingYear, reg.MarksheetURL, reg.Mobile, reg.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create trust registration: %w", err)
		}
		return nil
	})
}

// CreateWeddingRegistration inserts a group wedding registration and bumps the event's attendee count
func (r *TrustRepository) CreateWeddingRegistration(ctx context.Context, reg *models.WeddingRegistration) error {
	query := `
		INSERT INTO samuh_lagan_registrations (id, event_id, user_id, groom, bride, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	return r.withAttendee(ctx, reg.EventID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query, reg.ID, reg.EventID, reg.UserID, reg.Groom, reg.Bride, reg.Status, reg.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create wedding registration: %w", err)
		}
		return nil
	})
}

// ListWeddingRegistrations returns group wedding registrations, newest first
func (r *TrustRepository) ListWeddingRegistrations(ctx context.Context) ([]*models.WeddingRegistration, error) {
	query := `
		SELECT id, event_id::text, user_id, groom, bride, status, created_at
		FROM samuh_lagan_registrations
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wedding registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.WeddingRegistration
	for rows.Next() {
		var reg models.WeddingRegistration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Groom, &reg.Bride, &reg.Status, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wedding registration: %w", err)
		}
		regs = append(regs, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wedding registrations: %w", err)
	}
	return regs, nil
}

// withAttendee runs insert and, when eventID is set, increments attendees_count
// in the same transaction.
func (r *TrustRepository) withAttendee(ctx context.Context, eventID *string, insert func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insert(tx); err != nil {
		return err
	}

	if eventID != nil {
		result, err := tx.Exec(ctx, `UPDATE trust_events SET attendees_count = attendees_count + 1 WHERE id = $1`, *eventID)
		if err != nil {
			return fmt.Errorf("failed to increment attendees: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrEventNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

// CreateSuggestion inserts a suggestion
func (r *TrustRepository) CreateSuggestion(ctx context.Context, s *models.TrustSuggestion) error {
	query := `INSERT INTO trust_suggestions (id, user_id, message, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, s.ID, s.UserID, s.Message, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}
	return nil
}

// GetFundStats reads the single fund stats row
func (r *TrustRepository) GetFundStats(ctx context.Context) (*models.FundStats, error) {
	query := `SELECT total_fund, total_donors, upcoming_events, updated_at FROM fund_stats WHERE id = 1`
	var s models.FundStats
	if err := r.db.QueryRow(ctx, query).Scan(&s.TotalFund, &s.TotalDonors, &s.UpcomingEvents, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to get fund stats: %w", err)
	}
	return &s, nil
}

// UpdateFundStats overwrites the single fund stats row
func (r *TrustRepository) UpdateFundStats(ctx context.Context, s *models.FundStats) error {
	query := `
		INSERT INTO fund_stats (id, total_fund, total_donors, upcoming_events, updated_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			total_fund = EXCLUDED.total_fund,
			total_donors = EXCLUDED.total_donors,
			upcoming_events = EXCLUDED.upcoming_events,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, s.TotalFund, s.TotalDonors, s.UpcomingEvents, s.UpdatedAt); err != nil {
		return fmt.Errorf("failed to update fund stats: %w", err)
	}
	return nil
}
