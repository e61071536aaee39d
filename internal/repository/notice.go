package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"samaj-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoticeRepository handles database operations for the notice board
type NoticeRepository struct {
	db *pgxpool.Pool
}

// NewNoticeRepository creates a new notice repository
func NewNoticeRepository(db *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Create inserts a notice
func (r *NoticeRepository) Create(ctx context.Context, n *models.Notice) error {
	query := `INSERT INTO admin_messages (id, title, message, image_url, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, n.ID, n.Title, n.Message, n.ImageURL, n.CreatedAt); err != nil {
		return fmt.Errorf("failed to create notice: %w", err)
	}
	return nil
}

// List returns every notice, oldest first
func (r *NoticeRepository) List(ctx context.Context) ([]*models.Notice, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, message, image_url, created_at FROM admin_messages ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	defer rows.Close()

	var notices []*models.Notice
	for rows.Next() {
		var n models.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.ImageURL, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notice: %w", err)
		}
		notices = append(notices, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notices: %w", err)
	}
	return notices, nil
}

// MarkRead records when the user last read the notice board
func (r *NoticeRepository) MarkRead(ctx context.Context, userID string, at time.Time) error {
	query := `
		INSERT INTO message_reads (user_id, last_read_at) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET last_read_at = EXCLUDED.last_read_at
	`
	if _, err := r.db.Exec(ctx, query, userID, at); err != nil {
		return fmt.Errorf("failed to mark notices read: %w", err)
	}
	return nil
}

// LastReadAt returns when the user last read the notice board, or nil if never
func (r *NoticeRepository) LastReadAt(ctx context.Context, userID string) (*time.Time, error) {
	var at time.Time
	err := r.db.QueryRow(ctx, `SELECT last_read_at FROM message_reads WHERE user_id = $1`, userID).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last read time: %w", err)
	}
	return &at, nil
}

// CountSince counts notices created after since; a nil since counts all
func (r *NoticeRepository) CountSince(ctx context.Context, since *time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_messages WHERE $1::timestamptz IS NULL OR created_at > $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notices: %w", err)
	}
	return count, nil
}
