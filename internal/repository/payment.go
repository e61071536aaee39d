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

const paymentColumns = `id, user_id, user_phone, plan, amount, transaction_id, status, created_at`

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.UserPhone, &p.Plan, &p.Amount, &p.TransactionID, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment record
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, p.ID, p.UserID, p.UserPhone, p.Plan, p.Amount, p.TransactionID, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByTransactionID retrieves a payment by gateway transaction id
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, txnID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`
	p, err := scanPayment(r.db.QueryRow(ctx, query, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// UpdateStatus sets the status of a payment by transaction id
func (r *PaymentRepository) UpdateStatus(ctx context.Context, txnID, status string) error {
	result, err := r.db.Exec(ctx, `UPDATE payments SET status = $1 WHERE transaction_id = $2`, status, txnID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}
	return nil
}

// LatestSuccessful returns the newest successful payment for a phone number
func (r *PaymentRepository) LatestSuccessful(ctx context.Context, userPhone string) (*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_phone = $1 AND status = 'success'
		ORDER BY created_at DESC
		LIMIT 1
	`
	p, err := scanPayment(r.db.QueryRow(ctx, query, userPhone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get latest payment: %w", err)
	}
	return p, nil
}

// ListByUser returns a user's payments, newest first
func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}
