package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

// CreditRepository persists student credit balances in minutes.
type CreditRepository struct {
	db *sqlx.DB
}

// NewCreditRepository constructs the repository.
func NewCreditRepository(db *sqlx.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Get returns the student's balance, zero-valued when no row exists yet.
func (r *CreditRepository) Get(ctx context.Context, studentID string) (*models.CreditBalance, error) {
	const query = `SELECT student_id, minutes, updated_at FROM credit_balances WHERE student_id = $1`
	var balance models.CreditBalance
	if err := r.db.GetContext(ctx, &balance, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return &models.CreditBalance{StudentID: studentID}, nil
		}
		return nil, fmt.Errorf("get credit balance: %w", err)
	}
	return &balance, nil
}

// AddMinutes increments the balance atomically, creating the row on first
// credit. The reconciler never decrements through this repository.
func (r *CreditRepository) AddMinutes(ctx context.Context, studentID string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	const query = `INSERT INTO credit_balances (student_id, minutes, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (student_id) DO UPDATE
SET minutes = credit_balances.minutes + EXCLUDED.minutes,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, studentID, minutes, time.Now().UTC()); err != nil {
		return fmt.Errorf("add credit minutes: %w", err)
	}
	return nil
}
