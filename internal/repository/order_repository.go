package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

// OrderRepository persists orders materialized from payment events.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository constructs the repository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByProviderSessionID returns the order for a provider checkout session.
func (r *OrderRepository) FindByProviderSessionID(ctx context.Context, providerSessionID string) (*models.Order, error) {
	const query = `SELECT id, provider_session_id, student_id, course_id, amount_total, currency, status, created_at, updated_at
FROM orders WHERE provider_session_id = $1`
	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, providerSessionID); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpsertPaid inserts or updates the order keyed by provider session id and
// marks it PAID. The returned flag is true only when this call performed
// the first transition into PAID, which gates the one-time credit grant on
// webhook replays.
func (r *OrderRepository) UpsertPaid(ctx context.Context, order *models.Order) (bool, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	order.Status = models.OrderStatusPaid

	const query = `INSERT INTO orders (id, provider_session_id, student_id, course_id, amount_total, currency, status, created_at, updated_at)
VALUES (:id, :provider_session_id, :student_id, :course_id, :amount_total, :currency, :status, :created_at, :updated_at)
ON CONFLICT (provider_session_id) DO UPDATE
SET amount_total = EXCLUDED.amount_total,
    currency = EXCLUDED.currency,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at
WHERE orders.status <> EXCLUDED.status`
	result, err := r.db.NamedExecContext(ctx, query, order)
	if err != nil {
		return false, fmt.Errorf("upsert order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check upserted order rows: %w", err)
	}
	if affected == 0 {
		// Replay: the row already carried PAID. Reload so the caller sees
		// the canonical order id, not the discarded insert candidate.
		existing, err := r.FindByProviderSessionID(ctx, order.ProviderSessionID)
		if err != nil {
			return false, fmt.Errorf("reload paid order: %w", err)
		}
		*order = *existing
		return false, nil
	}
	// The insert candidate id loses when the conflict branch ran; reload
	// keeps order.ID aligned with the stored row either way.
	existing, err := r.FindByProviderSessionID(ctx, order.ProviderSessionID)
	if err != nil {
		return false, fmt.Errorf("reload upserted order: %w", err)
	}
	*order = *existing
	return true, nil
}

// UpsertItem writes the order's single line item. The caller derives the
// item id deterministically from the order id, so replayed deliveries
// update the same row.
func (r *OrderRepository) UpsertItem(ctx context.Context, item *models.OrderItem) error {
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO order_items (id, order_id, product_type, quantity, hours_per_unit, amount, created_at, updated_at)
VALUES (:id, :order_id, :product_type, :quantity, :hours_per_unit, :amount, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE
SET product_type = EXCLUDED.product_type,
    quantity = EXCLUDED.quantity,
    hours_per_unit = EXCLUDED.hours_per_unit,
    amount = EXCLUDED.amount,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("upsert order item: %w", err)
	}
	return nil
}
