package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "provider_session_id", "student_id", "course_id", "amount_total", "currency", "status", "created_at", "updated_at"}).
		AddRow("o1", "cs_123", "s1", "c1", int64(18000), "eur", string(models.OrderStatusPaid), time.Now(), time.Now())
}

func TestOrderRepositoryUpsertPaidFirstTransition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE provider_session_id = $1")).
		WithArgs("cs_123").
		WillReturnRows(orderRows())

	order := &models.Order{ProviderSessionID: "cs_123", StudentID: "s1", CourseID: "c1", AmountTotal: 18000, Currency: "eur"}
	transitioned, err := repo.UpsertPaid(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, transitioned)
	// Canonical id from the stored row, not the insert candidate.
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryUpsertPaidReplay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	// Conflict branch guarded by status <> EXCLUDED.status touches no row.
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE provider_session_id = $1")).
		WithArgs("cs_123").
		WillReturnRows(orderRows())

	order := &models.Order{ProviderSessionID: "cs_123", StudentID: "s1", CourseID: "c1", AmountTotal: 18000, Currency: "eur"}
	transitioned, err := repo.UpsertPaid(context.Background(), order)
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, "o1", order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryUpsertItem(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))

	item := &models.OrderItem{ID: "item1", OrderID: "o1", ProductType: "DRIVING_HOURS", Quantity: 3, HoursPerUnit: 2, Amount: 18000}
	require.NoError(t, repo.UpsertItem(context.Background(), item))
	assert.False(t, item.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
