package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCreditRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "minutes", "updated_at"}).
		AddRow("s1", 360, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, minutes, updated_at FROM credit_balances WHERE student_id = $1")).
		WithArgs("s1").
		WillReturnRows(rows)

	balance, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 360, balance.Minutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRepositoryGetNoRowIsZeroBalance(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCreditRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, minutes, updated_at FROM credit_balances WHERE student_id = $1")).
		WithArgs("s2").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "minutes", "updated_at"}))

	balance, err := repo.Get(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", balance.StudentID)
	assert.Equal(t, 0, balance.Minutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRepositoryAddMinutes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCreditRepository(db)

	mock.ExpectExec("INSERT INTO credit_balances").
		WithArgs("s1", 120, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddMinutes(context.Background(), "s1", 120))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRepositoryAddMinutesNonPositiveIsNoOp(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCreditRepository(db)

	require.NoError(t, repo.AddMinutes(context.Background(), "s1", 0))
	require.NoError(t, repo.AddMinutes(context.Background(), "s1", -30))
	assert.NoError(t, mock.ExpectationsWereMet())
}
