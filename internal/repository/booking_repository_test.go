package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestBookingRepositoryBook(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO slot_bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE sessions SET booked_spots = booked_spots \+ 1`).
		WithArgs("sess1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := repo.Book(context.Background(), "sess1", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusBooked, booking.Status)
	assert.NotEmpty(t, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryBookSessionFull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO slot_bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Conditional increment touches no row once booked_spots == max_spots.
	mock.ExpectExec(`UPDATE sessions SET booked_spots = booked_spots \+ 1`).
		WithArgs("sess1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), "sess1", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionFull.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryBookDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO slot_bookings").
		WillReturnError(&pq.Error{Code: pq.ErrorCode(pgUniqueViolation)})
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), "sess1", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateBooking.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryBookUnknownSession(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO slot_bookings").
		WillReturnError(&pq.Error{Code: pq.ErrorCode(pgForeignKeyViolation)})
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), "missing", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func bookingRows(status models.BookingStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "session_id", "student_id", "status", "created_at", "updated_at"}).
		AddRow("b1", "sess1", "s1", string(status), time.Now(), time.Now())
}

func TestBookingRepositoryCancelReleasesSeat(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, session_id, student_id, status, created_at, updated_at FROM slot_bookings WHERE id = (.+) FOR UPDATE").
		WithArgs("b1").
		WillReturnRows(bookingRows(models.BookingStatusBooked))
	mock.ExpectExec("UPDATE slot_bookings SET status").
		WithArgs("b1", models.BookingStatusCancelled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sessions SET booked_spots = booked_spots - 1").
		WithArgs("sess1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, released, err := repo.Cancel(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCancelPendingKeepsSeats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, session_id, student_id, status, created_at, updated_at FROM slot_bookings WHERE id = (.+) FOR UPDATE").
		WithArgs("b1").
		WillReturnRows(bookingRows(models.BookingStatusPending))
	mock.ExpectExec("UPDATE slot_bookings SET status").
		WithArgs("b1", models.BookingStatusCancelled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, released, err := repo.Cancel(context.Background(), "b1")
	require.NoError(t, err)
	assert.False(t, released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCancelAlreadyCancelled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, session_id, student_id, status, created_at, updated_at FROM slot_bookings WHERE id = (.+) FOR UPDATE").
		WithArgs("b1").
		WillReturnRows(bookingRows(models.BookingStatusCancelled))
	mock.ExpectRollback()

	booking, released, err := repo.Cancel(context.Background(), "b1")
	require.NoError(t, err)
	assert.False(t, released)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateStatusFrom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("UPDATE slot_bookings SET status").
		WithArgs("b1", models.BookingStatusBooked, models.BookingStatusPresent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateStatusFrom(context.Background(), "b1", models.BookingStatusBooked, models.BookingStatusPresent)
	require.NoError(t, err)
	assert.True(t, updated)

	mock.ExpectExec("UPDATE slot_bookings SET status").
		WithArgs("b1", models.BookingStatusBooked, models.BookingStatusPresent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err = repo.UpdateStatusFrom(context.Background(), "b1", models.BookingStatusBooked, models.BookingStatusPresent)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}
