package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

// Postgres error codes used to map constraint violations onto domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// BookingRepository persists slot bookings and owns the seat accounting on
// sessions: admission and the booked_spots increment commit in the same
// transaction, so no booking is ever admitted on a stale capacity read.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// FindByID returns a booking by its ID.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.SlotBooking, error) {
	const query = `SELECT id, session_id, student_id, status, created_at, updated_at FROM slot_bookings WHERE id = $1`
	var booking models.SlotBooking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindBySessionAndStudent returns the booking for a (session, student) pair.
func (r *BookingRepository) FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*models.SlotBooking, error) {
	const query = `SELECT id, session_id, student_id, status, created_at, updated_at FROM slot_bookings WHERE session_id = $1 AND student_id = $2`
	var booking models.SlotBooking
	if err := r.db.GetContext(ctx, &booking, query, sessionID, studentID); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Book admits a student into a session. The booking row insert and the
// conditional seat increment form one transaction: the unique constraint on
// (session_id, student_id) rejects double admission, and the increment only
// applies while booked_spots < max_spots. Either failure rolls back both.
func (r *BookingRepository) Book(ctx context.Context, sessionID, studentID string) (*models.SlotBooking, error) {
	now := time.Now().UTC()
	booking := &models.SlotBooking{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		StudentID: studentID,
		Status:    models.BookingStatusBooked,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insert = `INSERT INTO slot_bookings (id, session_id, student_id, status, created_at, updated_at)
VALUES (:id, :session_id, :student_id, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insert, booking); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case pgUniqueViolation:
				return nil, appErrors.Clone(appErrors.ErrDuplicateBooking, "")
			case pgForeignKeyViolation:
				return nil, appErrors.Clone(appErrors.ErrNotFound, "session or student not found")
			}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	const takeSpot = `UPDATE sessions SET booked_spots = booked_spots + 1, updated_at = $2
WHERE id = $1 AND booked_spots < max_spots`
	result, err := tx.ExecContext(ctx, takeSpot, sessionID, now)
	if err != nil {
		return nil, fmt.Errorf("take session spot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check taken spot rows: %w", err)
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrSessionFull, "")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	return booking, nil
}

// Cancel marks a booking CANCELLED and releases its seat exactly once.
// Cancelling an already-cancelled booking is a no-op. The returned flag
// reports whether a seat was released.
func (r *BookingRepository) Cancel(ctx context.Context, id string) (*models.SlotBooking, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin cancel: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const lock = `SELECT id, session_id, student_id, status, created_at, updated_at FROM slot_bookings WHERE id = $1 FOR UPDATE`
	var booking models.SlotBooking
	if err := tx.GetContext(ctx, &booking, lock, id); err != nil {
		return nil, false, err
	}

	if booking.Status == models.BookingStatusCancelled {
		return &booking, false, nil
	}

	now := time.Now().UTC()
	heldSeat := booking.Status.HoldsSeat()

	const update = `UPDATE slot_bookings SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, id, models.BookingStatusCancelled, now); err != nil {
		return nil, false, fmt.Errorf("cancel booking: %w", err)
	}

	if heldSeat {
		const releaseSpot = `UPDATE sessions SET booked_spots = booked_spots - 1, updated_at = $2
WHERE id = $1 AND booked_spots > 0`
		if _, err := tx.ExecContext(ctx, releaseSpot, booking.SessionID, now); err != nil {
			return nil, false, fmt.Errorf("release session spot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit cancel: %w", err)
	}

	booking.Status = models.BookingStatusCancelled
	booking.UpdatedAt = now
	return &booking, heldSeat, nil
}

// UpdateStatusFrom writes the new status only when the row still holds the
// expected prior status, guarding concurrent attendance edits. Returns
// false when the row moved on in the meantime.
func (r *BookingRepository) UpdateStatusFrom(ctx context.Context, id string, from, to models.BookingStatus) (bool, error) {
	const query = `UPDATE slot_bookings SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, from, to, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check updated booking rows: %w", err)
	}
	return affected > 0, nil
}

// ListBySession returns all bookings of a session.
func (r *BookingRepository) ListBySession(ctx context.Context, sessionID string) ([]models.SlotBooking, error) {
	const query = `SELECT id, session_id, student_id, status, created_at, updated_at FROM slot_bookings WHERE session_id = $1 ORDER BY created_at ASC`
	var bookings []models.SlotBooking
	if err := r.db.SelectContext(ctx, &bookings, query, sessionID); err != nil {
		return nil, fmt.Errorf("list session bookings: %w", err)
	}
	return bookings, nil
}
