package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

type sessionReader interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
}

type bookingRepo interface {
	FindByID(ctx context.Context, id string) (*models.SlotBooking, error)
	Book(ctx context.Context, sessionID, studentID string) (*models.SlotBooking, error)
	Cancel(ctx context.Context, id string) (*models.SlotBooking, bool, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to models.BookingStatus) (bool, error)
}

type enrollmentUpserter interface {
	UpsertActive(ctx context.Context, studentID, courseID string) error
}

// BookRequest describes a booking creation request.
type BookRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

// AttendanceRequest describes an attendance status write.
type AttendanceRequest struct {
	Status models.BookingStatus `json:"status" validate:"required,oneof=PRESENT ABSENT BOOKED"`
}

// BookingService drives the booking lifecycle. Seat capacity is consumed
// at booking time and released at cancellation; attendance writes never
// touch capacity.
type BookingService struct {
	sessions    sessionReader
	students    studentReader
	bookings    bookingRepo
	enrollments enrollmentUpserter
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBookingService constructs BookingService.
func NewBookingService(
	sessions sessionReader,
	students studentReader,
	bookings bookingRepo,
	enrollments enrollmentUpserter,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		sessions:    sessions,
		students:    students,
		bookings:    bookings,
		enrollments: enrollments,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Book admits a student into a session. The admission is an atomic
// insert-plus-increment in the repository, so concurrent callers can
// never oversubscribe a session. The course-level enrollment upsert runs
// after admission succeeds: a rejected booking must leave no state behind.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*models.SlotBooking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	session, err := s.sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	booking, err := s.bookings.Book(ctx, req.SessionID, req.StudentID)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			s.metrics.RecordBookingRejected(appErr.Code)
			return nil, err
		}
		s.metrics.RecordBookingRejected(appErrors.ErrInternal.Code)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	// Idempotent and also owed by the payment reconciler; a failure here
	// must not undo the admitted booking.
	if err := s.enrollments.UpsertActive(ctx, req.StudentID, session.CourseID); err != nil {
		s.logger.Warn("failed to ensure enrollment after booking",
			zap.String("booking_id", booking.ID),
			zap.String("course_id", session.CourseID),
			zap.Error(err),
		)
	}

	s.invalidateSession(ctx, req.SessionID)
	s.metrics.RecordBookingAdmitted()
	s.logger.Info("booking admitted",
		zap.String("booking_id", booking.ID),
		zap.String("session_id", req.SessionID),
		zap.String("student_id", req.StudentID),
	)
	return booking, nil
}

// SetAttendance records PRESENT/ABSENT or reverts to BOOKED. Capacity was
// consumed at booking time, so this is a pure status write.
func (s *BookingService) SetAttendance(ctx context.Context, bookingID string, req AttendanceRequest) (*models.SlotBooking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}

	if booking.Status == req.Status {
		return booking, nil
	}
	if !booking.Status.CanTransition(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "")
	}

	updated, err := s.bookings.UpdateStatusFrom(ctx, bookingID, booking.Status, req.Status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
	}
	if !updated {
		// Lost a race with a concurrent status write.
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "booking status changed concurrently")
	}

	booking.Status = req.Status
	return booking, nil
}

// Cancel releases the booking's seat. Cancelling twice is a no-op.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*models.SlotBooking, error) {
	booking, released, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel booking")
	}

	if released {
		s.invalidateSession(ctx, booking.SessionID)
		s.metrics.RecordBookingCancelled()
		s.logger.Info("booking cancelled",
			zap.String("booking_id", bookingID),
			zap.String("session_id", booking.SessionID),
		)
	}
	return booking, nil
}

// invalidateSession drops the cached session detail after a seat count
// change, so reads never serve a stale booked_spots for the full TTL.
func (s *BookingService) invalidateSession(ctx context.Context, sessionID string) {
	if err := s.cache.Invalidate(ctx, "session:"+sessionID); err != nil {
		s.logger.Warn("failed to invalidate cached session", zap.String("session_id", sessionID), zap.Error(err))
	}
}
