package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/dto"
	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

// Webhook processing outcomes reported to metrics.
const (
	webhookOutcomeProcessed = "processed"
	webhookOutcomeReplayed  = "replayed"
	webhookOutcomeInvalid   = "invalid"
	webhookOutcomeError     = "error"
)

type orderRepo interface {
	UpsertPaid(ctx context.Context, order *models.Order) (bool, error)
	UpsertItem(ctx context.Context, item *models.OrderItem) error
}

type creditRepo interface {
	AddMinutes(ctx context.Context, studentID string, minutes int) error
}

type sessionBooker interface {
	Book(ctx context.Context, req BookRequest) (*models.SlotBooking, error)
}

// PaymentService reconciles payment-provider webhook events into orders,
// enrollments, bookings and credit. Every step tolerates at-least-once
// delivery: replaying an event leaves the same end state as processing it
// once. The accounting head (order, item, enrollment, credit) is strict;
// the tail (booking, notification) is best-effort and never rolls the
// head back.
type PaymentService struct {
	orders          orderRepo
	enrollments     enrollmentUpserter
	courses         courseReader
	credits         creditRepo
	bookings        sessionBooker
	notifier        Notifier
	metrics         *MetricsService
	validator       *validator.Validate
	logger          *zap.Logger
	defaultCurrency string
}

// NewPaymentService constructs PaymentService. defaultCurrency fills in
// for events the provider delivers without one.
func NewPaymentService(
	orders orderRepo,
	enrollments enrollmentUpserter,
	courses courseReader,
	credits creditRepo,
	bookings sessionBooker,
	notifier Notifier,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	defaultCurrency string,
) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &PaymentService{
		orders:          orders,
		enrollments:     enrollments,
		courses:         courses,
		credits:         credits,
		bookings:        bookings,
		notifier:        notifier,
		metrics:         metrics,
		validator:       validate,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

// Reconcile applies one payment-succeeded event. Malformed metadata is
// acknowledged and dropped: the provider cannot fix the payload by
// retrying, so redelivery would only loop. A non-nil return signals an
// internal failure for the operator; the webhook handler still
// acknowledges the delivery either way.
func (s *PaymentService) Reconcile(ctx context.Context, event dto.PaymentEvent) error {
	log := s.logger.With(zap.String("provider_session_id", event.ProviderSessionID))

	if err := s.validator.Struct(event); err != nil {
		s.metrics.RecordWebhookEvent(webhookOutcomeInvalid)
		log.Warn("dropping payment event without provider session id", zap.Error(err))
		return nil
	}
	if event.Metadata.StudentID == "" || event.Metadata.CourseID == "" {
		s.metrics.RecordWebhookEvent(webhookOutcomeInvalid)
		log.Warn("dropping payment event with incomplete metadata",
			zap.String("student_id", event.Metadata.StudentID),
			zap.String("course_id", event.Metadata.CourseID),
		)
		return nil
	}

	currency := event.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	order := &models.Order{
		ProviderSessionID: event.ProviderSessionID,
		StudentID:         event.Metadata.StudentID,
		CourseID:          event.Metadata.CourseID,
		AmountTotal:       event.AmountTotal,
		Currency:          currency,
	}
	firstPaid, err := s.orders.UpsertPaid(ctx, order)
	if err != nil {
		s.metrics.RecordWebhookEvent(webhookOutcomeError)
		log.Error("failed to upsert order", zap.Error(err))
		return err
	}

	if err := s.orders.UpsertItem(ctx, s.buildItem(order, event)); err != nil {
		log.Error("failed to upsert order item", zap.String("order_id", order.ID), zap.Error(err))
	}

	if err := s.enrollments.UpsertActive(ctx, event.Metadata.StudentID, event.Metadata.CourseID); err != nil {
		log.Error("failed to upsert enrollment", zap.Error(err))
	}

	if event.Metadata.SessionID != "" {
		s.bookPrebookedSession(ctx, log, event)
	}

	creditedMinutes := 0
	if firstPaid {
		creditedMinutes = s.creditMinutes(ctx, log, event)
	} else {
		log.Info("payment event replayed, credit step skipped")
	}

	confirmation := PaymentConfirmation{
		OrderID:         order.ID,
		StudentID:       event.Metadata.StudentID,
		CourseID:        event.Metadata.CourseID,
		AmountTotal:     event.AmountTotal,
		Currency:        order.Currency,
		CreditedMinutes: creditedMinutes,
	}
	if err := s.notifier.PaymentConfirmed(ctx, confirmation); err != nil {
		// Best-effort: a stuck notifier must never affect the accounting.
		log.Warn("failed to dispatch payment confirmation", zap.Error(err))
	}

	if firstPaid {
		s.metrics.RecordWebhookEvent(webhookOutcomeProcessed)
	} else {
		s.metrics.RecordWebhookEvent(webhookOutcomeReplayed)
	}
	return nil
}

// buildItem derives the single line item. Its id is a deterministic
// function of the order id so a replayed delivery updates the same row.
func (s *PaymentService) buildItem(order *models.Order, event dto.PaymentEvent) *models.OrderItem {
	return &models.OrderItem{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(order.ID+"/item")).String(),
		OrderID:      order.ID,
		ProductType:  event.Metadata.ProductType,
		Quantity:     event.Metadata.QuantityOrDefault(),
		HoursPerUnit: event.Metadata.HoursPerUnitValue(),
		Amount:       event.AmountTotal,
	}
}

// bookPrebookedSession admits the student into the session selected at
// checkout. A full session or an existing booking is expected here and
// must not fail the reconciliation: the payment already succeeded, the
// operational remedy for a lost capacity race is manual.
func (s *PaymentService) bookPrebookedSession(ctx context.Context, log *zap.Logger, event dto.PaymentEvent) {
	_, err := s.bookings.Book(ctx, BookRequest{
		SessionID: event.Metadata.SessionID,
		StudentID: event.Metadata.StudentID,
	})
	if err == nil {
		return
	}

	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case appErrors.ErrDuplicateBooking.Code:
			log.Info("session already booked for student", zap.String("session_id", event.Metadata.SessionID))
			return
		case appErrors.ErrSessionFull.Code:
			log.Warn("session full during reconciliation, manual follow-up required",
				zap.String("session_id", event.Metadata.SessionID),
				zap.String("student_id", event.Metadata.StudentID),
			)
			return
		}
	}
	log.Error("failed to book session during reconciliation",
		zap.String("session_id", event.Metadata.SessionID),
		zap.Error(err),
	)
}

// creditMinutes computes and applies the purchased time. Explicit
// driving-hours metadata wins; otherwise the course's configured
// allowance applies. Runs only on the first PAID transition.
func (s *PaymentService) creditMinutes(ctx context.Context, log *zap.Logger, event dto.PaymentEvent) int {
	minutes := 0
	if event.Metadata.ProductType == dto.ProductTypeDrivingHours && event.Metadata.HoursPerUnitValue() > 0 {
		minutes = event.Metadata.HoursPerUnitValue() * event.Metadata.QuantityOrDefault() * 60
	} else {
		course, err := s.courses.FindByID(ctx, event.Metadata.CourseID)
		if err != nil {
			log.Error("failed to load course for credit allowance", zap.String("course_id", event.Metadata.CourseID), zap.Error(err))
			return 0
		}
		minutes = course.DrivingHours * 60
	}

	if minutes <= 0 {
		return 0
	}
	if err := s.credits.AddMinutes(ctx, event.Metadata.StudentID, minutes); err != nil {
		log.Error("failed to credit minutes", zap.Int("minutes", minutes), zap.Error(err))
		return 0
	}

	s.metrics.AddCreditedMinutes(minutes)
	log.Info("credited driving time", zap.String("student_id", event.Metadata.StudentID), zap.Int("minutes", minutes))
	return minutes
}
