package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/pkg/jobs"
)

// PaymentConfirmation is the payload handed to the notification
// collaborator after a successful reconciliation.
type PaymentConfirmation struct {
	OrderID         string `json:"order_id"`
	StudentID       string `json:"student_id"`
	CourseID        string `json:"course_id"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CreditedMinutes int    `json:"credited_minutes"`
}

// Notifier requests a confirmation message for the student. Implementations
// are best-effort: the reconciler discards their failures after logging.
type Notifier interface {
	PaymentConfirmed(ctx context.Context, confirmation PaymentConfirmation) error
}

// NopNotifier discards confirmations.
type NopNotifier struct{}

// PaymentConfirmed implements Notifier.
func (NopNotifier) PaymentConfirmed(context.Context, PaymentConfirmation) error { return nil }

// JobTypePaymentConfirmation labels confirmation jobs on the queue.
const JobTypePaymentConfirmation = "payment_confirmation"

// QueueNotifier hands confirmations to the in-process jobs queue, which
// retries delivery on its own without ever blocking the reconciler.
type QueueNotifier struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewQueueNotifier constructs a queue-backed notifier.
func NewQueueNotifier(queue *jobs.Queue, logger *zap.Logger) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{queue: queue, logger: logger}
}

// PaymentConfirmed enqueues the confirmation for asynchronous dispatch.
func (n *QueueNotifier) PaymentConfirmed(_ context.Context, confirmation PaymentConfirmation) error {
	return n.queue.Enqueue(jobs.Job{
		ID:      confirmation.OrderID,
		Type:    JobTypePaymentConfirmation,
		Payload: confirmation,
	})
}
