package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

type creditReader interface {
	Get(ctx context.Context, studentID string) (*models.CreditBalance, error)
}

type enrollmentLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

// StudentService serves read-side views of a student's account.
type StudentService struct {
	students    studentReader
	credits     creditReader
	enrollments enrollmentLister
	logger      *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(students studentReader, credits creditReader, enrollments enrollmentLister, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, credits: credits, enrollments: enrollments, logger: logger}
}

// GetCredit returns the student's driving-time balance in minutes. A
// student who never received a credit has a zero balance, not an error.
func (s *StudentService) GetCredit(ctx context.Context, studentID string) (*models.CreditBalance, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	balance, err := s.credits.Get(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load credit balance")
	}
	return balance, nil
}

// ListEnrollments returns the student's course enrollments.
func (s *StudentService) ListEnrollments(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}
