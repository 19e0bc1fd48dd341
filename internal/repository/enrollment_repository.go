package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

// EnrollmentRepository handles persistence of course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByStudentAndCourse returns the enrollment for (student, course).
func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, status, enrolled_at FROM enrollments WHERE student_id = $1 AND course_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpsertActive guarantees an ACTIVE enrollment exists for the pair. The
// unique constraint on (student_id, course_id) makes the insert a no-op
// when the student is already enrolled, whatever its current status.
func (r *EnrollmentRepository) UpsertActive(ctx context.Context, studentID, courseID string) error {
	enrollment := &models.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseID:   courseID,
		Status:     models.EnrollmentStatusActive,
		EnrolledAt: time.Now().UTC(),
	}
	const query = `INSERT INTO enrollments (id, student_id, course_id, status, enrolled_at)
VALUES (:id, :student_id, :course_id, :status, :enrolled_at)
ON CONFLICT (student_id, course_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	return nil
}

// ListByStudent returns all enrollments of a student.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, status, enrolled_at FROM enrollments WHERE student_id = $1 ORDER BY enrolled_at DESC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}
