package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

// AssignmentRepository persists student-instructor assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindActive returns the active assignment for (student, course type), or
// sql.ErrNoRows when none exists.
func (r *AssignmentRepository) FindActive(ctx context.Context, studentID, courseType string) (*models.Assignment, error) {
	const query = `SELECT id, student_id, instructor_id, course_type, reason, comment, is_active, created_at, end_date
FROM assignments WHERE student_id = $1 AND course_type = $2 AND is_active = TRUE`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, studentID, courseType); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CountActiveByInstructors returns active assignment counts for the given
// instructors. Instructors with no active assignments are absent from the
// result, the caller treats them as zero.
func (r *AssignmentRepository) CountActiveByInstructors(ctx context.Context, instructorIDs []string) ([]models.InstructorLoad, error) {
	if len(instructorIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(instructorIDs))
	args := make([]interface{}, len(instructorIDs))
	for i, id := range instructorIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT instructor_id, COUNT(*) AS active_count
FROM assignments WHERE is_active = TRUE AND instructor_id IN (%s)
GROUP BY instructor_id`, strings.Join(placeholders, ","))
	var loads []models.InstructorLoad
	if err := r.db.SelectContext(ctx, &loads, query, args...); err != nil {
		return nil, fmt.Errorf("count active assignments: %w", err)
	}
	return loads, nil
}

// ReplaceActive deactivates any active assignment for the same
// (student, course type) and inserts the new one as a single transaction,
// so a reader never observes two simultaneously active rows. A partial
// unique index on (student_id, course_type) WHERE is_active backs this up
// if two replacements race.
func (r *AssignmentRepository) ReplaceActive(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.IsActive = true

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const deactivate = `UPDATE assignments SET is_active = FALSE, end_date = $3
WHERE student_id = $1 AND course_type = $2 AND is_active = TRUE`
	if _, err := tx.ExecContext(ctx, deactivate, assignment.StudentID, assignment.CourseType, now); err != nil {
		return fmt.Errorf("deactivate prior assignment: %w", err)
	}

	const insert = `INSERT INTO assignments (id, student_id, instructor_id, course_type, reason, comment, is_active, created_at)
VALUES (:id, :student_id, :instructor_id, :course_type, :reason, :comment, :is_active, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insert, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignment: %w", err)
	}
	return nil
}

// ExistsActiveForInstructor checks that the student's active assignment for
// the course type points at the given instructor.
func (r *AssignmentRepository) ExistsActiveForInstructor(ctx context.Context, studentID, instructorID, courseType string) (bool, error) {
	const query = `SELECT 1 FROM assignments WHERE student_id = $1 AND instructor_id = $2 AND course_type = $3 AND is_active = TRUE LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, instructorID, courseType); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active assignment: %w", err)
	}
	return true, nil
}
