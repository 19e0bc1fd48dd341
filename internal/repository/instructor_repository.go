package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

// InstructorRepository reads instructor profiles.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs the repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// FindByID returns an instructor by its ID.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	const query = `SELECT id, full_name, email, city, department, course_types, vehicle_type, max_students_per_week, active, created_at, updated_at
FROM instructors WHERE id = $1`
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// ListActiveByCourseType returns the candidate pool for a course type.
// Ordering is stable (created_at, id) so equal-score tie-breaking in the
// matcher is deterministic.
func (r *InstructorRepository) ListActiveByCourseType(ctx context.Context, courseType string) ([]models.Instructor, error) {
	const query = `SELECT id, full_name, email, city, department, course_types, vehicle_type, max_students_per_week, active, created_at, updated_at
FROM instructors WHERE active = TRUE AND $1 = ANY(course_types)
ORDER BY created_at ASC, id ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, courseType); err != nil {
		return nil, fmt.Errorf("list active instructors: %w", err)
	}
	return instructors, nil
}
