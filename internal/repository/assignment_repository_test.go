package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

func TestAssignmentRepositoryReplaceActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE assignments SET is_active = FALSE").
		WithArgs("s1", "B_MANUAL", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assignment := &models.Assignment{
		StudentID:    "s1",
		InstructorID: "i1",
		CourseType:   "B_MANUAL",
		Reason:       models.AssignmentReasonAuto,
	}
	require.NoError(t, repo.ReplaceActive(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.True(t, assignment.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "instructor_id", "course_type", "reason", "comment", "is_active", "created_at", "end_date"}).
		AddRow("a1", "s1", "i1", "B_MANUAL", string(models.AssignmentReasonAuto), nil, true, time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments WHERE student_id = $1 AND course_type = $2 AND is_active = TRUE")).
		WithArgs("s1", "B_MANUAL").
		WillReturnRows(rows)

	assignment, err := repo.FindActive(context.Background(), "s1", "B_MANUAL")
	require.NoError(t, err)
	assert.Equal(t, "i1", assignment.InstructorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCountActiveByInstructors(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"instructor_id", "active_count"}).
		AddRow("i1", 4).
		AddRow("i2", 1)
	mock.ExpectQuery(regexp.QuoteMeta("instructor_id IN ($1,$2)")).
		WithArgs("i1", "i2").
		WillReturnRows(rows)

	loads, err := repo.CountActiveByInstructors(context.Background(), []string{"i1", "i2"})
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, 4, loads[0].ActiveCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCountActiveEmptyInput(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	loads, err := repo.CountActiveByInstructors(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, loads)
}

func TestAssignmentRepositoryExistsActiveForInstructor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM assignments WHERE student_id = $1 AND instructor_id = $2 AND course_type = $3 AND is_active = TRUE LIMIT 1")).
		WithArgs("s1", "i1", "B_MANUAL").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsActiveForInstructor(context.Background(), "s1", "i1", "B_MANUAL")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM assignments WHERE student_id = $1 AND instructor_id = $2 AND course_type = $3 AND is_active = TRUE LIMIT 1")).
		WithArgs("s1", "i9", "B_MANUAL").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsActiveForInstructor(context.Background(), "s1", "i9", "B_MANUAL")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
