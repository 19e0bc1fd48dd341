package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

type mockStudentReader struct {
	items map[string]*models.Student
}

func (m *mockStudentReader) FindByID(_ context.Context, id string) (*models.Student, error) {
	if student, ok := m.items[id]; ok {
		cp := *student
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockInstructorReader struct {
	items  map[string]*models.Instructor
	roster []models.Instructor
}

func (m *mockInstructorReader) FindByID(_ context.Context, id string) (*models.Instructor, error) {
	if instructor, ok := m.items[id]; ok {
		cp := *instructor
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInstructorReader) ListActiveByCourseType(_ context.Context, _ string) ([]models.Instructor, error) {
	return m.roster, nil
}

type mockAssignmentRepo struct {
	active   *models.Assignment
	loads    map[string]int
	replaced []*models.Assignment
	exists   bool
}

func (m *mockAssignmentRepo) FindActive(_ context.Context, _, _ string) (*models.Assignment, error) {
	if m.active == nil {
		return nil, sql.ErrNoRows
	}
	cp := *m.active
	return &cp, nil
}

func (m *mockAssignmentRepo) CountActiveByInstructors(_ context.Context, ids []string) ([]models.InstructorLoad, error) {
	loads := make([]models.InstructorLoad, 0, len(ids))
	for _, id := range ids {
		if count, ok := m.loads[id]; ok {
			loads = append(loads, models.InstructorLoad{InstructorID: id, ActiveCount: count})
		}
	}
	return loads, nil
}

func (m *mockAssignmentRepo) ReplaceActive(_ context.Context, assignment *models.Assignment) error {
	cp := *assignment
	m.replaced = append(m.replaced, &cp)
	m.active = &cp
	return nil
}

func (m *mockAssignmentRepo) ExistsActiveForInstructor(_ context.Context, _, _, _ string) (bool, error) {
	return m.exists, nil
}

func newAssignmentService(students *mockStudentReader, instructors *mockInstructorReader, assignments *mockAssignmentRepo) *AssignmentService {
	return NewAssignmentService(students, instructors, assignments, nil, nil, validator.New(), zap.NewNop())
}

func TestAssignPicksHighestScore(t *testing.T) {
	students := &mockStudentReader{items: map[string]*models.Student{
		"s1": {ID: "s1", City: "Lyon", PostalCode: "69003"},
	}}
	instructors := &mockInstructorReader{roster: []models.Instructor{
		{ID: "far", City: "Paris", Department: "75", MaxStudentsPerWeek: 10, Active: true},
		{ID: "near", City: "Lyon", Department: "69", MaxStudentsPerWeek: 10, Active: true},
	}}
	assignments := &mockAssignmentRepo{loads: map[string]int{}}
	svc := newAssignmentService(students, instructors, assignments)

	result, err := svc.Assign(context.Background(), AssignRequest{StudentID: "s1", CourseType: "B_MANUAL"})
	require.NoError(t, err)
	assert.Equal(t, "near", result.Assignment.InstructorID)
	assert.Equal(t, 130, result.Score)
	assert.Equal(t, models.AssignmentReasonAuto, result.Assignment.Reason)
	require.Len(t, assignments.replaced, 1)
}

func TestAssignTieBreaksOnFirstSeen(t *testing.T) {
	students := &mockStudentReader{items: map[string]*models.Student{
		"s1": {ID: "s1", City: "Lyon", PostalCode: "69003"},
	}}
	// Identical profiles, identical scores. The first roster entry wins.
	instructors := &mockInstructorReader{roster: []models.Instructor{
		{ID: "first", City: "Lyon", Department: "69", MaxStudentsPerWeek: 10, Active: true},
		{ID: "second", City: "Lyon", Department: "69", MaxStudentsPerWeek: 10, Active: true},
	}}
	assignments := &mockAssignmentRepo{loads: map[string]int{}}
	svc := newAssignmentService(students, instructors, assignments)

	for i := 0; i < 5; i++ {
		result, err := svc.Assign(context.Background(), AssignRequest{StudentID: "s1", CourseType: "B_MANUAL"})
		require.NoError(t, err)
		assert.Equal(t, "first", result.Assignment.InstructorID)
	}
}

func TestAssignWorkloadShiftsChoice(t *testing.T) {
	students := &mockStudentReader{items: map[string]*models.Student{
		"s1": {ID: "s1", City: "Lyon", PostalCode: "69003"},
	}}
	instructors := &mockInstructorReader{roster: []models.Instructor{
		{ID: "busy", City: "Lyon", Department: "69", MaxStudentsPerWeek: 10, Active: true},
		{ID: "free", City: "Villeurbanne", Department: "69", MaxStudentsPerWeek: 10, Active: true},
	}}
	// Both match on department only. busy is at capacity (50 + 0),
	// free has a full workload bonus (50 + 30).
	students.items["s2"] = &models.Student{ID: "s2", City: "Givors", PostalCode: "69700"}
	assignments := &mockAssignmentRepo{loads: map[string]int{"busy": 10}}
	svc := newAssignmentService(students, instructors, assignments)

	result, err := svc.Assign(context.Background(), AssignRequest{StudentID: "s2", CourseType: "B_MANUAL"})
	require.NoError(t, err)
	// busy: 50 + 0 = 50. free: 50 + 30 = 80.
	assert.Equal(t, "free", result.Assignment.InstructorID)
	assert.Equal(t, 80, result.Score)
}

func TestAssignNoCandidates(t *testing.T) {
	students := &mockStudentReader{items: map[string]*models.Student{"s1": {ID: "s1"}}}
	instructors := &mockInstructorReader{}
	svc := newAssignmentService(students, instructors, &mockAssignmentRepo{})

	_, err := svc.Assign(context.Background(), AssignRequest{StudentID: "s1", CourseType: "B_MANUAL"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNoInstructorAvailable.Code, appErr.Code)
}

func TestAssignStudentNotFound(t *testing.T) {
	svc := newAssignmentService(&mockStudentReader{}, &mockInstructorReader{}, &mockAssignmentRepo{})

	_, err := svc.Assign(context.Background(), AssignRequest{StudentID: "missing", CourseType: "B_MANUAL"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestChangeInstructor(t *testing.T) {
	students := &mockStudentReader{items: map[string]*models.Student{"s1": {ID: "s1"}}}
	instructors := &mockInstructorReader{items: map[string]*models.Instructor{
		"i2": {ID: "i2", Active: true, CourseTypes: []string{"B_MANUAL"}},
	}}
	assignments := &mockAssignmentRepo{exists: true}
	svc := newAssignmentService(students, instructors, assignments)

	assignment, err := svc.ChangeInstructor(context.Background(), ChangeInstructorRequest{
		StudentID:        "s1",
		FromInstructorID: "i1",
		ToInstructorID:   "i2",
		CourseType:       "B_MANUAL",
		Comment:          "student request",
	})
	require.NoError(t, err)
	assert.Equal(t, "i2", assignment.InstructorID)
	assert.Equal(t, models.AssignmentReasonManual, assignment.Reason)
	require.NotNil(t, assignment.Comment)
	assert.Equal(t, "student request", *assignment.Comment)
}

func TestChangeInstructorNotCurrentlyAssigned(t *testing.T) {
	students := &mockStudentReader{items: map[string]*models.Student{"s1": {ID: "s1"}}}
	instructors := &mockInstructorReader{items: map[string]*models.Instructor{
		"i2": {ID: "i2", Active: true, CourseTypes: []string{"B_MANUAL"}},
	}}
	svc := newAssignmentService(students, instructors, &mockAssignmentRepo{exists: false})

	_, err := svc.ChangeInstructor(context.Background(), ChangeInstructorRequest{
		StudentID:        "s1",
		FromInstructorID: "i1",
		ToInstructorID:   "i2",
		CourseType:       "B_MANUAL",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestChangeInstructorInactiveTarget(t *testing.T) {
	students := &mockStudentReader{items: map[string]*models.Student{"s1": {ID: "s1"}}}
	instructors := &mockInstructorReader{items: map[string]*models.Instructor{
		"i2": {ID: "i2", Active: false, CourseTypes: []string{"B_MANUAL"}},
	}}
	svc := newAssignmentService(students, instructors, &mockAssignmentRepo{exists: true})

	_, err := svc.ChangeInstructor(context.Background(), ChangeInstructorRequest{
		StudentID:        "s1",
		FromInstructorID: "i1",
		ToInstructorID:   "i2",
		CourseType:       "B_MANUAL",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGetActiveNotFound(t *testing.T) {
	svc := newAssignmentService(&mockStudentReader{}, &mockInstructorReader{}, &mockAssignmentRepo{})

	_, err := svc.GetActive(context.Background(), "s1", "B_MANUAL")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
