package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	"github.com/slformation-dryyss/slformations-sub002/internal/service"
	"github.com/slformation-dryyss/slformations-sub002/pkg/response"
)

type stubInstructorReader struct {
	roster []models.Instructor
}

func (s *stubInstructorReader) FindByID(_ context.Context, id string) (*models.Instructor, error) {
	for i := range s.roster {
		if s.roster[i].ID == id {
			cp := s.roster[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubInstructorReader) ListActiveByCourseType(_ context.Context, _ string) ([]models.Instructor, error) {
	return s.roster, nil
}

type stubAssignmentRepo struct {
	active *models.Assignment
}

func (s *stubAssignmentRepo) FindActive(_ context.Context, _, _ string) (*models.Assignment, error) {
	if s.active == nil {
		return nil, sql.ErrNoRows
	}
	cp := *s.active
	return &cp, nil
}

func (s *stubAssignmentRepo) CountActiveByInstructors(_ context.Context, _ []string) ([]models.InstructorLoad, error) {
	return nil, nil
}

func (s *stubAssignmentRepo) ReplaceActive(_ context.Context, assignment *models.Assignment) error {
	cp := *assignment
	s.active = &cp
	return nil
}

func (s *stubAssignmentRepo) ExistsActiveForInstructor(_ context.Context, _, _, _ string) (bool, error) {
	return s.active != nil, nil
}

func newAssignmentHandlerFixture(instructors *stubInstructorReader, repo *stubAssignmentRepo) *AssignmentHandler {
	assignments := service.NewAssignmentService(stubStudentReader{}, instructors, repo, nil, nil, validator.New(), zap.NewNop())
	return NewAssignmentHandler(assignments)
}

func TestAssignmentHandlerAssign(t *testing.T) {
	instructors := &stubInstructorReader{roster: []models.Instructor{
		{ID: "i1", City: "Lyon", Department: "69", MaxStudentsPerWeek: 10, Active: true},
	}}
	handler := newAssignmentHandlerFixture(instructors, &stubAssignmentRepo{})

	w := performJSON(http.MethodPost, "/assignments/assign",
		service.AssignRequest{StudentID: "s1", CourseType: "B_MANUAL"}, nil, handler.Assign)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestAssignmentHandlerAssignNoInstructor(t *testing.T) {
	handler := newAssignmentHandlerFixture(&stubInstructorReader{}, &stubAssignmentRepo{})

	w := performJSON(http.MethodPost, "/assignments/assign",
		service.AssignRequest{StudentID: "s1", CourseType: "B_MANUAL"}, nil, handler.Assign)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignmentHandlerGetActiveMissingParams(t *testing.T) {
	handler := newAssignmentHandlerFixture(&stubInstructorReader{}, &stubAssignmentRepo{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assignments/active?studentId=s1", nil)
	c.Request = req
	handler.GetActive(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerGetActiveNotFound(t *testing.T) {
	handler := newAssignmentHandlerFixture(&stubInstructorReader{}, &stubAssignmentRepo{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assignments/active?studentId=s1&courseType=B_MANUAL", nil)
	c.Request = req
	handler.GetActive(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
