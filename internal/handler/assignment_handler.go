package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slformation-dryyss/slformations-sub002/internal/service"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
	"github.com/slformation-dryyss/slformations-sub002/pkg/response"
)

// AssignmentHandler exposes instructor assignment endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Assign godoc
// @Summary Assign the best available instructor to a student
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/assign [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req service.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.assignments.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Change godoc
// @Summary Manually change a student's instructor
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.ChangeInstructorRequest true "Change payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/change [post]
func (h *AssignmentHandler) Change(c *gin.Context) {
	var req service.ChangeInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.ChangeInstructor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// GetActive godoc
// @Summary Get the active assignment for a student and course type
// @Tags Assignments
// @Produce json
// @Param studentId query string true "Student ID"
// @Param courseType query string true "Course type"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/active [get]
func (h *AssignmentHandler) GetActive(c *gin.Context) {
	studentID := c.Query("studentId")
	courseType := c.Query("courseType")
	if studentID == "" || courseType == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId and courseType are required"))
		return
	}
	assignment, err := h.assignments.GetActive(c.Request.Context(), studentID, courseType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}
