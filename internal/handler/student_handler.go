package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slformation-dryyss/slformations-sub002/internal/service"
	"github.com/slformation-dryyss/slformations-sub002/pkg/response"
)

// StudentHandler exposes read-side student account endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// GetCredit godoc
// @Summary Get a student's driving-time credit balance
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/credit [get]
func (h *StudentHandler) GetCredit(c *gin.Context) {
	balance, err := h.students.GetCredit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balance, nil)
}

// ListEnrollments godoc
// @Summary List a student's course enrollments
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/enrollments [get]
func (h *StudentHandler) ListEnrollments(c *gin.Context) {
	enrollments, err := h.students.ListEnrollments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}
