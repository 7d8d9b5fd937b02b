package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/internal/service"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type enrollmentSync interface {
	EnsureLoaded(ctx context.Context) error
	JoinClass(ctx context.Context, req dto.JoinClassRequest) (service.JoinOutcome, error)
	Unenroll(ctx context.Context, classID string) ([]models.ClassRoom, error)
}

// EnrollmentHandler serves the student's enrollment actions and cross-class lists.
type EnrollmentHandler struct {
	sync    enrollmentSync
	classes classReader
	session identity
	now     func() time.Time
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(sync enrollmentSync, classes classReader, session identity) *EnrollmentHandler {
	return &EnrollmentHandler{sync: sync, classes: classes, session: session, now: time.Now}
}

// Join godoc
// @Summary Join a class by code
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.JoinClassRequest true "Class code"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Join(c *gin.Context) {
	var req dto.JoinClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Please enter a class code"))
		return
	}
	out, err := h.sync.JoinClass(detached(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Unenroll godoc
// @Summary Leave a class
// @Tags Enrollment
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{classId} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	classes, err := h.sync.Unenroll(detached(c), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// Assignments godoc
// @Summary Assignments across enrolled classes
// @Tags Enrollment
// @Produce json
// @Param filter query string false "all, pending, submitted, graded or overdue"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *EnrollmentHandler) Assignments(c *gin.Context) {
	studentID, ok := h.prepare(c)
	if !ok {
		return
	}
	filter := strings.TrimSpace(c.DefaultQuery("filter", dto.FilterAll))
	items, err := service.FilterAssignments(h.classes.Classes(), studentID, filter, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"filter": filter, "count": len(items)})
}

// Grades godoc
// @Summary Grade overview across enrolled classes
// @Tags Enrollment
// @Produce json
// @Param classId query string false "Restrict to one class"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *EnrollmentHandler) Grades(c *gin.Context) {
	studentID, ok := h.prepare(c)
	if !ok {
		return
	}
	classFilter := strings.TrimSpace(c.Query("classId"))
	response.OK(c, service.StudentGradeOverview(h.classes.Classes(), studentID, classFilter, h.now()))
}

func (h *EnrollmentHandler) prepare(c *gin.Context) (string, bool) {
	ctx := detached(c)
	if err := h.sync.EnsureLoaded(ctx); err != nil {
		response.Error(c, err)
		return "", false
	}
	studentID, err := h.session.StudentID(ctx)
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return studentID, true
}
