package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/internal/service"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type classSync interface {
	EnsureLoaded(ctx context.Context) error
	LoadClasses(ctx context.Context) ([]models.ClassRoom, error)
	CreateClass(ctx context.Context, req dto.CreateClassRequest) (models.ClassRoom, error)
	DeleteClass(ctx context.Context, classID string) error
}

type classReader interface {
	Classes() []models.ClassRoom
	Class(id string) (models.ClassRoom, error)
}

type classOpener interface {
	OpenClass(classID string) dto.OpenClassResult
}

type identity interface {
	Role() models.Role
	StudentID(ctx context.Context) (string, error)
}

// ClassHandler serves the class list, the class view and its tabs.
type ClassHandler struct {
	sync    classSync
	classes classReader
	view    classOpener
	session identity
	now     func() time.Time
}

// NewClassHandler constructs the handler.
func NewClassHandler(sync classSync, classes classReader, view classOpener, session identity) *ClassHandler {
	return &ClassHandler{sync: sync, classes: classes, view: view, session: session, now: time.Now}
}

// List godoc
// @Summary List classes
// @Description Professors see classes they teach, students the classes they are enrolled in.
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	if err := h.sync.EnsureLoaded(detached(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.classes.Classes())
}

// Reload godoc
// @Summary Reload classes from upstream
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes/reload [post]
func (h *ClassHandler) Reload(c *gin.Context) {
	classes, err := h.sync.LoadClasses(detached(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// Create godoc
// @Summary Create a class
// @Description An empty code is answered with a validation error carrying a freshly generated code.
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "Class"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	class, err := h.sync.CreateClass(detached(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Delete godoc
// @Summary Delete a class
// @Tags Classes
// @Param classId path string true "Class ID"
// @Success 204
// @Router /classes/{classId} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.sync.DeleteClass(detached(c), c.Param("classId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Open godoc
// @Summary Open the class view
// @Description Returns the view state, the class and every tab the client must reload.
// @Tags Classes
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/open [post]
func (h *ClassHandler) Open(c *gin.Context) {
	class, ok := h.class(c)
	if !ok {
		return
	}
	result := h.view.OpenClass(class.ID)
	result.Class = &class
	response.OK(c, result)
}

// Get godoc
// @Summary Class detail
// @Tags Classes
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, ok := h.class(c)
	if !ok {
		return
	}
	response.OK(c, class)
}

// Posts godoc
// @Summary Class materials, newest first
// @Tags Classes
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/posts [get]
func (h *ClassHandler) Posts(c *gin.Context) {
	class, ok := h.class(c)
	if !ok {
		return
	}
	response.OK(c, service.SortMaterials(class.Materials))
}

// Students godoc
// @Summary Class roster with assignment counts and averages
// @Tags Classes
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/students [get]
func (h *ClassHandler) Students(c *gin.Context) {
	class, ok := h.class(c)
	if !ok {
		return
	}
	service.BuildGradebook(&class)
	response.OK(c, class.Students)
}

// Assignments godoc
// @Summary Class assignments, soonest due first
// @Description Students also get their status on each assignment.
// @Tags Classes
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/assignments [get]
func (h *ClassHandler) Assignments(c *gin.Context) {
	class, ok := h.class(c)
	if !ok {
		return
	}
	if h.session.Role() == models.RoleProfessor {
		response.OK(c, service.SortAssignments(class.Assignments))
		return
	}
	studentID, err := h.session.StudentID(detached(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := service.FilterAssignments([]models.ClassRoom{class}, studentID, dto.FilterAll, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Grades godoc
// @Summary Class grades
// @Description Professors get the gradebook table, students their own grades.
// @Tags Classes
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/grades [get]
func (h *ClassHandler) Grades(c *gin.Context) {
	class, ok := h.class(c)
	if !ok {
		return
	}
	if h.session.Role() == models.RoleProfessor {
		response.OK(c, service.BuildGradebook(&class))
		return
	}
	studentID, err := h.session.StudentID(detached(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, service.StudentClassGrades(class, studentID, h.now()))
}

func (h *ClassHandler) class(c *gin.Context) (models.ClassRoom, bool) {
	if err := h.sync.EnsureLoaded(detached(c)); err != nil {
		response.Error(c, err)
		return models.ClassRoom{}, false
	}
	class, err := h.classes.Class(c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return models.ClassRoom{}, false
	}
	return class, true
}

