package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	"github.com/noah-isme/classroom-dashboard/internal/service"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type courseworkSync interface {
	EnsureLoaded(ctx context.Context) error
	PostMaterial(ctx context.Context, classID string, req dto.MaterialRequest, uploads []service.Upload) (models.Material, error)
	CreateAssignment(ctx context.Context, classID string, req dto.AssignmentRequest, uploads []service.Upload) (models.Assignment, error)
	SubmitWork(ctx context.Context, classID, assignmentID string, req dto.SubmissionRequest, uploads []service.Upload) (models.Submission, error)
	SaveGrade(ctx context.Context, classID, assignmentID, studentID string, req dto.GradeRequest) (models.Submission, error)
}

type attachmentDecoder interface {
	Decode(att models.FileAttachment) (service.Decoded, error)
}

// CourseworkHandler serves materials, assignments, submissions and their files.
type CourseworkHandler struct {
	sync        courseworkSync
	classes     classReader
	attachments attachmentDecoder
	session     identity
}

// NewCourseworkHandler constructs the handler.
func NewCourseworkHandler(sync courseworkSync, classes classReader, attachments attachmentDecoder, session identity) *CourseworkHandler {
	return &CourseworkHandler{sync: sync, classes: classes, attachments: attachments, session: session}
}

// PostMaterial godoc
// @Summary Post a class material
// @Description Accepts JSON or multipart with any number of "files" parts.
// @Tags Coursework
// @Accept json,mpfd
// @Produce json
// @Param classId path string true "Class ID"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/materials [post]
func (h *CourseworkHandler) PostMaterial(c *gin.Context) {
	var req dto.MaterialRequest
	uploads, err := bindForm(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	material, err := h.sync.PostMaterial(detached(c), c.Param("classId"), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// CreateAssignment godoc
// @Summary Create an assignment
// @Description Points default to 100 when missing or not a number.
// @Tags Coursework
// @Accept json,mpfd
// @Produce json
// @Param classId path string true "Class ID"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/assignments [post]
func (h *CourseworkHandler) CreateAssignment(c *gin.Context) {
	var req dto.AssignmentRequest
	uploads, err := bindForm(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignment, err := h.sync.CreateAssignment(detached(c), c.Param("classId"), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Submissions godoc
// @Summary List submissions of an assignment
// @Tags Coursework
// @Produce json
// @Param classId path string true "Class ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/assignments/{assignmentId}/submissions [get]
func (h *CourseworkHandler) Submissions(c *gin.Context) {
	class, ok := h.class(c)
	if !ok {
		return
	}
	list, err := service.ListSubmissions(class, c.Param("assignmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Submit godoc
// @Summary Submit work for an assignment
// @Description A second submission replaces the first.
// @Tags Coursework
// @Accept json,mpfd
// @Produce json
// @Param classId path string true "Class ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/assignments/{assignmentId}/submissions [post]
func (h *CourseworkHandler) Submit(c *gin.Context) {
	var req dto.SubmissionRequest
	uploads, err := bindForm(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	submission, err := h.sync.SubmitWork(detached(c), c.Param("classId"), c.Param("assignmentId"), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// Grade godoc
// @Summary Grade a submission
// @Tags Coursework
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param assignmentId path string true "Assignment ID"
// @Param studentId path string true "Student ID"
// @Param payload body dto.GradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/assignments/{assignmentId}/submissions/{studentId} [put]
func (h *CourseworkHandler) Grade(c *gin.Context) {
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	submission, err := h.sync.SaveGrade(detached(c), c.Param("classId"), c.Param("assignmentId"), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, submission)
}

// MaterialFile godoc
// @Summary Download a material attachment
// @Tags Coursework
// @Produce octet-stream
// @Param classId path string true "Class ID"
// @Param materialId path string true "Material ID"
// @Param index path int true "Attachment index"
// @Success 200
// @Router /classes/{classId}/materials/{materialId}/files/{index} [get]
func (h *CourseworkHandler) MaterialFile(c *gin.Context) {
	h.serveFile(c, func(class *models.ClassRoom) ([]models.FileAttachment, error) {
		idx := class.FindMaterial(c.Param("materialId"))
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return class.Materials[idx].Files, nil
	})
}

// AssignmentFile godoc
// @Summary Download an assignment attachment
// @Tags Coursework
// @Produce octet-stream
// @Param classId path string true "Class ID"
// @Param assignmentId path string true "Assignment ID"
// @Param index path int true "Attachment index"
// @Success 200
// @Router /classes/{classId}/assignments/{assignmentId}/files/{index} [get]
func (h *CourseworkHandler) AssignmentFile(c *gin.Context) {
	h.serveFile(c, func(class *models.ClassRoom) ([]models.FileAttachment, error) {
		idx := class.FindAssignment(c.Param("assignmentId"))
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return class.Assignments[idx].Files, nil
	})
}

// SubmissionFile godoc
// @Summary Download a submission attachment
// @Tags Coursework
// @Produce octet-stream
// @Param classId path string true "Class ID"
// @Param assignmentId path string true "Assignment ID"
// @Param studentId path string true "Student ID"
// @Param index path int true "Attachment index"
// @Success 200
// @Description Students may only download their own submission files.
// @Router /classes/{classId}/assignments/{assignmentId}/submissions/{studentId}/files/{index} [get]
func (h *CourseworkHandler) SubmissionFile(c *gin.Context) {
	if !h.ownsSubmission(c) {
		return
	}
	h.serveFile(c, func(class *models.ClassRoom) ([]models.FileAttachment, error) {
		ai := class.FindAssignment(c.Param("assignmentId"))
		if ai < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		assignment := &class.Assignments[ai]
		si := assignment.SubmissionFor(c.Param("studentId"))
		if si < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Submission not found.")
		}
		return assignment.Submissions[si].Files, nil
	})
}

func (h *CourseworkHandler) serveFile(c *gin.Context, files func(*models.ClassRoom) ([]models.FileAttachment, error)) {
	idx, err := indexParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	class, ok := h.class(c)
	if !ok {
		return
	}
	list, err := files(&class)
	if err != nil {
		response.Error(c, err)
		return
	}
	if idx >= len(list) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "attachment not found"))
		return
	}
	decoded, err := h.attachments.Decode(list[idx])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, decoded.Name, decoded.ContentType, decoded.Data)
}

func (h *CourseworkHandler) class(c *gin.Context) (models.ClassRoom, bool) {
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

// ownsSubmission lets professors through and holds students to their own id.
func (h *CourseworkHandler) ownsSubmission(c *gin.Context) bool {
	if h.session == nil || h.session.Role() != models.RoleStudent {
		return true
	}
	studentID, err := h.session.StudentID(detached(c))
	if err != nil {
		response.Error(c, err)
		return false
	}
	if c.Param("studentId") != studentID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "You can only download your own submission files."))
		return false
	}
	return true
}
