package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/service"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type exportService interface {
	Roster(classID string) (service.Artifact, error)
	Grades(classID, format string) (service.Artifact, error)
	Publish(ctx context.Context, classID, kind, format string) (dto.ExportLink, error)
	Open(token string) (service.Artifact, error)
}

// ExportHandler serves roster and gradebook downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Roster godoc
// @Summary Download the class roster as CSV
// @Tags Export
// @Produce text/csv
// @Param classId path string true "Class ID"
// @Success 200
// @Router /classes/{classId}/export/roster [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	artifact, err := h.service.Roster(c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, artifact.Filename, artifact.ContentType, artifact.Body)
}

// Grades godoc
// @Summary Download the gradebook
// @Tags Export
// @Produce text/csv,application/pdf
// @Param classId path string true "Class ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200
// @Router /classes/{classId}/export/grades [get]
func (h *ExportHandler) Grades(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", service.FormatCSV)))
	artifact, err := h.service.Grades(c.Param("classId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, artifact.Filename, artifact.ContentType, artifact.Body)
}

// Publish godoc
// @Summary Store an export and return a signed download link
// @Tags Export
// @Produce json
// @Param classId path string true "Class ID"
// @Param kind query string false "roster or grades (default)"
// @Param format query string false "csv (default) or pdf"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/exports [post]
func (h *ExportHandler) Publish(c *gin.Context) {
	kind := strings.ToLower(strings.TrimSpace(c.DefaultQuery("kind", service.ExportGrades)))
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", service.FormatCSV)))
	link, err := h.service.Publish(detached(c), c.Param("classId"), kind, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// Download godoc
// @Summary Download a stored export by signed token
// @Tags Export
// @Produce octet-stream
// @Param token path string true "Download token"
// @Success 200
// @Failure 410 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	artifact, err := h.service.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, artifact.Filename, artifact.ContentType, artifact.Body)
}
