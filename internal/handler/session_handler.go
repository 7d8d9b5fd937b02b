package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type viewController interface {
	State() dto.ViewState
	ShowSection(section string) (dto.ViewState, error)
	Back() dto.ViewState
	SelectTab(tab string) (dto.ViewState, error)
	ToggleSidebar() dto.ViewState
	OpenModal(name string, fields map[string]string) (dto.ViewState, error)
	UpdateForm(name string, fields map[string]string) (dto.ViewState, error)
	CloseModal(name string) (dto.ViewState, error)
}

// SessionHandler exposes the navigation state machine.
type SessionHandler struct {
	view viewController
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(view viewController) *SessionHandler {
	return &SessionHandler{view: view}
}

// State godoc
// @Summary Current view state
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) State(c *gin.Context) {
	response.OK(c, h.view.State())
}

// ShowSection godoc
// @Summary Switch the visible section
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SectionRequest true "Section"
// @Success 200 {object} response.Envelope
// @Router /session/section [post]
func (h *SessionHandler) ShowSection(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "section is required"))
		return
	}
	state, err := h.view.ShowSection(req.Section)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

// Back godoc
// @Summary Leave the class view
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/back [post]
func (h *SessionHandler) Back(c *gin.Context) {
	response.OK(c, h.view.Back())
}

// SelectTab godoc
// @Summary Switch the class tab
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.TabRequest true "Tab"
// @Success 200 {object} response.Envelope
// @Router /session/tab [post]
func (h *SessionHandler) SelectTab(c *gin.Context) {
	var req dto.TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "tab is required"))
		return
	}
	state, err := h.view.SelectTab(req.Tab)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

// ToggleSidebar godoc
// @Summary Collapse or expand the sidebar
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/sidebar [post]
func (h *SessionHandler) ToggleSidebar(c *gin.Context) {
	response.OK(c, h.view.ToggleSidebar())
}

// OpenModal godoc
// @Summary Open a modal
// @Tags Session
// @Accept json
// @Produce json
// @Param modal path string true "Modal"
// @Param payload body dto.FormFieldsRequest false "Initial form values"
// @Success 200 {object} response.Envelope
// @Router /session/modals/{modal}/open [post]
func (h *SessionHandler) OpenModal(c *gin.Context) {
	var req dto.FormFieldsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid form fields"))
			return
		}
	}
	state, err := h.view.OpenModal(c.Param("modal"), req.Fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

// UpdateForm godoc
// @Summary Save in-progress form values of an open modal
// @Tags Session
// @Accept json
// @Produce json
// @Param modal path string true "Modal"
// @Param payload body dto.FormFieldsRequest true "Form values"
// @Success 200 {object} response.Envelope
// @Router /session/modals/{modal}/form [patch]
func (h *SessionHandler) UpdateForm(c *gin.Context) {
	var req dto.FormFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid form fields"))
		return
	}
	state, err := h.view.UpdateForm(c.Param("modal"), req.Fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

// CloseModal godoc
// @Summary Close a modal and reset its form
// @Tags Session
// @Produce json
// @Param modal path string true "Modal"
// @Success 200 {object} response.Envelope
// @Router /session/modals/{modal}/close [post]
func (h *SessionHandler) CloseModal(c *gin.Context) {
	state, err := h.view.CloseModal(c.Param("modal"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}
