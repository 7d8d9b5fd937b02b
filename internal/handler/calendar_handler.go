package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type calendarService interface {
	Month() dto.CalendarMonth
	Prev() dto.CalendarMonth
	Next() dto.CalendarMonth
	DayEvents(date string) (dto.DayEvents, error)
	AddNote(date, text string) (dto.DayEvents, error)
}

// CalendarHandler serves the month grid and day events.
type CalendarHandler struct {
	service calendarService
	loader  snapshotLoader
}

// NewCalendarHandler constructs the handler. A non-nil loader makes sure
// deadline events are built from a loaded snapshot.
func NewCalendarHandler(service calendarService, loader snapshotLoader) *CalendarHandler {
	return &CalendarHandler{service: service, loader: loader}
}

func (h *CalendarHandler) ensureLoaded(c *gin.Context) bool {
	if h.loader == nil {
		return true
	}
	if err := h.loader.EnsureLoaded(detached(c)); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

// Month godoc
// @Summary Current month grid
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	response.OK(c, h.service.Month())
}

// Prev godoc
// @Summary Move to the previous month
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/prev [post]
func (h *CalendarHandler) Prev(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	response.OK(c, h.service.Prev())
}

// Next godoc
// @Summary Move to the next month
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/next [post]
func (h *CalendarHandler) Next(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	response.OK(c, h.service.Next())
}

// Day godoc
// @Summary Events of one day
// @Tags Calendar
// @Produce json
// @Param dateKey path string true "Date key (Y-M-D, month not zero padded) or YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /calendar/days/{dateKey} [get]
func (h *CalendarHandler) Day(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	events, err := h.service.DayEvents(c.Param("dateKey"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, events)
}

// AddNote godoc
// @Summary Add a professor note to a day
// @Description Notes live in memory only.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.NoteRequest true "Note"
// @Success 201 {object} response.Envelope
// @Router /calendar/notes [post]
func (h *CalendarHandler) AddNote(c *gin.Context) {
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Error: No date selected."))
		return
	}
	events, err := h.service.AddNote(req.Date, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, events)
}
