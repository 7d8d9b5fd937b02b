package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/middleware"
	"github.com/noah-isme/classroom-dashboard/pkg/response"
)

type dashboardService interface {
	Dashboard(ctx context.Context) (dto.Dashboard, error)
}

type snapshotLoader interface {
	EnsureLoaded(ctx context.Context) error
}

// DashboardHandler wires the dashboard service to HTTP.
type DashboardHandler struct {
	service dashboardService
	loader  snapshotLoader
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, loader snapshotLoader) *DashboardHandler {
	return &DashboardHandler{service: service, loader: loader}
}

// Dashboard godoc
// @Summary Dashboard cards, deadlines and recent activity
// @Description meta.stats_source tells whether stats came from upstream, cache or the local snapshot.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	ctx := detached(c)
	if h.loader != nil {
		if err := h.loader.EnsureLoaded(ctx); err != nil {
			response.Error(c, err)
			return
		}
	}
	out, err := h.service.Dashboard(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, out.StatsSource == dto.StatsSourceCache)
	middleware.SetMeta(c, "stats_source", out.StatsSource)
	response.OK(c, out, middleware.ExtractMeta(c))
}
