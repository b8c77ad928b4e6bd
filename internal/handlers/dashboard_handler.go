package handlers

import (
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the dashboard metrics and student status views
type DashboardHandler struct {
	views *Views
	resp  Responder
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(views *Views, resp Responder) *DashboardHandler {
	return &DashboardHandler{views: views, resp: resp}
}

func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	respondState(c, h.resp, h.views.Metrics.Fetch(c.Request.Context(), noFilter{}))
}

func (h *DashboardHandler) GetStudentStatus(c *gin.Context) {
	respondState(c, h.resp, h.views.StatusSummary.Fetch(c.Request.Context(), noFilter{}))
}
