package handlers

import (
	"net/http"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch dashboard")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetPending(c *gin.Context) {
	pending, err := h.service.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch pending arrivals")
		return
	}
	c.JSON(http.StatusOK, pending)
}

func (h *DashboardHandler) GetVas(c *gin.Context) {
	vas, err := h.service.Vas(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch vas summary")
		return
	}
	c.JSON(http.StatusOK, vas)
}

// GetReconciled returns every arrival with its computed quantities.
func (h *DashboardHandler) GetReconciled(c *gin.Context) {
	views, err := h.service.Reconciled(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch reconciled arrivals")
		return
	}
	c.JSON(http.StatusOK, views)
}
