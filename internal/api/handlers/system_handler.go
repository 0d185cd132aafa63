package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StoreStatus reports and re-checks which store backend serves requests.
type StoreStatus interface {
	Online() bool
	Backend() string
	Probe(ctx context.Context) bool
}

type SystemHandler struct {
	status StoreStatus
	now    func() time.Time
}

func NewSystemHandler(status StoreStatus) *SystemHandler {
	return &SystemHandler{status: status, now: time.Now}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": h.now().UTC()})
}

// Status answers HEAD with 200 while the remote store is online and 503
// otherwise, so it can be used as a reachability check.
func (h *SystemHandler) Status(c *gin.Context) {
	online := h.status.Online()
	if c.Request.Method == http.MethodHead {
		if online {
			c.Status(http.StatusOK)
		} else {
			c.Status(http.StatusServiceUnavailable)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": online, "backend": h.status.Backend()})
}

// Probe re-runs the liveness check against the remote store.
func (h *SystemHandler) Probe(c *gin.Context) {
	online := h.status.Probe(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"online": online, "backend": h.status.Backend()})
}
