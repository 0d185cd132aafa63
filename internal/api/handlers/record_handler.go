// backend-go/internal/api/handlers/record_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

// RecordHandler serves CRUD for one record kind.
type RecordHandler[T domain.Record, PT domain.Mutable[T], P domain.Patch[T]] struct {
	records *service.RecordService[T, PT, P]
}

func NewRecordHandler[T domain.Record, PT domain.Mutable[T], P domain.Patch[T]](records *service.RecordService[T, PT, P]) *RecordHandler[T, PT, P] {
	return &RecordHandler[T, PT, P]{records: records}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// List returns the records newest first, filtered by q. The response is a
// paginated envelope when page or page_size is given, a plain array
// otherwise.
func (h *RecordHandler[T, PT, P]) List(c *gin.Context) {
	items, err := h.records.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, fmt.Sprintf("failed to fetch %s", h.records.Kind()))
		return
	}

	if c.Query("page") == "" && c.Query("page_size") == "" {
		c.JSON(http.StatusOK, items)
		return
	}

	page := parsePositiveIntWithDefault(c.Query("page"), 1)
	size := min(parsePositiveIntWithDefault(c.Query("page_size"), defaultPageSize), maxPageSize)
	c.JSON(http.StatusOK, service.Paginate(items, page, size))
}

func (h *RecordHandler[T, PT, P]) Get(c *gin.Context) {
	rec, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, fmt.Sprintf("failed to fetch %s", h.records.Kind()))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecordHandler[T, PT, P]) Create(c *gin.Context) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	created, err := h.records.Create(c.Request.Context(), rec)
	if err != nil {
		respondError(c, err, fmt.Sprintf("failed to create %s", h.records.Kind()))
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecordHandler[T, PT, P]) Update(c *gin.Context) {
	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	updated, err := h.records.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, fmt.Sprintf("failed to update %s", h.records.Kind()))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecordHandler[T, PT, P]) Delete(c *gin.Context) {
	if _, err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, fmt.Sprintf("failed to delete %s", h.records.Kind()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecordHandler[T, PT, P]) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	n, err := h.records.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err, fmt.Sprintf("failed to delete %s", h.records.Kind()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
