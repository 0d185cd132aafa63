package handlers

import (
	"net/http"
	"strconv"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/vastask"
	"github.com/gin-gonic/gin"
)

type VasTaskHandler struct {
	tasks *service.VasTaskService
}

func NewVasTaskHandler(tasks *service.VasTaskService) *VasTaskHandler {
	return &VasTaskHandler{tasks: tasks}
}

type commitRequest struct {
	Quantities []domain.Quantity `json:"quantities"`
}

func (h *VasTaskHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.tasks.List())
}

func (h *VasTaskHandler) Start(c *gin.Context) {
	c.JSON(http.StatusCreated, h.tasks.Start())
}

func (h *VasTaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to fetch vas task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *VasTaskHandler) Update(c *gin.Context) {
	var upd service.TaskUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	task, err := h.tasks.Update(c.Param("id"), upd)
	if err != nil {
		respondError(c, err, "failed to update vas task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *VasTaskHandler) AddLine(c *gin.Context) {
	var line vastask.Line
	if err := c.ShouldBindJSON(&line); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	task, err := h.tasks.AddLine(c.Param("id"), line)
	if err != nil {
		respondError(c, err, "failed to add line")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *VasTaskHandler) UpdateLine(c *gin.Context) {
	idx, ok := lineIndex(c)
	if !ok {
		return
	}
	var line vastask.Line
	if err := c.ShouldBindJSON(&line); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	task, err := h.tasks.UpdateLine(c.Param("id"), idx, line)
	if err != nil {
		respondError(c, err, "failed to update line")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *VasTaskHandler) RemoveLine(c *gin.Context) {
	idx, ok := lineIndex(c)
	if !ok {
		return
	}
	task, err := h.tasks.RemoveLine(c.Param("id"), idx)
	if err != nil {
		respondError(c, err, "failed to remove line")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *VasTaskHandler) Finish(c *gin.Context) {
	task, err := h.tasks.Finish(c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to finish vas task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *VasTaskHandler) Commit(c *gin.Context) {
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	quantities := make([]int, len(req.Quantities))
	for i, q := range req.Quantities {
		quantities[i] = q.Int()
	}
	entries, err := h.tasks.Commit(c.Request.Context(), c.Param("id"), quantities)
	if err != nil {
		respondError(c, err, "failed to commit vas task")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entries": entries})
}

func (h *VasTaskHandler) Cancel(c *gin.Context) {
	if err := h.tasks.Cancel(c.Param("id")); err != nil {
		respondError(c, err, "failed to cancel vas task")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VasTaskHandler) Discard(c *gin.Context) {
	if err := h.tasks.Discard(c.Param("id")); err != nil {
		respondError(c, err, "failed to discard vas task")
		return
	}
	c.Status(http.StatusNoContent)
}

func lineIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		badRequest(c, "line index must be a number")
		return 0, false
	}
	return idx, true
}
