package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/server/respond"
)

type jobsHandler struct {
	d Deps
}

func newJobsHandler(d Deps) *jobsHandler {
	return &jobsHandler{d: d}
}

func (h *jobsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/stats", h.stats)
	rg.GET("/jobs/:id", h.get)
}

func (h *jobsHandler) get(c *gin.Context) {
	job, err := h.d.Queue.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load job", nil)
		return
	}
	c.Set("jobId", job.ID)
	c.Set("entityId", job.EntityID)
	respond.OK(c, job)
}

func (h *jobsHandler) stats(c *gin.Context) {
	counts, err := h.d.Queue.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load queue stats", nil)
		return
	}
	respond.OK(c, gin.H{"counts": counts})
}
