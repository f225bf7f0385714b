package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruit-backend/internal/applications"
	"recruit-backend/internal/candidates"
	"recruit-backend/internal/postings"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/server/respond"
)

type applicationsHandler struct {
	d Deps
}

func newApplicationsHandler(d Deps) *applicationsHandler {
	return &applicationsHandler{d: d}
}

func (h *applicationsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.create)
	rg.GET("/applications/:id", h.get)
	rg.POST("/applications/:id/analyze", h.analyze)
}

type createApplicationRequest struct {
	CandidateID string `json:"candidateId"`
	PostingID   string `json:"postingId"`
}

func (h *applicationsHandler) create(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.CandidateID = strings.TrimSpace(req.CandidateID)
	req.PostingID = strings.TrimSpace(req.PostingID)
	if req.CandidateID == "" || req.PostingID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidateId and postingId are required", nil)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.d.Candidates.GetByID(ctx, req.CandidateID); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load candidate", nil)
		return
	}
	if _, err := h.d.Postings.GetByID(ctx, req.PostingID); err != nil {
		if errors.Is(err, postings.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "posting not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load posting", nil)
		return
	}

	app := applications.Application{
		ID:          uuid.NewString(),
		CandidateID: req.CandidateID,
		PostingID:   req.PostingID,
		Status:      applications.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.d.Applications.Create(ctx, app); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create application", nil)
		return
	}
	c.Set("entityId", app.ID)
	respond.Created(c, app)
}

func (h *applicationsHandler) get(c *gin.Context) {
	app, err := h.d.Applications.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load application", nil)
		return
	}
	respond.OK(c, app)
}

func (h *applicationsHandler) analyze(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.d.Applications.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load application", nil)
		return
	}

	enqueueJob(c, h.d.Queue, id, queue.KindJobMatch)
}
