package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruit-backend/internal/candidates"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/server/respond"
)

const maxCVUploadSize = 10 << 20 // 10MB

type candidatesHandler struct {
	d Deps
}

func newCandidatesHandler(d Deps) *candidatesHandler {
	return &candidatesHandler{d: d}
}

func (h *candidatesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates", h.create)
	rg.GET("/candidates/:id", h.get)
	rg.POST("/candidates/:id/cv", h.uploadCV)
	rg.POST("/candidates/:id/analyze", h.analyze)
}

type createCandidateRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func (h *candidatesHandler) create(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email is required", nil)
		return
	}
	if req.FullName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fullName is required", nil)
		return
	}

	cand := candidates.Candidate{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FullName:  req.FullName,
		Status:    candidates.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.d.Candidates.Create(c.Request.Context(), cand); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create candidate", nil)
		return
	}
	c.Set("entityId", cand.ID)
	respond.Created(c, cand)
}

func (h *candidatesHandler) get(c *gin.Context) {
	id := c.Param("id")
	cand, err := h.d.Candidates.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load candidate", nil)
		return
	}
	respond.OK(c, cand)
}

func (h *candidatesHandler) uploadCV(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.d.Candidates.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load candidate", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCVUploadSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	key, size, mimeType, err := h.d.Store.Save(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to store file", nil)
		return
	}
	if err := h.d.Candidates.SetCV(c.Request.Context(), id, key, mimeType, fileHeader.Filename); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to attach file", nil)
		return
	}

	c.Set("entityId", id)
	respond.Created(c, gin.H{
		"storageKey": key,
		"sizeBytes":  size,
		"mimeType":   mimeType,
		"fileName":   fileHeader.Filename,
	})
}

type analyzeRequest struct {
	Kind string `json:"kind"`
}

func (h *candidatesHandler) analyze(c *gin.Context) {
	id := c.Param("id")

	var req analyzeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	kind := strings.TrimSpace(req.Kind)
	if kind == "" {
		kind = queue.KindCVFeedback
	}
	if kind != queue.KindCVFeedback && kind != queue.KindProfileExtraction {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported analysis kind for candidates", nil)
		return
	}

	if _, err := h.d.Candidates.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load candidate", nil)
		return
	}

	enqueueJob(c, h.d.Queue, id, kind)
}

// enqueueJob runs the shared enqueue flow and writes the 202 response.
func enqueueJob(c *gin.Context, svc *queue.Service, entityID, kind string) {
	job, created, err := svc.Enqueue(c.Request.Context(), entityID, kind)
	if err != nil {
		if errors.Is(err, queue.ErrUnknownKind) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown analysis kind", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to enqueue analysis", nil)
		return
	}
	c.Set("jobId", job.ID)
	c.Set("entityId", entityID)
	respond.Accepted(c, gin.H{
		"job":     job,
		"created": created,
	})
}
