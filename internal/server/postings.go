package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruit-backend/internal/postings"
	"recruit-backend/internal/shared/server/respond"
)

type postingsHandler struct {
	d Deps
}

func newPostingsHandler(d Deps) *postingsHandler {
	return &postingsHandler{d: d}
}

func (h *postingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/postings", h.create)
	rg.GET("/postings/:id", h.get)
}

type createPostingRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	EducationLevel  string   `json:"educationLevel"`
	FieldOfStudy    string   `json:"fieldOfStudy"`
	YearsExperience int      `json:"yearsExperience"`
	HardSkills      []string `json:"hardSkills"`
	SoftSkills      []string `json:"softSkills"`
	Languages       []string `json:"languages"`
}

func (h *postingsHandler) create(c *gin.Context) {
	var req createPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title is required", nil)
		return
	}
	if req.YearsExperience < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "yearsExperience must not be negative", nil)
		return
	}

	p := postings.Posting{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     strings.TrimSpace(req.Description),
		EducationLevel:  strings.TrimSpace(req.EducationLevel),
		FieldOfStudy:    strings.TrimSpace(req.FieldOfStudy),
		YearsExperience: req.YearsExperience,
		HardSkills:      req.HardSkills,
		SoftSkills:      req.SoftSkills,
		Languages:       req.Languages,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.d.Postings.Create(c.Request.Context(), p); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create posting", nil)
		return
	}
	respond.Created(c, p)
}

func (h *postingsHandler) get(c *gin.Context) {
	p, err := h.d.Postings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, postings.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "posting not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load posting", nil)
		return
	}
	respond.OK(c, p)
}
