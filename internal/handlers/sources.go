package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/pkg/db"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

// SourceHandler manages tracked creator accounts.
type SourceHandler struct {
	*BaseHandler
	sources models.SourceRepository
}

// NewSourceHandler creates a new source handler.
func NewSourceHandler(cfg *config.Config, log *logger.Logger, database *db.DB, sources models.SourceRepository) *SourceHandler {
	return &SourceHandler{
		BaseHandler: NewBaseHandler(cfg, log, database),
		sources:     sources,
	}
}

type createSourceRequest struct {
	Platform models.Platform `json:"platform" binding:"required"`
	URL      string          `json:"url" binding:"required"`
	Name     string          `json:"name"`
}

// ListSources handles GET /api/v1/sources.
func (h *SourceHandler) ListSources(c *gin.Context) {
	limit, offset := h.getPaginationParams(c)
	sources, err := h.sources.List(limit, offset)
	if err != nil {
		h.logger.Error("sources: list failed", "error", err)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to list sources")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sources})
}

// CreateSource handles POST /api/v1/sources.
func (h *SourceHandler) CreateSource(c *gin.Context) {
	var req createSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !req.Platform.Valid() {
		h.respondWithError(c, http.StatusBadRequest, "Unsupported platform")
		return
	}

	source := &models.Source{
		ID:       uuid.New().String(),
		Platform: req.Platform,
		URL:      req.URL,
		Name:     req.Name,
		Status:   models.SourceActive,
	}
	if err := h.sources.Create(source); err != nil {
		h.logger.Error("sources: create failed", "error", err)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to create source")
		return
	}
	c.JSON(http.StatusCreated, source)
}

// GetSource handles GET /api/v1/sources/:id.
func (h *SourceHandler) GetSource(c *gin.Context) {
	source, err := h.sources.GetByID(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrSourceNotFound) {
			status = http.StatusNotFound
		}
		h.respondWithError(c, status, "Failed to get source")
		return
	}
	c.JSON(http.StatusOK, source)
}

type updateSourceRequest struct {
	URL    string              `json:"url"`
	Name   string              `json:"name"`
	Status models.SourceStatus `json:"status"`
}

// UpdateSource handles PUT /api/v1/sources/:id.
func (h *SourceHandler) UpdateSource(c *gin.Context) {
	source, err := h.sources.GetByID(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrSourceNotFound) {
			status = http.StatusNotFound
		}
		h.respondWithError(c, status, "Failed to get source")
		return
	}

	var req updateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.URL != "" {
		source.URL = req.URL
	}
	if req.Name != "" {
		source.Name = req.Name
	}
	if req.Status != "" {
		source.Status = req.Status
	}

	if err := h.sources.Update(source); err != nil {
		h.logger.Error("sources: update failed", "error", err, "id", source.ID)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to update source")
		return
	}
	c.JSON(http.StatusOK, source)
}

// DeleteSource handles DELETE /api/v1/sources/:id.
func (h *SourceHandler) DeleteSource(c *gin.Context) {
	id := c.Param("id")
	if err := h.sources.Delete(id); err != nil {
		h.logger.Error("sources: delete failed", "error", err, "id", id)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to delete source")
		return
	}
	h.respondWithSuccess(c, "Source deleted successfully", gin.H{"id": id})
}
