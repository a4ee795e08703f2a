package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/pkg/db"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

// StoredVideoHandler serves the winners the quality gate accepted.
type StoredVideoHandler struct {
	*BaseHandler
	videos models.StoredVideoRepository
}

// NewStoredVideoHandler creates a new stored video handler.
func NewStoredVideoHandler(cfg *config.Config, log *logger.Logger, database *db.DB, videos models.StoredVideoRepository) *StoredVideoHandler {
	return &StoredVideoHandler{
		BaseHandler: NewBaseHandler(cfg, log, database),
		videos:      videos,
	}
}

// ListStoredVideos handles GET /api/v1/stored-videos.
func (h *StoredVideoHandler) ListStoredVideos(c *gin.Context) {
	limit, offset := h.getPaginationParams(c)
	videos, err := h.videos.List(limit, offset)
	if err != nil {
		h.logger.Error("stored_videos: list failed", "error", err)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to list stored videos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": videos})
}

// GetStoredVideo handles GET /api/v1/stored-videos/:id.
func (h *StoredVideoHandler) GetStoredVideo(c *gin.Context) {
	video, err := h.videos.GetByID(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrStoredVideoNotFound) {
			status = http.StatusNotFound
		}
		h.respondWithError(c, status, "Failed to get stored video")
		return
	}
	c.JSON(http.StatusOK, video)
}
