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

// TopicHandler manages tracked keywords.
type TopicHandler struct {
	*BaseHandler
	topics models.TopicRepository
}

// NewTopicHandler creates a new topic handler.
func NewTopicHandler(cfg *config.Config, log *logger.Logger, database *db.DB, topics models.TopicRepository) *TopicHandler {
	return &TopicHandler{
		BaseHandler: NewBaseHandler(cfg, log, database),
		topics:      topics,
	}
}

type topicRequest struct {
	Keyword     string `json:"keyword" binding:"required"`
	Description string `json:"description"`
}

// ListTopics handles GET /api/v1/topics.
func (h *TopicHandler) ListTopics(c *gin.Context) {
	topics, err := h.topics.List()
	if err != nil {
		h.logger.Error("topics: list failed", "error", err)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to list topics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": topics})
}

// CreateTopic handles POST /api/v1/topics.
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	topic := &models.Topic{
		ID:          uuid.New().String(),
		Keyword:     req.Keyword,
		Description: req.Description,
	}
	if err := h.topics.Create(topic); err != nil {
		h.logger.Error("topics: create failed", "error", err)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to create topic")
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// GetTopic handles GET /api/v1/topics/:id.
func (h *TopicHandler) GetTopic(c *gin.Context) {
	topic, err := h.topics.GetByID(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrTopicNotFound) {
			status = http.StatusNotFound
		}
		h.respondWithError(c, status, "Failed to get topic")
		return
	}
	c.JSON(http.StatusOK, topic)
}

// UpdateTopic handles PUT /api/v1/topics/:id.
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	topic, err := h.topics.GetByID(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrTopicNotFound) {
			status = http.StatusNotFound
		}
		h.respondWithError(c, status, "Failed to get topic")
		return
	}

	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Keyword != "" {
		topic.Keyword = req.Keyword
	}
	if req.Description != "" {
		topic.Description = req.Description
	}

	if err := h.topics.Update(topic); err != nil {
		h.logger.Error("topics: update failed", "error", err, "id", topic.ID)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to update topic")
		return
	}
	c.JSON(http.StatusOK, topic)
}

// DeleteTopic handles DELETE /api/v1/topics/:id.
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id := c.Param("id")
	if err := h.topics.Delete(id); err != nil {
		h.logger.Error("topics: delete failed", "error", err, "id", id)
		h.respondWithError(c, http.StatusInternalServerError, "Failed to delete topic")
		return
	}
	h.respondWithSuccess(c, "Topic deleted successfully", gin.H{"id": id})
}
