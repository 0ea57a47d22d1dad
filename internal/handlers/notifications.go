package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/notifications"
)

// NotificationHandler exposes the fanout service to the other backend
// workflows (like/comment/follow processors) over an internal endpoint.
type NotificationHandler struct {
	service *notifications.Service
	logger  *zap.Logger
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(service *notifications.Service, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: logger}
}

// Create runs the fanout for one notification. A rate-limited call succeeded
// from the invoking workflow's point of view and reports dropped status.
func (h *NotificationHandler) Create(c *gin.Context) {
	var input models.NotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.service.Send(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, notifications.ErrUnknownType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deliver notification"})
		return
	}
	if notification == nil {
		c.JSON(http.StatusAccepted, gin.H{"status": "dropped"})
		return
	}

	c.JSON(http.StatusCreated, notification)
}
