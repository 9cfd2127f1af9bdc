package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pitchside/marketplace-backend/internal/auth"
	ws "pitchside/marketplace-backend/internal/notifications/websocket"
)

type Handler struct {
	service *Service
	manager *ws.Manager
	logger  *zap.Logger
}

func NewHandler(service *Service, manager *ws.Manager, logger *zap.Logger) *Handler {
	return &Handler{service: service, manager: manager, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/notifications")
	{
		group.GET("", h.list)
		group.POST("/:id/read", h.markRead)
		group.POST("/read-all", h.markAllRead)
		group.GET("/ws", h.connect)
	}
}

func (h *Handler) list(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.service.List(c.Request.Context(), auth.CurrentUser(c), unreadOnly, limit)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *Handler) markRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), auth.CurrentUser(c), notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.logger.Error("failed to mark notification read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) markAllRead(c *gin.Context) {
	count, err := h.service.MarkAllRead(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		h.logger.Error("failed to mark notifications read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": count})
}

func (h *Handler) connect(c *gin.Context) {
	userID := auth.CurrentUser(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if _, err := h.manager.HandleConnection(c.Writer, c.Request, userID); err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
	}
}
