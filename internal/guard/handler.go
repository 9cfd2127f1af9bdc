package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/auth"
	"pitchside/marketplace-backend/internal/profiles"
)

// Handler lets the client ask for a decision about a route before it
// renders it, e.g. GET /guard/decision?path=/dashboard.
type Handler struct {
	guard          *Guard
	profileService *profiles.Service
	logger         *zap.Logger
}

func NewHandler(guard *Guard, profileService *profiles.Service, logger *zap.Logger) *Handler {
	return &Handler{guard: guard, profileService: profileService, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/guard/decision", h.decide)
}

func (h *Handler) decide(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	session := Session{
		UserID: auth.CurrentUser(c),
		Role:   auth.CurrentRole(c),
	}
	if session.UserID != uuid.Nil {
		profile, err := h.profileService.GetProfile(c.Request.Context(), session.UserID)
		if err != nil {
			h.logger.Error("failed to load profile for guard decision", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
			return
		}
		if profile != nil {
			session.HasProfile = true
			session.Profile = profile.OnboardingState()
		}
	}

	decision := h.guard.Evaluate(session, path)
	c.JSON(http.StatusOK, gin.H{
		"state":    decision.State,
		"render":   decision.Render,
		"redirect": decision.Redirect,
	})
}
