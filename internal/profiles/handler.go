package profiles

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/auth"
	"pitchside/marketplace-backend/internal/onboarding"
)

type Handler struct {
	service  *Service
	resolver *onboarding.Resolver
	logger   *zap.Logger
}

func NewHandler(service *Service, resolver *onboarding.Resolver, logger *zap.Logger) *Handler {
	return &Handler{service: service, resolver: resolver, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	profilesGroup := router.Group("/profiles")
	{
		profilesGroup.POST("", h.createProfile)
		profilesGroup.GET("/me", h.getMyProfile)
		profilesGroup.PUT("/me", h.updateMyProfile)
	}

	onboardingGroup := router.Group("/onboarding")
	{
		onboardingGroup.GET("/resume", h.resume)
		onboardingGroup.GET("/previous", h.previousStep)
		onboardingGroup.POST("/step", h.advanceStep)
		onboardingGroup.POST("/complete", h.complete)
	}
}

func (h *Handler) createProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), auth.CurrentUser(c), &req)
	if err != nil {
		h.logger.Error("failed to create profile", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *Handler) getMyProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		h.logger.Error("failed to load profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) updateMyProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), auth.CurrentUser(c), &req)
	if err != nil {
		h.logger.Error("failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) resume(c *gin.Context) {
	resp, err := h.service.Resume(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		h.logger.Error("failed to resolve resume step", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// previousStep answers back-navigation for the client. The uploaded flag
// is session state the client carries, not something derivable from the
// persisted milestone.
func (h *Handler) previousStep(c *gin.Context) {
	current := onboarding.UIStep(c.Query("current"))
	hasUploaded, _ := strconv.ParseBool(c.Query("uploaded"))

	prev, ok := h.resolver.PreviousStep(current, hasUploaded)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"previous": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"previous": prev})
}

func (h *Handler) advanceStep(c *gin.Context) {
	var req struct {
		Step onboarding.UIStep `json:"step" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	persisted, err := h.service.AdvanceStep(c.Request.Context(), auth.CurrentUser(c), req.Step)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"persisted_step": persisted})
}

func (h *Handler) complete(c *gin.Context) {
	if err := h.service.CompleteOnboarding(c.Request.Context(), auth.CurrentUser(c)); err != nil {
		h.logger.Error("failed to complete onboarding", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
