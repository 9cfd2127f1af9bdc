package offers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/auth"
	"pitchside/marketplace-backend/internal/profiles"
)

type Handler struct {
	service  *Service
	profiles *profiles.Service
	logger   *zap.Logger
}

func NewHandler(service *Service, profileService *profiles.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, profiles: profileService, logger: logger}
}

// RegisterRoutes registers offer and marketplace routes. The /offers
// group is owner-scoped; /marketplace is the sponsor-facing listing.
// Role enforcement for both happens in the route guard middleware.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	offersGroup := router.Group("/offers")
	{
		offersGroup.POST("/draft", h.createDraft)
		offersGroup.GET("", h.listMyOffers)
		offersGroup.GET("/export", h.exportMyOffers)
		offersGroup.GET("/:id", h.getOffer)
		offersGroup.PUT("/:id", h.updateOffer)
		offersGroup.PATCH("/:id/draft", h.autosaveDraft)
		offersGroup.GET("/:id/draft/status", h.autosaveStatus)
		offersGroup.POST("/:id/packages", h.addPackage)
		offersGroup.GET("/:id/packages", h.listPackages)
		offersGroup.POST("/:id/publish", h.publish)
		offersGroup.POST("/:id/archive", h.archive)
		offersGroup.GET("/:id/one-pager", h.onePager)
	}

	marketplaceGroup := router.Group("/marketplace")
	{
		marketplaceGroup.GET("/offers", h.marketplace)
	}
}

func (h *Handler) createDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.service.CreateDraft(c.Request.Context(), auth.CurrentUser(c), &req)
	if err != nil {
		h.logger.Error("failed to create draft", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, offer)
}

func (h *Handler) listMyOffers(c *gin.Context) {
	offerList, err := h.service.ListMyOffers(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		h.logger.Error("failed to list offers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offerList})
}

func (h *Handler) getOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	offer, err := h.service.GetOwnedOffer(c.Request.Context(), auth.CurrentUser(c), offerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if offer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *Handler) updateOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	var req UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.service.UpdateOffer(c.Request.Context(), auth.CurrentUser(c), offerID, &req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, offer)
}

// autosaveDraft accepts the full form snapshot on every edit. The write
// is debounced server-side; the response only acknowledges scheduling.
func (h *Handler) autosaveDraft(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	var snapshot json.RawMessage
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Autosave(c.Request.Context(), auth.CurrentUser(c), offerID, snapshot); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

func (h *Handler) autosaveStatus(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	lastSavedAt, saving := h.service.AutosaveStatus(offerID)
	c.JSON(http.StatusOK, gin.H{"last_saved_at": lastSavedAt, "saving": saving})
}

func (h *Handler) addPackage(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.service.AddPackage(c.Request.Context(), auth.CurrentUser(c), offerID, &req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

func (h *Handler) listPackages(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	packages, err := h.service.ListPackages(c.Request.Context(), auth.CurrentUser(c), offerID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

func (h *Handler) publish(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	offer, err := h.service.Publish(c.Request.Context(), auth.CurrentUser(c), offerID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *Handler) archive(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	if err := h.service.Archive(c.Request.Context(), auth.CurrentUser(c), offerID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "archived"})
}

func (h *Handler) onePager(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	teamName, location := "", ""
	if profile, err := h.profiles.GetProfile(c.Request.Context(), auth.CurrentUser(c)); err == nil && profile != nil {
		teamName = profile.TeamName
		if profile.FormattedAddress != nil {
			location = *profile.FormattedAddress
		}
	}

	data, err := h.service.OnePager(c.Request.Context(), offerID, teamName, location)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="offer.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) exportMyOffers(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.CurrentUser(c)

	offerList, err := h.service.ListMyOffers(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	packagesByOffer := make(map[string][]Package)
	for _, offer := range offerList {
		packages, err := h.service.repo.ListPackages(ctx, offer.ID)
		if err != nil {
			h.logger.Warn("export: failed to load packages",
				zap.String("offer_id", offer.ID.String()),
				zap.Error(err))
			continue
		}
		packagesByOffer[offer.ID.String()] = packages
	}

	data, err := ExportOffersXLSX(offerList, packagesByOffer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="offers.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) marketplace(c *gin.Context) {
	filters := &MarketplaceFilters{
		Page:     getIntParam(c, "page", 1),
		PageSize: getIntParam(c, "page_size", 20),
	}
	if sport := c.Query("sport"); sport != "" {
		filters.Sport = &sport
	}
	if state := c.Query("state"); state != "" {
		filters.State = &state
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	listing, err := h.service.Marketplace(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list marketplace", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func getIntParam(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
