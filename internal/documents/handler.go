package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/auth"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/documents")
	{
		docs.POST("", h.upload)
		docs.GET("", h.list)
		docs.GET("/:id/download", h.download)
		docs.DELETE("/:id", h.delete)
	}
}

func (h *Handler) upload(c *gin.Context) {
	profileID, err := uuid.Parse(c.PostForm("profile_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id is required"})
		return
	}

	kind := DocumentKind(c.DefaultPostForm("kind", string(KindPitchDeck)))
	if kind != KindPitchDeck && kind != KindLogo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document kind"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), auth.CurrentUser(c), &UploadInput{
		ProfileID:   profileID,
		Kind:        kind,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge), errors.Is(err, ErrWrongFileType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("document upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) list(c *gin.Context) {
	var kind *DocumentKind
	if raw := c.Query("kind"); raw != "" {
		k := DocumentKind(raw)
		kind = &k
	}

	docs, err := h.service.List(c.Request.Context(), auth.CurrentUser(c), kind)
	if err != nil {
		h.logger.Error("failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) download(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	link, err := h.service.DownloadLink(c.Request.Context(), auth.CurrentUser(c), documentID)
	if err != nil {
		h.respondDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *Handler) delete(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.CurrentUser(c), documentID); err != nil {
		h.respondDocumentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.logger.Error("document request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
