package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/config"
	"pitchside/marketplace-backend/pkg/storage"
)

const (
	maxUploadSize    = 25 << 20 // 25 MiB
	downloadLinkTTL  = 15 * time.Minute
	pitchDeckContent = "application/pdf"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrNotOwner      = errors.New("document belongs to another user")
	ErrTooLarge      = fmt.Errorf("file exceeds the %d byte limit", maxUploadSize)
	ErrWrongFileType = errors.New("pitch decks must be PDF files")
)

type Service struct {
	repo   Repository
	store  storage.ObjectStore
	cfg    *config.StorageConfig
	logger *zap.Logger
}

func NewService(repo Repository, store storage.ObjectStore, cfg *config.StorageConfig, logger *zap.Logger) *Service {
	return &Service{repo: repo, store: store, cfg: cfg, logger: logger}
}

type UploadInput struct {
	ProfileID   uuid.UUID
	Kind        DocumentKind
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload stores the file in S3 first and records it only once the blob
// is durable. A record without a blob would hand out dead download
// links.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, in *UploadInput) (*Document, error) {
	if in.Size > maxUploadSize {
		return nil, ErrTooLarge
	}
	if in.Kind == KindPitchDeck && in.ContentType != pitchDeckContent {
		return nil, ErrWrongFileType
	}

	doc := &Document{
		ID:          uuid.New(),
		UserID:      userID,
		ProfileID:   in.ProfileID,
		Kind:        in.Kind,
		FileName:    sanitizeFileName(in.FileName),
		ContentType: in.ContentType,
		FileSize:    in.Size,
		S3Bucket:    s.cfg.Bucket,
		UploadedAt:  time.Now().UTC(),
	}
	doc.S3Key = fmt.Sprintf("%s/%s/%s_%s", in.Kind, userID, doc.ID, doc.FileName)

	if err := s.store.Upload(ctx, doc.S3Bucket, doc.S3Key, doc.ContentType, in.Body); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		// Best-effort rollback of the orphaned blob.
		if delErr := s.store.Delete(ctx, doc.S3Bucket, doc.S3Key); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("key", doc.S3Key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("kind", string(doc.Kind)),
		zap.Int64("size", doc.FileSize))

	return doc, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, kind *DocumentKind) ([]Document, error) {
	return s.repo.ListDocumentsByUser(ctx, userID, kind)
}

// HasUploadedPitchDeck feeds the onboarding back-navigation rule for
// the pdf-upload path.
func (s *Service) HasUploadedPitchDeck(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.HasPitchDeck(ctx, userID)
}

func (s *Service) DownloadLink(ctx context.Context, userID, documentID uuid.UUID) (*DownloadLink, error) {
	doc, err := s.ownedDocument(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	url, err := s.store.PresignDownload(ctx, doc.S3Bucket, doc.S3Key, downloadLinkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign download: %w", err)
	}

	return &DownloadLink{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(downloadLinkTTL),
	}, nil
}

func (s *Service) Delete(ctx context.Context, userID, documentID uuid.UUID) error {
	doc, err := s.ownedDocument(ctx, userID, documentID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	// The record is gone; a leftover blob only costs storage.
	if err := s.store.Delete(ctx, doc.S3Bucket, doc.S3Key); err != nil {
		s.logger.Warn("failed to delete document blob",
			zap.String("key", doc.S3Key),
			zap.Error(err))
	}
	return nil
}

func (s *Service) ownedDocument(ctx context.Context, userID, documentID uuid.UUID) (*Document, error) {
	doc, err := s.repo.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if doc.UserID != userID {
		return nil, ErrNotOwner
	}
	return doc, nil
}

func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
