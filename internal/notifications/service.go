package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pitchside/marketplace-backend/internal/config"
)

// UserPusher is the live-push surface the service writes to. The
// websocket manager implements it.
type UserPusher interface {
	SendToUser(userID uuid.UUID, message WSMessage) int
}

// EmailDirectory resolves a user id to the address the email channel
// delivers to.
type EmailDirectory interface {
	EmailFor(ctx context.Context, userID uuid.UUID) (string, error)
}

// Preferences answers whether a user opted out of the email channel.
type Preferences interface {
	EmailOptedIn(ctx context.Context, userID uuid.UUID) bool
}

type Service struct {
	db          *gorm.DB
	pusher      UserPusher
	emailer     Emailer
	directory   EmailDirectory
	preferences Preferences
	cfg         *config.NotificationsConfig
	logger      *zap.Logger
}

// NewService migrates the notifications table and wires the channels.
// emailer, directory and preferences may be nil when the email channel
// is disabled.
func NewService(db *gorm.DB, pusher UserPusher, emailer Emailer, directory EmailDirectory, preferences Preferences, cfg *config.NotificationsConfig, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&Notification{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notifications schema: %w", err)
	}
	return &Service{
		db:          db,
		pusher:      pusher,
		emailer:     emailer,
		directory:   directory,
		preferences: preferences,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Notify persists the notification and pushes it to any live
// connections. Warnings and errors also go out by email when the
// channel is enabled. Fire-and-forget: callers treat toasts as
// best-effort, so failures log instead of propagating.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind, subject, body string) {
	if userID == uuid.Nil {
		return
	}

	notification := &Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Kind:    kind,
		Subject: subject,
		Body:    body,
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		s.logger.Error("failed to persist notification",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}

	s.pusher.SendToUser(userID, WSMessage{
		Type:      WSTypeNotification,
		Payload:   notification,
		Timestamp: time.Now().UTC(),
	})

	if s.shouldEmail(ctx, userID, kind) {
		s.sendEmail(ctx, userID, subject, body)
	}
}

func (s *Service) shouldEmail(ctx context.Context, userID uuid.UUID, kind string) bool {
	if s.emailer == nil || s.directory == nil || !s.cfg.EmailEnabled {
		return false
	}
	if kind != KindWarning && kind != KindError {
		return false
	}
	return s.preferences == nil || s.preferences.EmailOptedIn(ctx, userID)
}

func (s *Service) sendEmail(ctx context.Context, userID uuid.UUID, subject, body string) {
	address, err := s.directory.EmailFor(ctx, userID)
	if err != nil || address == "" {
		s.logger.Warn("could not resolve notification email address",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}

	if err := s.emailer.Send(ctx, address, subject, body); err != nil {
		s.logger.Warn("failed to send notification email",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var items []Notification
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
