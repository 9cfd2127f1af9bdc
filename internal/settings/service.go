package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetPreferences returns the stored preferences, or the defaults for a
// user who never changed anything.
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification preferences: %w", err)
	}
	if prefs == nil {
		return defaultPreferences(userID), nil
	}
	return prefs, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *UpdatePreferencesRequest) (*NotificationPreferences, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.EmailEnabled != nil {
		prefs.EmailEnabled = *req.EmailEnabled
	}

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to save notification preferences: %w", err)
	}
	return prefs, nil
}

// EmailOptedIn answers the notifications email gate. Lookup failures
// fall back to opted-in so a database hiccup never silently drops a
// warning email; the send itself will surface any real outage.
func (s *Service) EmailOptedIn(ctx context.Context, userID uuid.UUID) bool {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load email preference, assuming opted in",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return true
	}
	if prefs == nil {
		return true
	}
	return prefs.EmailEnabled
}
