package profiles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/geocode"
	"pitchside/marketplace-backend/internal/onboarding"
	"pitchside/marketplace-backend/pkg/workflows"
)

// Geocoder resolves a team's location. Lookup failures degrade to a
// profile without coordinates; they are never fatal.
type Geocoder interface {
	Lookup(ctx context.Context, city, state, zipCode string) (*geocode.Result, error)
}

// Notifier is the user-facing toast surface. Fire and forget.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, subject, body string)
}

type Service struct {
	repo     Repository
	resolver *onboarding.Resolver
	geocoder Geocoder
	notifier Notifier
	logger   *zap.Logger
}

func NewService(repo Repository, resolver *onboarding.Resolver, geocoder Geocoder, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		geocoder: geocoder,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateProfile creates the team profile and advances the persisted step
// past account creation. Geocoding runs inline but best effort.
func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID, req *CreateProfileRequest) (*TeamProfile, error) {
	existing, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("profile already exists for user")
	}

	profile := &TeamProfile{
		ID:          uuid.New(),
		UserID:      userID,
		TeamName:    req.TeamName,
		Sport:       req.Sport,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		WebsiteURL:  req.WebsiteURL,
		CurrentStep: onboarding.PersistedTeamProfile,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	s.geocodeInto(ctx, profile)

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*TeamProfile, error) {
	return s.repo.GetProfileByUserID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*TeamProfile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found")
	}

	locationChanged := false
	if req.TeamName != nil {
		profile.TeamName = *req.TeamName
	}
	if req.Sport != nil {
		profile.Sport = *req.Sport
	}
	if req.City != nil {
		profile.City = *req.City
		locationChanged = true
	}
	if req.State != nil {
		profile.State = *req.State
		locationChanged = true
	}
	if req.ZipCode != nil {
		profile.ZipCode = *req.ZipCode
		locationChanged = true
	}
	if req.WebsiteURL != nil {
		profile.WebsiteURL = req.WebsiteURL
	}

	if locationChanged {
		profile.Latitude = nil
		profile.Longitude = nil
		profile.FormattedAddress = nil
		s.geocodeInto(ctx, profile)
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// AdvanceStep records that the user finished a screen. The persisted
// milestone only moves forward; a stale tab re-asserting an earlier
// screen is rejected rather than rewinding progress.
func (s *Service) AdvanceStep(ctx context.Context, userID uuid.UUID, step onboarding.UIStep) (onboarding.PersistedStep, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return "", fmt.Errorf("profile not found")
	}

	target := onboarding.ToPersisted(step)
	if !workflows.CanAdvanceStep(string(profile.CurrentStep), string(target)) {
		return "", fmt.Errorf("cannot move onboarding step from %s to %s", profile.CurrentStep, target)
	}

	if err := s.repo.UpdateStep(ctx, userID, target); err != nil {
		return "", fmt.Errorf("failed to persist step: %w", err)
	}

	return target, nil
}

// CompleteOnboarding flips the completion gate. Flag and terminal step are
// written in a single statement by the repository.
func (s *Service) CompleteOnboarding(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("profile not found")
	}

	if err := s.repo.CompleteOnboarding(ctx, userID); err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}

	return nil
}

// Resume reports which screen the client should render for this user.
func (s *Service) Resume(ctx context.Context, userID uuid.UUID) (*ResumeResponse, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return &ResumeResponse{ResumeStep: onboarding.StepCreateProfile}, nil
	}

	state := profile.OnboardingState()
	return &ResumeResponse{
		ResumeStep:          s.resolver.ResumeStep(state.CurrentStep),
		PersistedStep:       state.CurrentStep,
		OnboardingCompleted: state.OnboardingCompleted,
		FullyComplete:       s.resolver.IsFullyComplete(state),
	}, nil
}

func (s *Service) geocodeInto(ctx context.Context, profile *TeamProfile) {
	if s.geocoder == nil {
		return
	}

	result, err := s.geocoder.Lookup(ctx, profile.City, profile.State, profile.ZipCode)
	if err != nil {
		s.logger.Warn("failed to geocode team location",
			zap.String("user_id", profile.UserID.String()),
			zap.Error(err))
		if s.notifier != nil {
			s.notifier.Notify(ctx, profile.UserID, "error",
				"Location unavailable",
				"We could not determine your team's location. Nearby sponsor recommendations may be limited.")
		}
		return
	}

	profile.Latitude = &result.Latitude
	profile.Longitude = &result.Longitude
	profile.FormattedAddress = &result.FormattedAddress
}
