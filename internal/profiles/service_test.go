package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/geocode"
	"pitchside/marketplace-backend/internal/onboarding"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateProfile(ctx context.Context, profile *TeamProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*TeamProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TeamProfile), args.Error(1)
}

func (m *MockRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (*TeamProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TeamProfile), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, profile *TeamProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockRepository) UpdateStep(ctx context.Context, userID uuid.UUID, step onboarding.PersistedStep) error {
	args := m.Called(ctx, userID, step)
	return args.Error(0)
}

func (m *MockRepository) CompleteOnboarding(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type stubGeocoder struct {
	result *geocode.Result
	err    error
}

func (g *stubGeocoder) Lookup(ctx context.Context, city, state, zipCode string) (*geocode.Result, error) {
	return g.result, g.err
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uuid.UUID, kind, subject, body string) {
	n.messages = append(n.messages, subject)
}

func newTestService(repo Repository, geocoder Geocoder, notifier Notifier) *Service {
	return NewService(repo, onboarding.NewResolver(zap.NewNop()), geocoder, notifier, zap.NewNop())
}

func TestCreateProfileGeocodes(t *testing.T) {
	mockRepo := new(MockRepository)
	geocoder := &stubGeocoder{result: &geocode.Result{Latitude: 30.2, Longitude: -97.7, FormattedAddress: "Austin, TX"}}
	service := newTestService(mockRepo, geocoder, nil)

	ctx := context.Background()
	userID := uuid.New()

	mockRepo.On("GetProfileByUserID", ctx, userID).Return(nil, nil)
	mockRepo.On("CreateProfile", ctx, mock.AnythingOfType("*profiles.TeamProfile")).Return(nil)

	profile, err := service.CreateProfile(ctx, userID, &CreateProfileRequest{
		TeamName: "Austin Rowing Club",
		Sport:    "rowing",
		City:     "Austin",
		State:    "TX",
		ZipCode:  "78701",
	})

	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, onboarding.PersistedTeamProfile, profile.CurrentStep)
	assert.NotNil(t, profile.Latitude)
	assert.Equal(t, 30.2, *profile.Latitude)

	mockRepo.AssertExpectations(t)
}

func TestCreateProfileGeocodeFailureDegrades(t *testing.T) {
	mockRepo := new(MockRepository)
	geocoder := &stubGeocoder{err: errors.New("provider down")}
	notifier := &recordingNotifier{}
	service := newTestService(mockRepo, geocoder, notifier)

	ctx := context.Background()
	userID := uuid.New()

	mockRepo.On("GetProfileByUserID", ctx, userID).Return(nil, nil)
	mockRepo.On("CreateProfile", ctx, mock.AnythingOfType("*profiles.TeamProfile")).Return(nil)

	profile, err := service.CreateProfile(ctx, userID, &CreateProfileRequest{
		TeamName: "Austin Rowing Club",
		Sport:    "rowing",
		City:     "Austin",
		State:    "TX",
	})

	assert.NoError(t, err)
	assert.Nil(t, profile.Latitude)
	assert.Len(t, notifier.messages, 1)

	mockRepo.AssertExpectations(t)
}

func TestAdvanceStepForward(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	profile := &TeamProfile{UserID: userID, CurrentStep: onboarding.PersistedTeamProfile}

	mockRepo.On("GetProfileByUserID", ctx, userID).Return(profile, nil)
	mockRepo.On("UpdateStep", ctx, userID, onboarding.PersistedPackages).Return(nil)

	persisted, err := service.AdvanceStep(ctx, userID, onboarding.StepQuestionnaire)

	assert.NoError(t, err)
	assert.Equal(t, onboarding.PersistedPackages, persisted)

	mockRepo.AssertExpectations(t)
}

func TestAdvanceStepRejectsRewind(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	profile := &TeamProfile{UserID: userID, CurrentStep: onboarding.PersistedReview}

	mockRepo.On("GetProfileByUserID", ctx, userID).Return(profile, nil)

	_, err := service.AdvanceStep(ctx, userID, onboarding.StepCreateProfile)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateStep", mock.Anything, mock.Anything, mock.Anything)
}

func TestResumeWithoutProfile(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil, nil)

	ctx := context.Background()
	userID := uuid.New()

	mockRepo.On("GetProfileByUserID", ctx, userID).Return(nil, nil)

	resp, err := service.Resume(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, onboarding.StepCreateProfile, resp.ResumeStep)
	assert.False(t, resp.FullyComplete)
}

func TestResumeCompletedProfile(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	profile := &TeamProfile{
		UserID:              userID,
		OnboardingCompleted: true,
		CurrentStep:         onboarding.PersistedCompleted,
	}

	mockRepo.On("GetProfileByUserID", ctx, userID).Return(profile, nil)

	resp, err := service.Resume(ctx, userID)

	assert.NoError(t, err)
	assert.True(t, resp.FullyComplete)
	assert.Equal(t, onboarding.StepReview, resp.ResumeStep)
}

// The profile's US state and its onboarding snapshot are distinct
// surfaces of the same row.
func TestOnboardingStateSnapshot(t *testing.T) {
	profile := &TeamProfile{
		State:               "TX",
		OnboardingCompleted: true,
		CurrentStep:         onboarding.PersistedCompleted,
	}

	snap := profile.OnboardingState()
	assert.Equal(t, "TX", profile.State)
	assert.True(t, snap.OnboardingCompleted)
	assert.Equal(t, onboarding.PersistedCompleted, snap.CurrentStep)
}
