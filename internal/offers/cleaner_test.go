package offers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestCleanupNoSessionIsNoop(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	assert.Equal(t, 0, cleaner.CleanupAbandonedDrafts(context.Background(), uuid.Nil))
	mockRepo.AssertNotCalled(t, "ListStaleDrafts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCleanupDeletesEmptyStaleDrafts(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()
	emptyDraft := Offer{ID: uuid.New(), UserID: userID, Status: StatusDraft, Source: SourceQuestionnaire, CreatedAt: time.Now().Add(-2 * time.Hour)}
	draftWithPackage := Offer{ID: uuid.New(), UserID: userID, Status: StatusDraft, Source: SourceQuestionnaire, CreatedAt: time.Now().Add(-2 * time.Hour)}

	mockRepo.On("ListStaleDrafts", ctx, userID, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{emptyDraft, draftWithPackage}, nil)
	mockRepo.On("ListPackagesForOffers", ctx, []uuid.UUID{emptyDraft.ID, draftWithPackage.ID}).
		Return([]Package{{ID: uuid.New(), OfferID: draftWithPackage.ID}}, nil)
	mockRepo.On("MarkDeleted", ctx, []uuid.UUID{emptyDraft.ID}).Return(int64(1), nil)

	assert.Equal(t, 1, cleaner.CleanupAbandonedDrafts(ctx, userID))
	mockRepo.AssertExpectations(t)
}

func TestCleanupNoCandidates(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()

	mockRepo.On("ListStaleDrafts", ctx, userID, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{}, nil)

	assert.Equal(t, 0, cleaner.CleanupAbandonedDrafts(ctx, userID))
	mockRepo.AssertNotCalled(t, "ListPackagesForOffers", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "MarkDeleted", mock.Anything, mock.Anything)
}

func TestCleanupAllCandidatesHavePackages(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()
	draft := Offer{ID: uuid.New(), UserID: userID, Status: StatusDraft, Source: SourceQuestionnaire, CreatedAt: time.Now().Add(-3 * time.Hour)}

	mockRepo.On("ListStaleDrafts", ctx, userID, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{draft}, nil)
	mockRepo.On("ListPackagesForOffers", ctx, []uuid.UUID{draft.ID}).
		Return([]Package{{ID: uuid.New(), OfferID: draft.ID}}, nil)

	assert.Equal(t, 0, cleaner.CleanupAbandonedDrafts(ctx, userID))
	mockRepo.AssertNotCalled(t, "MarkDeleted", mock.Anything, mock.Anything)
}

func TestCleanupReadFailureReturnsZero(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()

	mockRepo.On("ListStaleDrafts", ctx, userID, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("store unavailable"))

	assert.Equal(t, 0, cleaner.CleanupAbandonedDrafts(ctx, userID))
}

func TestCleanupWriteFailureReturnsZero(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()
	draft := Offer{ID: uuid.New(), UserID: userID, Status: StatusDraft, Source: SourceQuestionnaire, CreatedAt: time.Now().Add(-2 * time.Hour)}

	mockRepo.On("ListStaleDrafts", ctx, userID, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{draft}, nil)
	mockRepo.On("ListPackagesForOffers", ctx, []uuid.UUID{draft.ID}).Return([]Package{}, nil)
	mockRepo.On("MarkDeleted", ctx, []uuid.UUID{draft.ID}).Return(int64(0), errors.New("write failed"))

	assert.Equal(t, 0, cleaner.CleanupAbandonedDrafts(ctx, userID))
}

// Running the cleaner twice with no intervening changes deletes nothing
// the second time: the first pass moved the drafts out of draft status,
// so they no longer match the candidate query.
func TestCleanupIsIdempotent(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	userID := uuid.New()
	draft := Offer{ID: uuid.New(), UserID: userID, Status: StatusDraft, Source: SourceQuestionnaire, CreatedAt: time.Now().Add(-2 * time.Hour)}

	mockRepo.On("ListStaleDrafts", ctx, userID, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{draft}, nil).Once()
	mockRepo.On("ListPackagesForOffers", ctx, []uuid.UUID{draft.ID}).Return([]Package{}, nil).Once()
	mockRepo.On("MarkDeleted", ctx, []uuid.UUID{draft.ID}).Return(int64(1), nil).Once()

	assert.Equal(t, 1, cleaner.CleanupAbandonedDrafts(ctx, userID))

	mockRepo.On("ListStaleDrafts", ctx, userID, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{}, nil).Once()

	assert.Equal(t, 0, cleaner.CleanupAbandonedDrafts(ctx, userID))
	mockRepo.AssertExpectations(t)
}

func TestSweepAllCoversEveryUserWithStaleDrafts(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	aliceDraft := Offer{ID: uuid.New(), UserID: alice, Status: StatusDraft, Source: SourceQuestionnaire}
	bobDraft := Offer{ID: uuid.New(), UserID: bob, Status: StatusDraft, Source: SourceQuestionnaire}

	mockRepo.On("ListUsersWithStaleDrafts", ctx, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]uuid.UUID{alice, bob}, nil)
	mockRepo.On("ListStaleDrafts", ctx, alice, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{aliceDraft}, nil)
	mockRepo.On("ListStaleDrafts", ctx, bob, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return([]Offer{bobDraft}, nil)
	mockRepo.On("ListPackagesForOffers", ctx, []uuid.UUID{aliceDraft.ID}).Return([]Package{}, nil)
	mockRepo.On("ListPackagesForOffers", ctx, []uuid.UUID{bobDraft.ID}).Return([]Package{}, nil)
	mockRepo.On("MarkDeleted", ctx, []uuid.UUID{aliceDraft.ID}).Return(int64(1), nil)
	mockRepo.On("MarkDeleted", ctx, []uuid.UUID{bobDraft.ID}).Return(int64(1), nil)

	assert.Equal(t, 2, cleaner.SweepAll(ctx))
	mockRepo.AssertExpectations(t)
}

func TestSweepAllListFailureReturnsZero(t *testing.T) {
	mockRepo := new(MockRepository)
	cleaner := NewCleaner(mockRepo, time.Hour, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("ListUsersWithStaleDrafts", ctx, SourceQuestionnaire, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("query failed"))

	assert.Equal(t, 0, cleaner.SweepAll(ctx))
}
