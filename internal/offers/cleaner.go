package offers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultStaleAfter is how old an empty questionnaire draft must be
// before the cleaner sweeps it.
const DefaultStaleAfter = time.Hour

// Cleaner soft-deletes abandoned drafts: questionnaire-sourced draft
// offers older than the threshold with no packages. It runs at session
// start and from the maintenance worker; it is idempotent and best
// effort, so every failure logs and aborts the pass instead of
// propagating.
type Cleaner struct {
	repo       Repository
	staleAfter time.Duration
	logger     *zap.Logger
}

func NewCleaner(repo Repository, staleAfter time.Duration, logger *zap.Logger) *Cleaner {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Cleaner{repo: repo, staleAfter: staleAfter, logger: logger}
}

// CleanupAbandonedDrafts sweeps one user's abandoned drafts and returns
// how many were soft-deleted. A missing session (uuid.Nil) is an expected
// precondition, not an error.
func (c *Cleaner) CleanupAbandonedDrafts(ctx context.Context, userID uuid.UUID) int {
	if userID == uuid.Nil {
		return 0
	}

	cutoff := time.Now().Add(-c.staleAfter)
	candidates, err := c.repo.ListStaleDrafts(ctx, userID, SourceQuestionnaire, cutoff)
	if err != nil {
		c.logger.Warn("draft cleanup: failed to list stale drafts",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return 0
	}
	if len(candidates) == 0 {
		return 0
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, offer := range candidates {
		ids[i] = offer.ID
	}

	packages, err := c.repo.ListPackagesForOffers(ctx, ids)
	if err != nil {
		c.logger.Warn("draft cleanup: failed to list packages",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return 0
	}

	hasPackages := make(map[uuid.UUID]bool, len(packages))
	for _, pkg := range packages {
		hasPackages[pkg.OfferID] = true
	}

	var deletable []uuid.UUID
	for _, id := range ids {
		if !hasPackages[id] {
			deletable = append(deletable, id)
		}
	}
	if len(deletable) == 0 {
		return 0
	}

	deleted, err := c.repo.MarkDeleted(ctx, deletable)
	if err != nil {
		c.logger.Warn("draft cleanup: failed to mark drafts deleted",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return 0
	}

	c.logger.Info("draft cleanup removed abandoned drafts",
		zap.String("user_id", userID.String()),
		zap.Int64("count", deleted))
	return int(deleted)
}

// SweepAll runs the per-user cleanup for every user who currently owns
// a stale questionnaire draft. The maintenance worker calls this on a
// schedule.
func (c *Cleaner) SweepAll(ctx context.Context) int {
	cutoff := time.Now().Add(-c.staleAfter)
	userIDs, err := c.repo.ListUsersWithStaleDrafts(ctx, SourceQuestionnaire, cutoff)
	if err != nil {
		c.logger.Warn("draft cleanup: failed to list users with stale drafts", zap.Error(err))
		return 0
	}

	total := 0
	for _, userID := range userIDs {
		total += c.CleanupAbandonedDrafts(ctx, userID)
	}
	return total
}
