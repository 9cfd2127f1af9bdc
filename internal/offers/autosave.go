package offers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period between the last observed edit and
// the snapshot write.
const DefaultDebounce = 2 * time.Second

const commitTimeout = 10 * time.Second

// Notifier is the user-facing toast surface. Fire and forget; callers
// never consume a return value.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, subject, body string)
}

// SnapshotWriter is the slice of the repository the controller needs.
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context, id uuid.UUID, snapshot json.RawMessage) error
}

// AutosaveController coalesces rapid draft edits into at most one
// repository write per quiet period. Each draft gets its own debounce
// timer; a new edit replaces the pending snapshot and restarts the
// window, so only the last snapshot observed before the window closes is
// written.
//
// Autosave is informational: a failed write never blocks further edits,
// because the client's form state stays authoritative until final
// submission.
type AutosaveController struct {
	repo     SnapshotWriter
	notifier Notifier
	logger   *zap.Logger
	debounce time.Duration

	mu     sync.Mutex
	drafts map[uuid.UUID]*draftState
}

type draftState struct {
	userID      uuid.UUID
	timer       *time.Timer
	pending     json.RawMessage
	saving      bool
	submitting  bool
	lastSavedAt *time.Time
}

func NewAutosaveController(repo SnapshotWriter, notifier Notifier, debounce time.Duration, logger *zap.Logger) *AutosaveController {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &AutosaveController{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		debounce: debounce,
		drafts:   make(map[uuid.UUID]*draftState),
	}
}

// ScheduleSave records the latest form snapshot and (re)starts the
// debounce window. Without a draft identity there is nothing to key the
// write on, so the call is a no-op.
func (c *AutosaveController) ScheduleSave(offerID, userID uuid.UUID, snapshot json.RawMessage) {
	if offerID == uuid.Nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.drafts[offerID]
	if st == nil {
		st = &draftState{userID: userID}
		c.drafts[offerID] = st
	}
	if st.submitting {
		return
	}

	st.userID = userID
	st.pending = snapshot
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(c.debounce, func() {
		c.commit(offerID)
	})
}

// commit writes the pending snapshot for one draft. Skipped entirely when
// a submission is in flight. Edits arriving while the write is in flight
// are not merged into it; they sit in pending for the next window.
func (c *AutosaveController) commit(offerID uuid.UUID) {
	c.mu.Lock()
	st := c.drafts[offerID]
	if st == nil || st.submitting || st.pending == nil {
		c.mu.Unlock()
		return
	}
	if st.saving {
		// Previous write still in flight; try again after another window.
		st.timer = time.AfterFunc(c.debounce, func() {
			c.commit(offerID)
		})
		c.mu.Unlock()
		return
	}

	snapshot := st.pending
	userID := st.userID
	st.pending = nil
	st.saving = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		st.saving = false
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	if err := c.repo.SaveSnapshot(ctx, offerID, snapshot); err != nil {
		if isTransientNetworkError(err) {
			c.logger.Debug("autosave hit a transient network error",
				zap.String("offer_id", offerID.String()),
				zap.Error(err))
			return
		}
		c.logger.Warn("autosave failed",
			zap.String("offer_id", offerID.String()),
			zap.Error(err))
		if c.notifier != nil {
			c.notifier.Notify(ctx, userID, "error",
				"Draft not saved",
				"Your latest changes could not be saved automatically. You can keep editing; we'll retry on your next change.")
		}
		return
	}

	now := time.Now()
	c.mu.Lock()
	st.lastSavedAt = &now
	c.mu.Unlock()
}

// Flush synchronously writes any pending snapshot. Called when submission
// begins so the final submit sees the latest draft instead of racing a
// debounce timer.
func (c *AutosaveController) Flush(ctx context.Context, offerID uuid.UUID) error {
	c.mu.Lock()
	st := c.drafts[offerID]
	if st == nil || st.pending == nil {
		c.mu.Unlock()
		return nil
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	snapshot := st.pending
	st.pending = nil
	c.mu.Unlock()

	return c.repo.SaveSnapshot(ctx, offerID, snapshot)
}

// SetSubmitting gates autosave off while a final submission is in flight,
// and back on if the submission fails and editing resumes.
func (c *AutosaveController) SetSubmitting(offerID uuid.UUID, submitting bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.drafts[offerID]
	if st == nil {
		st = &draftState{}
		c.drafts[offerID] = st
	}
	st.submitting = submitting
	if submitting && st.timer != nil {
		st.timer.Stop()
		st.pending = nil
	}
}

// Status reports the last successful save time and whether a write is in
// flight, for the client's "saved just now" indicator.
func (c *AutosaveController) Status(offerID uuid.UUID) (lastSavedAt *time.Time, saving bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.drafts[offerID]
	if st == nil {
		return nil, false
	}
	return st.lastSavedAt, st.saving
}

// Forget drops controller state for a draft, stopping any pending timer.
// Called when a draft is published or deleted.
func (c *AutosaveController) Forget(offerID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st := c.drafts[offerID]; st != nil && st.timer != nil {
		st.timer.Stop()
	}
	delete(c.drafts, offerID)
}

// isTransientNetworkError separates connectivity blips, which are logged
// only, from real failures, which surface a warning toast.
func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET)
}
