package offers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingWriter struct {
	mu        sync.Mutex
	snapshots []json.RawMessage
	err       error
}

func (w *recordingWriter) SaveSnapshot(ctx context.Context, id uuid.UUID, snapshot json.RawMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.snapshots = append(w.snapshots, snapshot)
	return nil
}

func (w *recordingWriter) writes() []json.RawMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]json.RawMessage, len(w.snapshots))
	copy(out, w.snapshots)
	return out
}

type toastRecorder struct {
	mu       sync.Mutex
	subjects []string
}

func (r *toastRecorder) Notify(ctx context.Context, userID uuid.UUID, kind, subject, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
}

func (r *toastRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subjects)
}

const testDebounce = 30 * time.Millisecond

func TestAutosaveCoalescesRapidEdits(t *testing.T) {
	writer := &recordingWriter{}
	controller := NewAutosaveController(writer, nil, testDebounce, zap.NewNop())

	offerID := uuid.New()
	userID := uuid.New()

	// Three edits inside one debounce window.
	controller.ScheduleSave(offerID, userID, json.RawMessage(`{"v":1}`))
	controller.ScheduleSave(offerID, userID, json.RawMessage(`{"v":2}`))
	controller.ScheduleSave(offerID, userID, json.RawMessage(`{"v":3}`))

	time.Sleep(4 * testDebounce)

	writes := writer.writes()
	assert.Len(t, writes, 1, "rapid edits inside one window must coalesce into one write")
	assert.JSONEq(t, `{"v":3}`, string(writes[0]), "the last snapshot wins")
}

func TestAutosaveNoDraftIdentityIsNoop(t *testing.T) {
	writer := &recordingWriter{}
	controller := NewAutosaveController(writer, nil, testDebounce, zap.NewNop())

	controller.ScheduleSave(uuid.Nil, uuid.New(), json.RawMessage(`{}`))
	time.Sleep(3 * testDebounce)

	assert.Empty(t, writer.writes())
}

func TestAutosaveGatedOffDuringSubmission(t *testing.T) {
	writer := &recordingWriter{}
	controller := NewAutosaveController(writer, nil, testDebounce, zap.NewNop())

	offerID := uuid.New()
	controller.SetSubmitting(offerID, true)
	controller.ScheduleSave(offerID, uuid.New(), json.RawMessage(`{"v":1}`))

	time.Sleep(3 * testDebounce)

	assert.Empty(t, writer.writes(), "no autosave may fire while a submission is in flight")
}

func TestAutosaveRecordsLastSaved(t *testing.T) {
	writer := &recordingWriter{}
	controller := NewAutosaveController(writer, nil, testDebounce, zap.NewNop())

	offerID := uuid.New()
	controller.ScheduleSave(offerID, uuid.New(), json.RawMessage(`{"v":1}`))

	time.Sleep(3 * testDebounce)

	lastSaved, saving := controller.Status(offerID)
	assert.NotNil(t, lastSaved)
	assert.False(t, saving)
}

func TestAutosaveTransientNetworkErrorIsSilent(t *testing.T) {
	writer := &recordingWriter{err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	toasts := &toastRecorder{}
	controller := NewAutosaveController(writer, toasts, testDebounce, zap.NewNop())

	controller.ScheduleSave(uuid.New(), uuid.New(), json.RawMessage(`{"v":1}`))
	time.Sleep(3 * testDebounce)

	assert.Zero(t, toasts.count(), "network blips are logged, not surfaced")
}

func TestAutosaveOtherFailureSurfacesWarning(t *testing.T) {
	writer := &recordingWriter{err: errors.New("constraint violation")}
	toasts := &toastRecorder{}
	controller := NewAutosaveController(writer, toasts, testDebounce, zap.NewNop())

	controller.ScheduleSave(uuid.New(), uuid.New(), json.RawMessage(`{"v":1}`))
	time.Sleep(3 * testDebounce)

	assert.Equal(t, 1, toasts.count(), "non-network failures surface one warning toast")
}

func TestFlushWritesPendingSynchronously(t *testing.T) {
	writer := &recordingWriter{}
	controller := NewAutosaveController(writer, nil, time.Minute, zap.NewNop())

	offerID := uuid.New()
	controller.ScheduleSave(offerID, uuid.New(), json.RawMessage(`{"v":9}`))

	assert.NoError(t, controller.Flush(context.Background(), offerID))

	writes := writer.writes()
	assert.Len(t, writes, 1)
	assert.JSONEq(t, `{"v":9}`, string(writes[0]))

	// Nothing left pending afterwards.
	assert.NoError(t, controller.Flush(context.Background(), offerID))
	assert.Len(t, writer.writes(), 1)
}

func TestForgetStopsPendingTimer(t *testing.T) {
	writer := &recordingWriter{}
	controller := NewAutosaveController(writer, nil, testDebounce, zap.NewNop())

	offerID := uuid.New()
	controller.ScheduleSave(offerID, uuid.New(), json.RawMessage(`{"v":1}`))
	controller.Forget(offerID)

	time.Sleep(3 * testDebounce)

	assert.Empty(t, writer.writes())
}
