package websocket_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/notifications"
	ws "pitchside/marketplace-backend/internal/notifications/websocket"
)

func dialManager(t *testing.T, m *ws.Manager, userID uuid.UUID) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := m.HandleConnection(w, r, userID)
		require.NoError(t, err)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) notifications.WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg notifications.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSendToUserDeliversToLiveConnection(t *testing.T) {
	manager := ws.NewManager(zap.NewNop())
	defer manager.Close()

	userID := uuid.New()
	conn := dialManager(t, manager, userID)

	// First frame is the status greeting.
	greeting := readFrame(t, conn)
	assert.Equal(t, notifications.WSTypeStatus, greeting.Type)

	sent := manager.SendToUser(userID, notifications.WSMessage{
		Type: notifications.WSTypeNotification,
		Payload: &notifications.Notification{
			ID:      uuid.New(),
			UserID:  userID,
			Kind:    notifications.KindSuccess,
			Subject: "Offer published",
		},
	})
	assert.Equal(t, 1, sent)

	frame := readFrame(t, conn)
	assert.Equal(t, notifications.WSTypeNotification, frame.Type)
	assert.Equal(t, "Offer published", frame.Payload.Subject)
}

func TestSendToUserIgnoresOtherUsers(t *testing.T) {
	manager := ws.NewManager(zap.NewNop())
	defer manager.Close()

	connected := uuid.New()
	conn := dialManager(t, manager, connected)
	readFrame(t, conn) // status greeting

	sent := manager.SendToUser(uuid.New(), notifications.WSMessage{
		Type: notifications.WSTypeNotification,
	})
	assert.Equal(t, 0, sent)
}

func TestConnectionCounts(t *testing.T) {
	manager := ws.NewManager(zap.NewNop())
	defer manager.Close()

	userID := uuid.New()
	c1 := dialManager(t, manager, userID)
	c2 := dialManager(t, manager, userID)
	readFrame(t, c1)
	readFrame(t, c2)

	assert.Equal(t, 2, manager.ConnectionCount())
	assert.Equal(t, 2, manager.UserConnectionCount(userID))
	assert.Equal(t, 0, manager.UserConnectionCount(uuid.New()))
}

func TestDroppedConnectionIsForgotten(t *testing.T) {
	manager := ws.NewManager(zap.NewNop())
	defer manager.Close()

	userID := uuid.New()
	conn := dialManager(t, manager, userID)
	readFrame(t, conn)
	conn.Close()

	assert.Eventually(t, func() bool {
		return manager.UserConnectionCount(userID) == 0
	}, 2*time.Second, 20*time.Millisecond)
}
