package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Manager tracks live client connections and routes notification
// frames to them. A user may hold several connections (tabs).
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

type Connection struct {
	ID     string
	UserID uuid.UUID
	conn   *websocket.Conn
	send   chan WSMessage
	once   sync.Once
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		connections: make(map[string]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients carry the session in the bearer token,
			// not cookies, so cross-origin upgrades are safe to allow.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleConnection upgrades the request and starts the read/write
// pumps. The caller has already authenticated userID.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*Connection, error) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		send:   make(chan WSMessage, 64),
	}

	m.mu.Lock()
	m.connections[connection.ID] = connection
	m.mu.Unlock()

	m.logger.Debug("websocket connected",
		zap.String("connection_id", connection.ID),
		zap.String("user_id", userID.String()))

	go m.readPump(connection)
	go m.writePump(connection)

	connection.send <- WSMessage{
		Type:      WSTypeStatus,
		Timestamp: time.Now().UTC(),
	}

	return connection, nil
}

// readPump discards client frames; the socket is push-only. It exists
// to notice closes and answer pings.
func (m *Manager) readPump(c *Connection) {
	defer m.drop(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (m *Manager) writePump(c *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) drop(c *Connection) {
	m.mu.Lock()
	if _, ok := m.connections[c.ID]; ok {
		delete(m.connections, c.ID)
		c.once.Do(func() { close(c.send) })
	}
	m.mu.Unlock()
	c.conn.Close()
}

// SendToUser delivers to every live connection the user holds. Returns
// how many connections accepted the frame.
func (m *Manager) SendToUser(userID uuid.UUID, message WSMessage) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sent := 0
	for _, conn := range m.connections {
		if conn.UserID != userID {
			continue
		}
		select {
		case conn.send <- message:
			sent++
		default:
			// Buffer full; the client will catch up from the list
			// endpoint.
		}
	}
	return sent
}

func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

func (m *Manager) UserConnectionCount(userID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, conn := range m.connections {
		if conn.UserID == userID {
			count++
		}
	}
	return count
}

// Close tears down every connection, for shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	for id, conn := range m.connections {
		delete(m.connections, id)
		conn.once.Do(func() { close(conn.send) })
		conn.conn.Close()
	}
	m.mu.Unlock()
}
