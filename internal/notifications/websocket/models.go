package websocket

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is one in-app message for a user. Persisted so a user
// who was offline still sees what happened. Declared here (rather than
// in the parent notifications package) so the dependency between the
// two packages runs one way only; notifications re-exports it by alias.
type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"not null;index;type:uuid"`
	Kind      string         `json:"kind" gorm:"not null"`
	Subject   string         `json:"subject" gorm:"not null"`
	Body      string         `json:"body" gorm:"not null"`
	Metadata  datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	Read      bool           `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// WSMessage is the frame pushed to connected clients.
type WSMessage struct {
	Type      string        `json:"type"`
	Payload   *Notification `json:"payload,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

const (
	WSTypeNotification = "notification"
	WSTypeStatus       = "status"
)
