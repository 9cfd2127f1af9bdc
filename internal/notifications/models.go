package notifications

import (
	ws "pitchside/marketplace-backend/internal/notifications/websocket"
)

// Notification kinds. The client renders these as toast variants; kind
// also decides whether the email channel fires.
const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
)

// Notification is one in-app message for a user. Persisted so a user
// who was offline still sees what happened. The declaration lives in
// the websocket subpackage so the import between the packages runs one
// way only; the alias keeps this package's API unchanged.
type Notification = ws.Notification

// WSMessage is the frame pushed to connected clients.
type WSMessage = ws.WSMessage

const (
	WSTypeNotification = ws.WSTypeNotification
	WSTypeStatus       = ws.WSTypeStatus
)
