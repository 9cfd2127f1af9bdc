package settings

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreferences controls which channels a user receives.
// In-app toasts are always on; email is opt-out.
type NotificationPreferences struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	EmailEnabled bool      `json:"email_enabled" db:"email_enabled"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func defaultPreferences(userID uuid.UUID) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:       userID,
		EmailEnabled: true,
	}
}

type UpdatePreferencesRequest struct {
	EmailEnabled *bool `json:"email_enabled" binding:"required"`
}
