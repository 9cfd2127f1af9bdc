package profiles

import (
	"time"

	"github.com/google/uuid"

	"pitchside/marketplace-backend/internal/onboarding"
)

// TeamProfile is the sports team's marketplace profile. The two
// onboarding fields together form the completion gate for the dashboard.
type TeamProfile struct {
	ID                  uuid.UUID                `json:"id" db:"id"`
	UserID              uuid.UUID                `json:"user_id" db:"user_id"`
	TeamName            string                   `json:"team_name" db:"team_name"`
	Sport               string                   `json:"sport" db:"sport"`
	City                string                   `json:"city" db:"city"`
	State               string                   `json:"state" db:"state"`
	ZipCode             string                   `json:"zip_code" db:"zip_code"`
	WebsiteURL          *string                  `json:"website_url,omitempty" db:"website_url"`
	Latitude            *float64                 `json:"latitude,omitempty" db:"latitude"`
	Longitude           *float64                 `json:"longitude,omitempty" db:"longitude"`
	FormattedAddress    *string                  `json:"formatted_address,omitempty" db:"formatted_address"`
	OnboardingCompleted bool                     `json:"onboarding_completed" db:"onboarding_completed"`
	CurrentStep         onboarding.PersistedStep `json:"current_onboarding_step" db:"current_onboarding_step"`
	CreatedAt           time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at" db:"updated_at"`
}

// OnboardingState snapshots the completion-gate fields from a single
// read of the profile row.
func (p *TeamProfile) OnboardingState() onboarding.ProfileState {
	return onboarding.ProfileState{
		OnboardingCompleted: p.OnboardingCompleted,
		CurrentStep:         p.CurrentStep,
	}
}

// CreateProfileRequest is the payload for profile creation
type CreateProfileRequest struct {
	TeamName   string  `json:"team_name" binding:"required"`
	Sport      string  `json:"sport" binding:"required"`
	City       string  `json:"city" binding:"required"`
	State      string  `json:"state" binding:"required"`
	ZipCode    string  `json:"zip_code"`
	WebsiteURL *string `json:"website_url"`
}

// UpdateProfileRequest is the payload for profile edits
type UpdateProfileRequest struct {
	TeamName   *string `json:"team_name"`
	Sport      *string `json:"sport"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	ZipCode    *string `json:"zip_code"`
	WebsiteURL *string `json:"website_url"`
}

// ResumeResponse tells the client which screen to render next
type ResumeResponse struct {
	ResumeStep          onboarding.UIStep        `json:"resume_step"`
	PersistedStep       onboarding.PersistedStep `json:"persisted_step"`
	OnboardingCompleted bool                     `json:"onboarding_completed"`
	FullyComplete       bool                     `json:"fully_complete"`
}
