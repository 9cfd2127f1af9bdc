package documents

import (
	"time"

	"github.com/google/uuid"
)

type DocumentKind string

const (
	KindPitchDeck DocumentKind = "pitch_deck"
	KindLogo      DocumentKind = "logo"
)

// Document is an uploaded file tied to a team profile. Pitch decks feed
// the pdf-upload onboarding path; a profile with at least one counts as
// having uploaded.
type Document struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	ProfileID   uuid.UUID    `json:"profile_id" db:"profile_id"`
	Kind        DocumentKind `json:"kind" db:"kind"`
	FileName    string       `json:"file_name" db:"file_name"`
	ContentType string       `json:"content_type" db:"content_type"`
	FileSize    int64        `json:"file_size" db:"file_size"`
	S3Bucket    string       `json:"-" db:"s3_bucket"`
	S3Key       string       `json:"-" db:"s3_key"`
	UploadedAt  time.Time    `json:"uploaded_at" db:"uploaded_at"`
}

// DownloadLink is a short-lived presigned URL for a stored document.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
