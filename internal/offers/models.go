package offers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	StatusDraft     OfferStatus = "draft"
	StatusPublished OfferStatus = "published"
	StatusArchived  OfferStatus = "archived"
	StatusDeleted   OfferStatus = "deleted"
)

// OfferSource tags which onboarding path created the offer. The cleaner
// only sweeps questionnaire drafts; the other paths create their content
// up front.
type OfferSource string

const (
	SourceQuestionnaire OfferSource = "questionnaire"
	SourceWebsite       OfferSource = "website"
	SourcePDF           OfferSource = "pdf"
)

// Offer is a sponsorship offer. While status is draft the Snapshot column
// holds the in-progress form state; on publish the structured fields are
// authoritative.
type Offer struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	ProfileID   uuid.UUID       `json:"profile_id" db:"profile_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Status      OfferStatus     `json:"status" db:"status"`
	Source      OfferSource     `json:"source" db:"source"`
	Snapshot    json.RawMessage `json:"snapshot,omitempty" db:"snapshot"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	PublishedAt *time.Time      `json:"published_at,omitempty" db:"published_at"`
}

// Package is a purchasable sponsorship tier under an offer. A draft with
// at least one package is considered non-empty by the cleaner.
type Package struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OfferID    uuid.UUID `json:"offer_id" db:"offer_id"`
	Name       string    `json:"name" db:"name"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	Benefits   string    `json:"benefits" db:"benefits"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CreateDraftRequest struct {
	ProfileID uuid.UUID   `json:"profile_id" binding:"required"`
	Source    OfferSource `json:"source" binding:"required"`
	Title     string      `json:"title"`
}

type CreatePackageRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required"`
	Benefits   string `json:"benefits"`
}

type UpdateOfferRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// MarketplaceFilters narrows the public listing
type MarketplaceFilters struct {
	Sport    *string
	State    *string
	Search   *string
	Page     int
	PageSize int
}

// MarketplaceListing is one page of published offers
type MarketplaceListing struct {
	Offers     []Offer `json:"offers"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
}
