package offers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/pkg/pdf"
	"pitchside/marketplace-backend/pkg/workflows"
)

// listingCacheTTL bounds how stale the marketplace listing may get
// between publish/archive flushes.
const listingCacheTTL = 30 * time.Second

type Service struct {
	repo     Repository
	autosave *AutosaveController
	sm       *workflows.StateMachine
	pdfGen   *pdf.Generator
	notifier Notifier
	listings *listingCache
	logger   *zap.Logger
}

func NewService(repo Repository, autosave *AutosaveController, pdfGen *pdf.Generator, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		autosave: autosave,
		sm:       workflows.NewOfferStateMachine(),
		pdfGen:   pdfGen,
		notifier: notifier,
		listings: newListingCache(listingCacheTTL),
		logger:   logger,
	}
}

// CreateDraft starts a new draft offer. Questionnaire-based onboarding
// calls this before the first answer so autosave has an identity to key
// writes on.
func (s *Service) CreateDraft(ctx context.Context, userID uuid.UUID, req *CreateDraftRequest) (*Offer, error) {
	if req.Source != SourceQuestionnaire && req.Source != SourceWebsite && req.Source != SourcePDF {
		return nil, fmt.Errorf("unknown offer source %q", req.Source)
	}

	offer := &Offer{
		ID:        uuid.New(),
		UserID:    userID,
		ProfileID: req.ProfileID,
		Title:     req.Title,
		Status:    StatusDraft,
		Source:    req.Source,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return offer, nil
}

func (s *Service) GetOwnedOffer(ctx context.Context, userID, offerID uuid.UUID) (*Offer, error) {
	offer, err := s.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}
	if offer == nil || offer.UserID != userID || offer.Status == StatusDeleted {
		return nil, nil
	}
	return offer, nil
}

func (s *Service) ListMyOffers(ctx context.Context, userID uuid.UUID) ([]Offer, error) {
	return s.repo.ListOffersByUser(ctx, userID)
}

func (s *Service) UpdateOffer(ctx context.Context, userID, offerID uuid.UUID, req *UpdateOfferRequest) (*Offer, error) {
	offer, err := s.GetOwnedOffer(ctx, userID, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, fmt.Errorf("offer not found")
	}

	if req.Title != nil {
		offer.Title = *req.Title
	}
	if req.Description != nil {
		offer.Description = *req.Description
	}

	if err := s.repo.UpdateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}
	return offer, nil
}

func (s *Service) AddPackage(ctx context.Context, userID, offerID uuid.UUID, req *CreatePackageRequest) (*Package, error) {
	offer, err := s.GetOwnedOffer(ctx, userID, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, fmt.Errorf("offer not found")
	}

	pkg := &Package{
		ID:         uuid.New(),
		OfferID:    offerID,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Benefits:   req.Benefits,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreatePackage(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return pkg, nil
}

func (s *Service) ListPackages(ctx context.Context, userID, offerID uuid.UUID) ([]Package, error) {
	offer, err := s.GetOwnedOffer(ctx, userID, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, fmt.Errorf("offer not found")
	}
	return s.repo.ListPackages(ctx, offerID)
}

// Autosave records a draft edit through the debounced controller. The
// write itself happens after the quiet period, not inline.
func (s *Service) Autosave(ctx context.Context, userID, offerID uuid.UUID, snapshot []byte) error {
	offer, err := s.GetOwnedOffer(ctx, userID, offerID)
	if err != nil {
		return err
	}
	if offer == nil {
		return fmt.Errorf("offer not found")
	}
	if offer.Status != StatusDraft {
		return fmt.Errorf("offer is not a draft")
	}

	s.autosave.ScheduleSave(offerID, userID, snapshot)
	return nil
}

func (s *Service) AutosaveStatus(offerID uuid.UUID) (lastSavedAt *time.Time, saving bool) {
	return s.autosave.Status(offerID)
}

// Publish promotes a draft to the marketplace. Any pending autosave is
// flushed first and the autosave gate closed, so the submission cannot
// race a debounce timer.
func (s *Service) Publish(ctx context.Context, userID, offerID uuid.UUID) (*Offer, error) {
	offer, err := s.GetOwnedOffer(ctx, userID, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, fmt.Errorf("offer not found")
	}

	if !s.sm.CanTransition(string(offer.Status), string(StatusPublished)) {
		return nil, fmt.Errorf("cannot publish offer in status %s", offer.Status)
	}

	packages, err := s.repo.ListPackages(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(packages) == 0 {
		return nil, fmt.Errorf("offer needs at least one package before publishing")
	}

	if err := s.autosave.Flush(ctx, offerID); err != nil {
		s.logger.Warn("failed to flush pending autosave before publish",
			zap.String("offer_id", offerID.String()),
			zap.Error(err))
	}
	s.autosave.SetSubmitting(offerID, true)

	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, offerID, StatusPublished, &now); err != nil {
		s.autosave.SetSubmitting(offerID, false)
		return nil, fmt.Errorf("failed to publish offer: %w", err)
	}
	s.autosave.Forget(offerID)
	s.listings.flush()

	offer.Status = StatusPublished
	offer.PublishedAt = &now

	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, "success",
			"Offer published",
			fmt.Sprintf("%q is now live on the marketplace.", offer.Title))
	}

	return offer, nil
}

// Archive pulls a published offer off the marketplace without deleting it.
func (s *Service) Archive(ctx context.Context, userID, offerID uuid.UUID) error {
	offer, err := s.GetOwnedOffer(ctx, userID, offerID)
	if err != nil {
		return err
	}
	if offer == nil {
		return fmt.Errorf("offer not found")
	}
	if !s.sm.CanTransition(string(offer.Status), string(StatusArchived)) {
		return fmt.Errorf("cannot archive offer in status %s", offer.Status)
	}
	if err := s.repo.UpdateStatus(ctx, offerID, StatusArchived, nil); err != nil {
		return err
	}
	s.listings.flush()
	return nil
}

// OnePager renders the downloadable PDF summary of an offer.
func (s *Service) OnePager(ctx context.Context, offerID uuid.UUID, teamName, location string) ([]byte, error) {
	offer, err := s.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}
	if offer == nil || offer.Status != StatusPublished {
		return nil, fmt.Errorf("offer not found")
	}

	packages, err := s.repo.ListPackages(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	summary := pdf.OfferSummary{
		Title:       offer.Title,
		TeamName:    teamName,
		Location:    location,
		Description: offer.Description,
	}
	for _, pkg := range packages {
		summary.Packages = append(summary.Packages, pdf.PackageLine{
			Name:     pkg.Name,
			Price:    fmt.Sprintf("$%.2f", float64(pkg.PriceCents)/100),
			Benefits: pkg.Benefits,
		})
	}

	return s.pdfGen.OfferOnePager(summary)
}

// Marketplace lists published offers for sponsors.
func (s *Service) Marketplace(ctx context.Context, filters *MarketplaceFilters) (*MarketplaceListing, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	if cached, ok := s.listings.get(filters); ok {
		return cached, nil
	}

	offers, total, err := s.repo.ListPublished(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketplace offers: %w", err)
	}

	listing := &MarketplaceListing{
		Offers:     offers,
		TotalCount: total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	}
	s.listings.set(filters, listing)
	return listing, nil
}
