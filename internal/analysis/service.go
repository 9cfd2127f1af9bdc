package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/offers"
)

var ErrUnreachable = errors.New("website could not be fetched")

// DraftSeeder is the slice of the offers service the analyzer needs to
// turn an extracted summary into a draft.
type DraftSeeder interface {
	CreateDraft(ctx context.Context, userID uuid.UUID, req *offers.CreateDraftRequest) (*offers.Offer, error)
	UpdateOffer(ctx context.Context, userID, offerID uuid.UUID, req *offers.UpdateOfferRequest) (*offers.Offer, error)
}

type Service struct {
	seeder     DraftSeeder
	httpClient *http.Client
	logger     *zap.Logger
}

func NewService(seeder DraftSeeder, logger *zap.Logger) *Service {
	return &Service{
		seeder: seeder,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// AnalysisResult pairs the extracted summary with the draft it seeded.
type AnalysisResult struct {
	Summary *SiteSummary  `json:"summary"`
	Offer   *offers.Offer `json:"offer"`
}

// AnalyzeWebsite fetches the site, extracts its summary and seeds a
// draft offer from it. Sites without a scheme get https prepended.
func (s *Service) AnalyzeWebsite(ctx context.Context, userID, profileID uuid.UUID, siteURL string) (*AnalysisResult, error) {
	normalized, err := normalizeURL(siteURL)
	if err != nil {
		return nil, err
	}

	summary, err := s.fetch(ctx, normalized)
	if err != nil {
		s.logger.Warn("website analysis fetch failed",
			zap.String("url", normalized),
			zap.Error(err))
		return nil, ErrUnreachable
	}

	offer, err := s.seeder.CreateDraft(ctx, userID, &offers.CreateDraftRequest{
		ProfileID: profileID,
		Source:    offers.SourceWebsite,
		Title:     summary.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed draft from analysis: %w", err)
	}

	if summary.Description != "" {
		offer, err = s.seeder.UpdateOffer(ctx, userID, offer.ID, &offers.UpdateOfferRequest{
			Description: &summary.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to apply analysis description: %w", err)
		}
	}

	s.logger.Info("website analyzed",
		zap.String("url", normalized),
		zap.String("offer_id", offer.ID.String()))

	return &AnalysisResult{Summary: summary, Offer: offer}, nil
}

func (s *Service) fetch(ctx context.Context, siteURL string) (*SiteSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "PitchsideBot/1.0 (+https://pitchside.app)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return Extract(resp.Body)
}

func normalizeURL(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("website url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid website url: %w", err)
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return "", fmt.Errorf("invalid website url: %w", err)
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("website url is missing a host")
	}
	return u.String(), nil
}
