package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoResults means the upstream provider found no match for the address.
	ErrNoResults = errors.New("geocode: no results for address")
	// ErrNotConfigured means no provider API key is set.
	ErrNotConfigured = errors.New("geocode: provider API key not configured")
)

// Result is a resolved location
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// Client calls a Google-style geocoding endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// BuildAddress assembles the lookup address. The postal code is preferred
// over the city when present, since it geocodes more precisely.
func BuildAddress(city, state, zipCode string) string {
	if zipCode != "" {
		return fmt.Sprintf("%s, %s", zipCode, state)
	}
	return fmt.Sprintf("%s, %s", city, state)
}

type providerResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup geocodes a city/state/zip triple. Returns ErrNotConfigured when
// no API key is set and ErrNoResults when the provider has no match.
func (c *Client) Lookup(ctx context.Context, city, state, zipCode string) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	address := BuildAddress(city, state, zipCode)
	endpoint := fmt.Sprintf("%s?address=%s&key=%s", c.baseURL, url.QueryEscape(address), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode provider call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}

	var parsed providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if parsed.Status == "ZERO_RESULTS" || len(parsed.Results) == 0 {
		return nil, ErrNoResults
	}

	best := parsed.Results[0]
	return &Result{
		Latitude:         best.Geometry.Location.Lat,
		Longitude:        best.Geometry.Location.Lng,
		FormattedAddress: best.FormattedAddress,
	}, nil
}
