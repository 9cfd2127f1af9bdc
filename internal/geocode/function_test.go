package geocode

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newProvider(t *testing.T, status string, results bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": status, "results": []any{}}
		if results {
			resp["results"] = []any{
				map[string]any{
					"formatted_address": "Austin, TX 78701, USA",
					"geometry": map[string]any{
						"location": map[string]any{"lat": 30.2672, "lng": -97.7431},
					},
				},
			}
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func doRequest(f *Function, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/geocode", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.Handle(rec, req)
	return rec
}

func TestGeocodeMissingState(t *testing.T) {
	provider := newProvider(t, "OK", true)
	defer provider.Close()

	f := NewFunction(NewClient("key", provider.URL, zap.NewNop()), zap.NewNop())
	rec := doRequest(f, http.MethodPost, `{"city":"Austin"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeocodeZeroResults(t *testing.T) {
	provider := newProvider(t, "ZERO_RESULTS", false)
	defer provider.Close()

	f := NewFunction(NewClient("key", provider.URL, zap.NewNop()), zap.NewNop())
	rec := doRequest(f, http.MethodPost, `{"city":"Nowhere","state":"ZZ"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGeocodeMissingAPIKey(t *testing.T) {
	f := NewFunction(NewClient("", "http://unused", zap.NewNop()), zap.NewNop())
	rec := doRequest(f, http.MethodPost, `{"city":"Austin","state":"TX"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGeocodeSuccess(t *testing.T) {
	provider := newProvider(t, "OK", true)
	defer provider.Close()

	f := NewFunction(NewClient("key", provider.URL, zap.NewNop()), zap.NewNop())
	rec := doRequest(f, http.MethodPost, `{"city":"Austin","state":"TX","zipCode":"78701"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 30.2672, result.Latitude)
	assert.Equal(t, -97.7431, result.Longitude)
	assert.Equal(t, "Austin, TX 78701, USA", result.FormattedAddress)
}

func TestGeocodePreflight(t *testing.T) {
	f := NewFunction(NewClient("key", "http://unused", zap.NewNop()), zap.NewNop())
	rec := doRequest(f, http.MethodOptions, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBuildAddressPrefersZip(t *testing.T) {
	assert.Equal(t, "78701, TX", BuildAddress("Austin", "TX", "78701"))
	assert.Equal(t, "Austin, TX", BuildAddress("Austin", "TX", ""))
}
