package geocode

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Function is the HTTP geocoding function. It is deployed standalone
// (cmd/geocode-fn) and also mounted on the API server, so it speaks plain
// net/http rather than gin.
type Function struct {
	client *Client
	logger *zap.Logger
}

func NewFunction(client *Client, logger *zap.Logger) *Function {
	return &Function{client: client, logger: logger}
}

// GeocodeRequest is the function's request payload
type GeocodeRequest struct {
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// Handle serves one geocode request. The browser calls this cross-origin,
// so OPTIONS preflights return an empty 200 with permissive headers.
func (f *Function) Handle(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req GeocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.City == "" || req.State == "" {
		f.writeError(w, http.StatusBadRequest, "city and state are required")
		return
	}

	result, err := f.client.Lookup(r.Context(), req.City, req.State, req.ZipCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoResults):
			f.writeError(w, http.StatusNotFound, "could not determine location")
		case errors.Is(err, ErrNotConfigured):
			f.logger.Error("geocode function is not configured", zap.Error(err))
			f.writeError(w, http.StatusInternalServerError, "geocoding service unavailable")
		default:
			f.logger.Error("geocode lookup failed", zap.Error(err))
			f.writeError(w, http.StatusInternalServerError, "geocoding service unavailable")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func (f *Function) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
