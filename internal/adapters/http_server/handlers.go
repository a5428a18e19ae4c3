// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/adapters/places"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	M *app.ModerationService

	// PlacesConfigured switches the Google endpoints between live lookups
	// and the canned demo payload.
	PlacesConfigured bool

	validate *validator.Validate
}

func NewHandlers(q *app.QueryService, m *app.ModerationService, placesConfigured bool) *Handlers {
	return &Handlers{Q: q, M: m, PlacesConfigured: placesConfigured, validate: validator.New()}
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews/hostaway", h.listReviews)
	s.mux.Patch("/v1/reviews/hostaway", h.moderateReview)
	s.mux.Get("/v1/reviews/google", h.googleReviews)
	s.mux.Post("/v1/reviews/google", h.searchPlace)
}

// ---- response envelopes ----

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type listingResponse struct {
	Status        string                 `json:"status"`
	Result        []domain.Review        `json:"result"`
	Stats         *domain.ReviewStats    `json:"stats,omitempty"`
	PropertyStats []domain.PropertyStats `json:"propertyStats,omitempty"`
}

type googleResponse struct {
	Status            string              `json:"status"`
	Source            string              `json:"source,omitempty"`
	GooglePlace       domain.PlaceDetails `json:"google_place"`
	NormalizedReviews []domain.Review     `json:"normalized_reviews"`
	IntegrationNotes  *integrationNotes   `json:"integration_notes,omitempty"`
}

type integrationNotes struct {
	Feasibility     string   `json:"feasibility"`
	Limitations     []string `json:"limitations"`
	Recommendations []string `json:"recommendations"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Status: "error", Message: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- review listing ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f domain.ReviewFilter

	if v := q.Get("propertyId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "propertyId must be an integer")
			return
		}
		f.ListingID = &id
	}
	if v := q.Get("channel"); v != "" {
		f.Channel = &v
	}
	if v := q.Get("approved"); v != "" {
		switch v {
		case "true":
			f.Approved = ptrBool(true)
		case "false":
			f.Approved = ptrBool(false)
		default:
			writeError(w, http.StatusBadRequest, "approved must be true or false")
			return
		}
	}
	for _, p := range []struct {
		name string
		dst  **int
	}{{"minRating", &f.MinRating}, {"maxRating", &f.MaxRating}} {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 10 {
				writeError(w, http.StatusBadRequest, p.name+" must be an integer between 1 and 10")
				return
			}
			*p.dst = &n
		}
	}
	if v := q.Get("search"); v != "" {
		f.Search = &v
	}
	includeStats := q.Get("includeStats") == "true"

	out, err := h.Q.ListReviews(r.Context(), f, includeStats)
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	resp := listingResponse{
		Status:        "success",
		Result:        out.Result,
		Stats:         out.Stats,
		PropertyStats: out.PropertyStats,
	}
	etag, body := calcETagAndBody(resp)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listReviews body")
	}
}

// ---- moderation ----

type moderationRequest struct {
	ReviewID *int64 `json:"reviewId" validate:"required"`
	Approved *bool  `json:"approved" validate:"required"`
}

func (h *Handlers) moderateReview(w http.ResponseWriter, r *http.Request) {
	var body moderationRequest
	// a string reviewId or approved fails the decode, not just validation
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.M.SetApproval(r.Context(), *body.ReviewID, *body.Approved)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": msg})
}

// ---- google reviews ----

func (h *Handlers) googleReviews(w http.ResponseWriter, r *http.Request) {
	demo := r.URL.Query().Get("demo") == "true"
	if demo || !h.PlacesConfigured {
		place := places.Demo()
		writeJSON(w, http.StatusOK, googleResponse{
			Status:            "success",
			Source:            "demo_mode",
			GooglePlace:       place,
			NormalizedReviews: app.NormalizeGoogleReviews(place),
			IntegrationNotes:  demoNotes(),
		})
		return
	}

	placeID := r.URL.Query().Get("placeId")
	if placeID == "" {
		writeError(w, http.StatusBadRequest, "Place ID is required. Get place ID from Google Places Search API first.")
		return
	}

	place, normalized, err := h.Q.GoogleReviews(r.Context(), placeID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Failed to fetch Google reviews")
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Google Places API not configured")
	case err != nil:
		log.Error().Err(err).Str("place", placeID).Msg("google reviews lookup failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusOK, googleResponse{
			Status:            "success",
			GooglePlace:       place,
			NormalizedReviews: normalized,
		})
	}
}

type placeSearchRequest struct {
	Address string `json:"address" validate:"required"`
	Name    string `json:"name" validate:"required"`
}

func (h *Handlers) searchPlace(w http.ResponseWriter, r *http.Request) {
	var body placeSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "name and address are required")
		return
	}
	if !h.PlacesConfigured {
		writeError(w, http.StatusServiceUnavailable, "Google Places API not configured")
		return
	}

	cands, err := h.Q.FindPlace(r.Context(), body.Name, body.Address)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "No places found matching the query")
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Google Places API not configured")
	case err != nil:
		log.Error().Err(err).Msg("place search failed")
		writeError(w, http.StatusInternalServerError, "Failed to search for place")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "candidates": cands})
	}
}

func demoNotes() *integrationNotes {
	return &integrationNotes{
		Feasibility: "Technically feasible with limitations",
		Limitations: []string{
			"Limited to 5 most helpful reviews",
			"Cannot control which reviews are shown",
			"No approval workflow (all reviews are public)",
			"Rate limited (1000 requests/day free tier)",
			"Requires Google Place ID for each property",
			"Reviews may not represent all guest feedback",
		},
		Recommendations: []string{
			"Use as supplementary data alongside Hostaway reviews",
			"Consider Google My Business API for more control",
			"Implement caching to respect rate limits",
			"Map internal property IDs to Google Place IDs",
			"Monitor API usage and implement fallbacks",
		},
	}
}

func ptrBool(b bool) *bool { return &b }
