package places_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"flex_reviews/internal/adapters/places"
	"flex_reviews/internal/domain"
)

func TestPlaceDetails_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/details/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("place_id") != "ChIJ123" || q.Get("key") != "test-key" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"result": map[string]any{
				"name":               "Shoreditch Heights",
				"rating":             4.6,
				"user_ratings_total": 127,
				"reviews": []map[string]any{{
					"author_name": "John Smith",
					"language":    "en",
					"rating":      5,
					"text":        "Excellent",
					"time":        1704067200,
				}},
			},
		})
	}))
	defer ts.Close()

	cl := places.New(ts.URL, "test-key", 100)
	got, err := cl.PlaceDetails(context.Background(), "ChIJ123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.PlaceID != "ChIJ123" || got.Name != "Shoreditch Heights" || got.UserRatingsTotal != 127 {
		t.Fatalf("unexpected details: %+v", got)
	}
	if len(got.Reviews) != 1 || got.Reviews[0].Rating != 5 {
		t.Fatalf("unexpected reviews: %+v", got.Reviews)
	}
}

func TestPlaceDetails_BodyStatusNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "NOT_FOUND"})
	}))
	defer ts.Close()

	cl := places.New(ts.URL, "test-key", 100)
	_, err := cl.PlaceDetails(context.Background(), "gone")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceDetails_NotConfigured(t *testing.T) {
	cl := places.New("https://maps.googleapis.com/maps/api/place", "", 100)
	if cl.Configured() {
		t.Fatalf("empty key must report unconfigured")
	}
	_, err := cl.PlaceDetails(context.Background(), "ChIJ123")
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestPlaceDetails_RetriesTransient(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"result": map[string]any{"name": "Heights"},
		})
	}))
	defer ts.Close()

	cl := places.New(ts.URL, "test-key", 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.PlaceDetails(ctx, "ChIJ123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Name != "Heights" || atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("retry path broken: %+v hits=%d", got, hits)
	}
}

func TestFindPlace(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/findplacefromtext/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"candidates": []map[string]any{{
				"place_id":          "ChIJ123",
				"name":              "Shoreditch Heights",
				"formatted_address": "29 Shoreditch High St, London",
			}},
		})
	}))
	defer ts.Close()

	cl := places.New(ts.URL, "test-key", 100)
	got, err := cl.FindPlace(context.Background(), "Shoreditch Heights 29 Shoreditch High St")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "ChIJ123" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestFindPlace_ZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS"})
	}))
	defer ts.Close()

	cl := places.New(ts.URL, "test-key", 100)
	_, err := cl.FindPlace(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
