//go:build integration || !unit

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"flex_reviews/internal/adapters/hostaway"
	httpserver "flex_reviews/internal/adapters/http_server"
	"flex_reviews/internal/adapters/places"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

// Wires the full stack: embedded review fixture, a stub Places upstream,
// miniredis for the cache and the real router with all middleware.
func newStack(t *testing.T) (*httptest.Server, *int64) {
	t.Helper()

	var upstreamHits int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamHits, 1)
		if !strings.HasPrefix(r.URL.Path, "/details/json") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"status": "OK",
			"result": {
				"place_id": "ChIJe2e",
				"name": "2B N1 A - 29 Shoreditch Heights",
				"rating": 4.6,
				"user_ratings_total": 127,
				"reviews": [
					{"author_name": "John Smith", "rating": 5, "text": "Great stay", "time": 1704067200, "language": "en"}
				]
			}
		}`)
	}))
	t.Cleanup(upstream.Close)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)

	provider := hostaway.New("", "61148", "", 5) // empty key: embedded fixture
	placesCli := places.New(upstream.URL, "e2e-key", 100)

	q := app.NewQueryService(provider, placesCli, cache, time.Minute)
	srv := httpserver.New()
	srv.MountHandlers(httpserver.NewHandlers(q, app.NewModerationService(), placesCli.Configured()))

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, &upstreamHits
}

func TestEndToEnd_ListingWithStats(t *testing.T) {
	ts, _ := newStack(t)

	res, err := http.Get(ts.URL + "/v1/reviews/hostaway?includeStats=true")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	var body struct {
		Status        string                 `json:"status"`
		Result        []domain.Review        `json:"result"`
		Stats         *domain.ReviewStats    `json:"stats"`
		PropertyStats []domain.PropertyStats `json:"propertyStats"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "success" || len(body.Result) == 0 {
		t.Fatalf("body: %+v", body)
	}
	if body.Stats == nil {
		t.Fatalf("stats missing")
	}
	if body.Stats.TotalReviews != len(body.Result) {
		t.Fatalf("total %d != result %d", body.Stats.TotalReviews, len(body.Result))
	}
	if body.Stats.ApprovedReviews+body.Stats.PendingReviews != body.Stats.TotalReviews {
		t.Fatalf("approved/pending partition broken: %+v", body.Stats)
	}
	var channelSum int
	for _, n := range body.Stats.ChannelDistribution {
		channelSum += n
	}
	if channelSum != body.Stats.TotalReviews {
		t.Fatalf("channel distribution does not cover all reviews: %+v", body.Stats.ChannelDistribution)
	}
	var perProperty int
	for _, ps := range body.PropertyStats {
		perProperty += ps.TotalReviews
		if len(ps.RecentReviews) > 3 {
			t.Fatalf("recentReviews capped at 3, got %d", len(ps.RecentReviews))
		}
	}
	if perProperty != body.Stats.TotalReviews {
		t.Fatalf("property partition does not cover all reviews")
	}

	// conditional re-fetch
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/reviews/hostaway?includeStats=true", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res2.StatusCode)
	}
}

func TestEndToEnd_FilteredListing(t *testing.T) {
	ts, _ := newStack(t)

	res, err := http.Get(ts.URL + "/v1/reviews/hostaway?approved=true&minRating=8")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()

	var body struct {
		Result []domain.Review `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Result) == 0 {
		t.Fatalf("expected at least one approved review rated >= 8 in the fixture")
	}
	for _, rv := range body.Result {
		if !rv.Approved || rv.Rating < 8 {
			t.Fatalf("filter leaked: %+v", rv)
		}
	}
}

func TestEndToEnd_Moderation(t *testing.T) {
	ts, _ := newStack(t)

	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/v1/reviews/hostaway",
		strings.NewReader(`{"reviewId": 7453, "approved": true}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "success" || body.Message != "Review 7453 approved successfully" {
		t.Fatalf("body: %+v", body)
	}
}

func TestEndToEnd_GoogleReviewsCached(t *testing.T) {
	ts, hits := newStack(t)

	get := func() (int, []domain.Review) {
		res, err := http.Get(ts.URL + "/v1/reviews/google?placeId=ChIJe2e")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer res.Body.Close()
		var body struct {
			NormalizedReviews []domain.Review `json:"normalized_reviews"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return res.StatusCode, body.NormalizedReviews
	}

	code, normalized := get()
	if code != http.StatusOK || len(normalized) != 1 {
		t.Fatalf("first fetch: code=%d normalized=%+v", code, normalized)
	}
	nr := normalized[0]
	if nr.Rating != 10 || nr.Channel != "Google" || !nr.Approved {
		t.Fatalf("normalization: %+v", nr)
	}
	if nr.SourceID != "google_ChIJe2e_0" {
		t.Fatalf("source id: %q", nr.SourceID)
	}
	if nr.SubmittedAt != "2024-01-01T00:00:00Z" {
		t.Fatalf("submittedAt: %q", nr.SubmittedAt)
	}

	// second call must come from the cache
	before := atomic.LoadInt64(hits)
	if code, _ := get(); code != http.StatusOK {
		t.Fatalf("second fetch: %d", code)
	}
	if after := atomic.LoadInt64(hits); after != before {
		t.Fatalf("expected cached response, upstream hits went %d -> %d", before, after)
	}
}
