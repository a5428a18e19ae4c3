package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

type QueryService struct {
	provider domain.ReviewProvider
	places   domain.PlacesClient
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(p domain.ReviewProvider, pl domain.PlacesClient, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{provider: p, places: pl, cache: c, cacheTTL: ttl}
}

// Listing is the result of one review query: the filtered set plus the
// rollups when the caller asked for them.
type Listing struct {
	Result        []domain.Review
	Stats         *domain.ReviewStats
	PropertyStats []domain.PropertyStats
}

// ListReviews fetches the full review set, filters it and, when asked,
// aggregates the filtered set. Aggregation never runs on a partial fetch;
// a provider failure surfaces as-is.
func (s *QueryService) ListReviews(ctx context.Context, f domain.ReviewFilter, includeStats bool) (Listing, error) {
	reviews, err := s.provider.FetchReviews(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("fetch reviews: %w", err)
	}
	filtered := FilterReviews(reviews, f)
	out := Listing{Result: filtered}
	if includeStats {
		stats := CalcReviewStats(filtered)
		out.Stats = &stats
		out.PropertyStats = CalcPropertyStats(filtered)
	}
	return out, nil
}

// GoogleReviews returns the place payload plus its normalized reviews,
// serving from cache when a fresh copy exists. Caching keeps the Places
// quota in check; a failed cache write is not fatal.
func (s *QueryService) GoogleReviews(ctx context.Context, placeID string) (domain.PlaceDetails, []domain.Review, error) {
	key := PlaceCacheKey(placeID)
	var place domain.PlaceDetails
	if ok, _ := s.cache.Get(ctx, key, &place); ok {
		return place, NormalizeGoogleReviews(place), nil
	}
	place, err := s.places.PlaceDetails(ctx, placeID)
	if err != nil {
		return domain.PlaceDetails{}, nil, err
	}
	_ = s.cache.Set(ctx, key, place, int(s.cacheTTL.Seconds()))
	return place, NormalizeGoogleReviews(place), nil
}

// FindPlace resolves a listing name/address to Places candidates. Results
// are not cached: searches are rare and the quota concern is the details
// endpoint.
func (s *QueryService) FindPlace(ctx context.Context, name, address string) ([]domain.PlaceCandidate, error) {
	query := strings.TrimSpace(name + " " + address)
	return s.places.FindPlace(ctx, query)
}

func PlaceCacheKey(placeID string) string { return fmt.Sprintf("places:details:%s", placeID) }
