package domain

import "context"

// ReviewProvider supplies the full canonical review set for one request.
// Records are read-only snapshots; callers never mutate them in place.
type ReviewProvider interface {
	FetchReviews(ctx context.Context) ([]Review, error)
}

type PlacesClient interface {
	PlaceDetails(ctx context.Context, placeID string) (PlaceDetails, error)
	FindPlace(ctx context.Context, query string) ([]PlaceCandidate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReviewFilter holds the optional predicates of a listing query,
// AND-combined. Nil fields impose no constraint.
type ReviewFilter struct {
	ListingID *int64
	Channel   *string
	Approved  *bool
	MinRating *int
	MaxRating *int
	Search    *string
}

// Places read models, mirroring the details/find-place payloads.

// PlaceReview is one review entry from the details endpoint, on Google's
// 1-5 scale; Time is unix seconds.
type PlaceReview struct {
	AuthorName      string  `json:"author_name"`
	AuthorURL       string  `json:"author_url,omitempty"`
	Language        string  `json:"language"`
	ProfilePhotoURL string  `json:"profile_photo_url"`
	Rating          float64 `json:"rating"`
	RelativeTime    string  `json:"relative_time_description"`
	Text            string  `json:"text"`
	Time            int64   `json:"time"`
}

type PlaceDetails struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Rating           float64       `json:"rating"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	Reviews          []PlaceReview `json:"reviews"`
}

type PlaceCandidate struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}
