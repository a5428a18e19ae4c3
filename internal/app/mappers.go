package app

import (
	"fmt"
	"time"

	"flex_reviews/internal/domain"
)

// NormalizeGoogleReviews maps a Places details payload onto the canonical
// review shape. Google rates 1-5 and internal ratings are 1-10, so the
// value doubles exactly. The synthetic source id is unique within one
// normalization call only; listingId stays 0 until a place-to-listing
// mapping table exists. External-only fields go to the GoogleData side
// channel, never into the canonical fields.
func NormalizeGoogleReviews(place domain.PlaceDetails) []domain.Review {
	out := make([]domain.Review, 0, len(place.Reviews))
	for i, gr := range place.Reviews {
		rating := gr.Rating * 2
		out = append(out, domain.Review{
			ID:           int64(i),
			SourceID:     fmt.Sprintf("google_%s_%d", place.PlaceID, i),
			Type:         "guest-to-host",
			Status:       "published",
			Rating:       rating,
			PublicReview: gr.Text,
			ReviewCategory: []domain.ReviewCategory{
				{Category: "overall", Rating: rating},
			},
			SubmittedAt: time.Unix(gr.Time, 0).UTC().Format(time.RFC3339),
			GuestName:   gr.AuthorName,
			ListingName: place.Name,
			ListingID:   0,
			Channel:     "Google",
			Approved:    true, // Google reviews are already public
			Source:      "google_places",
			GoogleData: &domain.GoogleMeta{
				AuthorURL:       gr.AuthorURL,
				ProfilePhotoURL: gr.ProfilePhotoURL,
				Language:        gr.Language,
				RelativeTime:    gr.RelativeTime,
			},
		})
	}
	return out
}
