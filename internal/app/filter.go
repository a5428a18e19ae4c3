package app

import (
	"strings"

	"flex_reviews/internal/domain"
)

// FilterReviews applies the optional predicates of f and returns the
// matches sorted newest first. Rating bounds are inclusive; a min above
// max simply matches nothing. An empty result is valid output.
func FilterReviews(reviews []domain.Review, f domain.ReviewFilter) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if f.ListingID != nil && r.ListingID != *f.ListingID {
			continue
		}
		if f.Channel != nil && !strings.EqualFold(r.Channel, *f.Channel) {
			continue
		}
		if f.Approved != nil && r.Approved != *f.Approved {
			continue
		}
		if f.MinRating != nil && r.Rating < float64(*f.MinRating) {
			continue
		}
		if f.MaxRating != nil && r.Rating > float64(*f.MaxRating) {
			continue
		}
		if f.Search != nil && !matchesSearch(r, *f.Search) {
			continue
		}
		out = append(out, r)
	}
	return sortBySubmittedDesc(out)
}

// matchesSearch is a case-insensitive substring match over the three
// display fields; any one hit is enough.
func matchesSearch(r domain.Review, term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.PublicReview), t) ||
		strings.Contains(strings.ToLower(r.GuestName), t) ||
		strings.Contains(strings.ToLower(r.ListingName), t)
}
