package places

import "flex_reviews/internal/domain"

// Demo returns a canned details payload used when no API key is configured
// or the caller asked for demo mode explicitly. It mirrors a real response
// so the normalization path downstream is exercised unchanged.
func Demo() domain.PlaceDetails {
	return domain.PlaceDetails{
		PlaceID:          "ChIJExample123",
		Name:             "2B N1 A - 29 Shoreditch Heights",
		Rating:           4.6,
		UserRatingsTotal: 127,
		Reviews: []domain.PlaceReview{
			{
				AuthorName:      "John Smith",
				Language:        "en",
				ProfilePhotoURL: "https://lh3.googleusercontent.com/example",
				Rating:          5,
				RelativeTime:    "2 weeks ago",
				Text:            "Excellent location and beautiful apartment. Everything was clean and modern. Highly recommend!",
				Time:            1704067200,
			},
			{
				AuthorName:      "Maria Garcia",
				Language:        "en",
				ProfilePhotoURL: "https://lh3.googleusercontent.com/example2",
				Rating:          4,
				RelativeTime:    "1 month ago",
				Text:            "Great stay overall. The apartment was comfortable and well-equipped. Minor issues with parking.",
				Time:            1701388800,
			},
		},
	}
}
