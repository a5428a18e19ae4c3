package domain

type ReviewCategory struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// Review is the canonical record every source is normalized onto.
// Ratings live on a 1-10 scale; submittedAt stays a display string
// (Hostaway emits "2006-01-02 15:04:05", Google normalization RFC 3339).
type Review struct {
	ID             int64            `json:"id"`
	Type           string           `json:"type"`
	Status         string           `json:"status"`
	Rating         float64          `json:"rating"`
	PublicReview   string           `json:"publicReview"`
	ReviewCategory []ReviewCategory `json:"reviewCategory"`
	SubmittedAt    string           `json:"submittedAt"`
	GuestName      string           `json:"guestName"`
	ListingName    string           `json:"listingName"`
	ListingID      int64            `json:"listingId"`
	Channel        string           `json:"channel"`
	Approved       bool             `json:"approved"`

	// Set only on normalized external reviews. SourceID is unique within one
	// normalization call, not across providers.
	SourceID   string      `json:"sourceId,omitempty"`
	Source     string      `json:"source,omitempty"`
	GoogleData *GoogleMeta `json:"googleData,omitempty"`
}

// GoogleMeta carries the external-only fields that have no slot in the
// canonical shape; aggregation and filtering never look at it.
type GoogleMeta struct {
	AuthorURL       string `json:"author_url,omitempty"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	Language        string `json:"language,omitempty"`
	RelativeTime    string `json:"relative_time_description,omitempty"`
}
