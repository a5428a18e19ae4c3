package domain

// ReviewStats is the global rollup over a review set. averageRating is the
// only rounded value (1 decimal, half-up); categoryAverages stay raw.
type ReviewStats struct {
	TotalReviews        int                `json:"totalReviews"`
	AverageRating       float64            `json:"averageRating"`
	ApprovedReviews     int                `json:"approvedReviews"`
	PendingReviews      int                `json:"pendingReviews"`
	ChannelDistribution map[string]int     `json:"channelDistribution"`
	CategoryAverages    map[string]float64 `json:"categoryAverages"`
}

// PropertyStats is the per-listing rollup. RecentReviews holds at most the
// three newest reviews of that listing.
type PropertyStats struct {
	ListingID       int64    `json:"listingId"`
	ListingName     string   `json:"listingName"`
	TotalReviews    int      `json:"totalReviews"`
	AverageRating   float64  `json:"averageRating"`
	ApprovedReviews int      `json:"approvedReviews"`
	PendingReviews  int      `json:"pendingReviews"`
	RecentReviews   []Review `json:"recentReviews"`
}
