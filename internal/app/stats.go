package app

import (
	"math"
	"sort"
	"time"

	"flex_reviews/internal/domain"
)

// CalcReviewStats computes the global rollup for a review set. Sums stay
// unrounded until the final average; an empty set yields a zero average.
func CalcReviewStats(reviews []domain.Review) domain.ReviewStats {
	stats := domain.ReviewStats{
		TotalReviews:        len(reviews),
		ChannelDistribution: map[string]int{},
		CategoryAverages:    map[string]float64{},
	}

	type acc struct {
		sum   float64
		count int
	}
	cats := map[string]*acc{}

	var sum float64
	for _, r := range reviews {
		sum += r.Rating
		if r.Approved {
			stats.ApprovedReviews++
		}
		stats.ChannelDistribution[r.Channel]++
		for _, c := range r.ReviewCategory {
			a := cats[c.Category]
			if a == nil {
				a = &acc{}
				cats[c.Category] = a
			}
			a.sum += c.Rating
			a.count++
		}
	}
	stats.PendingReviews = stats.TotalReviews - stats.ApprovedReviews
	if stats.TotalReviews > 0 {
		stats.AverageRating = round1(sum / float64(stats.TotalReviews))
	}
	// category means stay unrounded; only the headline averages are display values
	for name, a := range cats {
		stats.CategoryAverages[name] = a.sum / float64(a.count)
	}
	return stats
}

// CalcPropertyStats partitions the input by listingId and computes one
// rollup per listing, ordered by ascending listingId. listingName comes
// from the first record seen for the partition; diverging names within a
// partition are a data-quality violation upstream, not fixed here.
func CalcPropertyStats(reviews []domain.Review) []domain.PropertyStats {
	groups := map[int64][]domain.Review{}
	ids := make([]int64, 0)
	for _, r := range reviews {
		if _, ok := groups[r.ListingID]; !ok {
			ids = append(ids, r.ListingID)
		}
		groups[r.ListingID] = append(groups[r.ListingID], r)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.PropertyStats, 0, len(ids))
	for _, id := range ids {
		part := groups[id]
		var sum float64
		approved := 0
		for _, r := range part {
			sum += r.Rating
			if r.Approved {
				approved++
			}
		}
		recent := sortBySubmittedDesc(part)
		if len(recent) > 3 {
			recent = recent[:3]
		}
		out = append(out, domain.PropertyStats{
			ListingID:       id,
			ListingName:     part[0].ListingName,
			TotalReviews:    len(part),
			AverageRating:   round1(sum / float64(len(part))),
			ApprovedReviews: approved,
			PendingReviews:  len(part) - approved,
			RecentReviews:   recent,
		})
	}
	return out
}

// round1 rounds half-up to one decimal place.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// submittedTime parses a submittedAt display string. Hostaway emits
// "2006-01-02 15:04:05"; normalized Google reviews carry RFC 3339.
// Unparseable values sort as the zero time.
func submittedTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sortBySubmittedDesc returns a copy sorted newest first. The sort is
// stable so equal timestamps keep their input order.
func sortBySubmittedDesc(in []domain.Review) []domain.Review {
	out := make([]domain.Review, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return submittedTime(out[i].SubmittedAt).After(submittedTime(out[j].SubmittedAt))
	})
	return out
}
