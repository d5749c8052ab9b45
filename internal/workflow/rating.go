package workflow

import (
	"math"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
)

// RecomputeRating returns the arithmetic mean of the review ratings, or 0 with no reviews.
func RecomputeRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// StoredRating rounds a mean half-up to the two decimals kept in NUMERIC(3,2).
func StoredRating(mean float64) float64 {
	return math.Round(mean*100) / 100
}
