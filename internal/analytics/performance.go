package analytics

import "math"

const (
	ratingScale     = 5.0
	ratingWeight    = 0.6
	sentimentWeight = 0.4
	negativePenalty = 0.5
	sentimentOffset = 50.0
)

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PerformanceScore blends the average rating and the sentiment split into
// a 0-100 score rounded to one decimal.
func (e *Engine) PerformanceScore(ratings []float64, sentiments []SentimentResult) float64 {
	if len(ratings) == 0 && len(sentiments) == 0 {
		return 0
	}

	var ratingScore float64
	if len(ratings) > 0 {
		ratingScore = Mean(ratings) / ratingScale * 100
	}

	var sentimentScore float64
	if len(sentiments) > 0 {
		d := Distribute(sentiments)
		raw := (float64(d.Positive) - negativePenalty*float64(d.Negative)) / float64(len(sentiments)) * 100
		sentimentScore = clamp(raw+sentimentOffset, 0, 100)
	}

	var final float64
	switch {
	case len(ratings) > 0 && len(sentiments) > 0:
		final = ratingWeight*ratingScore + sentimentWeight*sentimentScore
	case len(ratings) > 0:
		final = ratingScore
	default:
		final = sentimentScore
	}
	return Round(clamp(final, 0, 100), 1)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
