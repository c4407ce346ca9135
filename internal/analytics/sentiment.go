package analytics

import (
	"math"
	"strings"
	"unicode"
)

const (
	labelThreshold    = 0.05
	neutralConfidence = 0.6
	emptyConfidence   = 0.5
	maxConfidence     = 0.99
	confidenceSlope   = 5.0
)

// tokenize lowercases text and splits it into word runs
// (letters, digits and underscore).
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}

// Classify scores one text against the positive and negative lexicons
func (e *Engine) Classify(text string) SentimentResult {
	if text == "" {
		return SentimentResult{Label: LabelNeutral, Score: 0, Confidence: emptyConfidence}
	}

	words := tokenize(text)
	var pos, neg int
	for _, w := range words {
		switch {
		case e.lex.IsPositive(w):
			pos++
		case e.lex.IsNegative(w):
			neg++
		}
	}

	total := float64(max(len(words), 1))
	score := float64(pos)/total - float64(neg)/total

	result := SentimentResult{Score: Round(score, 3)}
	switch {
	case score > labelThreshold:
		result.Label = LabelPositive
		result.Confidence = Round(math.Min(0.5+score*confidenceSlope, maxConfidence), 3)
	case score < -labelThreshold:
		result.Label = LabelNegative
		result.Confidence = Round(math.Min(0.5+math.Abs(score)*confidenceSlope, maxConfidence), 3)
	default:
		result.Label = LabelNeutral
		result.Confidence = neutralConfidence
	}
	return result
}

// Distribute counts sentiment labels
func Distribute(sentiments []SentimentResult) Distribution {
	var d Distribution
	for _, s := range sentiments {
		switch s.Label {
		case LabelPositive:
			d.Positive++
		case LabelNegative:
			d.Negative++
		default:
			d.Neutral++
		}
	}
	return d
}

// Round rounds x to the given number of decimal places, ties to even
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}
