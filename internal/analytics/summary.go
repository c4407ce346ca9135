package analytics

import (
	"fmt"
	"math"
	"strings"
)

// NoFeedbackSummary is returned when there is nothing to summarize
const NoFeedbackSummary = "No feedback available for analysis."

const (
	concernsSentence     = "Students have expressed concerns that warrant attention."
	appreciationSentence = "The course is highly appreciated by students."
	fallbackThemes       = "general feedback"
)

// Percentages is a sentiment split that always sums to 100
type Percentages struct {
	Positive int
	Negative int
	Neutral  int
}

// SplitPercentages rounds the positive and negative shares half-to-even and
// derives the neutral share from them.
func SplitPercentages(d Distribution, total int) Percentages {
	if total <= 0 {
		return Percentages{}
	}
	pos := int(math.RoundToEven(float64(d.Positive) / float64(total) * 100))
	neg := int(math.RoundToEven(float64(d.Negative) / float64(total) * 100))
	return Percentages{Positive: pos, Negative: neg, Neutral: 100 - pos - neg}
}

func qualifier(p Percentages) string {
	switch {
	case p.Positive >= 60:
		return "predominantly positive"
	case p.Negative >= 40:
		return "showing areas for improvement"
	default:
		return "mixed"
	}
}

// Summarize composes a short paragraph from the sentiment split and the
// top keywords of texts.
func (e *Engine) Summarize(texts []string, sentiments []SentimentResult) string {
	if len(texts) == 0 {
		return NoFeedbackSummary
	}

	total := len(texts)
	pct := SplitPercentages(Distribute(sentiments), total)

	themes := fallbackThemes
	if kws := e.ExtractKeywords(texts, summaryKeywords); len(kws) > 0 {
		terms := make([]string, len(kws))
		for i, k := range kws {
			terms[i] = k.Term
		}
		themes = strings.Join(terms, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on %d feedback submission(s), student sentiment is %s. ", total, qualifier(pct))
	fmt.Fprintf(&b, "%d%% positive, %d%% negative, %d%% neutral. ", pct.Positive, pct.Negative, pct.Neutral)
	fmt.Fprintf(&b, "Key themes include: %s.", themes)

	if pct.Negative >= 30 {
		b.WriteString(" " + concernsSentence)
	}
	if pct.Positive >= 70 {
		b.WriteString(" " + appreciationSentence)
	}
	return b.String()
}
