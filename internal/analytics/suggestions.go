package analytics

// keywordRule maps trigger terms found among the extracted keywords to a
// recommendation. Rules fire in declaration order.
type keywordRule struct {
	triggers []string
	item     SuggestionItem
}

var (
	overallQualityItem = SuggestionItem{
		Priority: PriorityHigh,
		Category: "Overall Quality",
		Text:     "Consider conducting a comprehensive course review and gathering more detailed feedback through office hours.",
	}
	excellenceItem = SuggestionItem{
		Priority: PriorityLow,
		Category: "Excellence Maintenance",
		Text:     "Continue the current teaching approach. Consider documenting best practices to share with colleagues.",
	}
	generalImprovementItem = SuggestionItem{
		Priority: PriorityLow,
		Category: "General Improvement",
		Text:     "Continue gathering feedback regularly and maintain communication channels with students.",
	}

	keywordRules = []keywordRule{
		{
			triggers: []string{"confusing", "unclear"},
			item: SuggestionItem{
				Priority: PriorityHigh,
				Category: "Content Clarity",
				Text:     "Restructure complex topics with clearer explanations, more examples, and visual aids.",
			},
		},
		{
			triggers: []string{"slow"},
			item: SuggestionItem{
				Priority: PriorityMedium,
				Category: "Course Pace",
				Text:     "Review the course pacing. Consider adding checkpoint quizzes to ensure student understanding before advancing.",
			},
		},
		{
			triggers: []string{"outdated"},
			item: SuggestionItem{
				Priority: PriorityMedium,
				Category: "Content Currency",
				Text:     "Update course materials with current industry examples and recent research findings.",
			},
		},
		{
			triggers: []string{"boring"},
			item: SuggestionItem{
				Priority: PriorityMedium,
				Category: "Engagement",
				Text:     "Incorporate more interactive elements: case studies, group discussions, and real-world projects.",
			},
		},
	}
)

const (
	lowRatingThreshold  = 3.0
	highRatingThreshold = 4.0
	highNegativeRatio   = 0.4
	lowNegativeRatio    = 0.2
)

// Suggest derives an ordered, never-empty list of recommendations.
// An avgRating of zero or less means no ratings were collected, and the
// rating thresholds are not applied.
func (e *Engine) Suggest(keywords []KeywordCount, sentiments []SentimentResult, avgRating float64) []SuggestionItem {
	present := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		present[k.Term] = true
	}

	negRatio := float64(Distribute(sentiments).Negative) / float64(max(len(sentiments), 1))

	rated := avgRating > 0

	var out []SuggestionItem
	if (rated && avgRating < lowRatingThreshold) || negRatio > highNegativeRatio {
		out = append(out, overallQualityItem)
	}

	for _, rule := range keywordRules {
		for _, t := range rule.triggers {
			if present[t] {
				out = append(out, rule.item)
				break
			}
		}
	}

	if rated && avgRating >= highRatingThreshold && negRatio < lowNegativeRatio {
		out = append(out, excellenceItem)
	}

	if len(out) == 0 {
		out = append(out, generalImprovementItem)
	}
	return out
}
