package analytics

// Label is a sentiment class
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Priority orders improvement suggestions
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// SentimentResult is the classification of a single feedback text
type SentimentResult struct {
	Label      Label   `json:"label" bson:"label"`
	Score      float64 `json:"score" bson:"score"`           // -1 to 1
	Confidence float64 `json:"confidence" bson:"confidence"` // 0.5 to 0.99
}

// KeywordCount is a ranked term with its corpus frequency
type KeywordCount struct {
	Term  string `json:"keyword" bson:"keyword"`
	Count int    `json:"count" bson:"count"`
}

// SuggestionItem is a categorized recommendation
type SuggestionItem struct {
	Priority Priority `json:"priority" bson:"priority"`
	Category string   `json:"category" bson:"category"`
	Text     string   `json:"suggestion" bson:"suggestion"`
}

// Distribution counts sentiment labels
type Distribution struct {
	Positive int `json:"positive" bson:"positive"`
	Neutral  int `json:"neutral" bson:"neutral"`
	Negative int `json:"negative" bson:"negative"`
}

// Total returns the number of classified texts
func (d Distribution) Total() int {
	return d.Positive + d.Neutral + d.Negative
}

// Record is the full analytics result for one batch of feedback
type Record struct {
	AvgRating             float64           `json:"avg_rating" bson:"avgRating"`
	PerformanceScore      float64           `json:"performance_score" bson:"performanceScore"`
	SentimentDistribution Distribution      `json:"sentiment_distribution" bson:"sentimentDistribution"`
	Sentiments            []SentimentResult `json:"sentiments" bson:"sentiments"`
	Keywords              []KeywordCount    `json:"keywords" bson:"keywords"`
	Summary               string            `json:"summary" bson:"summary"`
	Suggestions           []SuggestionItem  `json:"suggestions" bson:"suggestions"`
	TotalFeedback         int               `json:"total_feedback" bson:"totalFeedback"`
}
