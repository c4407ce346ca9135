// Package analytics turns free-text course feedback and numeric ratings
// into sentiment labels, ranked keywords, a summary paragraph, a 0-100
// performance score and improvement suggestions.
//
// Every function here is deterministic and free of I/O. An Engine may be
// shared between goroutines.
package analytics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when the caller passes values the engine
// cannot count, such as NaN ratings.
var ErrInvalidInput = errors.New("invalid input")

// Engine runs the rule-based feedback pipeline over a fixed lexicon
type Engine struct {
	lex  *Lexicon
	topN int
}

// Option configures an Engine
type Option func(*Engine)

// WithTopN sets the length of the keyword list in Analyze
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// NewEngine creates an engine using the default lexicon
func NewEngine(opts ...Option) *Engine {
	e := &Engine{lex: DefaultLexicon(), topN: DefaultTopN}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ClassifyAll classifies each text in order
func (e *Engine) ClassifyAll(texts []string) []SentimentResult {
	out := make([]SentimentResult, len(texts))
	for i, t := range texts {
		out[i] = e.Classify(t)
	}
	return out
}

// Analyze runs the full pipeline. Empty texts are dropped before analysis.
func (e *Engine) Analyze(texts []string, ratings []float64) (*Record, error) {
	for i, r := range ratings {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("rating %d: %w", i, ErrInvalidInput)
		}
	}

	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			kept = append(kept, t)
		}
	}

	sentiments := e.ClassifyAll(kept)
	keywords := e.ExtractKeywords(kept, e.topN)
	avg := Mean(ratings)

	return &Record{
		AvgRating:             Round(avg, 2),
		PerformanceScore:      e.PerformanceScore(ratings, sentiments),
		SentimentDistribution: Distribute(sentiments),
		Sentiments:            sentiments,
		Keywords:              keywords,
		Summary:               e.Summarize(kept, sentiments),
		Suggestions:           e.Suggest(keywords, sentiments, avg),
		TotalFeedback:         len(kept),
	}, nil
}
