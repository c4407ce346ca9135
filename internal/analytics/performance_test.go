package analytics

import "testing"

func sentimentsOf(labels ...Label) []SentimentResult {
	out := make([]SentimentResult, len(labels))
	for i, l := range labels {
		out[i] = SentimentResult{Label: l}
	}
	return out
}

func TestPerformanceScore(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name       string
		ratings    []float64
		sentiments []SentimentResult
		want       float64
	}{
		{"empty", nil, nil, 0},
		{"all top marks", []float64{5, 5, 5, 5}, sentimentsOf(LabelPositive, LabelPositive, LabelPositive, LabelPositive), 100},
		{"ratings only", []float64{4}, nil, 80},
		{"sentiments only", nil, sentimentsOf(LabelPositive, LabelNegative), 75},
		{"blend", []float64{3}, sentimentsOf(LabelNegative), 36},
		{"all negative floors at zero", nil, sentimentsOf(LabelNegative, LabelNegative), 0},
		{"rounded to one decimal", []float64{4, 4, 5}, nil, 86.7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.PerformanceScore(tc.ratings, tc.sentiments)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPerformanceScoreInRange(t *testing.T) {
	e := NewEngine()

	ratingSets := [][]float64{nil, {1}, {5, 5}, {1, 2, 3, 4, 5}, {7}}
	sentimentSets := [][]SentimentResult{
		nil,
		sentimentsOf(LabelNegative),
		sentimentsOf(LabelPositive, LabelPositive),
		sentimentsOf(LabelNeutral, LabelNegative, LabelPositive),
	}
	for _, r := range ratingSets {
		for _, s := range sentimentSets {
			got := e.PerformanceScore(r, s)
			if got < 0 || got > 100 {
				t.Fatalf("score %v out of range for ratings %v", got, r)
			}
		}
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatal("expected mean of empty slice to be 0")
	}
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
}

func TestPerformanceScoreRoundsTiesToEven(t *testing.T) {
	sentiments := sentimentsOf(
		LabelPositive, LabelPositive, LabelPositive,
		LabelNeutral, LabelNeutral, LabelNeutral, LabelNeutral,
		LabelNegative,
	)
	if got := NewEngine().PerformanceScore(nil, sentiments); got != 81.2 {
		t.Fatalf("expected 81.2, got %v", got)
	}
}
