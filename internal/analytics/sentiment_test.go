package analytics

import (
	"strings"
	"testing"
)

func TestClassifyPositive(t *testing.T) {
	e := NewEngine()

	got := e.Classify("excellent great helpful")
	if got.Label != LabelPositive {
		t.Fatalf("expected positive, got %s", got.Label)
	}
	if got.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", got.Score)
	}
	if got.Confidence != 0.99 {
		t.Fatalf("expected confidence capped at 0.99, got %v", got.Confidence)
	}
}

func TestClassifyNegative(t *testing.T) {
	e := NewEngine()

	got := e.Classify("The course was boring and confusing")
	if got.Label != LabelNegative {
		t.Fatalf("expected negative, got %s", got.Label)
	}
	if got.Score != -0.333 {
		t.Fatalf("expected score -0.333, got %v", got.Score)
	}
	if got.Confidence != 0.99 {
		t.Fatalf("expected confidence 0.99, got %v", got.Confidence)
	}
}

func TestClassifyConfidenceBelowCap(t *testing.T) {
	e := NewEngine()

	// one positive word in fifteen tokens
	words := append([]string{"good"}, strings.Fields(strings.Repeat("lecture ", 14))...)
	got := e.Classify(strings.Join(words, " "))
	if got.Label != LabelPositive {
		t.Fatalf("expected positive, got %s", got.Label)
	}
	if got.Score != 0.067 {
		t.Fatalf("expected score 0.067, got %v", got.Score)
	}
	if got.Confidence != 0.833 {
		t.Fatalf("expected confidence 0.833, got %v", got.Confidence)
	}
}

func TestClassifyNeutralAndEmpty(t *testing.T) {
	e := NewEngine()

	got := e.Classify("The lectures are on Monday")
	if got.Label != LabelNeutral || got.Confidence != 0.6 || got.Score != 0 {
		t.Fatalf("unexpected neutral result %+v", got)
	}

	empty := e.Classify("")
	if empty.Label != LabelNeutral || empty.Score != 0 || empty.Confidence != 0.5 {
		t.Fatalf("unexpected empty result %+v", empty)
	}

	punct := e.Classify("?!...")
	if punct.Label != LabelNeutral || punct.Confidence != 0.6 {
		t.Fatalf("unexpected punctuation result %+v", punct)
	}
}

func TestClassifyThresholdIsStrict(t *testing.T) {
	e := NewEngine()

	// 1 positive in 20 tokens is exactly 0.05 and stays neutral
	words := append([]string{"good"}, strings.Fields(strings.Repeat("lecture ", 19))...)
	got := e.Classify(strings.Join(words, " "))
	if got.Label != LabelNeutral {
		t.Fatalf("expected neutral at threshold, got %s (score %v)", got.Label, got.Score)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	e := NewEngine()

	if got := e.Classify("EXCELLENT!"); got.Label != LabelPositive {
		t.Fatalf("expected positive, got %s", got.Label)
	}
}

func TestClassifyScoreMonotonic(t *testing.T) {
	e := NewEngine()

	// ten tokens each, net sentiment rising from -4 to +4
	texts := []string{
		"bad poor boring slow lecture lecture lecture lecture lecture lecture",
		"bad poor boring lecture lecture lecture lecture lecture lecture lecture",
		"bad poor great boring lecture lecture lecture lecture lecture lecture",
		"bad lecture lecture lecture lecture lecture lecture lecture lecture lecture",
		"lecture lecture lecture lecture lecture lecture lecture lecture lecture lecture",
		"good lecture lecture lecture lecture lecture lecture lecture lecture lecture",
		"good great clear bad lecture lecture lecture lecture lecture lecture",
		"good great clear lecture lecture lecture lecture lecture lecture lecture",
		"good great clear helpful lecture lecture lecture lecture lecture lecture",
	}

	prev := -2.0
	for _, text := range texts {
		got := e.Classify(text)
		if got.Score < prev {
			t.Fatalf("score decreased: %v after %v for %q", got.Score, prev, text)
		}
		if got.Confidence < 0.5 || got.Confidence > 0.99 {
			t.Fatalf("confidence %v out of range for %q", got.Confidence, text)
		}
		prev = got.Score
	}
}

func TestDistribute(t *testing.T) {
	d := Distribute([]SentimentResult{
		{Label: LabelPositive},
		{Label: LabelPositive},
		{Label: LabelNegative},
		{Label: LabelNeutral},
	})
	if d.Positive != 2 || d.Negative != 1 || d.Neutral != 1 {
		t.Fatalf("unexpected distribution %+v", d)
	}
	if d.Total() != 4 {
		t.Fatalf("expected total 4, got %d", d.Total())
	}
}

func TestRoundTiesToEven(t *testing.T) {
	cases := []struct {
		x      float64
		places int
		want   float64
	}{
		{0.0625, 3, 0.062},
		{0.8125, 3, 0.812},
		{4.125, 2, 4.12},
		{81.25, 1, 81.2},
		{2.5, 0, 2},
		{3.5, 0, 4},
	}
	for _, tc := range cases {
		if got := Round(tc.x, tc.places); got != tc.want {
			t.Fatalf("Round(%v, %d) = %v, want %v", tc.x, tc.places, got, tc.want)
		}
	}
}

func TestClassifyRoundsTiesToEven(t *testing.T) {
	text := "excellent" + strings.Repeat(" lorem", 15)

	got := NewEngine().Classify(text)
	if got.Label != LabelPositive {
		t.Fatalf("expected positive, got %+v", got)
	}
	if got.Score != 0.062 || got.Confidence != 0.812 {
		t.Fatalf("expected score 0.062 and confidence 0.812, got %+v", got)
	}
}
