package analytics

import "sort"

const (
	// DefaultTopN is the keyword list length used when none is given
	DefaultTopN     = 10
	minKeywordLen   = 3
	summaryKeywords = 5
)

// termCounter counts terms and remembers the order they were first seen in
type termCounter struct {
	index map[string]int
	terms []KeywordCount
}

func newTermCounter() *termCounter {
	return &termCounter{index: make(map[string]int)}
}

func (c *termCounter) add(term string) {
	if i, ok := c.index[term]; ok {
		c.terms[i].Count++
		return
	}
	c.index[term] = len(c.terms)
	c.terms = append(c.terms, KeywordCount{Term: term, Count: 1})
}

// ranked returns terms by descending count. Ties keep first-seen order.
func (c *termCounter) ranked(limit int) []KeywordCount {
	out := make([]KeywordCount, len(c.terms))
	copy(out, c.terms)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ExtractKeywords ranks non-stopword terms across all texts.
// A non-positive topN falls back to DefaultTopN.
func (e *Engine) ExtractKeywords(texts []string, topN int) []KeywordCount {
	if len(texts) == 0 {
		return []KeywordCount{}
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	counter := newTermCounter()
	for _, text := range texts {
		for _, w := range tokenize(text) {
			if len(w) < minKeywordLen || !isLowerASCII(w) || e.lex.IsStopword(w) {
				continue
			}
			counter.add(w)
		}
	}
	return counter.ranked(topN)
}

func isLowerASCII(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
