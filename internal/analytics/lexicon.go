package analytics

// wordSet is a read-only membership set. It is built once and never
// written after construction.
type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s wordSet) has(word string) bool {
	_, ok := s[word]
	return ok
}

// Lexicon holds the fixed word lists used by the engine
type Lexicon struct {
	positive  wordSet
	negative  wordSet
	stopwords wordSet
}

// IsPositive reports whether word is in the positive lexicon
func (l *Lexicon) IsPositive(word string) bool { return l.positive.has(word) }

// IsNegative reports whether word is in the negative lexicon
func (l *Lexicon) IsNegative(word string) bool { return l.negative.has(word) }

// IsStopword reports whether word is excluded from keyword ranking
func (l *Lexicon) IsStopword(word string) bool { return l.stopwords.has(word) }

var defaultLexicon = &Lexicon{
	positive: newWordSet(
		"excellent", "amazing", "great", "good", "outstanding", "wonderful", "fantastic",
		"helpful", "clear", "engaging", "interesting", "love", "enjoy", "best", "perfect",
		"awesome", "brilliant", "superb", "exceptional", "valuable", "effective", "well",
		"easy", "understand", "organized", "informative", "inspiring", "motivating",
	),
	negative: newWordSet(
		"bad", "poor", "terrible", "boring", "confusing", "difficult", "hard", "slow",
		"outdated", "unclear", "disorganized", "disappointing", "frustrating", "waste",
		"worst", "awful", "useless", "irrelevant", "incomplete", "missing", "lack",
		"improvement", "needs", "better", "problem", "issue", "fail", "weak", "inadequate",
	),
	stopwords: newWordSet(
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "must", "can", "this", "that",
		"these", "those", "it", "its", "very", "quite", "more", "also", "i",
		"me", "my", "we", "our", "you", "your", "he", "she", "they", "their",
	),
}

// DefaultLexicon returns the shared built-in lexicon
func DefaultLexicon() *Lexicon {
	return defaultLexicon
}
