package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer extracts the most representative sentences of a
// transcript by token-frequency scoring. Used at ingest to build the short
// course summaries surfaced in outlines.
type FrequencySummarizer struct {
	wordRe     *regexp.Regexp
	sentenceRe *regexp.Regexp
	stopwords  map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		wordRe:     regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:  stopwordSet(),
	}
}

// Summarize picks up to maxSentences sentences, highest scoring first but
// emitted in original document order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := s.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := make(map[string]float64)
	for _, sent := range sentences {
		for _, tok := range s.tokenize(sent) {
			if _, skip := s.stopwords[tok]; skip {
				continue
			}
			freq[tok]++
		}
	}
	var peak float64
	for _, n := range freq {
		if n > peak {
			peak = n
		}
	}
	if peak > 0 {
		for tok, n := range freq {
			freq[tok] = n / peak
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	order := make([]ranked, len(sentences))
	for i, sent := range sentences {
		toks := s.tokenize(sent)
		var score float64
		for _, tok := range toks {
			score += freq[tok]
		}
		// Length normalization so long sentences do not dominate.
		if n := float64(len(toks)); n > 0 {
			score /= math.Sqrt(n)
		}
		order[i] = ranked{idx: i, score: score}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].score > order[j].score })

	if maxSentences > len(order) {
		maxSentences = len(order)
	}
	picked := make([]int, maxSentences)
	for i := range picked {
		picked[i] = order[i].idx
	}
	sort.Ints(picked)

	parts := make([]string, 0, len(picked))
	for _, idx := range picked {
		parts = append(parts, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(parts, " "), nil
}

func (s *FrequencySummarizer) tokenize(text string) []string {
	return s.wordRe.FindAllString(strings.ToLower(text), -1)
}

func stopwordSet() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "out", "off", "own", "same", "too", "very",
		"can", "will", "just", "now", "we", "you", "i", "our", "your",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
