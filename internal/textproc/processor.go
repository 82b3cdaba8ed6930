// Package textproc normalizes submitted content to plain text and extracts
// keyword terms used for the verified-fact database lookup.
package textproc

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Processor extracts keyword terms and cleans raw text
type Processor struct {
	stopWords map[string]bool
	topN      int
}

// NewProcessor creates a processor with the default English stopword list
func NewProcessor() *Processor {
	stop := make(map[string]bool, len(defaultStopWords))
	for _, w := range defaultStopWords {
		stop[w] = true
	}
	return &Processor{stopWords: stop, topN: 10}
}

// ExtractKeywords returns the most frequent non-stopword terms in text,
// ordered by descending frequency with first occurrence breaking ties.
// Returns at most 10 terms.
func (p *Processor) ExtractKeywords(text string) []string {
	tokens := tokenize(strings.ToLower(text))

	type termCount struct {
		term  string
		count int
		first int
	}
	counts := make(map[string]*termCount)
	var order []*termCount

	for i, tok := range tokens {
		if len(tok) < 2 || p.stopWords[tok] {
			continue
		}
		if tc, ok := counts[tok]; ok {
			tc.count++
			continue
		}
		tc := &termCount{term: tok, count: 1, first: i}
		counts[tok] = tc
		order = append(order, tc)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	n := p.topN
	if n > len(order) {
		n = len(order)
	}
	keywords := make([]string, 0, n)
	for _, tc := range order[:n] {
		keywords = append(keywords, tc.term)
	}
	return keywords
}

var (
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern   = regexp.MustCompile(`<.*?>`)
	digitPattern = regexp.MustCompile(`\d+`)
)

// CleanText lowercases text and strips URLs, HTML tags, punctuation,
// digits, and redundant whitespace
func (p *Processor) CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = tagPattern.ReplaceAllString(text, "")
	text = digitPattern.ReplaceAllString(text, "")

	var b strings.Builder
	for _, r := range text {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenize splits text into alphanumeric word tokens
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// defaultStopWords is a compact English stopword list sufficient for
// frequency-based keyword ranking
var defaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "can",
	"did", "do", "does", "for", "from", "had", "has", "have", "he", "her",
	"him", "his", "how", "i", "if", "in", "into", "is", "it", "its", "my",
	"no", "not", "of", "on", "or", "our", "she", "so", "some", "such",
	"than", "that", "the", "their", "them", "then", "there", "these",
	"they", "this", "those", "to", "too", "up", "was", "we", "were", "what",
	"when", "where", "which", "who", "why", "will", "with", "would", "you",
	"your",
}
