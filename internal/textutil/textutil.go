// Package textutil holds the tokenizer, stopword list and sentence splitter shared
// by the TF-IDF embedder, the summarizer and the TUI highlighter.
package textutil

import (
	"regexp"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	stopwords  = buildStopwords()
)

// Words returns the lower-cased word tokens of text.
func Words(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// ContentWords returns Words(text) with stopwords removed.
func ContentWords(text string) []string {
	raw := Words(text)
	out := raw[:0]
	for _, t := range raw {
		if IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// WordSet returns the distinct lower-cased words of text.
func WordSet(text string) map[string]struct{} {
	tokens := Words(text)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Overlap counts the distinct words of text that appear in set.
func Overlap(set map[string]struct{}, text string) int {
	score := 0
	seen := make(map[string]struct{})
	for _, t := range Words(text) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			score++
		}
	}
	return score
}

// Sentences splits text into sentences terminated by '.', '!' or '?'.
// Trailing text without a terminator is dropped, as is whitespace-only input.
func Sentences(text string) []string {
	return sentenceRe.FindAllString(text, -1)
}

// IsStopword reports whether the lower-cased token is an English stopword.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

func buildStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
