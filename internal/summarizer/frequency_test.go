package summarizer

import (
	"strings"
	"testing"
)

func TestSummarizeKeepsOriginalOrder(t *testing.T) {
	text := "The lens improves vision. Cats sleep. The new lens improves night vision for patients. Rain fell."
	got, err := NewFrequencySummarizer().Summarize(text, 2)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := "The lens improves vision. The new lens improves night vision for patients."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSummarizeWithoutSentences(t *testing.T) {
	got, _ := NewFrequencySummarizer().Summarize("  no terminator here ", 3)
	if got != "no terminator here" {
		t.Fatalf("got %q", got)
	}
}

func TestSummarizeDefaultLength(t *testing.T) {
	text := strings.Repeat("Lens news today. ", 8)
	got, _ := NewFrequencySummarizer().Summarize(text, 0)
	if n := strings.Count(got, "."); n != DefaultMaxSentences {
		t.Fatalf("expected %d sentences, got %d: %q", DefaultMaxSentences, n, got)
	}
}
