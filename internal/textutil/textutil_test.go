package textutil

import "testing"

func TestContentWordsDropsStopwords(t *testing.T) {
	got := ContentWords("The lens is NEW and it's sharp")
	want := []string{"lens", "new", "it's", "sharp"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestOverlapCountsDistinctWords(t *testing.T) {
	set := WordSet("new lens")
	if got := Overlap(set, "A new lens, a new lens."); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("One. Two! Three? tail")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %q", len(got), got)
	}
}
