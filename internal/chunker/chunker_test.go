package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"ragbot/internal/domain"
)

func TestSplitReconstructsInput(t *testing.T) {
	inputs := []string{
		"a",
		"hello world",
		strings.Repeat("x", 12),
		strings.Repeat("lens ", 1001),
		"日本語のテキストと English mixed 中国人",
	}
	for _, in := range inputs {
		for _, size := range []int{1, 3, 4, 5, 7, 5000} {
			parts := Split(in, size)
			if got := strings.Join(parts, ""); got != in {
				t.Fatalf("size %d: join mismatch for %q", size, in)
			}
			for i, p := range parts {
				n := utf8.RuneCountInString(p)
				if i < len(parts)-1 && n != size {
					t.Fatalf("size %d: chunk %d has %d runes", size, i, n)
				}
				if n == 0 || n > size {
					t.Fatalf("size %d: chunk %d has %d runes", size, i, n)
				}
			}
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	if parts := Split("", 10); len(parts) != 0 {
		t.Fatalf("expected no chunks, got %d", len(parts))
	}
}

func TestSplitDefaultSize(t *testing.T) {
	parts := Split(strings.Repeat("a", 12000), 0)
	if len(parts) != 3 || len(parts[0]) != DefaultChunkSize || len(parts[2]) != 2000 {
		t.Fatalf("unexpected split: %d parts", len(parts))
	}
}

func TestFixedChunkerCarriesMetadata(t *testing.T) {
	doc := domain.Document{ID: "d1", Content: "abcdef", Metadata: map[string]string{domain.MetaSource: "jnj.txt"}}
	chunks, err := NewFixedChunker(4).Chunk(doc)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].ChunkID != "d1:1" || chunks[1].Text != "ef" || chunks[1].Metadata[domain.MetaSource] != "jnj.txt" {
		t.Fatalf("unexpected chunk: %+v", chunks[1])
	}
}

func TestSentenceChunkerOverlap(t *testing.T) {
	doc := domain.Document{ID: "d", Content: "One. Two. Three. Four. Five."}
	chunks, err := NewSentenceChunker(2, 1).Chunk(doc)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	want := []string{"One. Two.", "Two. Three.", "Three. Four.", "Four. Five."}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i := range want {
		if chunks[i].Text != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i].Text, want[i])
		}
	}
}

func TestSentenceChunkerWithoutTerminators(t *testing.T) {
	chunks, _ := NewSentenceChunker(3, 0).Chunk(domain.Document{ID: "d", Content: "  no punctuation here  "})
	if len(chunks) != 1 || chunks[0].Text != "no punctuation here" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
}
