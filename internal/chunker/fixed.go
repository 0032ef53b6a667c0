package chunker

import (
	"strconv"

	"ragbot/internal/domain"
)

// DefaultChunkSize is the window size, in characters, used for completion requests.
const DefaultChunkSize = 5000

// Split cuts text into consecutive windows of size characters (runes).
// Windows do not overlap and the last one may be shorter, so joining the
// result reproduces text exactly. Empty text yields no windows.
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if text == "" {
		return nil
	}
	var out []string
	start, n := 0, 0
	for i := range text {
		if n == size {
			out = append(out, text[start:i])
			start, n = i, 0
		}
		n++
	}
	return append(out, text[start:])
}

// FixedChunker splits documents into fixed-size character windows.
type FixedChunker struct {
	size int
}

func NewFixedChunker(size int) *FixedChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &FixedChunker{size: size}
}

func (c *FixedChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	parts := Split(document.Content, c.size)
	chunks := make([]domain.Chunk, 0, len(parts))
	for idx, text := range parts {
		chunks = append(chunks, newChunk(document, idx, text))
	}
	return chunks, nil
}

func newChunk(document domain.Document, idx int, text string) domain.Chunk {
	return domain.Chunk{
		DocumentID: document.ID,
		ChunkID:    document.ID + ":" + strconv.Itoa(idx),
		Text:       text,
		Index:      idx,
		Metadata:   document.Metadata,
	}
}
