package service

import (
	"context"
	"log"
	"strings"

	"ragbot/internal/chunker"
	"ragbot/internal/completion"
	"ragbot/internal/prompt"
)

// Parser runs an extraction prompt over scraped content, one chunk at a time.
type Parser struct {
	client    completion.Client
	chunkSize int
}

func NewParser(client completion.Client, chunkSize int) *Parser {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	return &Parser{client: client, chunkSize: chunkSize}
}

// Parse extracts the information matching description from content.
// A chunk whose completion fails contributes an empty line.
func (p *Parser) Parse(ctx context.Context, content, description string) string {
	chunks := chunker.Split(content, p.chunkSize)
	results := make([]string, 0, len(chunks))
	for i, ch := range chunks {
		results = append(results, p.parseChunk(ctx, description, ch))
		log.Printf("[INFO] parsed batch %d of %d", i+1, len(chunks))
	}
	return strings.Join(results, "\n")
}

func (p *Parser) parseChunk(ctx context.Context, description, chunk string) string {
	s, err := p.client.Stream(ctx, prompt.Extract(description, chunk))
	if err != nil {
		log.Printf("[ERROR] parsing chunk: %v", err)
		return ""
	}
	text, err := completion.Collect(s)
	if err != nil {
		log.Printf("[ERROR] parsing chunk: %v", err)
		return ""
	}
	return text
}
