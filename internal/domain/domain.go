package domain

import "time"

// Metadata keys attached to documents and chunks.
const (
	MetaSource     = "source"
	MetaCollection = "collection"
)

// Document represents a single source file loaded into the system.
type Document struct {
	ID       string
	Path     string
	Content  string
	Metadata map[string]string
}

// Chunk is the unit of text stored in a vector collection.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
	Metadata   map[string]string
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// RetrievedPassage is a passage returned for a query, with its similarity score.
type RetrievedPassage struct {
	Text     string
	Score    float64
	Metadata map[string]string
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat exchange.
type Message struct {
	Role    Role
	Content string
}

// TemporalContext grounds the model in the current reporting period.
type TemporalContext struct {
	CurrentYear          int
	LastAvailableQuarter int
}

// PromptRequest holds everything needed to build a completion request.
type PromptRequest struct {
	SystemInstruction string
	UserQuery         string
	Passages          []RetrievedPassage
	Temporal          TemporalContext
}

// QueryLogEntry is one row of the query log.
type QueryLogEntry struct {
	Timestamp    time.Time
	Query        string
	ResponseTime time.Duration
	FirstTurn    bool
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
