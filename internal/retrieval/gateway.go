// Package retrieval maps collection labels to vector stores and adapts their
// search results into retrieved passages.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ragbot/internal/domain"
	"ragbot/internal/embedding"
	"ragbot/internal/vectorstore"
)

// ErrUnknownCollection is returned for a label that is not configured.
var ErrUnknownCollection = errors.New("unknown collection")

// DefaultTopK is the number of passages retrieved per query.
const DefaultTopK = 3

// Collection binds a user-facing label to an underlying store collection name.
type Collection struct {
	Label string
	Name  string
}

// OpenFunc opens the storage for a collection name.
type OpenFunc func(name string) (vectorstore.Storage, error)

// Gateway retrieves passages from a fixed set of labelled collections.
// It performs no caching, retrying or re-ranking.
type Gateway struct {
	embedder embedding.Embedder
	open     OpenFunc
	labels   []string
	names    map[string]string
	stores   map[string]vectorstore.Storage
}

// NewGateway validates the label mapping. Labels must be unique and non-empty.
func NewGateway(embedder embedding.Embedder, open OpenFunc, collections []Collection) (*Gateway, error) {
	g := &Gateway{
		embedder: embedder,
		open:     open,
		names:    make(map[string]string, len(collections)),
		stores:   make(map[string]vectorstore.Storage),
	}
	for _, c := range collections {
		if c.Label == "" || c.Name == "" {
			return nil, fmt.Errorf("collection %q: label and name are required", c.Label)
		}
		if _, dup := g.names[c.Label]; dup {
			return nil, fmt.Errorf("collection %q: duplicate label", c.Label)
		}
		g.names[c.Label] = c.Name
		g.labels = append(g.labels, c.Label)
	}
	return g, nil
}

// Labels returns the configured labels in configuration order.
func (g *Gateway) Labels() []string {
	return append([]string(nil), g.labels...)
}

// Retrieve returns the k passages of the labelled collection most similar to query,
// in the order the store ranked them.
func (g *Gateway) Retrieve(ctx context.Context, query, label string, k int) ([]domain.RetrievedPassage, error) {
	name, ok := g.names[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, label)
	}
	if k <= 0 {
		k = DefaultTopK
	}
	store, err := g.store(name)
	if err != nil {
		return nil, err
	}
	vec, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	results, err := store.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", name, err)
	}
	passages := make([]domain.RetrievedPassage, 0, len(results))
	for _, r := range results {
		passages = append(passages, domain.RetrievedPassage{
			Text:     r.Chunk.Text,
			Score:    r.Score,
			Metadata: r.Chunk.Metadata,
		})
	}
	return passages, nil
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	Documents   int
	Chunks      int
	Collections []string
	// Cleared lists configured collections emptied because no document named them.
	Cleared []string
}

// Ingest replaces the contents of every collection named by the documents'
// collection metadata with their chunks. Documents without that metadata are skipped.
// Configured collections that no document names are cleared, so a re-ingest
// never leaves a previous run's chunks searchable.
func (g *Gateway) Ingest(ctx context.Context, docs []domain.Document, chunker domain.Chunker) (IngestReport, error) {
	var report IngestReport
	byCollection := make(map[string][]domain.Chunk)
	var corpus []string
	for _, d := range docs {
		name := d.Metadata[domain.MetaCollection]
		if name == "" {
			continue
		}
		chunks, err := chunker.Chunk(d)
		if err != nil {
			return report, fmt.Errorf("chunking %s: %w", d.Path, err)
		}
		report.Documents++
		byCollection[name] = append(byCollection[name], chunks...)
		for _, ch := range chunks {
			corpus = append(corpus, ch.Text)
		}
	}
	if len(corpus) == 0 {
		return report, errors.New("no content to ingest")
	}
	if err := g.embedder.Prepare(corpus); err != nil {
		return report, fmt.Errorf("preparing embedder: %w", err)
	}
	names := make([]string, 0, len(byCollection))
	for name := range byCollection {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		chunks := byCollection[name]
		if len(chunks) == 0 {
			continue
		}
		if err := g.replace(ctx, name, chunks); err != nil {
			return report, err
		}
		report.Chunks += len(chunks)
		report.Collections = append(report.Collections, name)
	}
	seen := make(map[string]bool, len(g.names))
	var stale []string
	for _, name := range g.names {
		if len(byCollection[name]) == 0 && !seen[name] {
			seen[name] = true
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	for _, name := range stale {
		store, err := g.store(name)
		if err != nil {
			return report, err
		}
		if err := store.Clear(ctx); err != nil {
			return report, fmt.Errorf("clearing %s: %w", name, err)
		}
		report.Cleared = append(report.Cleared, name)
	}
	return report, nil
}

func (g *Gateway) replace(ctx context.Context, name string, chunks []domain.Chunk) error {
	store, err := g.store(name)
	if err != nil {
		return err
	}
	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vec, err := g.embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return fmt.Errorf("embedding %s: %w", chunks[i].ChunkID, err)
		}
		vectors[i] = vec
	}
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing %s: %w", name, err)
	}
	if err := store.Init(ctx, len(vectors[0])); err != nil {
		return fmt.Errorf("initializing %s: %w", name, err)
	}
	if err := store.Upsert(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("upserting into %s: %w", name, err)
	}
	return nil
}

func (g *Gateway) store(name string) (vectorstore.Storage, error) {
	if s, ok := g.stores[name]; ok {
		return s, nil
	}
	s, err := g.open(name)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", name, err)
	}
	g.stores[name] = s
	return s, nil
}

// CollectionName derives a collection name from a file name: the base name
// without extension, lower-cased.
func CollectionName(fileName string) string {
	base := fileName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.ToLower(base)
}
