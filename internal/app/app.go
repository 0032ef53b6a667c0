// Package app builds the configured components. Unknown component types are errors.
package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ragbot/internal/chunker"
	"ragbot/internal/cleaner"
	"ragbot/internal/completion"
	completionopenai "ragbot/internal/completion/openai"
	"ragbot/internal/config"
	"ragbot/internal/domain"
	"ragbot/internal/embedding"
	"ragbot/internal/embedding/openai"
	"ragbot/internal/embedding/tfidf"
	"ragbot/internal/prompt"
	"ragbot/internal/querylog"
	"ragbot/internal/retrieval"
	"ragbot/internal/scraper"
	"ragbot/internal/service"
	"ragbot/internal/summarizer"
	"ragbot/internal/vectorstore"
	"ragbot/internal/vectorstore/bolt"
	"ragbot/internal/vectorstore/memory"
	"ragbot/internal/vectorstore/qdrant"
)

func BuildEmbedder(cfg config.EmbedderConfig) (embedding.Embedder, error) {
	switch cfg.Type {
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "openai", "":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func BuildChunker(cfg config.ChunkerConfig) (domain.Chunker, error) {
	switch cfg.Type {
	case "fixed", "":
		return chunker.NewFixedChunker(cfg.ChunkSize), nil
	case "sentence":
		return chunker.NewSentenceChunker(cfg.SentencesPerChunk, cfg.OverlapSentences), nil
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Type)
	}
}

// BuildStores returns how to open the store of a collection, and a function
// releasing the underlying resources.
func BuildStores(cfg config.VectorStoreConfig) (retrieval.OpenFunc, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Type {
	case "memory":
		return func(string) (vectorstore.Storage, error) { return memory.NewStorage(), nil }, noop, nil
	case "bolt", "":
		if cfg.Bolt == nil {
			return nil, nil, fmt.Errorf("bolt config missing")
		}
		db, err := bolt.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, nil, err
		}
		open := func(name string) (vectorstore.Storage, error) { return db.Collection(name), nil }
		return open, db.Close, nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, nil, fmt.Errorf("qdrant config missing")
		}
		q := *cfg.Qdrant
		open := func(name string) (vectorstore.Storage, error) {
			return qdrant.NewStorage(qdrant.Config{
				URL:        q.URL,
				APIKey:     q.APIKey,
				Collection: q.CollectionPrefix + name,
				Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
			}), nil
		}
		return open, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

// Collections converts the configured label mapping.
func Collections(cfg []config.CollectionConfig) []retrieval.Collection {
	out := make([]retrieval.Collection, 0, len(cfg))
	for _, c := range cfg {
		out = append(out, retrieval.Collection{Label: c.Label, Name: c.Name})
	}
	return out
}

// MergeDocumentCollections appends a collection for every document collection
// not yet mapped. The label is the source file stem.
func MergeDocumentCollections(collections []retrieval.Collection, docs []domain.Document) []retrieval.Collection {
	names := make(map[string]bool, len(collections))
	labels := make(map[string]bool, len(collections))
	for _, c := range collections {
		names[c.Name] = true
		labels[c.Label] = true
	}
	for _, d := range docs {
		name := d.Metadata[domain.MetaCollection]
		if name == "" || names[name] {
			continue
		}
		source := d.Metadata[domain.MetaSource]
		label := strings.TrimSuffix(source, filepath.Ext(source))
		if label == "" || labels[label] {
			label = name
		}
		names[name] = true
		labels[label] = true
		collections = append(collections, retrieval.Collection{Label: label, Name: name})
	}
	return collections
}

func BuildCompletion(cfg config.CompletionConfig, model string) (completion.Client, error) {
	if model == "" {
		model = cfg.Model
	}
	client, err := completionopenai.NewClient(completionopenai.Config{
		BaseURL:   cfg.BaseURL,
		APIKeyEnv: cfg.APIKeyEnv,
		Model:     model,
		Timeout:   time.Duration(cfg.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("completion client init failed: %w", err)
	}
	return client, nil
}

func BuildQueryLog(cfg config.QueryLogConfig) querylog.Recorder {
	if cfg.Disabled {
		return querylog.Discard
	}
	return querylog.New(cfg.Path)
}

func BuildSummarizer(cfg config.SummarizerConfig) (domain.Summarizer, error) {
	switch cfg.Type {
	case "frequency", "":
		return summarizer.NewFrequencySummarizer(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Type)
	}
}

func BuildAssembler(cfg config.PromptConfig) (*prompt.Assembler, error) {
	t, err := prompt.Lookup(cfg.Template)
	if err != nil {
		return nil, err
	}
	return prompt.NewAssembler(t, cfg.Persona, cfg.LastQuarter), nil
}

// BuildChat wires the query pipeline around an existing gateway and client.
func BuildChat(cfg *config.AppConfig, retriever service.Retriever, client completion.Client) (*service.Chat, error) {
	assembler, err := BuildAssembler(cfg.Prompt)
	if err != nil {
		return nil, err
	}
	return service.NewChat(retriever, assembler, client, BuildQueryLog(cfg.QueryLog), service.ChatOptions{
		TopK:     cfg.Retrieval.TopK,
		Tracked:  cfg.Prompt.Tracked,
		Operator: cfg.Prompt.Operator,
		Stream:   cfg.Completion.Stream,
	}), nil
}

func BuildCleaner(cfg config.CleanerConfig) *cleaner.Cleaner {
	return cleaner.New(cfg.DenyList)
}

func BuildScraper(cfg config.ScraperConfig) (*scraper.Client, error) {
	return scraper.NewClient(scraper.Config{
		APIURL:  cfg.ScraperURL(),
		APIKey:  cfg.ScraperKey(),
		Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	})
}

func Sites(cfg []config.SiteConfig) []scraper.Site {
	out := make([]scraper.Site, 0, len(cfg))
	for _, s := range cfg {
		out = append(out, scraper.Site{Name: s.Name, URL: s.URL})
	}
	return out
}

func BuildHarvester(cfg config.ScraperConfig, fetcher scraper.Fetcher, c *cleaner.Cleaner) *scraper.Harvester {
	return scraper.NewHarvester(scraper.HarvestConfig{
		IndexURL:   cfg.PressReleases.IndexURL,
		TitleClass: cfg.PressReleases.TitleClass,
		BaseURL:    cfg.PressReleases.BaseURL,
		Timeout:    time.Duration(cfg.TimeoutSecs) * time.Second,
	}, fetcher, c)
}
