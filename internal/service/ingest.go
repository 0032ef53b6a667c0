package service

import (
	"context"
	"strings"

	"ragbot/internal/domain"
	"ragbot/internal/retrieval"
)

// Indexer is the ingestion side of the vector store gateway.
type Indexer interface {
	Ingest(ctx context.Context, docs []domain.Document, chunker domain.Chunker) (retrieval.IngestReport, error)
}

// IngestResult describes a finished ingestion.
type IngestResult struct {
	retrieval.IngestReport
	Summary string
}

// Ingestor repopulates the stores and summarises what went in.
type Ingestor struct {
	indexer             Indexer
	chunker             domain.Chunker
	summarizer          domain.Summarizer
	summaryMaxSentences int
}

func NewIngestor(indexer Indexer, chunker domain.Chunker, summarizer domain.Summarizer, summaryMaxSentences int) *Ingestor {
	return &Ingestor{indexer: indexer, chunker: chunker, summarizer: summarizer, summaryMaxSentences: summaryMaxSentences}
}

// Ingest replaces the stored collections with docs. The summary is empty
// when no summarizer is configured.
func (s *Ingestor) Ingest(ctx context.Context, docs []domain.Document) (IngestResult, error) {
	report, err := s.indexer.Ingest(ctx, docs, s.chunker)
	if err != nil {
		return IngestResult{IngestReport: report}, err
	}
	result := IngestResult{IngestReport: report}
	if s.summarizer == nil {
		return result, nil
	}
	var corpus strings.Builder
	for _, d := range docs {
		corpus.WriteString("\n")
		corpus.WriteString(d.Content)
	}
	summary, err := s.summarizer.Summarize(corpus.String(), s.summaryMaxSentences)
	if err != nil {
		return result, err
	}
	result.Summary = summary
	return result, nil
}
