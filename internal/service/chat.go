// Package service orchestrates the query pipeline, bulk parsing and ingestion.
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"ragbot/internal/completion"
	"ragbot/internal/domain"
	"ragbot/internal/prompt"
	"ragbot/internal/querylog"
)

// NoMatch is shown when nothing relevant was found or the model returned nothing.
const NoMatch = "No matching information found based on the provided description."

// Retriever is the query side of the vector store gateway.
type Retriever interface {
	Retrieve(ctx context.Context, query, label string, k int) ([]domain.RetrievedPassage, error)
}

// ChatOptions tune the query pipeline.
type ChatOptions struct {
	TopK     int
	Tracked  []string
	Operator string
	Stream   bool
}

// Answer is the outcome of one query.
type Answer struct {
	Text  string
	Found bool
	// Query is the text actually sent to retrieval, after competitor expansion.
	Query    string
	Passages []domain.RetrievedPassage
	Elapsed  time.Duration
}

// Chat answers user queries from one labelled collection at a time.
type Chat struct {
	retriever Retriever
	assembler *prompt.Assembler
	client    completion.Client
	recorder  querylog.Recorder
	opts      ChatOptions
	now       func() time.Time
}

func NewChat(retriever Retriever, assembler *prompt.Assembler, client completion.Client, recorder querylog.Recorder, opts ChatOptions) *Chat {
	if recorder == nil {
		recorder = querylog.Discard
	}
	return &Chat{
		retriever: retriever,
		assembler: assembler,
		client:    client,
		recorder:  recorder,
		opts:      opts,
		now:       time.Now,
	}
}

// Ask runs one query against the labelled collection and returns the answer with
// the conversation extended by the user and assistant messages. On error the
// conversation is returned unchanged.
func (c *Chat) Ask(ctx context.Context, conv Conversation, query, label string) (Answer, Conversation, error) {
	start := c.now()
	firstTurn := conv.Len() == 0

	rewritten := prompt.RewriteCompetitors(query, c.opts.Tracked, c.opts.Operator)
	passages, err := c.retriever.Retrieve(ctx, rewritten, label, c.opts.TopK)
	if err != nil {
		return Answer{}, conv, err
	}

	answer := Answer{Query: rewritten, Passages: passages}
	if len(passages) > 0 {
		answer.Text = c.complete(ctx, c.assembler.Assemble(rewritten, passages))
	}
	if strings.TrimSpace(answer.Text) == "" {
		answer.Text = NoMatch
	} else {
		answer.Found = true
	}
	answer.Elapsed = c.now().Sub(start)

	entry := domain.QueryLogEntry{Timestamp: c.now(), Query: rewritten, ResponseTime: answer.Elapsed, FirstTurn: firstTurn}
	if err := c.recorder.Record(entry); err != nil {
		log.Printf("[WARN] query log: %v", err)
	}

	conv = conv.Append(
		domain.Message{Role: domain.RoleUser, Content: query},
		domain.Message{Role: domain.RoleAssistant, Content: answer.Text},
	)
	return answer, conv, nil
}

// complete returns the model's reply, or "" when the call fails.
func (c *Chat) complete(ctx context.Context, msgs []domain.Message) string {
	if !c.opts.Stream {
		text, err := c.client.Complete(ctx, msgs)
		if err != nil {
			log.Printf("[ERROR] completion: %v", err)
			return ""
		}
		return text
	}
	s, err := c.client.Stream(ctx, msgs)
	if err != nil {
		log.Printf("[ERROR] completion stream: %v", err)
		return ""
	}
	text, err := completion.Collect(s)
	if err != nil {
		log.Printf("[ERROR] completion stream: %v", err)
		return ""
	}
	return text
}
