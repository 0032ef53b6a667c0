// Package prompt builds the chat messages sent to the completion service.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"ragbot/internal/domain"
)

// DefaultPersona describes who the assistant works for.
const DefaultPersona = "You are an employee at Alcon Inc. looking for new innovation from different companies."

// Assembler turns a query and its retrieved passages into a two-message prompt.
type Assembler struct {
	Template Template
	Persona  string
	// LastQuarter overrides the computed last available quarter when non-zero.
	LastQuarter int
	Now         func() time.Time
}

func NewAssembler(t Template, persona string, lastQuarter int) *Assembler {
	if persona == "" {
		persona = DefaultPersona
	}
	return &Assembler{Template: t, Persona: persona, LastQuarter: lastQuarter, Now: time.Now}
}

// Build collects the parts of a prompt. Passages keep the order given.
func (a *Assembler) Build(query string, passages []domain.RetrievedPassage) domain.PromptRequest {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	t := now()
	quarter := a.LastQuarter
	if quarter <= 0 || quarter > 4 {
		quarter = LastCompletedQuarter(t)
	}
	return domain.PromptRequest{
		SystemInstruction: a.Template.System + " " + a.Persona,
		UserQuery:         query,
		Passages:          passages,
		Temporal:          domain.TemporalContext{CurrentYear: t.Year(), LastAvailableQuarter: quarter},
	}
}

// Messages renders req as a system message followed by a user message.
func (a *Assembler) Messages(req domain.PromptRequest) []domain.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "User query: %s\n\n", req.UserQuery)
	fmt.Fprintf(&b, "%s\n%s\n\n", a.Template.Task, SerializePassages(req.Passages))
	fmt.Fprintf(&b, "The current year is %d and the last available quarter is %d.\n\n",
		req.Temporal.CurrentYear, req.Temporal.LastAvailableQuarter)
	fmt.Fprintf(&b, "Format your response as follows:\n%s\n\n%s\n", a.Template.Header, a.Template.Body)
	return []domain.Message{
		{Role: domain.RoleSystem, Content: req.SystemInstruction},
		{Role: domain.RoleUser, Content: b.String()},
	}
}

// Assemble is Build followed by Messages.
func (a *Assembler) Assemble(query string, passages []domain.RetrievedPassage) []domain.Message {
	return a.Messages(a.Build(query, passages))
}

// SerializePassages renders passages as numbered blocks in the order given.
func SerializePassages(passages []domain.RetrievedPassage) string {
	if len(passages) == 0 {
		return "(no related information found)"
	}
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%d] similarity=%.3f", i+1, p.Score)
		if src := p.Metadata[domain.MetaSource]; src != "" {
			fmt.Fprintf(&b, " source=%s", src)
		}
		fmt.Fprintf(&b, "\n%s\n", p.Text)
	}
	return b.String()
}

// LastCompletedQuarter returns the most recent calendar quarter that ended before t.
// In the first quarter that is Q4 of the previous year.
func LastCompletedQuarter(t time.Time) int {
	q := (int(t.Month()) - 1) / 3
	if q == 0 {
		return 4
	}
	return q
}
