package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragbot/internal/domain"
	"ragbot/internal/service"
	"ragbot/internal/textutil"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Ask(ctx context.Context, conv service.Conversation, query, label string) (service.Answer, service.Conversation, error)
}

type answerMsg struct {
	answer     service.Answer
	conv       service.Conversation
	err        error
	generation int
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	ctx         context.Context
	chat        ChatPort
	labels      []string
	label       int
	conv        service.Conversation
	last        service.Answer
	input       textinput.Model
	viewport    viewport.Model
	summary     string
	status      string
	ready       bool
	busy        bool
	showSources bool
	// generation changes on every history reset; answers from an older
	// generation are dropped.
	generation int
}

// New creates a chat model over the given collection labels. Queries run under
// ctx, so cancelling it aborts an answer in flight.
func New(ctx context.Context, chat ChatPort, labels []string, summary string) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your question here..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		chat:     chat,
		labels:   labels,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "tab: collection  ctrl+s: sources  ctrl+r: clear history  ctrl+c: quit",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := historyBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 3 + 1 + qh + 1 // header, summary, collection; status; spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.refresh()
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.generation != m.generation {
			return m, nil
		}
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.conv = msg.conv
		m.last = msg.answer
		m.status = fmt.Sprintf("Answered from %s in %.2fs", m.currentLabel(), msg.answer.Elapsed.Seconds())
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy || len(m.labels) == 0 {
				return m, nil
			}
			m.busy = true
			m.input.SetValue("")
			m.status = "Thinking..."
			return m, m.ask(q)
		case "tab":
			if len(m.labels) > 0 && !m.busy {
				m.label = (m.label + 1) % len(m.labels)
			}
			return m, nil
		case "ctrl+r":
			m.conv = m.conv.Reset()
			m.last = service.Answer{}
			m.generation++
			m.status = "History cleared."
			m.refresh()
			return m, nil
		case "ctrl+s":
			m.showSources = !m.showSources
			m.refresh()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(query string) tea.Cmd {
	ctx, chat, conv, label, gen := m.ctx, m.chat, m.conv, m.currentLabel(), m.generation
	return func() tea.Msg {
		answer, next, err := chat.Ask(ctx, conv, query, label)
		return answerMsg{answer: answer, conv: next, err: err, generation: gen}
	}
}

// View renders the header, the conversation and the input line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Innovation Chatbot")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	collection := "Collection: " + labelStyle.Render(m.currentLabel())
	history := historyBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + collection + "\n" + history + "\n" + input + "\n" + status
}

func (m Model) currentLabel() string {
	if len(m.labels) == 0 {
		return "(none)"
	}
	return m.labels[m.label]
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.render())
	m.viewport.GotoBottom()
}

func (m Model) render() string {
	msgs := m.conv.Messages()
	if len(msgs) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Role == domain.RoleUser {
			b.WriteString(userStyle.Render("You") + "\n")
		} else {
			b.WriteString(botStyle.Render("Assistant") + "\n")
		}
		b.WriteString(msg.Content)
	}
	if m.showSources && len(m.last.Passages) > 0 {
		b.WriteString("\n\n" + lipgloss.NewStyle().Underline(true).Render("Sources"))
		for i, p := range m.last.Passages {
			fmt.Fprintf(&b, "\n[%d] score=%.3f %s\n", i+1, p.Score, p.Metadata[domain.MetaSource])
			b.WriteString(highlightBestSentence(p.Text, m.last.Query))
		}
	}
	return b.String()
}

var (
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := textutil.Sentences(text)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	best := bestSentence(sentences, query)
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == best {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

// bestSentence returns the index of the sentence sharing the most words with
// query, or -1 when query has no words.
func bestSentence(sentences []string, query string) int {
	qTokens := textutil.WordSet(query)
	if len(qTokens) == 0 {
		return -1
	}
	bestIdx, bestScore := 0, -1
	for i, s := range sentences {
		if score := textutil.Overlap(qTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return bestIdx
}
