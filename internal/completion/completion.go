// Package completion defines the contract of the LLM completion service.
package completion

import (
	"context"
	"strings"

	"ragbot/internal/domain"
)

// Client sends chat messages to a completion service.
type Client interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
	Stream(ctx context.Context, messages []domain.Message) (Stream, error)
}

// Stream is a finite, non-restartable sequence of text fragments.
// Next reports false at end of stream or on error; Err tells them apart.
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// Collect drains s and returns the concatenated fragments. The stream is closed.
func Collect(s Stream) (string, error) {
	defer s.Close()
	var b strings.Builder
	for s.Next() {
		b.WriteString(s.Current())
	}
	return b.String(), s.Err()
}

// SliceStream replays fixed fragments. Useful for tests and canned responses.
type SliceStream struct {
	fragments []string
	pos       int
	err       error
}

// NewSliceStream returns a stream yielding fragments, then err (may be nil).
func NewSliceStream(err error, fragments ...string) *SliceStream {
	return &SliceStream{fragments: fragments, pos: -1, err: err}
}

func (s *SliceStream) Next() bool {
	if s.pos+1 >= len(s.fragments) {
		s.pos = len(s.fragments)
		return false
	}
	s.pos++
	return true
}

func (s *SliceStream) Current() string {
	if s.pos < 0 || s.pos >= len(s.fragments) {
		return ""
	}
	return s.fragments[s.pos]
}

func (s *SliceStream) Err() error {
	if s.pos >= len(s.fragments) {
		return s.err
	}
	return nil
}

func (s *SliceStream) Close() error { return nil }
