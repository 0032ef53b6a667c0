package completion

import (
	"errors"
	"testing"
)

func TestCollectConcatenates(t *testing.T) {
	got, err := Collect(NewSliceStream(nil, "Hel", "lo", "!"))
	if err != nil || got != "Hello!" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestCollectReturnsStreamError(t *testing.T) {
	boom := errors.New("boom")
	got, err := Collect(NewSliceStream(boom, "partial"))
	if !errors.Is(err, boom) || got != "partial" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestSliceStreamEmpty(t *testing.T) {
	s := NewSliceStream(nil)
	if s.Next() {
		t.Fatal("empty stream yielded a fragment")
	}
	if s.Current() != "" || s.Err() != nil {
		t.Fatal("unexpected state after end of stream")
	}
}
