package memory

import (
	"context"
	"errors"
	"testing"

	"ragbot/internal/domain"
	"ragbot/internal/vectorstore"
)

func TestSearchOrdersByScore(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatalf("init: %v", err)
	}
	chunks := []domain.Chunk{{ChunkID: "a", Text: "a"}, {ChunkID: "b", Text: "b"}, {ChunkID: "c", Text: "c"}}
	vectors := [][]float64{{0, 1}, {1, 0}, {1, 1}}
	if err := s.Upsert(ctx, chunks, vectors); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	res, err := s.Search(ctx, []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 || res[0].Chunk.ChunkID != "b" || res[1].Chunk.ChunkID != "c" {
		t.Fatalf("unexpected order: %+v", res)
	}
}

func TestUpsertValidates(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_ = s.Init(ctx, 2)
	if err := s.Upsert(ctx, []domain.Chunk{{}}, nil); !errors.Is(err, vectorstore.ErrLengthMismatch) {
		t.Fatalf("expected length mismatch, got %v", err)
	}
	if err := s.Upsert(ctx, []domain.Chunk{{}}, [][]float64{{1}}); !errors.Is(err, vectorstore.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
	if err := s.Init(ctx, 0); !errors.Is(err, vectorstore.ErrInvalidDimension) {
		t.Fatalf("expected invalid dimension, got %v", err)
	}
}

func TestClearEmptiesStore(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_ = s.Init(ctx, 1)
	_ = s.Upsert(ctx, []domain.Chunk{{Text: "x"}}, [][]float64{{1}})
	_ = s.Clear(ctx)
	res, _ := s.Search(ctx, []float64{1}, 3)
	if len(res) != 0 {
		t.Fatalf("expected empty results, got %d", len(res))
	}
}
