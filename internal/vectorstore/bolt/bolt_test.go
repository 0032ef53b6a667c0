package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ragbot/internal/domain"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "store.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return db, path
}

func TestRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	db, path := openTestDB(t)
	jnj := db.Collection("jnj")
	if err := jnj.Init(ctx, 2); err != nil {
		t.Fatalf("init: %v", err)
	}
	chunks := []domain.Chunk{
		{DocumentID: "d", ChunkID: "d:0", Text: "lens", Metadata: map[string]string{domain.MetaSource: "jnj.txt"}},
		{DocumentID: "d", ChunkID: "d:1", Index: 1, Text: "sales"},
	}
	if err := jnj.Upsert(ctx, chunks, [][]float64{{1, 0}, {0, 1}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	res, err := db.Collection("jnj").Search(ctx, []float64{0.9, 0.1}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 || res[0].Chunk.Text != "lens" || res[0].Chunk.Metadata[domain.MetaSource] != "jnj.txt" {
		t.Fatalf("unexpected results: %+v", res)
	}
	names, _ := db.Collections()
	if len(names) != 1 || names[0] != "jnj" {
		t.Fatalf("unexpected collections: %v", names)
	}
}

func TestUpsertBeforeInit(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()
	err := db.Collection("x").Upsert(context.Background(), []domain.Chunk{{ChunkID: "a"}}, [][]float64{{1}})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestClearMissingCollection(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()
	ctx := context.Background()
	s := db.Collection("missing")
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	res, err := s.Search(ctx, []float64{1}, 3)
	if err != nil || len(res) != 0 {
		t.Fatalf("expected no results, got %v, %v", res, err)
	}
}
