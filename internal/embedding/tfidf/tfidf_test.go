package tfidf

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestEmbedBeforePrepare(t *testing.T) {
	_, err := NewEmbedder().Embed(context.Background(), "lens")
	if !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("expected ErrNotPrepared, got %v", err)
	}
}

func TestEmbedIsNormalized(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"Zeiss launched a new lens", "Alcon reported quarterly sales"}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if e.Dimension() != 8 {
		t.Fatalf("expected 8 terms, got %d", e.Dimension())
	}
	vec, err := e.Embed(context.Background(), "new lens")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected unit vector, got norm^2 %f", sum)
	}
}

func TestEmbedUnknownWordsGivesZeroVector(t *testing.T) {
	e := NewEmbedder()
	_ = e.Prepare([]string{"lens"})
	vec, _ := e.Embed(context.Background(), "quarterly")
	for _, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector, got %v", vec)
		}
	}
}

func TestPrepareRejectsEmptyCorpus(t *testing.T) {
	if err := NewEmbedder().Prepare(nil); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}
