package vectorstore

import (
	"context"
	"errors"
	"math"
	"sort"

	"ragbot/internal/domain"
)

var (
	ErrInvalidDimension  = errors.New("invalid dimension")
	ErrLengthMismatch    = errors.New("chunks and vectors length mismatch")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Storage persists the vectors of one collection and supports similarity search.
// Search returns results ordered by descending score.
type Storage interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)
	Clear(ctx context.Context) error
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or their lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK returns the indexes of the k highest scores, best first.
// Ties keep insertion order. k <= 0 defaults to 5.
func TopK(scores []float64, k int) []int {
	if k <= 0 {
		k = 5
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return scores[idxs[i]] > scores[idxs[j]] })
	if k > len(idxs) {
		k = len(idxs)
	}
	return idxs[:k]
}
