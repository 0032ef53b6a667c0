// Package bolt stores collection vectors in a single bbolt file, one bucket per collection.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"ragbot/internal/domain"
	"ragbot/internal/vectorstore"
)

// ErrNotInitialized is returned by Upsert before Init created the collection.
var ErrNotInitialized = errors.New("collection not initialized")

var dimensionKey = []byte("\x00dimension")

type record struct {
	DocumentID string            `json:"document_id"`
	ChunkID    string            `json:"chunk_id"`
	Index      int               `json:"index"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Vector     []float64         `json:"vector"`
}

// DB is an open bbolt vector database file.
type DB struct {
	db *bbolt.DB
}

// Open opens or creates the database at path, creating parent directories.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening vector db %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close releases the file lock.
func (d *DB) Close() error { return d.db.Close() }

// Collection returns the storage backed by the bucket name.
func (d *DB) Collection(name string) *Storage {
	return &Storage{db: d.db, bucket: []byte(name)}
}

// Collections lists the collections present in the file.
func (d *DB) Collections() ([]string, error) {
	var names []string
	err := d.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// Storage is one collection inside a DB.
type Storage struct {
	db     *bbolt.DB
	bucket []byte
}

func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return vectorstore.ErrInvalidDimension
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put(dimensionKey, []byte(strconv.Itoa(dimension)))
	})
}

func (s *Storage) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return vectorstore.ErrLengthMismatch
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("%s: %w", s.bucket, ErrNotInitialized)
		}
		dim, err := strconv.Atoi(string(b.Get(dimensionKey)))
		if err != nil {
			return fmt.Errorf("%s: reading dimension: %w", s.bucket, err)
		}
		for i, ch := range chunks {
			if len(vectors[i]) != dim {
				return vectorstore.ErrDimensionMismatch
			}
			data, err := json.Marshal(record{
				DocumentID: ch.DocumentID,
				ChunkID:    ch.ChunkID,
				Index:      ch.Index,
				Text:       ch.Text,
				Metadata:   ch.Metadata,
				Vector:     vectors[i],
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(ch.ChunkID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	var (
		chunks []domain.Chunk
		scores []float64
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if string(k) == string(dimensionKey) {
				return nil
			}
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding %s/%s: %w", s.bucket, k, err)
			}
			chunks = append(chunks, domain.Chunk{
				DocumentID: r.DocumentID,
				ChunkID:    r.ChunkID,
				Index:      r.Index,
				Text:       r.Text,
				Metadata:   r.Metadata,
			})
			scores = append(scores, vectorstore.Cosine(r.Vector, vector))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	idxs := vectorstore.TopK(scores, topK)
	results := make([]domain.SearchResult, 0, len(idxs))
	for _, j := range idxs {
		results = append(results, domain.SearchResult{Chunk: chunks[j], Score: scores[j]})
	}
	return results, nil
}

// Clear drops the collection bucket.
func (s *Storage) Clear(context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket(s.bucket)
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}
