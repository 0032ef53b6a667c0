package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"ragbot/internal/domain"
)

func TestPointIDIsDeterministicUUID(t *testing.T) {
	a, b := PointID("doc:0"), PointID("doc:0")
	if a != b {
		t.Fatalf("ids differ: %s %s", a, b)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("not a uuid: %s", a)
	}
	if PointID("doc:1") == a {
		t.Fatal("different chunks share an id")
	}
}

func TestUpsertAndSearch(t *testing.T) {
	var upserted []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "k" {
			t.Errorf("missing api key header")
		}
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/ragbot_jnj/points":
			var body struct {
				Points []map[string]any `json:"points"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			upserted = body.Points
			w.Write([]byte(`{"status":"ok"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/collections/ragbot_jnj/points/search":
			w.Write([]byte(`{"result":[
				{"score":0.9,"payload":{"chunk_id":"d:0","text":"Zeiss launched a new lens","metadata":{"source":"zeiss.txt"}}},
				{"score":0.4,"payload":{"chunk_id":"d:1","index":1,"text":"other"}}
			]}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	s := NewStorage(Config{URL: server.URL, APIKey: "k", Collection: "ragbot_jnj"})
	ctx := context.Background()
	if err := s.Upsert(ctx, []domain.Chunk{{ChunkID: "d:0", Text: "x"}}, [][]float64{{1, 2}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(upserted) != 1 || upserted[0]["id"] != PointID("d:0") {
		t.Fatalf("unexpected points: %v", upserted)
	}
	res, err := s.Search(ctx, []float64{1, 2}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 || res[0].Score != 0.9 || res[0].Chunk.Metadata["source"] != "zeiss.txt" || res[1].Chunk.Index != 1 {
		t.Fatalf("unexpected results: %+v", res)
	}
}

func TestClearIgnoresMissingCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if err := NewStorage(Config{URL: server.URL, Collection: "c"}).Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func TestSearchMissingCollectionIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	got, err := NewStorage(Config{URL: server.URL, Collection: "c"}).Search(context.Background(), []float64{1}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestInitPropagatesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := NewStorage(Config{URL: server.URL, Collection: "c"}).Init(context.Background(), 3); err == nil {
		t.Fatal("expected error")
	}
}
