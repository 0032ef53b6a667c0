package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.VectorStore.Type != "bolt" || cfg.VectorStore.Bolt.Path != filepath.Join("vector_db", "store.db") {
		t.Fatalf("unexpected store defaults %+v", cfg.VectorStore)
	}
	if cfg.Retrieval.TopK != 3 || cfg.Completion.Model != "gpt-3.5-turbo" || cfg.Completion.ParseModel != "gpt-4o-mini" {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Retrieval, cfg.Completion)
	}
	if cfg.Embedder.OpenAI.Model != "text-embedding-3-large" || cfg.QueryLog.Path != "responses.csv" || cfg.QueryLog.Disabled {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Embedder.OpenAI, cfg.QueryLog)
	}
	if len(cfg.Prompt.Tracked) != 4 || cfg.Prompt.Operator != "ALC" {
		t.Fatalf("unexpected prompt defaults %+v", cfg.Prompt)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
embedder:
  type: tfidf
vector_store:
  type: qdrant
  qdrant:
    url: http://qdrant:6333
collections:
  - label: JNJ
    name: jnj
  - label: Zeiss IOLs
    name: zeiss
prompt:
  template: report
  last_quarter: 2
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Embedder.OpenAI != nil {
		t.Fatal("openai section should stay empty for tfidf")
	}
	if cfg.VectorStore.Qdrant.URL != "http://qdrant:6333" || cfg.VectorStore.Qdrant.CollectionPrefix != "ragbot_" || cfg.VectorStore.Bolt != nil {
		t.Fatalf("unexpected store config %+v", cfg.VectorStore)
	}
	if len(cfg.Collections) != 2 || cfg.Collections[1].Label != "Zeiss IOLs" {
		t.Fatalf("unexpected collections %+v", cfg.Collections)
	}
	if cfg.Prompt.Template != "report" || cfg.Prompt.LastQuarter != 2 || cfg.Chunker.ChunkSize != 5000 {
		t.Fatalf("unexpected config %+v %+v", cfg.Prompt, cfg.Chunker)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("collections: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Collections = append(cfg.Collections, CollectionConfig{Label: "RXSight", Name: "rxsight"})
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Collections) != 2 || loaded.Scraper.PressReleases.TitleClass != "PagePromo-title" {
		t.Fatalf("unexpected config after reload %+v", loaded)
	}
}

func TestScraperURLPrefersConfig(t *testing.T) {
	t.Setenv("TEST_SCRAPER_URL", "http://env")
	s := ScraperConfig{APIURLEnv: "TEST_SCRAPER_URL"}
	if s.ScraperURL() != "http://env" {
		t.Fatalf("got %q", s.ScraperURL())
	}
	s.APIURL = "http://cfg"
	if s.ScraperURL() != "http://cfg" {
		t.Fatalf("got %q", s.ScraperURL())
	}
}
