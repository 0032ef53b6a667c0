package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks for storage.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	ChunkSize         int    `yaml:"chunk_size"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Bolt   *BoltConfig   `yaml:"bolt,omitempty"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// BoltConfig points at the bbolt database file.
type BoltConfig struct {
	Path string `yaml:"path"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
// Each labelled collection maps to the Qdrant collection CollectionPrefix+name.
type QdrantConfig struct {
	URL              string `yaml:"url"`
	APIKey           string `yaml:"api_key"`
	CollectionPrefix string `yaml:"collection_prefix"`
	TimeoutSecs      int    `yaml:"timeout_secs"`
}

// CollectionConfig maps a label shown to users to a store collection name.
type CollectionConfig struct {
	Label string `yaml:"label"`
	Name  string `yaml:"name"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// CompletionConfig configures the chat completion service.
type CompletionConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	ParseModel  string `yaml:"parse_model"`
	Stream      bool   `yaml:"stream"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PromptConfig selects the answer template and the competitor expansion.
type PromptConfig struct {
	Template string   `yaml:"template"`
	Persona  string   `yaml:"persona"`
	Operator string   `yaml:"operator"`
	Tracked  []string `yaml:"tracked"`
	// LastQuarter overrides the computed last available quarter when 1-4.
	LastQuarter int `yaml:"last_quarter"`
}

type CleanerConfig struct {
	DenyList []string `yaml:"deny_list,omitempty"`
}

// SiteConfig is a named page for the scrape command.
type SiteConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// PressReleasesConfig drives the press-release harvester.
type PressReleasesConfig struct {
	IndexURL   string `yaml:"index_url"`
	TitleClass string `yaml:"title_class"`
	BaseURL    string `yaml:"base_url"`
	Count      int    `yaml:"count"`
	Output     string `yaml:"output"`
}

// ScraperConfig configures the scraping service. URL and key are read from the
// named environment variables unless APIURL is set.
type ScraperConfig struct {
	APIURL        string              `yaml:"api_url,omitempty"`
	APIURLEnv     string              `yaml:"api_url_env"`
	APIKeyEnv     string              `yaml:"api_key_env"`
	TimeoutSecs   int                 `yaml:"timeout_secs"`
	Sites         []SiteConfig        `yaml:"sites"`
	PressReleases PressReleasesConfig `yaml:"press_releases"`
}

// QueryLogConfig controls the CSV query log. Logging is on unless disabled.
type QueryLogConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// IngestConfig points at the directory of source files.
type IngestConfig struct {
	DataDir    string   `yaml:"data_dir"`
	Extensions []string `yaml:"extensions"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig     `yaml:"embedder"`
	Chunker     ChunkerConfig      `yaml:"chunker"`
	VectorStore VectorStoreConfig  `yaml:"vector_store"`
	Collections []CollectionConfig `yaml:"collections"`
	Retrieval   RetrievalConfig    `yaml:"retrieval"`
	Completion  CompletionConfig   `yaml:"completion"`
	Prompt      PromptConfig       `yaml:"prompt"`
	Cleaner     CleanerConfig      `yaml:"cleaner"`
	Scraper     ScraperConfig      `yaml:"scraper"`
	QueryLog    QueryLogConfig     `yaml:"query_log"`
	Summarizer  SummarizerConfig   `yaml:"summarizer"`
	Ingest      IngestConfig       `yaml:"ingest"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder: EmbedderConfig{Type: "openai", OpenAI: &OpenAIEmbedderConfig{}},
		Chunker:  ChunkerConfig{Type: "fixed"},
		VectorStore: VectorStoreConfig{
			Type: "bolt",
			Bolt: &BoltConfig{},
		},
		Collections: []CollectionConfig{{Label: "JNJ", Name: "jnj"}},
		Scraper: ScraperConfig{
			Sites: []SiteConfig{
				{Name: "JnJ", URL: "https://www.jnj.com/media-center/press-releases/johnson-johnson-rolls-out-new-tecnis-odyssey-next-generation-intraocular-lens-offering-cataract-patients-precise-vision-at-every-distance-in-any-lighting"},
				{Name: "RXSight", URL: "https://www.centerforeyes.com/rxsight/"},
				{Name: "Zeiss IOLs", URL: "https://www.zeiss.com/meditec-ag/en/media-news/press-releases/2024/zeiss-at-aao.html"},
			},
			PressReleases: PressReleasesConfig{
				IndexURL:   "https://www.jnj.com/media-center/press-releases",
				TitleClass: "PagePromo-title",
				BaseURL:    "https://www.jnj.com",
			},
		},
		Summarizer: SummarizerConfig{Type: "frequency"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-large"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
		if o.MaxRetries == 0 {
			o.MaxRetries = 3
		}
	}

	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "fixed"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 5000
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "bolt"
	}
	if cfg.VectorStore.Type == "bolt" {
		if cfg.VectorStore.Bolt == nil {
			cfg.VectorStore.Bolt = &BoltConfig{}
		}
		if cfg.VectorStore.Bolt.Path == "" {
			cfg.VectorStore.Bolt.Path = filepath.Join("vector_db", "store.db")
		}
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.URL == "" {
			q.URL = "http://localhost:6333"
		}
		if q.CollectionPrefix == "" {
			q.CollectionPrefix = "ragbot_"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}

	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}

	c := &cfg.Completion
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = "gpt-3.5-turbo"
	}
	if c.ParseModel == "" {
		c.ParseModel = "gpt-4o-mini"
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 60
	}

	p := &cfg.Prompt
	if p.Template == "" {
		p.Template = "answer"
	}
	if p.Operator == "" {
		p.Operator = "ALC"
	}
	if len(p.Tracked) == 0 {
		p.Tracked = []string{"ALC", "JNJ", "RXST", "AFX"}
	}

	s := &cfg.Scraper
	if s.APIURLEnv == "" {
		s.APIURLEnv = "SCRAPER_API_URL"
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = "API_KEY"
	}
	if s.TimeoutSecs == 0 {
		s.TimeoutSecs = 60
	}
	if s.PressReleases.Count == 0 {
		s.PressReleases.Count = 1
	}
	if s.PressReleases.Output == "" {
		s.PressReleases.Output = filepath.Join("data", "jnj.txt")
	}

	if cfg.QueryLog.Path == "" {
		cfg.QueryLog.Path = "responses.csv"
	}

	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}

	if cfg.Ingest.DataDir == "" {
		cfg.Ingest.DataDir = "data"
	}
	if len(cfg.Ingest.Extensions) == 0 {
		cfg.Ingest.Extensions = []string{".txt", ".md", ".pdf"}
	}
}

// ScraperURL returns the scraping service URL, from the config or the environment.
func (s ScraperConfig) ScraperURL() string {
	if s.APIURL != "" {
		return s.APIURL
	}
	return os.Getenv(s.APIURLEnv)
}

// ScraperKey returns the scraping service key from the environment.
func (s ScraperConfig) ScraperKey() string {
	return os.Getenv(s.APIKeyEnv)
}
