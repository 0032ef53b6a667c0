package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragbot/internal/app"
	"ragbot/internal/config"
	"ragbot/internal/domain"
	"ragbot/internal/loader"
	"ragbot/internal/retrieval"
	"ragbot/internal/scraper"
	"ragbot/internal/service"
	"ragbot/internal/tui"
)

const usage = `Usage: ragbot [--config=config.yaml] <command> [args]

Commands:
  chat [file ...]        chat with the stored collections; files are ingested first
  ingest [--watch]       rebuild the collections from the data directory
  scrape [--out f] [site ...]
                         scrape the configured sites through the scraping service
  parse --in f --describe text [--out f]
                         extract matching information from scraped content
  releases [-n N] [--out f]
                         harvest the latest press releases into the data directory`

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragbot/config.yaml if not provided)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "chat":
		err = runChat(ctx, cfg, args[1:])
	case "ingest":
		err = runIngest(ctx, cfg, args[1:])
	case "scrape":
		err = runScrape(ctx, cfg, args[1:])
	case "parse":
		err = runParse(ctx, cfg, args[1:])
	case "releases":
		err = runReleases(ctx, cfg, args[1:])
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

// pipeline holds the components shared by chat and ingest.
type pipeline struct {
	gateway  *retrieval.Gateway
	ingestor *service.Ingestor
	close    func() error
}

func buildPipeline(cfg *config.AppConfig, collections []retrieval.Collection) (*pipeline, error) {
	emb, err := app.BuildEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	ch, err := app.BuildChunker(cfg.Chunker)
	if err != nil {
		return nil, err
	}
	sum, err := app.BuildSummarizer(cfg.Summarizer)
	if err != nil {
		return nil, err
	}
	open, closeStores, err := app.BuildStores(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	gw, err := retrieval.NewGateway(emb, open, collections)
	if err != nil {
		closeStores()
		return nil, err
	}
	return &pipeline{
		gateway:  gw,
		ingestor: service.NewIngestor(gw, ch, sum, cfg.Summarizer.MaxSentences),
		close:    closeStores,
	}, nil
}

func runChat(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	fs.Parse(args)

	var docs []domain.Document
	if fs.NArg() > 0 {
		var err error
		docs, err = loader.LoadFiles(fs.Args(), cfg.Ingest.Extensions)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no supported documents found")
		}
	}
	collections := app.MergeDocumentCollections(app.Collections(cfg.Collections), docs)

	p, err := buildPipeline(cfg, collections)
	if err != nil {
		return err
	}
	defer p.close()

	summary := "Collections: " + strings.Join(p.gateway.Labels(), ", ")
	if len(docs) > 0 {
		res, err := p.ingestor.Ingest(ctx, docs)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		if res.Summary != "" {
			summary = res.Summary
		}
	}

	client, err := app.BuildCompletion(cfg.Completion, "")
	if err != nil {
		return err
	}
	chat, err := app.BuildChat(cfg, p.gateway, client)
	if err != nil {
		return err
	}
	m := tui.New(ctx, chat, p.gateway.Labels(), summary)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func runIngest(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	watch := fs.Bool("watch", false, "re-ingest when files in the data directory change")
	fs.Parse(args)

	p, err := buildPipeline(cfg, app.Collections(cfg.Collections))
	if err != nil {
		return err
	}
	defer p.close()

	ingest := func() error {
		docs, err := loader.LoadDir(cfg.Ingest.DataDir, cfg.Ingest.Extensions)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			log.Printf("[WARN] nothing to ingest in %s", cfg.Ingest.DataDir)
			return nil
		}
		res, err := p.ingestor.Ingest(ctx, docs)
		if err != nil {
			return err
		}
		log.Printf("[INFO] ingested %d documents, %d chunks into %s", res.Documents, res.Chunks, strings.Join(res.Collections, ", "))
		if len(res.Cleared) > 0 {
			log.Printf("[INFO] cleared collections without documents: %s", strings.Join(res.Cleared, ", "))
		}
		if res.Summary != "" {
			fmt.Println(res.Summary)
		}
		return nil
	}
	if err := ingest(); err != nil || !*watch {
		return err
	}

	w, err := loader.NewWatcher(cfg.Ingest.Extensions)
	if err != nil {
		return err
	}
	defer w.Close()
	events, err := w.Watch(ctx, cfg.Ingest.DataDir)
	if err != nil {
		return err
	}
	log.Printf("[INFO] watching %s", cfg.Ingest.DataDir)
	for ev := range events {
		log.Printf("[INFO] %s %s", filepath.Base(ev.Path), ev.Op)
		if err := ingest(); err != nil {
			log.Printf("[ERROR] ingest: %v", err)
		}
	}
	return nil
}

func runScrape(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	out := fs.String("out", "", "write the scraped content to this file instead of stdout")
	fs.Parse(args)

	client, err := app.BuildScraper(cfg.Scraper)
	if err != nil {
		return err
	}
	sites := app.Sites(cfg.Scraper.Sites)
	if fs.NArg() > 0 {
		sites = selectSites(sites, fs.Args())
	}
	if len(sites) == 0 {
		return fmt.Errorf("no sites selected")
	}
	content, failures := scraper.ScrapeSites(ctx, client, app.BuildCleaner(cfg.Cleaner), sites)
	for _, f := range failures {
		log.Printf("[WARN] skipped %s: %v", f.Site.Name, f.Err)
	}
	return writeOutput(*out, content)
}

func selectSites(sites []scraper.Site, names []string) []scraper.Site {
	var out []scraper.Site
	for _, s := range sites {
		for _, n := range names {
			if strings.EqualFold(s.Name, n) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func runParse(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	in := fs.String("in", "", "file with the scraped content")
	describe := fs.String("describe", "", "what to extract")
	out := fs.String("out", "", "write the result to this text file instead of stdout")
	fs.Parse(args)
	if *in == "" || *describe == "" {
		return fmt.Errorf("--in and --describe are required")
	}
	content, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	client, err := app.BuildCompletion(cfg.Completion, cfg.Completion.ParseModel)
	if err != nil {
		return err
	}
	result := service.NewParser(client, cfg.Chunker.ChunkSize).Parse(ctx, string(content), *describe)
	if strings.TrimSpace(result) == "" {
		fmt.Println(service.NoMatch)
		return nil
	}
	return writeOutput(*out, result)
}

func runReleases(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("releases", flag.ExitOnError)
	n := fs.Int("n", cfg.Scraper.PressReleases.Count, "number of press releases")
	out := fs.String("out", cfg.Scraper.PressReleases.Output, "output file")
	fs.Parse(args)

	client, err := app.BuildScraper(cfg.Scraper)
	if err != nil {
		return err
	}
	h := app.BuildHarvester(cfg.Scraper, client, app.BuildCleaner(cfg.Cleaner))
	content, err := h.Harvest(ctx, *n)
	if err != nil {
		return err
	}
	if err := writeOutput(*out, content); err != nil {
		return err
	}
	log.Printf("[INFO] results saved to %s", *out)
	return nil
}

func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
