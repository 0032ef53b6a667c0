package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"ragbot/internal/cleaner"
)

// ErrNoReleases is returned when the index page has no matching links.
var ErrNoReleases = errors.New("no press releases found")

type HarvestConfig struct {
	IndexURL   string
	TitleClass string
	// BaseURL resolves relative release links. Defaults to IndexURL.
	BaseURL string
	Timeout time.Duration
}

// Release is one press-release link on the index page.
type Release struct {
	Title string
	URL   string
}

// Harvester collects the most recent press releases listed on an index page.
// The index page is fetched directly; releases go through the scraping service.
type Harvester struct {
	cfg     HarvestConfig
	http    *http.Client
	fetcher Fetcher
	cleaner *cleaner.Cleaner
}

func NewHarvester(cfg HarvestConfig, fetcher Fetcher, c *cleaner.Cleaner) *Harvester {
	if cfg.BaseURL == "" {
		cfg.BaseURL = cfg.IndexURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Harvester{cfg: cfg, http: &http.Client{Timeout: timeout}, fetcher: fetcher, cleaner: c}
}

// Harvest returns the cleaned text of the first n releases as "## <title>"
// sections. Lines repeated across releases are kept only once.
func (h *Harvester) Harvest(ctx context.Context, n int) (string, error) {
	releases, err := h.Releases(ctx, n)
	if err != nil {
		return "", err
	}
	seen := make(map[string]struct{})
	sections := make([]string, 0, len(releases))
	for _, r := range releases {
		log.Printf("[INFO] scraping %s", r.URL)
		raw, err := h.fetcher.Fetch(ctx, r.URL)
		if err != nil {
			log.Printf("[WARN] %v", err)
			continue
		}
		content := cleaner.DedupeLines(h.cleaner.Clean(raw), seen)
		sections = append(sections, fmt.Sprintf("\n\n## %s\n\n%s", r.Title, content))
	}
	return strings.Join(sections, "\n"), nil
}

// Releases lists up to n release links from the index page in page order.
func (h *Harvester) Releases(ctx context.Context, n int) ([]Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.cfg.IndexURL, nil)
	if err != nil {
		return nil, err
	}
	page, err := get(h.http, req, h.cfg.IndexURL)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(h.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	releases, err := parseReleases(page, h.cfg.TitleClass, base, n)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, ErrNoReleases
	}
	return releases, nil
}

func parseReleases(page, titleClass string, base *url.URL, n int) ([]Release, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}
	var releases []Release
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if n > 0 && len(releases) >= n {
			return
		}
		if node.Type == html.ElementNode && node.Data == "h3" && hasClass(node, titleClass) {
			if a := findLink(node); a != nil {
				href, err := base.Parse(attr(a, "href"))
				if err == nil {
					releases = append(releases, Release{Title: strings.TrimSpace(text(a)), URL: href.String()})
				}
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return releases, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findLink(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" && attr(c, "href") != "" {
			return c
		}
		if a := findLink(c); a != nil {
			return a
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
	}
	return b.String()
}
