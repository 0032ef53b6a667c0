// Package scraper fetches web pages through a scraping service and turns them
// into cleaned text ready for ingestion.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ragbot/internal/cleaner"
)

// StatusError reports a non-200 answer for a scraped URL.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scraping %s: status code %d", e.URL, e.Code)
}

// Fetcher returns the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) (string, error)
}

type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// Client calls a scraping service of the form GET <api_url>?api_key=<key>&url=<target>.
type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, errors.New("scraper api url is not set")
	}
	if _, err := url.Parse(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("scraper api url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{apiURL: cfg.APIURL, apiKey: cfg.APIKey, http: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) Fetch(ctx context.Context, targetURL string) (string, error) {
	u, _ := url.Parse(c.apiURL)
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("url", targetURL)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	return get(c.http, req, targetURL)
}

func get(client *http.Client, req *http.Request, target string) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("scraping %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: target, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", target, err)
	}
	return string(body), nil
}

// Site is a named page to scrape.
type Site struct {
	Name string
	URL  string
}

// Failure records a site that could not be scraped.
type Failure struct {
	Site Site
	Err  error
}

// ScrapeSites fetches and cleans every site in order. Each site's text is
// preceded by a "--- Content from <name> ---" header. Failed sites are logged,
// returned and skipped; the batch continues.
func ScrapeSites(ctx context.Context, f Fetcher, c *cleaner.Cleaner, sites []Site) (string, []Failure) {
	var b strings.Builder
	var failures []Failure
	for _, site := range sites {
		raw, err := f.Fetch(ctx, site.URL)
		if err != nil {
			log.Printf("[WARN] %s: %v", site.Name, err)
			failures = append(failures, Failure{Site: site, Err: err})
			continue
		}
		fmt.Fprintf(&b, "\n\n--- Content from %s ---\n\n", site.Name)
		b.WriteString(c.Clean(raw))
	}
	return b.String(), failures
}
