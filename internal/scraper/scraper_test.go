package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ragbot/internal/cleaner"
)

// newService serves pages both directly and through a fake scraping API at /api.
func newService(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/api" {
			if r.URL.Query().Get("api_key") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			path = strings.TrimPrefix(r.URL.Query().Get("url"), server.URL)
		}
		page, ok := pages[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{APIURL: server.URL + "/api", APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestFetchStatusError(t *testing.T) {
	server := newService(t, nil)
	_, err := newTestClient(t, server).Fetch(context.Background(), server.URL+"/missing")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound || se.URL != server.URL+"/missing" {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestScrapeSitesContinuesAfterFailure(t *testing.T) {
	server := newService(t, map[string]string{
		"/jnj":   `<html><body><p>Skip to content</p><p>TECNIS Odyssey launched</p><script>var x=1</script><p>2,024</p></body></html>`,
		"/zeiss": `<html><body><h1>Zeiss at AAO</h1></body></html>`,
	})
	sites := []Site{
		{Name: "JnJ", URL: server.URL + "/jnj"},
		{Name: "RXSight", URL: server.URL + "/gone"},
		{Name: "Zeiss IOLs", URL: server.URL + "/zeiss"},
	}
	got, failures := ScrapeSites(context.Background(), newTestClient(t, server), cleaner.New(nil), sites)

	want := "\n\n--- Content from JnJ ---\n\nTECNIS Odyssey launched" +
		"\n\n--- Content from Zeiss IOLs ---\n\nZeiss at AAO"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(failures) != 1 || failures[0].Site.Name != "RXSight" {
		t.Fatalf("unexpected failures %+v", failures)
	}
}

const indexPage = `<html><body>
<h3 class="PagePromo-title"><a href="/press/odyssey"> Odyssey launch </a></h3>
<h3 class="Other"><a href="/press/ignored">Ignored</a></h3>
<div><h3 class="Promo PagePromo-title"><span><a href="%s/press/vision">Vision care</a></span></h3></div>
<h3 class="PagePromo-title"><a href="/press/third">Third</a></h3>
</body></html>`

func TestHarvestResolvesLinksAndDedupes(t *testing.T) {
	var server *httptest.Server
	pages := map[string]string{
		"/press/odyssey": `<html><body><p>Johnson &amp; Johnson</p><p>Odyssey lens</p></body></html>`,
		"/press/vision":  `<html><body><p>Johnson &amp; Johnson</p><p>Vision care news</p></body></html>`,
	}
	server = newService(t, pages)
	pages["/press-releases"] = fmt.Sprintf(indexPage, server.URL)

	h := NewHarvester(HarvestConfig{IndexURL: server.URL + "/press-releases", TitleClass: "PagePromo-title", BaseURL: server.URL}, newTestClient(t, server), cleaner.New([]string{"Skip to content"}))
	releases, err := h.Releases(context.Background(), 2)
	if err != nil {
		t.Fatalf("releases: %v", err)
	}
	if len(releases) != 2 || releases[0].URL != server.URL+"/press/odyssey" || releases[0].Title != "Odyssey launch" {
		t.Fatalf("unexpected releases %+v", releases)
	}

	got, err := h.Harvest(context.Background(), 2)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	want := "\n\n## Odyssey launch\n\nJohnson & Johnson\nOdyssey lens\n" +
		"\n\n## Vision care\n\nVision care news"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHarvestWithoutMatchingLinks(t *testing.T) {
	server := newService(t, map[string]string{"/press-releases": `<html><body><h3>plain</h3></body></html>`})
	h := NewHarvester(HarvestConfig{IndexURL: server.URL + "/press-releases", TitleClass: "PagePromo-title"}, newTestClient(t, server), cleaner.New(nil))
	if _, err := h.Harvest(context.Background(), 1); !errors.Is(err, ErrNoReleases) {
		t.Fatalf("expected ErrNoReleases, got %v", err)
	}
}

func TestHarvestIndexFailure(t *testing.T) {
	server := newService(t, nil)
	h := NewHarvester(HarvestConfig{IndexURL: server.URL + "/press-releases", TitleClass: "x"}, newTestClient(t, server), cleaner.New(nil))
	var se *StatusError
	if _, err := h.Harvest(context.Background(), 1); !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
}
