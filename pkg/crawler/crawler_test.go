package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sw33tLie/a11yscope/pkg/whttp"
)

func site(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/report.pdf" {
			t.Errorf("crawler fetched a skipped extension")
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/data" {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func htmlPage(title string, links ...string) string {
	s := "<html><head><title>" + title + "</title></head><body>"
	for _, l := range links {
		s += `<a href="` + l + `">link</a>`
	}
	return s + "</body></html>"
}

func client(t *testing.T) Config {
	t.Helper()
	c, err := whttp.NewClient("", 0)
	require.NoError(t, err)
	return Config{Client: c, Concurrency: 3}
}

func urlsOf(pages []Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		u, _ := url.Parse(p.URL)
		out = append(out, u.Path)
	}
	return out
}

func TestCrawl_BreadthFirstSameSite(t *testing.T) {
	srv := site(t, map[string]string{
		"/":            htmlPage("Home", "/about", "/blog/", "https://other.example.org/x", "mailto:a@b.c", "#top", "/report.pdf", "/about#team"),
		"/about":       htmlPage("About", "/", "/team"),
		"/blog":        htmlPage("Blog", "/blog/post-1", "/missing"),
		"/team":        htmlPage("Team", "/deep"),
		"/blog/post-1": htmlPage("Post 1"),
		"/deep":        htmlPage("Deep"),
	})

	cfg := client(t)
	cfg.MaxDepth = 2
	pages, err := Crawl(context.Background(), srv.URL+"/", cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "/about", "/blog", "/team", "/blog/post-1"}, urlsOf(pages))
	assert.Equal(t, "Home", pages[0].Title)
	assert.Equal(t, 0, pages[0].Depth)
	assert.Equal(t, "About", pages[1].Title)
	assert.Equal(t, 1, pages[1].Depth)
	assert.Equal(t, 2, pages[4].Depth)
}

func TestCrawl_SkipsNofollowAndBaseHref(t *testing.T) {
	srv := site(t, map[string]string{
		"/": `<html><head><title>Home</title><base href="/docs/"></head><body>` +
			`<a href="guide">Guide</a><a rel="nofollow" href="/private">Private</a></body></html>`,
		"/docs/guide": htmlPage("Guide"),
		"/private":    htmlPage("Private"),
	})

	pages, err := Crawl(context.Background(), srv.URL, client(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "/docs/guide"}, urlsOf(pages))
}

func TestCrawl_RespectsLimit(t *testing.T) {
	srv := site(t, map[string]string{
		"/":  htmlPage("Home", "/a", "/b", "/c", "/d"),
		"/a": htmlPage("A"),
		"/b": htmlPage("B"),
		"/c": htmlPage("C"),
		"/d": htmlPage("D"),
	})

	cfg := client(t)
	cfg.Limit = 3
	pages, err := Crawl(context.Background(), srv.URL, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "/a", "/b"}, urlsOf(pages))
}

func TestCrawl_SkipsNonHTML(t *testing.T) {
	srv := site(t, map[string]string{
		"/":     htmlPage("Home", "/data", "/ok"),
		"/data": `{"a":1}`,
		"/ok":   htmlPage("OK"),
	})

	pages, err := Crawl(context.Background(), srv.URL, client(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "/ok"}, urlsOf(pages))
}

func TestCrawl_StartPageFailure(t *testing.T) {
	srv := site(t, map[string]string{})

	_, err := Crawl(context.Background(), srv.URL+"/nothing", client(t))
	assert.Error(t, err)

	_, err = Crawl(context.Background(), "mailto:x@example.com", client(t))
	assert.Error(t, err)
}

func TestSiteOf(t *testing.T) {
	for raw, want := range map[string]string{
		"https://www.example.com/a":   "example.com",
		"https://docs.example.co.uk/": "example.co.uk",
		"http://127.0.0.1:8080/":      "127.0.0.1:8080",
	} {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, siteOf(u), raw)
	}
}
