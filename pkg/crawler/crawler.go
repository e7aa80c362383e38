// Package crawler discovers the pages of a site so they can be registered
// under a project. It walks links breadth-first from a start URL and never
// leaves the start URL's registrable domain.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/sw33tLie/a11yscope/pkg/storage"
	"github.com/sw33tLie/a11yscope/pkg/whttp"
)

const (
	DefaultLimit       = 25
	DefaultMaxDepth    = 2
	DefaultConcurrency = 5
)

// skippedExts are link targets that are never HTML pages.
var skippedExts = map[string]bool{
	".pdf": true, ".zip": true, ".gz": true, ".png": true, ".jpg": true,
	".jpeg": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true,
	".css": true, ".js": true, ".json": true, ".xml": true, ".mp4": true,
	".mp3": true, ".woff": true, ".woff2": true,
}

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config controls a crawl. Zero values fall back to the defaults.
type Config struct {
	Client      *retryablehttp.Client
	Limit       int
	MaxDepth    int
	Concurrency int
	Log         Logger
}

// Page is one discovered HTML page.
type Page struct {
	URL   string
	Title string
	Depth int
}

type fetched struct {
	page  Page
	links []string
	err   error
}

type crawl struct {
	cfg  Config
	site string
	seen map[string]bool
}

// Crawl returns up to cfg.Limit pages reachable from start in discovery
// order, start page first. Failing to fetch the start page is an error;
// other failures are logged and skipped.
func Crawl(ctx context.Context, start string, cfg Config) ([]Page, error) {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Log == nil {
		cfg.Log = nopLogger{}
	}
	if cfg.Client == nil {
		client, err := whttp.NewClient("", 3)
		if err != nil {
			return nil, err
		}
		cfg.Client = client
	}

	startURL := storage.NormalizePageURL(start)
	if startURL == "" {
		return nil, fmt.Errorf("invalid start URL %q", start)
	}
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, err
	}
	c := &crawl{cfg: cfg, site: siteOf(u), seen: map[string]bool{startURL: true}}

	first := c.fetch(ctx, startURL, 0)
	if first.err != nil {
		return nil, fmt.Errorf("fetch start page: %w", first.err)
	}

	pages := []Page{first.page}
	frontier := c.enqueue(first.links, len(pages))
	for depth := 1; depth <= cfg.MaxDepth && len(frontier) > 0 && len(pages) < cfg.Limit; depth++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		cfg.Log.Debugf("Crawling %d pages at depth %d", len(frontier), depth)

		var next []string
		for _, f := range c.fetchAll(ctx, frontier, depth) {
			if f.err != nil {
				if errors.Is(f.err, context.Canceled) {
					return pages, f.err
				}
				cfg.Log.Warnf("Skipping %s: %v", f.page.URL, f.err)
				continue
			}
			if len(pages) >= cfg.Limit {
				break
			}
			pages = append(pages, f.page)
			next = append(next, f.links...)
		}
		frontier = c.enqueue(next, len(pages))
	}
	return pages, nil
}

// enqueue filters links down to unseen ones, leaving room for at most
// Limit pages in total.
func (c *crawl) enqueue(links []string, have int) []string {
	var out []string
	for _, l := range links {
		if have+len(out) >= c.cfg.Limit {
			break
		}
		if c.seen[l] {
			continue
		}
		c.seen[l] = true
		out = append(out, l)
	}
	return out
}

// fetchAll fetches urls with a worker pool and returns results in input
// order.
func (c *crawl) fetchAll(ctx context.Context, urls []string, depth int) []fetched {
	results := make([]fetched, len(urls))
	idxChan := make(chan int, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Concurrency && i < len(urls); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				results[idx] = c.fetch(ctx, urls[idx], depth)
			}
		}()
	}

	for i := range urls {
		idxChan <- i
	}
	close(idxChan)
	wg.Wait()

	return results
}

func (c *crawl) fetch(ctx context.Context, pageURL string, depth int) fetched {
	f := fetched{page: Page{URL: pageURL, Depth: depth}}

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{URL: pageURL}, c.cfg.Client)
	if err != nil {
		f.err = err
		return f
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		f.err = fmt.Errorf("status %d", res.StatusCode)
		return f
	}
	if !whttp.IsHTML(res.ContentType) {
		f.err = fmt.Errorf("not an HTML page (%s)", res.ContentType)
		return f
	}
	f.page.Title = res.HTTPTitle

	base, err := url.Parse(res.FinalURL)
	if err != nil {
		base, _ = url.Parse(pageURL)
	}
	links, err := c.extractLinks(base, res.BodyString)
	if err != nil {
		c.cfg.Log.Warnf("Could not parse links on %s: %v", pageURL, err)
	}
	f.links = links
	return f
}

// extractLinks returns the normalized same-site page links of an HTML
// document in document order.
func (c *crawl) extractLinks(base *url.URL, body string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := base.Parse(strings.TrimSpace(href)); err == nil {
			base = b
		}
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if rel, _ := s.Attr("rel"); strings.Contains(strings.ToLower(rel), "nofollow") {
			return
		}
		abs, err := base.Parse(href)
		if err != nil || (abs.Scheme != "http" && abs.Scheme != "https") {
			return
		}
		if skippedExts[strings.ToLower(path.Ext(abs.Path))] {
			return
		}
		if siteOf(abs) != c.site {
			return
		}
		if n := storage.NormalizePageURL(abs.String()); n != "" {
			links = append(links, n)
		}
	})
	return links, nil
}

// siteOf returns the registrable domain of u, or its host when the host is
// an IP address or has no public suffix.
func siteOf(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) != nil {
		return strings.ToLower(u.Host)
	}
	domain, err := publicsuffix.Domain(host)
	if err != nil || domain == "" {
		return strings.ToLower(u.Host)
	}
	return domain
}
