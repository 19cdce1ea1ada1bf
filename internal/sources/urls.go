package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"agentforge/internal/logging"
)

// URLEntry is one URL staged for server-side crawling.
type URLEntry struct {
	URL       string
	Title     string // best-effort page title, may be empty
	Recursive bool
	MaxPages  int
}

// URLCollector accumulates crawl URLs.
type URLCollector struct {
	items []URLEntry
}

// titleClient is short-fused on purpose: the title lookup is cosmetic and
// must never stall the wizard.
var titleClient = &http.Client{Timeout: 5 * time.Second}

// Add validates and stages a URL. Scheme must be http or https.
func (c *URLCollector) Add(raw string, recursive bool, maxPages int) (URLEntry, error) {
	u, err := neturl.Parse(strings.TrimSpace(raw))
	if err != nil {
		return URLEntry{}, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return URLEntry{}, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return URLEntry{}, fmt.Errorf("URL has no host")
	}
	if maxPages <= 0 {
		maxPages = 10
	}

	entry := URLEntry{URL: u.String(), Recursive: recursive, MaxPages: maxPages}
	c.items = append(c.items, entry)
	logging.Sources("staged url %s (recursive=%v max_pages=%d)", entry.URL, recursive, maxPages)
	return entry, nil
}

// Remove drops the entry at index i.
func (c *URLCollector) Remove(i int) {
	c.items = removeAt(c.items, i)
}

// Count returns the number of staged URLs.
func (c *URLCollector) Count() int { return len(c.items) }

// Items returns the staged URLs in insertion order.
func (c *URLCollector) Items() []URLEntry {
	out := make([]URLEntry, len(c.items))
	copy(out, c.items)
	return out
}

// RenderList returns one display line per staged URL.
func (c *URLCollector) RenderList() []string {
	lines := make([]string, 0, len(c.items))
	for _, u := range c.items {
		line := u.URL
		if u.Title != "" {
			line = fmt.Sprintf("%s (%s)", u.Title, u.URL)
		}
		if u.Recursive {
			line += fmt.Sprintf(" (recursive, up to %d pages)", u.MaxPages)
		}
		lines = append(lines, line)
	}
	return lines
}

// FetchTitle fetches the page title for a URL. It never touches a collector:
// the caller applies the result on its own goroutine via SetTitle. Failures
// come back as an empty string; the title is decoration only.
func FetchTitle(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	resp, err := titleClient.Do(req)
	if err != nil {
		logging.SourcesDebug("title lookup failed for %s: %v", rawURL, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	return extractTitle(resp.Body)
}

// SetTitle records a fetched title on the entry with the given URL. The entry
// is matched by URL, not index, so it tolerates removals and reordering while
// the lookup was in flight; a title for a since-removed entry is dropped.
func (c *URLCollector) SetTitle(url, title string) bool {
	if title == "" {
		return false
	}
	for i := range c.items {
		if c.items[i].URL == url {
			c.items[i].Title = title
			return true
		}
	}
	return false
}

// extractTitle walks the HTML token stream until the first <title> text node.
func extractTitle(r io.Reader) string {
	z := html.NewTokenizer(r)
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = string(name) == "title"
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text()))
			}
		case html.EndTagToken:
			inTitle = false
		}
	}
}
