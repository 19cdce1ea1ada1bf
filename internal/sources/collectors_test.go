package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCollectorAddRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	var c FileCollector
	entry, err := c.Add(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", entry.Name)
	assert.EqualValues(t, 5, entry.Size)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 1, c.Count())

	c.Remove(0)
	assert.Equal(t, 0, c.Count())
}

func TestFileCollectorRejectsMissingAndDirs(t *testing.T) {
	var c FileCollector

	_, err := c.Add(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = c.Add(t.TempDir())
	assert.Error(t, err)
	assert.Equal(t, 0, c.Count())
}

func TestURLCollectorValidation(t *testing.T) {
	var c URLCollector

	entry, err := c.Add("  https://example.com/docs ", true, 0)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", entry.URL)
	assert.True(t, entry.Recursive)
	assert.Equal(t, 10, entry.MaxPages, "max pages defaults when unset")

	_, err = c.Add("ftp://example.com", false, 0)
	assert.Error(t, err)

	_, err = c.Add("https://", false, 0)
	assert.Error(t, err)

	assert.Equal(t, 1, c.Count())
}

func TestURLRenderList(t *testing.T) {
	var c URLCollector
	_, err := c.Add("https://example.com", true, 5)
	require.NoError(t, err)

	lines := c.RenderList()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "https://example.com")
	assert.Contains(t, lines[0], "up to 5 pages")

	require.True(t, c.SetTitle("https://example.com", "Example Docs"))
	lines = c.RenderList()
	assert.Contains(t, lines[0], "Example Docs (https://example.com)")
}

func TestURLCollectorSetTitle(t *testing.T) {
	var c URLCollector
	first, err := c.Add("https://example.com/a", false, 0)
	require.NoError(t, err)
	second, err := c.Add("https://example.com/b", false, 0)
	require.NoError(t, err)

	// The entry a lookup was started for can be gone by the time the
	// result arrives. Dropping the first entry shifts the second one down;
	// titles still land on the right URL and the stale result is ignored.
	c.Remove(0)
	assert.False(t, c.SetTitle(first.URL, "Gone"))
	assert.True(t, c.SetTitle(second.URL, "Page B"))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Page B", items[0].Title)

	assert.False(t, c.SetTitle(second.URL, ""), "empty titles are not recorded")
}

func TestFetchTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Docs Home</title></head><body></body></html>"))
	}))
	defer srv.Close()

	assert.Equal(t, "Docs Home", FetchTitle(context.Background(), srv.URL))
	assert.Empty(t, FetchTitle(context.Background(), "http://127.0.0.1:0/unreachable"))
}

func TestTextCollector(t *testing.T) {
	var c TextCollector

	_, err := c.Add("", "content")
	assert.Error(t, err)
	_, err = c.Add("title", "   ")
	assert.Error(t, err)

	entry, err := c.Add("  FAQ  ", "Q: why?\nA: because.")
	require.NoError(t, err)
	assert.Equal(t, "FAQ", entry.Title)
	assert.Equal(t, 1, c.Count())

	c.Remove(5) // out of range is tolerated
	assert.Equal(t, 1, c.Count())
	c.Remove(0)
	assert.Equal(t, 0, c.Count())
}

func TestSetReset(t *testing.T) {
	s := NewSet()
	_, err := s.Texts.Add("a", "b")
	require.NoError(t, err)
	_, err = s.URLs.Add("https://example.com", false, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalCount())

	s.Reset()
	assert.Equal(t, 0, s.TotalCount())
}

func TestExtractTitle(t *testing.T) {
	title := extractTitle(strings.NewReader("<html><head><title> My Page </title></head><body>x</body></html>"))
	assert.Equal(t, "My Page", title)

	assert.Empty(t, extractTitle(strings.NewReader("<html><body>no title</body></html>")))
}
