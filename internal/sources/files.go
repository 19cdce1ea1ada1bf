package sources

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"agentforge/internal/logging"
)

// FileEntry is one file staged for upload.
type FileEntry struct {
	ID          string
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// FileCollector accumulates files staged for upload.
type FileCollector struct {
	items []FileEntry
}

// Add stats the file and stages it. The file is read again at submit time, so
// a file that disappears between Add and submit fails at upload, not here.
func (c *FileCollector) Add(path string) (FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("cannot stage file: %w", err)
	}
	if info.IsDir() {
		return FileEntry{}, fmt.Errorf("cannot stage directory %s", path)
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}

	entry := FileEntry{
		ID:          uuid.NewString(),
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: ct,
	}
	c.items = append(c.items, entry)
	logging.Sources("staged file %s (%d bytes, %s)", entry.Name, entry.Size, entry.ContentType)
	return entry, nil
}

// Remove drops the entry at index i.
func (c *FileCollector) Remove(i int) {
	c.items = removeAt(c.items, i)
}

// Count returns the number of staged files.
func (c *FileCollector) Count() int { return len(c.items) }

// Items returns the staged files in insertion order.
func (c *FileCollector) Items() []FileEntry {
	out := make([]FileEntry, len(c.items))
	copy(out, c.items)
	return out
}

// RenderList returns one display line per staged file.
func (c *FileCollector) RenderList() []string {
	lines := make([]string, 0, len(c.items))
	for _, f := range c.items {
		lines = append(lines, fmt.Sprintf("%s (%s)", f.Name, humanSize(f.Size)))
	}
	return lines
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
