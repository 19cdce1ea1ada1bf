package sources

import (
	"fmt"
	"strings"

	"agentforge/internal/logging"
)

// TextEntry is one free-text document staged for submission.
type TextEntry struct {
	Title   string
	Content string
}

// TextCollector accumulates free-text entries.
type TextCollector struct {
	items []TextEntry
}

// Add stages a text entry. Both title and content must be non-empty.
func (c *TextCollector) Add(title, content string) (TextEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return TextEntry{}, fmt.Errorf("text entry needs a title")
	}
	if strings.TrimSpace(content) == "" {
		return TextEntry{}, fmt.Errorf("text entry %q has no content", title)
	}

	entry := TextEntry{Title: title, Content: content}
	c.items = append(c.items, entry)
	logging.Sources("staged text entry %q (%d chars)", title, len(content))
	return entry, nil
}

// Remove drops the entry at index i.
func (c *TextCollector) Remove(i int) {
	c.items = removeAt(c.items, i)
}

// Count returns the number of staged text entries.
func (c *TextCollector) Count() int { return len(c.items) }

// Items returns the staged entries in insertion order.
func (c *TextCollector) Items() []TextEntry {
	out := make([]TextEntry, len(c.items))
	copy(out, c.items)
	return out
}

// RenderList returns one display line per staged entry.
func (c *TextCollector) RenderList() []string {
	lines := make([]string, 0, len(c.items))
	for _, e := range c.items {
		lines = append(lines, fmt.Sprintf("%s (%s)", e.Title, plural(len(e.Content), "char")))
	}
	return lines
}
