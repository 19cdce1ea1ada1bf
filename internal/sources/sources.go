// Package sources holds the wizard's client-side source buffers: uploaded
// files, crawl URLs, free-text entries and tabular entries. Nothing here
// touches the network except the optional URL title lookup; everything is
// buffered until the submission pipeline drains it.
package sources

import "fmt"

// Set bundles the four independent collectors owned by one wizard session.
type Set struct {
	Files  FileCollector
	URLs   URLCollector
	Texts  TextCollector
	Tables TableCollector
}

// NewSet returns an empty source set.
func NewSet() *Set {
	return &Set{}
}

// Reset drops everything. Called when a wizard session ends.
func (s *Set) Reset() {
	s.Files = FileCollector{}
	s.URLs = URLCollector{}
	s.Texts = TextCollector{}
	s.Tables = TableCollector{}
}

// TotalCount is the number of items the pipeline will submit after the tool
// record itself.
func (s *Set) TotalCount() int {
	return s.Files.Count() + s.URLs.Count() + s.Texts.Count() + s.Tables.Count()
}

// removeAt deletes index i from a slice, tolerating out-of-range input.
func removeAt[T any](items []T, i int) []T {
	if i < 0 || i >= len(items) {
		return items
	}
	return append(items[:i], items[i+1:]...)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
