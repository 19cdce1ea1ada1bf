package sources

import (
	"fmt"
	"strings"

	"agentforge/internal/logging"
)

// Structural bounds on the in-progress table draft.
const (
	MinColumns = 1
	MaxColumns = 10
	MinRows    = 1
	MaxRows    = 20
)

// TableData is the header/row shape shared by manual editing, CSV import and
// XLSX import. Rows are ragged-tolerant on import but normalized to the
// header width before submission.
type TableData struct {
	Headers []string
	Rows    [][]string
}

// Clone deep-copies the table.
func (t TableData) Clone() TableData {
	out := TableData{Headers: append([]string(nil), t.Headers...)}
	out.Rows = make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// Summary reports the table shape, e.g. "2 cols × 1 rows".
func (t TableData) Summary() string {
	return fmt.Sprintf("%d cols × %d rows", len(t.Headers), len(t.Rows))
}

// Markdown serializes the table as a pipe table for the backend's table-entry
// endpoint. Cells containing pipes are escaped.
func (t TableData) Markdown() string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < len(t.Headers); i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", "\\|")
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(t.Headers)
	b.WriteString("|")
	for range t.Headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row)
	}
	return b.String()
}

// TableEntry is one named table staged for submission.
type TableEntry struct {
	Name string
	Data TableData
}

// TableCollector accumulates finished tables and owns the single in-progress
// draft the table editor mutates.
type TableCollector struct {
	items []TableEntry
	draft TableData
}

// NewDraft resets the draft to a 2x1 blank table.
func (c *TableCollector) NewDraft() {
	c.draft = TableData{
		Headers: []string{"", ""},
		Rows:    [][]string{{"", ""}},
	}
}

// Draft returns the current draft. A zero draft is replaced by a fresh one.
func (c *TableCollector) Draft() *TableData {
	if len(c.draft.Headers) == 0 {
		c.NewDraft()
	}
	return &c.draft
}

// AddColumn appends a blank column to the draft, bounded at MaxColumns.
func (c *TableCollector) AddColumn() error {
	d := c.Draft()
	if len(d.Headers) >= MaxColumns {
		return fmt.Errorf("table is limited to %d columns", MaxColumns)
	}
	d.Headers = append(d.Headers, "")
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], "")
	}
	return nil
}

// RemoveColumn drops the last column, bounded at MinColumns.
func (c *TableCollector) RemoveColumn() error {
	d := c.Draft()
	if len(d.Headers) <= MinColumns {
		return fmt.Errorf("table needs at least %d column", MinColumns)
	}
	d.Headers = d.Headers[:len(d.Headers)-1]
	for i := range d.Rows {
		if len(d.Rows[i]) > len(d.Headers) {
			d.Rows[i] = d.Rows[i][:len(d.Headers)]
		}
	}
	return nil
}

// AddRow appends a blank row to the draft, bounded at MaxRows.
func (c *TableCollector) AddRow() error {
	d := c.Draft()
	if len(d.Rows) >= MaxRows {
		return fmt.Errorf("table is limited to %d rows", MaxRows)
	}
	d.Rows = append(d.Rows, make([]string, len(d.Headers)))
	return nil
}

// RemoveRow drops the last row, bounded at MinRows.
func (c *TableCollector) RemoveRow() error {
	d := c.Draft()
	if len(d.Rows) <= MinRows {
		return fmt.Errorf("table needs at least %d row", MinRows)
	}
	d.Rows = d.Rows[:len(d.Rows)-1]
	return nil
}

// ImportDraft replaces the draft wholesale, normalizing ragged rows to the
// header width. Used by both CSV and XLSX import.
func (c *TableCollector) ImportDraft(data TableData) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("imported table has no header row")
	}
	if len(data.Headers) > MaxColumns {
		return fmt.Errorf("imported table has %d columns, limit is %d", len(data.Headers), MaxColumns)
	}
	if len(data.Rows) > MaxRows {
		return fmt.Errorf("imported table has %d rows, limit is %d", len(data.Rows), MaxRows)
	}

	norm := data.Clone()
	for i, row := range norm.Rows {
		for len(row) < len(norm.Headers) {
			row = append(row, "")
		}
		norm.Rows[i] = row[:len(norm.Headers)]
	}
	c.draft = norm
	logging.Sources("imported table draft (%s)", norm.Summary())
	return nil
}

// Add stages the current draft under the given name and resets the draft.
func (c *TableCollector) Add(name string) (TableEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TableEntry{}, fmt.Errorf("table entry needs a name")
	}
	d := c.Draft()
	blank := true
	for _, h := range d.Headers {
		if strings.TrimSpace(h) != "" {
			blank = false
			break
		}
	}
	if blank {
		return TableEntry{}, fmt.Errorf("table %q has no column headers", name)
	}

	entry := TableEntry{Name: name, Data: d.Clone()}
	c.items = append(c.items, entry)
	c.NewDraft()
	logging.Sources("staged table %q (%s)", name, entry.Data.Summary())
	return entry, nil
}

// Remove drops the entry at index i.
func (c *TableCollector) Remove(i int) {
	c.items = removeAt(c.items, i)
}

// Count returns the number of staged tables.
func (c *TableCollector) Count() int { return len(c.items) }

// Items returns the staged tables in insertion order.
func (c *TableCollector) Items() []TableEntry {
	out := make([]TableEntry, len(c.items))
	copy(out, c.items)
	return out
}

// RenderList returns one display line per staged table.
func (c *TableCollector) RenderList() []string {
	lines := make([]string, 0, len(c.items))
	for _, e := range c.items {
		lines = append(lines, fmt.Sprintf("%s (%s)", e.Name, e.Data.Summary()))
	}
	return lines
}
