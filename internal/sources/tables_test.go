package sources

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRoundTrip(t *testing.T) {
	var c TableCollector
	err := c.ImportDraft(TableData{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1", "2"}},
	})
	require.NoError(t, err)

	entry, err := c.Add("prices")
	require.NoError(t, err)

	assert.Equal(t, 1, c.Count())
	assert.Equal(t, "2 cols × 1 rows", entry.Data.Summary())

	lines := c.RenderList()
	require.Len(t, lines, 1)
	assert.Equal(t, "prices (2 cols × 1 rows)", lines[0])
}

func TestColumnBounds(t *testing.T) {
	var c TableCollector
	require.NoError(t, c.ImportDraft(TableData{Headers: []string{"only"}}))

	// Down to the floor
	err := c.RemoveColumn()
	assert.Error(t, err)

	// Up to the ceiling
	for len(c.Draft().Headers) < MaxColumns {
		require.NoError(t, c.AddColumn())
	}
	err = c.AddColumn()
	assert.Error(t, err)
	assert.Len(t, c.Draft().Headers, MaxColumns)
}

func TestRowBounds(t *testing.T) {
	var c TableCollector
	c.NewDraft()

	err := c.RemoveRow()
	assert.Error(t, err)

	for len(c.Draft().Rows) < MaxRows {
		require.NoError(t, c.AddRow())
	}
	err = c.AddRow()
	assert.Error(t, err)
	assert.Len(t, c.Draft().Rows, MaxRows)
}

func TestAddColumnExtendsRows(t *testing.T) {
	var c TableCollector
	require.NoError(t, c.ImportDraft(TableData{
		Headers: []string{"A"},
		Rows:    [][]string{{"1"}, {"2"}},
	}))
	require.NoError(t, c.AddColumn())
	for _, row := range c.Draft().Rows {
		assert.Len(t, row, 2)
	}
}

func TestImportDraftNormalizesRaggedRows(t *testing.T) {
	var c TableCollector
	require.NoError(t, c.ImportDraft(TableData{
		Headers: []string{"A", "B", "C"},
		Rows:    [][]string{{"1"}, {"1", "2", "3", "4"}},
	}))
	d := c.Draft()
	assert.Equal(t, []string{"1", "", ""}, d.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, d.Rows[1])
}

func TestImportDraftRejectsOversize(t *testing.T) {
	var c TableCollector

	tooWide := TableData{Headers: make([]string, MaxColumns+1)}
	assert.Error(t, c.ImportDraft(tooWide))

	tooTall := TableData{Headers: []string{"A"}, Rows: make([][]string, MaxRows+1)}
	assert.Error(t, c.ImportDraft(tooTall))

	assert.Error(t, c.ImportDraft(TableData{}))
}

func TestAddRequiresNameAndHeaders(t *testing.T) {
	var c TableCollector
	c.NewDraft()

	_, err := c.Add("")
	assert.Error(t, err)

	// Blank headers are rejected
	_, err = c.Add("blank")
	assert.Error(t, err)
}

func TestAddResetsDraft(t *testing.T) {
	var c TableCollector
	require.NoError(t, c.ImportDraft(TableData{Headers: []string{"A"}, Rows: [][]string{{"x"}}}))
	_, err := c.Add("first")
	require.NoError(t, err)

	d := c.Draft()
	assert.Equal(t, []string{"", ""}, d.Headers)
	require.Len(t, d.Rows, 1)
}

func TestMarkdownSerialization(t *testing.T) {
	data := TableData{
		Headers: []string{"name", "notes"},
		Rows:    [][]string{{"alice", "a|b"}},
	}
	md := data.Markdown()
	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| name | notes |", lines[0])
	assert.Equal(t, "| --- | --- |", lines[1])
	assert.Equal(t, "| alice | a\\|b |", lines[2])
}
