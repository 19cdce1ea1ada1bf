package sources

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVQuotedComma(t *testing.T) {
	data, err := ParseCSV("a,\"b,c\",d\n1,2,3")
	require.NoError(t, err)

	want := TableData{
		Headers: []string{"a", "b,c", "d"},
		Rows:    [][]string{{"1", "2", "3"}},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("parsed table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSVSkipsBlankLines(t *testing.T) {
	data, err := ParseCSV("name,age\r\n\r\nalice,30\n\nbob,41\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"alice", "30"}, data.Rows[0])
	assert.Equal(t, []string{"bob", "41"}, data.Rows[1])
}

func TestParseCSVHeaderOnly(t *testing.T) {
	data, err := ParseCSV("only,header")
	require.NoError(t, err)
	assert.Equal(t, []string{"only", "header"}, data.Headers)
	assert.Empty(t, data.Rows)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV("  \n\n")
	assert.Error(t, err)
}

func TestSplitCSVLineUnterminatedQuote(t *testing.T) {
	// A lone quote toggles quoting for the rest of the line; the trailing
	// comma is consumed into the field rather than splitting.
	fields := splitCSVLine(`a,"b,c`)
	assert.Equal(t, []string{"a", "b,c"}, fields)
}
