package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryTypeEndsWithAccessThenReview(t *testing.T) {
	for _, m := range All() {
		require.GreaterOrEqual(t, len(m.Steps), 3, "type %s has too few steps", m.Type)
		n := len(m.Steps)
		assert.Equal(t, StepAccess, m.Steps[n-2], "type %s", m.Type)
		assert.Equal(t, StepReview, m.Steps[n-1], "type %s", m.Type)
	}
}

func TestStepListMatchesPanelFlags(t *testing.T) {
	for _, m := range All() {
		var hasConfigStep, hasSourcesStep bool
		for _, s := range m.Steps {
			switch s {
			case StepConfiguration:
				hasConfigStep = true
			case StepSources:
				hasSourcesStep = true
			}
		}
		assert.Equal(t, m.HasConfig, hasConfigStep, "type %s config flag", m.Type)
		assert.Equal(t, m.HasSources, hasSourcesStep, "type %s sources flag", m.Type)
	}
}

func TestMaxSteps(t *testing.T) {
	for _, m := range All() {
		assert.Equal(t, len(m.Steps), m.MaxSteps(), "type %s", m.Type)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("api")
	require.NoError(t, err)
	assert.Equal(t, TypeAPI, got)

	_, err = Parse("hologram")
	assert.Error(t, err)
}

func TestRequiredFields(t *testing.T) {
	m := MustLookup(TypeAPI)
	req := m.RequiredFields()
	require.Len(t, req, 1)
	assert.Equal(t, "endpoint_url", req[0].Key)

	kb := MustLookup(TypeKnowledge)
	assert.Empty(t, kb.RequiredFields())
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup(ToolType("nope"))
	assert.False(t, ok)
	assert.Panics(t, func() { MustLookup(ToolType("nope")) })
}
