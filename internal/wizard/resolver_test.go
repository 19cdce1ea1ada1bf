package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentforge/internal/catalog"
)

func TestEveryTypeResolvesToAccessThenReviewTail(t *testing.T) {
	for _, meta := range catalog.All() {
		n := meta.MaxSteps()
		require.GreaterOrEqual(t, n, 3, "type %s", meta.Type)
		assert.Equal(t, PanelAccess, Resolve(meta.Type, n-1), "type %s", meta.Type)
		assert.Equal(t, PanelReview, Resolve(meta.Type, n), "type %s", meta.Type)
	}
}

func TestResolveFourCases(t *testing.T) {
	// both config and sources
	assert.Equal(t, PanelBasics, Resolve(catalog.TypeWebsite, 1))
	assert.Equal(t, PanelConfig, Resolve(catalog.TypeWebsite, 2))
	assert.Equal(t, PanelSources, Resolve(catalog.TypeWebsite, 3))
	assert.Equal(t, PanelAccess, Resolve(catalog.TypeWebsite, 4))
	assert.Equal(t, PanelReview, Resolve(catalog.TypeWebsite, 5))

	// config only
	assert.Equal(t, PanelConfig, Resolve(catalog.TypeAPI, 2))
	assert.Equal(t, PanelAccess, Resolve(catalog.TypeAPI, 3))

	// sources only
	assert.Equal(t, PanelSources, Resolve(catalog.TypeKnowledge, 2))
	assert.Equal(t, PanelAccess, Resolve(catalog.TypeKnowledge, 3))

	// neither
	assert.Equal(t, PanelBasics, Resolve(catalog.TypeAutomation, 1))
	assert.Equal(t, PanelAccess, Resolve(catalog.TypeAutomation, 2))
	assert.Equal(t, PanelReview, Resolve(catalog.TypeAutomation, 3))
}

func TestResolveUnknownTypeIdentityMapping(t *testing.T) {
	unknown := catalog.ToolType("mystery")
	want := []Panel{PanelBasics, PanelConfig, PanelSources, PanelTest, PanelAccess, PanelReview}
	for i, p := range want {
		assert.Equal(t, p, Resolve(unknown, i+1))
	}
}

func TestResolveClampsOutOfRange(t *testing.T) {
	assert.Equal(t, PanelBasics, Resolve(catalog.TypeAPI, 0))
	assert.Equal(t, PanelBasics, Resolve(catalog.TypeAPI, -3))
	assert.Equal(t, PanelReview, Resolve(catalog.TypeAPI, 99))
	assert.Equal(t, PanelReview, Resolve(catalog.ToolType("mystery"), 99))
}
