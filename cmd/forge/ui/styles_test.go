package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectThemeEnvOverride(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("FORGE_DARK_MODE", "1")
	assert.True(t, DetectTheme(false).IsDark)
}

func TestDetectThemeConfigPreference(t *testing.T) {
	t.Setenv("FORGE_DARK_MODE", "")
	assert.True(t, DetectTheme(true).IsDark)
}

func TestDetectThemeColorFgBg(t *testing.T) {
	t.Setenv("FORGE_DARK_MODE", "")
	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme(false).IsDark)

	t.Setenv("COLORFGBG", "0;15")
	assert.False(t, DetectTheme(false).IsDark)
}

func TestNewStylesKeepsTheme(t *testing.T) {
	s := NewStyles(DarkTheme())
	assert.True(t, s.Theme.IsDark)
	assert.Equal(t, DarkPrimary, s.Theme.Primary)
}
