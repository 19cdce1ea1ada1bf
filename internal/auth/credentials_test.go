package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreStartsSignedOut(t *testing.T) {
	t.Setenv("FORGE_HOME", t.TempDir())

	s := NewStore()
	assert.False(t, s.SignedIn())
	assert.Empty(t, s.Token())
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("FORGE_HOME", t.TempDir())

	s := NewStore()
	require.NoError(t, s.Save("tok-123", "dev@example.com"))
	assert.True(t, s.SignedIn())
	assert.Equal(t, "tok-123", s.Token())

	// A fresh store sees the persisted session.
	reopened := NewStore()
	assert.Equal(t, "tok-123", reopened.Token())
	assert.Equal(t, "dev@example.com", reopened.Email())
}

func TestSaveFilePermissions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FORGE_HOME", home)

	s := NewStore()
	require.NoError(t, s.Save("tok", ""))

	info, err := os.Stat(filepath.Join(home, "credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestClear(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FORGE_HOME", home)

	s := NewStore()
	require.NoError(t, s.Save("tok", ""))
	require.NoError(t, s.Clear())
	assert.False(t, s.SignedIn())

	_, err := os.Stat(filepath.Join(home, "credentials.json"))
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}

func TestEnvTokenWins(t *testing.T) {
	t.Setenv("FORGE_HOME", t.TempDir())
	t.Setenv("FORGE_TOKEN", "env-token")

	s := NewStore()
	require.NoError(t, s.Save("stored-token", ""))
	assert.Equal(t, "env-token", s.Token())
}

func TestTokenPicksUpExternalLogin(t *testing.T) {
	t.Setenv("FORGE_HOME", t.TempDir())

	session := NewStore()
	assert.Empty(t, session.Token())

	// Another process signs in and writes the file.
	other := NewStore()
	require.NoError(t, other.Save("fresh-token", "dev@example.com"))

	assert.Equal(t, "fresh-token", session.Token())
}

func TestCorruptFileIsIgnored(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FORGE_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "credentials.json"), []byte("{not json"), 0600))

	s := NewStore()
	assert.False(t, s.SignedIn())
}
