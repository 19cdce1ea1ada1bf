package logging

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
}

func TestInitializeWithoutConfigIsSilent(t *testing.T) {
	dir := t.TempDir()
	defer CloseAll()

	require.NoError(t, Initialize(dir))
	assert.False(t, IsDebugMode())

	// Logging in production mode must not create anything.
	Wizard("step advanced to %d", 3)
	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestDebugModeWritesCategoryFiles(t *testing.T) {
	dir := t.TempDir()
	defer CloseAll()

	writeConfig(t, dir, `
logging:
  debug_mode: true
  level: debug
`)
	require.NoError(t, Initialize(dir))
	assert.True(t, IsDebugMode())

	API("POST /api/tools -> 201")
	APIDebug("request body attached")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, "logs", date+"_api.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "POST /api/tools -> 201")
	assert.Contains(t, string(data), "[DEBUG] request body attached")
}

func TestCategoryToggle(t *testing.T) {
	dir := t.TempDir()
	defer CloseAll()

	writeConfig(t, dir, `
logging:
  debug_mode: true
  categories:
    access: false
`)
	require.NoError(t, Initialize(dir))

	assert.False(t, IsCategoryEnabled(CategoryAccess))
	assert.True(t, IsCategoryEnabled(CategoryWizard))

	// Categories absent from the map default to enabled.
	assert.True(t, IsCategoryEnabled(CategorySubmit))
}

func TestLevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()
	defer CloseAll()

	writeConfig(t, dir, `
logging:
  debug_mode: true
  level: info
`)
	require.NoError(t, Initialize(dir))

	SubmitDebug("should be filtered")
	Submit("should appear")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, "logs", date+"_submit.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should be filtered")
	assert.Contains(t, string(data), "should appear")
}

func TestReloadPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	defer CloseAll()

	writeConfig(t, dir, `
logging:
  debug_mode: false
`)
	require.NoError(t, Initialize(dir))
	assert.False(t, IsDebugMode())

	writeConfig(t, dir, `
logging:
  debug_mode: true
`)
	require.NoError(t, ReloadConfig())
	assert.True(t, IsDebugMode())
}

// Log emission must read the shared settings under the same lock that
// ReloadConfig writes them, or the race detector trips when the config
// watcher reloads while the wizard is logging.
func TestReloadWhileLogging(t *testing.T) {
	dir := t.TempDir()
	defer CloseAll()

	writeConfig(t, dir, `
logging:
  debug_mode: true
  level: debug
`)
	require.NoError(t, Initialize(dir))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			WizardDebug("navigating step %d", i)
			Submit("item %d staged", i)
		}
	}()
	go func() {
		defer wg.Done()
		path := filepath.Join(dir, "config.yaml")
		for i := 0; i < 50; i++ {
			level := "debug"
			if i%2 == 1 {
				level = "warn"
			}
			body := "\nlogging:\n  debug_mode: true\n  level: " + level + "\n"
			assert.NoError(t, os.WriteFile(path, []byte(body), 0644))
			assert.NoError(t, ReloadConfig())
		}
	}()
	wg.Wait()
}

func TestTimerStopWithThreshold(t *testing.T) {
	dir := t.TempDir()
	defer CloseAll()

	writeConfig(t, dir, `
logging:
  debug_mode: true
`)
	require.NoError(t, Initialize(dir))

	timer := StartTimer(CategoryAPI, "list users")
	elapsed := timer.StopWithThreshold(time.Hour)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
}
