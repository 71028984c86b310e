package ndspacker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(body), 0o644))
	return dir
}

func TestLoadSettingsMissing(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Settings{MakerCode: "01", GameCode: "ENAE", GameTitle: "NDSPACKER"}, s)
}

func TestLoadSettingsPartial(t *testing.T) {
	dir := writeSettings(t, `game_code = "AXYZ"`)

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	// only the keys the file defines are overridden
	assert.Equal(t, Settings{MakerCode: "01", GameCode: "AXYZ", GameTitle: "NDSPACKER"}, s)
}

func TestLoadSettingsFull(t *testing.T) {
	dir := writeSettings(t, `
maker_code = "2P"
game_code = "AHOM"
game_title = "HOMEBREW"
steal_logo = true
`)

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, Settings{MakerCode: "2P", GameCode: "AHOM", GameTitle: "HOMEBREW", StealLogo: true}, s)
}

func TestLoadSettingsMalformed(t *testing.T) {
	dir := writeSettings(t, `game_code = not quoted`)

	_, err := LoadSettings(dir)
	assert.Error(t, err)
}
