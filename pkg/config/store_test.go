package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	data, err := store.GetSection("remover")
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, path, store.Path())
}

func TestFileStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("remover", map[string]interface{}{
		"debug":  true,
		"locale": "fr",
	}))
	require.NoError(t, store.Save())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	data, err := reloaded.GetSection("remover")
	require.NoError(t, err)
	assert.Equal(t, true, data["debug"])
	assert.Equal(t, "fr", data["locale"])
}

func TestFileStore_GetSectionReturnsCopy(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	input := map[string]interface{}{"headless": true}
	require.NoError(t, store.SetSection("browser", input))
	input["headless"] = false

	data, err := store.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, true, data["headless"])

	data["headless"] = "mutated"
	again, _ := store.GetSection("browser")
	assert.Equal(t, true, again["headless"])
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}
