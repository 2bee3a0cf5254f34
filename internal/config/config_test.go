package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookwyrm/internal/testutil"
)

func TestLoadWritesDefaultSettingsFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dataDir := env.RootDir()

	s, err := Load(dataDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataDir, "books"), s.BooksDir)
	assert.Equal(t, []string{EngineOpenLibrary}, s.SearchEngines)
	assert.Equal(t, filepath.Join(dataDir, "cache.db"), s.CacheFile)
	assert.Equal(t, "720h", s.CacheTTL)
	assert.True(t, env.FileExists("settings.yaml"))
}

func TestLoadReadsExistingSettings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("settings.yaml", []byte(
		"booksdir: /srv/books\ngoogleapikey: abc123\nsearchengines:\n  - googleBooks\n  - openLibrary\ncachettl: 24h\n"))

	s, err := Load(env.RootDir())
	require.NoError(t, err)

	assert.Equal(t, "/srv/books", s.BooksDir)
	assert.Equal(t, "abc123", s.GoogleAPIKey)
	assert.Equal(t, []string{EngineGoogleBooks, EngineOpenLibrary}, s.SearchEngines)
	assert.Equal(t, 24*time.Hour, s.CacheTTLDuration())
}

func TestLoadDropsGoogleBooksWithoutAPIKey(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("settings.yaml", []byte(
		"searchengines:\n  - googleBooks\n  - openLibrary\n"))

	s, err := Load(env.RootDir())
	require.NoError(t, err)
	assert.Equal(t, []string{EngineOpenLibrary}, s.SearchEngines)
}

func TestLoadFallsBackToOpenLibraryWhenNothingUsable(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("settings.yaml", []byte("searchengines:\n  - googleBooks\n"))

	s, err := Load(env.RootDir())
	require.NoError(t, err)
	assert.Equal(t, []string{EngineOpenLibrary}, s.SearchEngines)
}

func TestLoadAPIKeyFromEnvironment(t *testing.T) {
	env := testutil.NewTestEnv(t)
	t.Setenv("GOOGLE_BOOKS_API_KEY", "env-key")

	s, err := Load(env.RootDir())
	require.NoError(t, err)
	assert.Equal(t, "env-key", s.GoogleAPIKey)
}

func TestCacheTTLDuration(t *testing.T) {
	tests := []struct {
		name string
		ttl  string
		want time.Duration
	}{
		{"valid duration", "1h", time.Hour},
		{"empty falls back", "", 720 * time.Hour},
		{"garbage falls back", "soon", 720 * time.Hour},
		{"negative falls back", "-2h", 720 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{CacheTTL: tt.ttl}
			assert.Equal(t, tt.want, s.CacheTTLDuration())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dataDir := env.RootDir()

	s := Settings{
		BooksDir:      "/srv/books",
		SearchEngines: []string{EngineOpenLibrary},
		CacheFile:     "/srv/cache.db",
		CacheTTL:      "48h",
	}
	require.NoError(t, Save(dataDir, s))

	data, err := os.ReadFile(filepath.Join(dataDir, "settings.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "booksDir: /srv/books")
	assert.Contains(t, string(data), "cacheTTL: 48h")
}
