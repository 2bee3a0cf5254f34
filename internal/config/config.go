// Package config loads and saves application settings. Settings are a
// plain value: each command loads one immutable Settings, passes it down,
// and updates flow through Save producing a new file, never through a
// shared mutable object.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Search engine identifiers accepted in the searchEngines setting.
const (
	EngineOpenLibrary = "openLibrary"
	EngineGoogleBooks = "googleBooks"
)

// Settings is the per-invocation application configuration.
type Settings struct {
	BooksDir      string   `yaml:"booksDir" mapstructure:"booksdir"`
	GoogleAPIKey  string   `yaml:"googleApiKey,omitempty" mapstructure:"googleapikey"`
	SearchEngines []string `yaml:"searchEngines" mapstructure:"searchengines"`
	CacheFile     string   `yaml:"cacheFile" mapstructure:"cachefile"`
	CacheTTL      string   `yaml:"cacheTTL" mapstructure:"cachettl"`
}

// CacheTTLDuration parses the configured cache TTL, defaulting to 30 days.
func (s Settings) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(s.CacheTTL)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}

// DefaultDataDir returns the platform-appropriate application data
// directory.
func DefaultDataDir() string {
	if dir := os.Getenv("APPDATA"); dir != "" && runtime.GOOS == "windows" {
		return filepath.Join(dir, "bookwyrm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "bookwyrm")
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "bookwyrm")
	}
	return filepath.Join(home, ".local", "share", "bookwyrm")
}

// Load reads settings.yaml from dataDir, writing a default file first if
// none exists. An empty dataDir means DefaultDataDir.
func Load(dataDir string) (Settings, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Settings{}, fmt.Errorf("creating data directory: %w", err)
	}

	v := viper.New()
	v.SetDefault("booksdir", filepath.Join(dataDir, "books"))
	v.SetDefault("searchengines", []string{EngineOpenLibrary})
	v.SetDefault("cachefile", filepath.Join(dataDir, "cache.db"))
	v.SetDefault("cachettl", "720h")

	if err := v.BindEnv("googleapikey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		return Settings{}, fmt.Errorf("binding environment variable: %w", err)
	}

	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading settings file: %w", err)
		}
		if err := v.SafeWriteConfigAs(filepath.Join(dataDir, "settings.yaml")); err != nil {
			return Settings{}, fmt.Errorf("writing default settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return normalize(s), nil
}

// normalize drops search engines that cannot work with the rest of the
// settings, e.g. Google Books without an API key configured.
func normalize(s Settings) Settings {
	if s.GoogleAPIKey == "" {
		s.SearchEngines = slices.DeleteFunc(slices.Clone(s.SearchEngines), func(e string) bool {
			return e == EngineGoogleBooks
		})
	}
	if len(s.SearchEngines) == 0 {
		s.SearchEngines = []string{EngineOpenLibrary}
	}
	return s
}

// Save writes settings.yaml in dataDir. Callers re-Load to observe the
// change; nothing holds a live settings object.
func Save(dataDir string, s Settings) error {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "settings.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
