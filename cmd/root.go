// Package cmd wires the bookwyrm command line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"

	"github.com/lepinkainen/bookwyrm/internal/cache"
	"github.com/lepinkainen/bookwyrm/internal/config"
)

// CLI represents the complete command structure for the bookwyrm application.
type CLI struct {
	// Global flags
	DataDir string `help:"Application data directory (settings, cache)" env:"BOOKWYRM_DATA_DIR"`
	Books   string `help:"Override the books directory from settings"`
	Debug   bool   `help:"Enable debug logging"`

	Add    AddCmd    `cmd:"" help:"Search metadata providers and add a book"`
	List   ListCmd   `cmd:"" help:"List all books in the catalog"`
	Show   ShowCmd   `cmd:"" help:"Show one book record"`
	Edit   EditCmd   `cmd:"" help:"Edit a book record"`
	Delete DeleteCmd `cmd:"" help:"Delete a book and its cover image"`
	Cover  CoverCmd  `cmd:"" help:"Set a book's cover image from a URL or local file"`
	Enrich EnrichCmd `cmd:"" help:"Supplement a book with Google Books and OpenLibrary data"`
	Cache  CacheCmd  `cmd:"" help:"Manage the provider response cache"`
}

// Execute runs the Kong-based CLI.
func Execute() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookwyrm"),
		kong.Description("A personal library catalog storing one YAML record per book."),
		kong.UsageOnError(),
	)

	initLogging(cli.Debug)

	settings, err := config.Load(cli.DataDir)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}
	if cli.Books != "" {
		settings.BooksDir = cli.Books
	}

	if err := ctx.Run(settings); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// initCache opens the provider response cache. Commands that never hit
// the network do not call this.
func initCache(settings config.Settings) {
	if err := cache.Init(settings.CacheFile, settings.CacheTTLDuration()); err != nil {
		slog.Warn("Provider cache unavailable, lookups will not be cached", "error", err)
	}
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
