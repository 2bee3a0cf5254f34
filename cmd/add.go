package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookwyrm/internal/book"
	"github.com/lepinkainen/bookwyrm/internal/config"
	"github.com/lepinkainen/bookwyrm/internal/enrich"
	"github.com/lepinkainen/bookwyrm/internal/googlebooks"
	"github.com/lepinkainen/bookwyrm/internal/library"
	"github.com/lepinkainen/bookwyrm/internal/openlibrary"
	"github.com/lepinkainen/bookwyrm/internal/tui"
)

// AddCmd searches the configured metadata providers and saves the
// selected result, or adds a book manually from flags.
type AddCmd struct {
	Query string `arg:"" optional:"" help:"Search query (title, author...)"`
	ISBN  string `help:"Search by ISBN instead of free text"`
	First bool   `help:"Auto-select the first search result"`

	// Manual entry, used when no query or ISBN is given.
	Title   string   `help:"Title for manual entry"`
	Author  []string `help:"Author name for manual entry (repeatable)"`
	Tag     []string `help:"Tag (repeatable)"`
	NoCover bool     `help:"Skip downloading the cover image"`
}

func (a *AddCmd) Run(settings config.Settings) error {
	ctx := context.Background()

	if a.Query == "" && a.ISBN == "" {
		return a.addManual(ctx, settings)
	}

	initCache(settings)

	results, err := a.search(ctx, settings)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no results found")
	}

	var picked book.Book
	if a.First {
		picked = results[0].Book
	} else {
		selection, err := tui.Select(a.displayQuery(), results)
		if err != nil {
			return err
		}
		switch selection.Action {
		case tui.ActionSelected:
			picked = *selection.Selection
		default:
			slog.Info("No book selected")
			return nil
		}
	}

	supplementer := enrich.New(
		googlebooks.NewClient(settings.GoogleAPIKey),
		openlibrary.NewClient(),
	)
	enriched, err := supplementer.Supplement(ctx, picked)
	if err != nil {
		return err
	}
	if a.NoCover {
		enriched.Cache.Image = ""
	}

	repo, err := library.Open(settings.BooksDir)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	saved, err := repo.Save(ctx, enriched, "", "")
	if err != nil {
		return err
	}
	fmt.Printf("Added %s\n", saved.Cache.Filepath)
	return nil
}

// search queries every enabled engine and tags results with their source.
func (a *AddCmd) search(ctx context.Context, settings config.Settings) ([]tui.Result, error) {
	var results []tui.Result
	for _, engine := range settings.SearchEngines {
		var (
			books []book.Book
			err   error
		)
		switch engine {
		case config.EngineGoogleBooks:
			client := googlebooks.NewClient(settings.GoogleAPIKey)
			if a.ISBN != "" {
				books, err = client.SearchISBN(ctx, a.ISBN)
			} else {
				books, err = client.Search(ctx, a.Query)
			}
		case config.EngineOpenLibrary:
			client := openlibrary.NewClient()
			if a.ISBN != "" {
				var b book.Book
				b, err = client.SearchISBN(ctx, a.ISBN)
				if err == nil {
					books = []book.Book{b}
				}
			} else {
				books, err = client.Search(ctx, a.Query)
			}
		default:
			slog.Warn("Unknown search engine in settings", "engine", engine)
			continue
		}
		if err != nil {
			// One provider failing should not hide the other's results.
			slog.Warn("Search failed", "engine", engine, "error", err)
			continue
		}
		for _, b := range books {
			results = append(results, tui.Result{Book: b, Source: engine})
		}
	}
	return results, nil
}

func (a *AddCmd) displayQuery() string {
	if a.ISBN != "" {
		return "ISBN " + a.ISBN
	}
	return a.Query
}

// addManual saves a book built entirely from flags, no provider lookup.
func (a *AddCmd) addManual(ctx context.Context, settings config.Settings) error {
	if a.Title == "" {
		return fmt.Errorf("manual entry requires --title (or give a search query)")
	}

	b := book.New()
	b.Title = a.Title
	for _, name := range a.Author {
		b.Authors = append(b.Authors, book.Author{Name: name})
	}
	b.Tags = a.Tag

	repo, err := library.Open(settings.BooksDir)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	saved, err := repo.Save(ctx, b, "", "")
	if err != nil {
		return err
	}
	fmt.Printf("Added %s\n", saved.Cache.Filepath)
	return nil
}
