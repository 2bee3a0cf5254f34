package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/bookwyrm/internal/config"
	"github.com/lepinkainen/bookwyrm/internal/library"
)

// CoverCmd replaces a book's cover image from a URL or a local file.
type CoverCmd struct {
	AuthorDir string `arg:"" help:"Author directory of the record"`
	Filename  string `arg:"" help:"Record filename without extension"`
	Source    string `arg:"" help:"Image URL or local file path"`
}

func (c *CoverCmd) Run(settings config.Settings) error {
	ctx := context.Background()

	repo, err := library.Open(settings.BooksDir)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	b, err := repo.Read(ctx, c.AuthorDir, c.Filename)
	if err != nil {
		if library.IsNotFound(err) {
			return fmt.Errorf("no book at %s/%s", c.AuthorDir, c.Filename)
		}
		return err
	}

	updated, err := repo.AddImage(ctx, b, c.Source)
	if err != nil {
		return err
	}
	fmt.Printf("Saved cover for %s\n", updated.Cache.Filepath)
	return nil
}
