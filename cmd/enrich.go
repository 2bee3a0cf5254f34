package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/bookwyrm/internal/config"
	"github.com/lepinkainen/bookwyrm/internal/enrich"
	"github.com/lepinkainen/bookwyrm/internal/googlebooks"
	"github.com/lepinkainen/bookwyrm/internal/library"
	"github.com/lepinkainen/bookwyrm/internal/openlibrary"
)

// EnrichCmd re-runs provider lookups for an existing record and merges
// the results into it. Enriched authors or title can move the record,
// which the save handles as a rename.
type EnrichCmd struct {
	AuthorDir string `arg:"" help:"Author directory of the record"`
	Filename  string `arg:"" help:"Record filename without extension"`
	NoCover   bool   `help:"Do not fetch a cover image even if one is offered"`
}

func (e *EnrichCmd) Run(settings config.Settings) error {
	ctx := context.Background()
	initCache(settings)

	repo, err := library.Open(settings.BooksDir)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	b, err := repo.Read(ctx, e.AuthorDir, e.Filename)
	if err != nil {
		if library.IsNotFound(err) {
			return fmt.Errorf("no book at %s/%s", e.AuthorDir, e.Filename)
		}
		return err
	}

	supplementer := enrich.New(
		googlebooks.NewClient(settings.GoogleAPIKey),
		openlibrary.NewClient(),
	)
	enriched, err := supplementer.Supplement(ctx, b)
	if err != nil {
		return err
	}
	if e.NoCover || enriched.Images.HasImage {
		enriched.Cache.Image = ""
	}

	saved, err := repo.Save(ctx, enriched, e.AuthorDir, e.Filename)
	if err != nil {
		return err
	}
	if saved.Cache.Filepath != e.AuthorDir+"/"+e.Filename {
		fmt.Printf("Enriched and moved to %s\n", saved.Cache.Filepath)
	} else {
		fmt.Printf("Enriched %s\n", saved.Cache.Filepath)
	}
	return nil
}
