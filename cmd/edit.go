package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/bookwyrm/internal/book"
	"github.com/lepinkainen/bookwyrm/internal/config"
	"github.com/lepinkainen/bookwyrm/internal/library"
)

// EditCmd updates fields of an existing record. Only flags that were
// actually given on the command line are applied, so pointer types are
// used to tell "not set" from "set to empty". Changing the title or
// authors renames the record's files; the repository handles that from
// the old identity passed to Save.
type EditCmd struct {
	AuthorDir string `arg:"" help:"Author directory of the record"`
	Filename  string `arg:"" help:"Record filename without extension"`

	Title         *string  `help:"New title"`
	Author        []string `help:"Replace the author list (repeatable)"`
	Series        *string  `help:"Series name"`
	SeriesNumber  *string  `help:"Position within the series"`
	DatePublished *string  `help:"Publication date (free text)"`
	DateRead      *string  `help:"Date the book was read (free text)"`
	Rating        *int     `help:"Rating 0-5"`
	Notes         *string  `help:"Free-form notes"`
	Tag           []string `help:"Replace the tag list (repeatable)"`
	ClearTags     bool     `help:"Remove all tags"`
}

func (e *EditCmd) Run(settings config.Settings) error {
	ctx := context.Background()

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

	e.apply(&b)

	saved, err := repo.Save(ctx, b, e.AuthorDir, e.Filename)
	if err != nil {
		return err
	}
	if saved.Cache.Filepath != e.AuthorDir+"/"+e.Filename {
		fmt.Printf("Moved to %s\n", saved.Cache.Filepath)
	} else {
		fmt.Printf("Updated %s\n", saved.Cache.Filepath)
	}
	return nil
}

func (e *EditCmd) apply(b *book.Book) {
	if e.Title != nil {
		b.Title = *e.Title
	}
	if len(e.Author) > 0 {
		authors := make([]book.Author, 0, len(e.Author))
		for _, name := range e.Author {
			if strings.TrimSpace(name) != "" {
				authors = append(authors, book.Author{Name: name})
			}
		}
		b.Authors = authors
	}
	if e.Series != nil {
		b.Series = *e.Series
	}
	if e.SeriesNumber != nil {
		b.SeriesNumber = *e.SeriesNumber
	}
	if e.DatePublished != nil {
		b.DatePublished = *e.DatePublished
	}
	if e.DateRead != nil {
		b.DateRead = *e.DateRead
	}
	if e.Rating != nil {
		b.Rating = *e.Rating
	}
	if e.Notes != nil {
		b.Notes = *e.Notes
	}
	switch {
	case e.ClearTags:
		b.Tags = []string{}
	case len(e.Tag) > 0:
		b.Tags = e.Tag
	}
}
