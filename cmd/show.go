package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/bookwyrm/internal/book"
	"github.com/lepinkainen/bookwyrm/internal/config"
	"github.com/lepinkainen/bookwyrm/internal/library"
)

// ShowCmd prints a single book record in full.
type ShowCmd struct {
	AuthorDir string `arg:"" help:"Author directory of the record"`
	Filename  string `arg:"" help:"Record filename without extension"`
}

func (s *ShowCmd) Run(settings config.Settings) error {
	repo, err := library.Open(settings.BooksDir)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	b, err := repo.Read(context.Background(), s.AuthorDir, s.Filename)
	if err != nil {
		if library.IsNotFound(err) {
			return fmt.Errorf("no book at %s/%s", s.AuthorDir, s.Filename)
		}
		return err
	}

	fmt.Printf("Title:     %s\n", b.Title)
	fmt.Printf("Authors:   %s\n", b.AuthorNames())
	if b.Series != "" {
		series := b.Series
		if b.SeriesNumber != "" {
			series += " #" + b.SeriesNumber
		}
		fmt.Printf("Series:    %s\n", series)
	}
	if b.DatePublished != "" {
		fmt.Printf("Published: %s\n", b.DatePublished)
	}
	if b.DateRead != "" {
		fmt.Printf("Read:      %s\n", b.DateRead)
	}
	if b.Rating > 0 {
		fmt.Printf("Rating:    %d/5\n", b.Rating)
	}
	if len(b.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(b.Tags, ", "))
	}
	fmt.Printf("Cover:     %v\n", b.Images.HasImage)
	fmt.Printf("Path:      %s\n", b.Cache.Filepath)

	ids := identifierLines(b.IDs)
	if len(ids) > 0 {
		fmt.Println("IDs:")
		for _, line := range ids {
			fmt.Printf("  %s\n", line)
		}
	}
	if b.Description != "" {
		fmt.Printf("\n%s\n", b.Description)
	}
	if b.Notes != "" {
		fmt.Printf("\nNotes:\n%s\n", b.Notes)
	}
	return nil
}

func identifierLines(ids book.IDs) []string {
	pairs := []struct {
		label, value string
	}{
		{"isbn", ids.ISBN},
		{"googleBooks", ids.GoogleBooksID},
		{"openLibrary", ids.OpenLibraryID},
		{"goodreads", ids.GoodreadsID},
		{"amazon", ids.AmazonID},
		{"libraryThing", ids.LibraryThingID},
		{"wikidata", ids.WikidataID},
		{"internetArchive", ids.InternetArchiveID},
		{"oclc", ids.OCLCID},
	}
	var lines []string
	for _, p := range pairs {
		if p.value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", p.label, p.value))
		}
	}
	return lines
}
