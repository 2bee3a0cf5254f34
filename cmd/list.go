package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lepinkainen/bookwyrm/internal/book"
	"github.com/lepinkainen/bookwyrm/internal/config"
	"github.com/lepinkainen/bookwyrm/internal/library"
)

// ListCmd prints the whole catalog.
type ListCmd struct {
	Sort    string `help:"Sort order" enum:"author,title,added" default:"author"`
	Tag     string `help:"Only show books carrying this tag"`
	Verbose bool   `short:"v" help:"Show identifiers and dates"`
}

func (l *ListCmd) Run(settings config.Settings) error {
	repo, err := library.Open(settings.BooksDir)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	books, err := repo.ReadAll(context.Background())
	if err != nil {
		return err
	}

	if l.Tag != "" {
		filtered := books[:0]
		for _, b := range books {
			for _, t := range b.Tags {
				if strings.EqualFold(t, l.Tag) {
					filtered = append(filtered, b)
					break
				}
			}
		}
		books = filtered
	}

	sortBooks(books, l.Sort)

	for _, b := range books {
		line := fmt.Sprintf("%s - %s", b.AuthorNames(), b.Title)
		if b.Rating > 0 {
			line += " " + strings.Repeat("*", b.Rating)
		}
		fmt.Println(line)
		if l.Verbose {
			fmt.Printf("    path: %s  published: %s  read: %s\n",
				b.Cache.Filepath, b.DatePublished, b.DateRead)
			if b.IDs.ISBN != "" {
				fmt.Printf("    isbn: %s\n", b.IDs.ISBN)
			}
		}
	}
	fmt.Printf("%d books\n", len(books))
	return nil
}

func sortBooks(books []book.Book, order string) {
	switch order {
	case "title":
		sort.Slice(books, func(i, j int) bool {
			return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
		})
	case "added":
		sort.Slice(books, func(i, j int) bool {
			return books[i].TimestampAdded > books[j].TimestampAdded
		})
	default:
		sort.Slice(books, func(i, j int) bool {
			a, b := strings.ToLower(books[i].Cache.AuthorDir), strings.ToLower(books[j].Cache.AuthorDir)
			if a != b {
				return a < b
			}
			return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
		})
	}
}
