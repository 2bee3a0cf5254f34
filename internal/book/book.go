// Package book defines the Book entity shared by the library store,
// the metadata providers and the CLI.
package book

import "strings"

// CurrentVersion is the schema version written to every record.
const CurrentVersion = "2"

// Author is a single author entry. Order matters: the author list is
// joined in order to form the on-disk directory name.
type Author struct {
	Name  string    `yaml:"name"`
	Birth string    `yaml:"birth,omitempty"`
	Death string    `yaml:"death,omitempty"`
	IDs   AuthorIDs `yaml:"ids,omitempty"`
}

// AuthorIDs holds external identifiers for an author.
type AuthorIDs struct {
	OpenLibraryID string `yaml:"openLibraryId,omitempty"`
}

// Images tracks cover image state. HasImage is kept in sync by the
// repository on save and recomputed from disk on every read.
type Images struct {
	HasImage     bool  `yaml:"hasImage"`
	ImageUpdated int64 `yaml:"imageUpdated,omitempty"`
}

// IDs maps external metadata providers to their identifiers for this book.
type IDs struct {
	ISBN              string `yaml:"isbn,omitempty"`
	GoogleBooksID     string `yaml:"googleBooksId,omitempty"`
	GoodreadsID       string `yaml:"goodreadsId,omitempty"`
	AmazonID          string `yaml:"amazonId,omitempty"`
	LibraryThingID    string `yaml:"libraryThingId,omitempty"`
	WikidataID        string `yaml:"wikidataId,omitempty"`
	OpenLibraryID     string `yaml:"openLibraryId,omitempty"`
	InternetArchiveID string `yaml:"internetArchiveId,omitempty"`
	OCLCID            string `yaml:"oclcId,omitempty"`
}

// Cache holds fields derived from the record's location or used only
// during an in-flight save. It is never persisted: the filesystem is the
// source of truth for where a record lives, and storing these would
// create a second, possibly stale, copy of that fact.
type Cache struct {
	AuthorDir string
	Filename  string
	Filepath  string
	URLPath   string
	SearchID  string
	Image     string
	Thumbnail string
}

// Book is a single catalog entry. Date fields are free-text on purpose:
// providers return partial dates (year only, year-month, BCE).
type Book struct {
	Version        string   `yaml:"version"`
	Title          string   `yaml:"title"`
	Authors        []Author `yaml:"authors"`
	Tags           []string `yaml:"tags"`
	Series         string   `yaml:"series"`
	SeriesNumber   string   `yaml:"seriesNumber"`
	DatePublished  string   `yaml:"datePublished"`
	DateRead       string   `yaml:"dateRead"`
	TimestampAdded int64    `yaml:"timestampAdded"`
	Rating         int      `yaml:"rating"`
	Description    string   `yaml:"description"`
	Notes          string   `yaml:"notes"`
	Images         Images   `yaml:"images"`
	IDs            IDs      `yaml:"ids"`
	Cache          Cache    `yaml:"-"`
}

// New returns a Book with every field at its defaulted zero shape.
func New() Book {
	return Book{
		Version: CurrentVersion,
		Authors: []Author{},
		Tags:    []string{},
	}
}

// Clean trims free-text fields, drops authors without a name and empty
// tags, and forces the current schema version. Called by the repository
// before any save so partial input from a form or flag set always
// completes to a valid shape.
func (b *Book) Clean() {
	b.Version = CurrentVersion
	b.Title = strings.TrimSpace(b.Title)
	b.Series = strings.TrimSpace(b.Series)
	b.SeriesNumber = strings.TrimSpace(b.SeriesNumber)
	b.DatePublished = strings.TrimSpace(b.DatePublished)
	b.DateRead = strings.TrimSpace(b.DateRead)
	b.Description = strings.TrimSpace(b.Description)
	b.Notes = strings.TrimSpace(b.Notes)

	authors := make([]Author, 0, len(b.Authors))
	for _, a := range b.Authors {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name != "" {
			authors = append(authors, a)
		}
	}
	b.Authors = authors

	tags := make([]string, 0, len(b.Tags))
	for _, t := range b.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	b.Tags = tags
}

// AuthorNames returns the display form of the author list.
func (b *Book) AuthorNames() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
