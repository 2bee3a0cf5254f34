// Package enrich combines partial book data from Google Books and
// OpenLibrary into one consistent record.
package enrich

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

// GoogleLookup fetches a conformed book by Google Books volume id.
type GoogleLookup interface {
	Volume(ctx context.Context, id string) (book.Book, error)
}

// OpenLibraryLookup fetches a conformed book by ISBN.
type OpenLibraryLookup interface {
	SearchISBN(ctx context.Context, isbn string) (book.Book, error)
}

// Supplementer runs the two-provider metadata merge.
type Supplementer struct {
	google  GoogleLookup
	openlib OpenLibraryLookup
}

// New creates a Supplementer over the two provider clients.
func New(google GoogleLookup, openlib OpenLibraryLookup) *Supplementer {
	return &Supplementer{google: google, openlib: openlib}
}

type lookupResult struct {
	book book.Book
	err  error
}

// Supplement fetches supplemental data for a book that carries at least
// one external identifier. Both lookups run concurrently when their ids
// are known up front; if one provider's id only appears in the other's
// response, a second round picks it up. A failed lookup degrades to
// whatever the other provider returned; the input book is the fallback
// when both fail.
func (s *Supplementer) Supplement(ctx context.Context, b book.Book) (book.Book, error) {
	var googleCh, olCh chan lookupResult

	if b.IDs.GoogleBooksID != "" {
		googleCh = s.lookupGoogle(ctx, b.IDs.GoogleBooksID)
	}
	if b.IDs.ISBN != "" {
		olCh = s.lookupOpenLibrary(ctx, b.IDs.ISBN)
	}

	googleBook := await(googleCh, "Google Books")
	olBook := await(olCh, "OpenLibrary")

	// Second round: a cross-referenced id from the first round makes the
	// skipped lookup possible after all.
	if olBook == nil && googleBook != nil && googleBook.IDs.ISBN != "" {
		olBook = await(s.lookupOpenLibrary(ctx, googleBook.IDs.ISBN), "OpenLibrary")
	}
	if googleBook == nil && olBook != nil && olBook.IDs.GoogleBooksID != "" {
		googleBook = await(s.lookupGoogle(ctx, olBook.IDs.GoogleBooksID), "Google Books")
	}

	if googleBook != nil {
		b = overlayMetadata(b, *googleBook)
	}
	if olBook != nil {
		b = Combine(b, *olBook)
	}
	return b, ctx.Err()
}

func (s *Supplementer) lookupGoogle(ctx context.Context, id string) chan lookupResult {
	ch := make(chan lookupResult, 1)
	go func() {
		gb, err := s.google.Volume(ctx, id)
		ch <- lookupResult{book: gb, err: err}
	}()
	return ch
}

func (s *Supplementer) lookupOpenLibrary(ctx context.Context, isbn string) chan lookupResult {
	ch := make(chan lookupResult, 1)
	go func() {
		ob, err := s.openlib.SearchISBN(ctx, isbn)
		ch <- lookupResult{book: ob, err: err}
	}()
	return ch
}

// await collects a lookup result; a nil channel means the lookup was
// never issued. Lookup failures are logged and treated as no data, so
// one provider failing never fails the other.
func await(ch chan lookupResult, provider string) *book.Book {
	if ch == nil {
		return nil
	}
	res := <-ch
	if res.err != nil {
		slog.Warn("Provider lookup failed", "provider", provider, "error", res.err)
		return nil
	}
	return &res.book
}

// overlayMetadata lays provider metadata over the input book while
// preserving the user's own bookkeeping: notes, read date, rating, tags
// and the added timestamp are never clobbered by a provider response.
func overlayMetadata(b, provider book.Book) book.Book {
	merged := provider
	merged.DateRead = b.DateRead
	merged.Notes = b.Notes
	merged.Rating = b.Rating
	merged.TimestampAdded = b.TimestampAdded
	merged.Images = b.Images
	if len(merged.Tags) == 0 {
		merged.Tags = b.Tags
	}
	if merged.Series == "" {
		merged.Series = b.Series
	}
	if merged.SeriesNumber == "" {
		merged.SeriesNumber = b.SeriesNumber
	}
	if b.Cache.Image != "" && merged.Cache.Image == "" {
		merged.Cache.Image = b.Cache.Image
	}
	mergeIDs(&merged.IDs, b.IDs)
	return merged
}

// Combine adds OpenLibrary data to a Google Books based record.
// OpenLibrary wins for the author list (its author records carry OLIDs)
// and for the publication date (accurate to the original edition).
// Identifiers are unioned with OpenLibrary's value preferred when both
// providers supply the same key; an id only Google knew is kept.
func Combine(googleBook, olBook book.Book) book.Book {
	b := googleBook
	if len(olBook.Authors) > 0 {
		b.Authors = olBook.Authors
	}
	if olBook.DatePublished != "" {
		b.DatePublished = olBook.DatePublished
	}

	ids := olBook.IDs
	mergeIDs(&ids, b.IDs)
	b.IDs = ids
	return b
}

// mergeIDs fills empty identifier slots in dst from src.
func mergeIDs(dst *book.IDs, src book.IDs) {
	fill := func(d *string, s string) {
		if *d == "" && s != "" {
			*d = s
		}
	}
	fill(&dst.ISBN, src.ISBN)
	fill(&dst.GoogleBooksID, src.GoogleBooksID)
	fill(&dst.GoodreadsID, src.GoodreadsID)
	fill(&dst.AmazonID, src.AmazonID)
	fill(&dst.LibraryThingID, src.LibraryThingID)
	fill(&dst.WikidataID, src.WikidataID)
	fill(&dst.OpenLibraryID, src.OpenLibraryID)
	fill(&dst.InternetArchiveID, src.InternetArchiveID)
	fill(&dst.OCLCID, src.OCLCID)
}
