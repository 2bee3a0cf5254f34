package openlibrary

import (
	"fmt"
	"slices"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

// conformSearchResult maps an OpenLibrary work to the catalog's Book
// shape. When isbn is non-empty it wins over whatever ISBNs the work
// lists, since it is the identifier the caller actually searched with.
func (c *Client) conformSearchResult(doc SearchResult, isbn string) book.Book {
	b := book.New()
	b.Title = doc.Title
	b.IDs.OpenLibraryID = doc.Key
	b.Cache.SearchID = doc.Key

	// author_name and author_key are parallel arrays; OpenLibrary author
	// records carry their own OLIDs, which later cross-referencing needs.
	seen := map[string]bool{}
	for i, name := range doc.AuthorName {
		if seen[name] {
			continue
		}
		seen[name] = true
		a := book.Author{Name: name}
		if i < len(doc.AuthorKey) {
			a.IDs.OpenLibraryID = doc.AuthorKey[i]
		}
		b.Authors = append(b.Authors, a)
	}

	b.DatePublished = publishDate(doc)

	if doc.CoverEditionKey != "" || doc.CoverID != 0 {
		b.Images.HasImage = true
		base := fmt.Sprintf("%s/id/%d", c.coversURL, doc.CoverID)
		if doc.CoverEditionKey != "" {
			base = fmt.Sprintf("%s/olid/%s", c.coversURL, doc.CoverEditionKey)
		}
		b.Cache.Image = base + "-L.jpg"
		b.Cache.Thumbnail = base + "-M.jpg"
	}

	if isbn != "" {
		b.IDs.ISBN = isbn
	} else {
		setFirstID(doc.ISBN, &b.IDs.ISBN)
	}
	setFirstID(doc.IDGoogle, &b.IDs.GoogleBooksID)
	setFirstID(doc.IDLibraryThing, &b.IDs.LibraryThingID)
	setFirstID(doc.IDAmazon, &b.IDs.AmazonID)
	setFirstID(doc.IDGoodreads, &b.IDs.GoodreadsID)
	setFirstID(doc.IDWikidata, &b.IDs.WikidataID)
	setFirstID(doc.OCLC, &b.IDs.OCLCID)
	setFirstID(doc.IA, &b.IDs.InternetArchiveID)

	return b
}

// publishDate prefers the first publish year, falling back to the
// earliest listed year. Free text because sources provide partial dates.
func publishDate(doc SearchResult) string {
	if doc.FirstPublishYear != 0 {
		return fmt.Sprintf("%d", doc.FirstPublishYear)
	}
	if len(doc.PublishYear) > 0 {
		return fmt.Sprintf("%d", slices.Min(doc.PublishYear))
	}
	return ""
}

// setFirstID assigns the first non-empty id from the list.
func setFirstID(ids []string, dst *string) {
	for _, id := range ids {
		if id != "" {
			*dst = id
			return
		}
	}
}
