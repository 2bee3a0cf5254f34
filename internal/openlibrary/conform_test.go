package openlibrary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

func testClient() *Client {
	return NewClient(WithCoversURL("https://covers.test/b"))
}

func TestConformSearchResult(t *testing.T) {
	doc := SearchResult{
		Key:              "/works/OL893415W",
		Title:            "Dune",
		AuthorName:       []string{"Frank Herbert"},
		AuthorKey:        []string{"OL79034A"},
		ISBN:             []string{"9780441172719", "0441172717"},
		FirstPublishYear: 1965,
		CoverEditionKey:  "OL7828913M",
		IDGoodreads:      []string{"234225"},
		IDLibraryThing:   []string{"3064"},
	}

	b := testClient().conformSearchResult(doc, "")

	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "/works/OL893415W", b.IDs.OpenLibraryID)
	assert.Equal(t, []book.Author{
		{Name: "Frank Herbert", IDs: book.AuthorIDs{OpenLibraryID: "OL79034A"}},
	}, b.Authors)
	assert.Equal(t, "1965", b.DatePublished)
	assert.Equal(t, "9780441172719", b.IDs.ISBN)
	assert.Equal(t, "234225", b.IDs.GoodreadsID)
	assert.Equal(t, "3064", b.IDs.LibraryThingID)
	assert.True(t, b.Images.HasImage)
	assert.Equal(t, "https://covers.test/b/olid/OL7828913M-L.jpg", b.Cache.Image)
	assert.Equal(t, "https://covers.test/b/olid/OL7828913M-M.jpg", b.Cache.Thumbnail)
}

func TestConformSearchResultGivenISBNWins(t *testing.T) {
	doc := SearchResult{
		Title: "Dune",
		ISBN:  []string{"1111111111111"},
	}
	b := testClient().conformSearchResult(doc, "9780441172719")
	assert.Equal(t, "9780441172719", b.IDs.ISBN)
}

func TestConformSearchResultDeduplicatesAuthors(t *testing.T) {
	doc := SearchResult{
		Title:      "Good Omens",
		AuthorName: []string{"Terry Pratchett", "Neil Gaiman", "Terry Pratchett"},
		AuthorKey:  []string{"OL25712A", "OL26283A", "OL25712A"},
	}
	b := testClient().conformSearchResult(doc, "")
	assert.Equal(t, []book.Author{
		{Name: "Terry Pratchett", IDs: book.AuthorIDs{OpenLibraryID: "OL25712A"}},
		{Name: "Neil Gaiman", IDs: book.AuthorIDs{OpenLibraryID: "OL26283A"}},
	}, b.Authors)
}

func TestConformSearchResultCoverIDFallback(t *testing.T) {
	doc := SearchResult{Title: "Dune", CoverID: 12345}
	b := testClient().conformSearchResult(doc, "")
	assert.True(t, b.Images.HasImage)
	assert.Equal(t, "https://covers.test/b/id/12345-L.jpg", b.Cache.Image)
}

func TestConformSearchResultNoCover(t *testing.T) {
	b := testClient().conformSearchResult(SearchResult{Title: "Dune"}, "")
	assert.False(t, b.Images.HasImage)
	assert.Equal(t, "", b.Cache.Image)
}

func TestPublishDate(t *testing.T) {
	tests := []struct {
		name string
		doc  SearchResult
		want string
	}{
		{"first publish year", SearchResult{FirstPublishYear: 1965}, "1965"},
		{"earliest listed year", SearchResult{PublishYear: []int{1984, 1965, 1990}}, "1965"},
		{"no year", SearchResult{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publishDate(tt.doc))
		})
	}
}

func TestSetFirstID(t *testing.T) {
	var dst string
	setFirstID([]string{"", "first", "second"}, &dst)
	assert.Equal(t, "first", dst)

	var untouched string
	setFirstID(nil, &untouched)
	assert.Equal(t, "", untouched)
}
