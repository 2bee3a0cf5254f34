package library

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

func sampleBook() book.Book {
	b := book.New()
	b.Title = "Dune"
	b.Authors = []book.Author{{Name: "Frank Herbert", Birth: "1920", Death: "1986"}}
	b.Tags = []string{"science fiction"}
	b.Series = "Dune"
	b.SeriesNumber = "1"
	b.DatePublished = "1965"
	b.DateRead = "2023-07"
	b.TimestampAdded = 1690000000000
	b.Rating = 5
	b.Description = "Desert planet."
	b.IDs.ISBN = "9780441172719"
	b.IDs.GoogleBooksID = "B1hSG45JCX4C"
	return b
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleBook()
	original.Cache = book.Cache{
		AuthorDir: "Frank Herbert",
		Filename:  "Dune",
		Image:     "https://example.com/dune.jpg",
	}

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	// Derived fields never reach disk.
	assert.Equal(t, book.Cache{}, decoded.Cache)

	expected := original
	expected.Cache = book.Cache{}
	assert.Equal(t, expected, decoded)
}

func TestEncodeForcesCurrentVersion(t *testing.T) {
	b := sampleBook()
	b.Version = "1"

	data, err := Encode(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `version: "2"`)
}

func TestEncodeNeverWritesCacheFields(t *testing.T) {
	b := sampleBook()
	b.Cache.AuthorDir = "LEAKED_AUTHOR_DIR"
	b.Cache.Filename = "LEAKED_FILENAME"
	b.Cache.Image = "LEAKED_IMAGE_URL"

	data, err := Encode(b)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "LEAKED")
}

func TestDecodeUpgradesV1(t *testing.T) {
	legacy := strings.Join([]string{
		"version: \"1\"",
		"title: Dune",
		"authors:",
		"  - name: Frank Herbert",
		"authorDir: Frank Herbert",
		"filename: Dune",
		"tags:",
		"  - sf",
		"series: Dune",
		"datePublished: \"1965\"",
		"dateRead: \"2020\"",
		"timestampAdded: 1600000000000",
		"hasImage: true",
		"imageUpdated: 1600000000001",
		"image: https://example.com/l.jpg",
		"thumbnail: https://example.com/s.jpg",
		"isbn: \"9780441172719\"",
		"googleBooksId: B1hSG45JCX4C",
	}, "\n")

	b, err := Decode([]byte(legacy))
	require.NoError(t, err)

	assert.Equal(t, book.CurrentVersion, b.Version)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, []book.Author{{Name: "Frank Herbert"}}, b.Authors)
	assert.Equal(t, []string{"sf"}, b.Tags)
	assert.Equal(t, "1965", b.DatePublished)
	assert.Equal(t, "2020", b.DateRead)
	assert.Equal(t, int64(1600000000000), b.TimestampAdded)
	assert.True(t, b.Images.HasImage)
	assert.Equal(t, int64(1600000000001), b.Images.ImageUpdated)
	assert.Equal(t, "9780441172719", b.IDs.ISBN)
	assert.Equal(t, "B1hSG45JCX4C", b.IDs.GoogleBooksID)
	// Other provider identifiers default to empty, not undefined.
	assert.Empty(t, b.IDs.OpenLibraryID)
	assert.Equal(t, "https://example.com/l.jpg", b.Cache.Image)
	assert.Equal(t, "https://example.com/s.jpg", b.Cache.Thumbnail)
}

func TestDecodeMissingVersionTreatedAsV1(t *testing.T) {
	legacy := "title: Old Record\nisbn: \"12345\"\n"

	b, err := Decode([]byte(legacy))
	require.NoError(t, err)
	assert.Equal(t, book.CurrentVersion, b.Version)
	assert.Equal(t, "Old Record", b.Title)
	assert.Equal(t, "12345", b.IDs.ISBN)
	assert.Empty(t, b.Authors)
	assert.Empty(t, b.Tags)
}

func TestUpgradeIsAFixedPoint(t *testing.T) {
	legacy := "version: \"1\"\ntitle: Dune\nisbn: \"9780441172719\"\nhasImage: true\n"

	upgraded, err := Decode([]byte(legacy))
	require.NoError(t, err)

	data, err := Encode(upgraded)
	require.NoError(t, err)

	again, err := Decode(data)
	require.NoError(t, err)

	expected := upgraded
	expected.Cache = book.Cache{}
	assert.Equal(t, expected, again)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	_, err := Decode([]byte("version: \"3\"\ntitle: Future Book\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized schema version")
}

func TestDecodeRejectsMalformedYAML(t *testing.T) {
	_, err := Decode([]byte("\ttitle: not yaml"))
	require.Error(t, err)
}
