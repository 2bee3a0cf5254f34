package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	b := New()
	assert.Equal(t, CurrentVersion, b.Version)
	assert.NotNil(t, b.Authors)
	assert.NotNil(t, b.Tags)
	assert.Empty(t, b.Authors)
	assert.Empty(t, b.Tags)
}

func TestClean(t *testing.T) {
	b := Book{
		Version: "1",
		Title:   "  Dune  ",
		Authors: []Author{
			{Name: " Frank Herbert "},
			{Name: "   "},
			{Name: ""},
		},
		Tags:          []string{" sf ", "", "classic"},
		Series:        " Dune ",
		DatePublished: " 1965 ",
		Notes:         " great ",
	}

	b.Clean()

	assert.Equal(t, CurrentVersion, b.Version)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, []Author{{Name: "Frank Herbert"}}, b.Authors)
	assert.Equal(t, []string{"sf", "classic"}, b.Tags)
	assert.Equal(t, "Dune", b.Series)
	assert.Equal(t, "1965", b.DatePublished)
	assert.Equal(t, "great", b.Notes)
}

func TestCleanPreservesTimestamp(t *testing.T) {
	b := Book{Title: "Dune", TimestampAdded: 1234}
	b.Clean()
	assert.Equal(t, int64(1234), b.TimestampAdded)
}

func TestAuthorNames(t *testing.T) {
	b := Book{Authors: []Author{{Name: "Terry Pratchett"}, {Name: "Neil Gaiman"}}}
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", b.AuthorNames())

	empty := Book{}
	assert.Equal(t, "", empty.AuthorNames())
}
