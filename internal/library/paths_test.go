package library

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

func TestTitleToFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain title", "Dune", "Dune"},
		{"slash and colon", "A/B: Story", "A_B Story"},
		{"backslash replaced", "Back\\slash", "Back_slash"},
		{"colon smoothed out", "Dune: Messiah", "Dune Messiah"},
		{"quotes smoothed out", `The "Real" Story`, "The Real Story"},
		{"question mark", "Why?", "Why_"},
		{"run collapsed", "A::B", "A_B"},
		{"empty title", "", UnknownSegment},
		{"only illegal chars collapse to one placeholder", "///", "_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleToFilename(tt.title))
		})
	}
}

func TestTitleToFilenameDeterministic(t *testing.T) {
	title := "A/B: Story?"
	first := TitleToFilename(title)
	for range 10 {
		assert.Equal(t, first, TitleToFilename(title))
	}
}

func TestAuthorsToDir(t *testing.T) {
	tests := []struct {
		name    string
		authors []book.Author
		want    string
	}{
		{
			"single author",
			[]book.Author{{Name: "Frank Herbert"}},
			"Frank Herbert",
		},
		{
			"multiple authors joined in order",
			[]book.Author{{Name: "Terry Pratchett"}, {Name: "Neil Gaiman"}},
			"Terry Pratchett, Neil Gaiman",
		},
		{
			"illegal characters sanitized per name",
			[]book.Author{{Name: "A/B"}, {Name: "C:D"}},
			"A_B, C_D",
		},
		{
			"no authors",
			nil,
			UnknownSegment,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorsToDir(tt.authors))
		})
	}
}

func TestURLPath(t *testing.T) {
	assert.Equal(t, "Frank%20Herbert/Dune", URLPath("Frank Herbert/Dune"))
	assert.Equal(t, "NoSpaces/Here", URLPath("NoSpaces/Here"))
}
