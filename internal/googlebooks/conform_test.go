package googlebooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConformVolume(t *testing.T) {
	v := Volume{
		ID: "B1hSG45JCX4C",
		VolumeInfo: VolumeInfo{
			Title:         "Dune",
			Authors:       []string{"Frank Herbert"},
			PublishedDate: "1965",
			Description:   "Desert planet.",
			ImageLinks: ImageLinks{
				Thumbnail: "http://books.google.com/thumb.jpg",
				Medium:    "http://books.google.com/medium.jpg",
			},
			IndustryIdentifiers: []IndustryIdentifier{
				{Type: "ISBN_10", Identifier: "0441172717"},
				{Type: "ISBN_13", Identifier: "9780441172719"},
			},
			Categories: []string{"Fiction / Science Fiction / General"},
		},
	}

	b := conformVolume(v)

	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Frank Herbert", b.Authors[0].Name)
	assert.Equal(t, "1965", b.DatePublished)
	assert.Equal(t, "Desert planet.", b.Description)
	assert.Equal(t, "B1hSG45JCX4C", b.IDs.GoogleBooksID)
	assert.Equal(t, "9780441172719", b.IDs.ISBN)
	assert.Equal(t, "http://books.google.com/medium.jpg", b.Cache.Image)
	assert.Equal(t, "http://books.google.com/thumb.jpg", b.Cache.Thumbnail)
	assert.True(t, b.Images.HasImage)
	assert.Equal(t, []string{"Fiction", "Science Fiction", "General"}, b.Tags)
	assert.Zero(t, b.TimestampAdded)
}

func TestConformVolumeISBNPreference(t *testing.T) {
	tests := []struct {
		name string
		ids  []IndustryIdentifier
		want string
	}{
		{
			"isbn13 wins over isbn10",
			[]IndustryIdentifier{
				{Type: "ISBN_13", Identifier: "9780441172719"},
				{Type: "ISBN_10", Identifier: "0441172717"},
			},
			"9780441172719",
		},
		{
			"isbn13 wins regardless of order",
			[]IndustryIdentifier{
				{Type: "ISBN_10", Identifier: "0441172717"},
				{Type: "ISBN_13", Identifier: "9780441172719"},
			},
			"9780441172719",
		},
		{
			"isbn10 used when no isbn13",
			[]IndustryIdentifier{
				{Type: "ISBN_10", Identifier: "0441172717"},
			},
			"0441172717",
		},
		{
			"no identifiers",
			nil,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := conformVolume(Volume{VolumeInfo: VolumeInfo{IndustryIdentifiers: tt.ids}})
			assert.Equal(t, tt.want, b.IDs.ISBN)
		})
	}
}

func TestPickImagePreferenceOrder(t *testing.T) {
	links := ImageLinks{
		SmallThumbnail: "st",
		Thumbnail:      "t",
		Large:          "l",
		ExtraLarge:     "xl",
	}
	// Medium missing: large comes next for the full-size pick.
	got := pickImage(links, []string{"medium", "large", "extraLarge", "small", "thumbnail", "smallThumbnail"})
	assert.Equal(t, "l", got)

	assert.Equal(t, "", pickImage(ImageLinks{}, []string{"medium", "large"}))
}

func TestVolumeTagsDeduplicates(t *testing.T) {
	info := VolumeInfo{
		MainCategory: "Fiction",
		Categories: []string{
			"Fiction / Science Fiction",
			"Fiction / Classics",
		},
	}
	assert.Equal(t, []string{"Fiction", "Science Fiction", "Classics"}, volumeTags(info))
}

func TestNormalizeISBN(t *testing.T) {
	assert.Equal(t, "9780441172719", NormalizeISBN("978-0-441-17271-9"))
	assert.Equal(t, "9780441172719", NormalizeISBN("978 0441172719"))
}
