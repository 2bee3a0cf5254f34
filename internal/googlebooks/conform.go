package googlebooks

import (
	"strings"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

// conformVolume maps a Google Books volume to the catalog's Book shape.
// The result is an unsaved record: timestampAdded stays zero until the
// repository's first save, and the chosen cover URL rides in the cache
// fields as a pending image source.
func conformVolume(v Volume) book.Book {
	b := book.New()
	b.Title = v.VolumeInfo.Title
	b.DatePublished = v.VolumeInfo.PublishedDate
	b.Description = v.VolumeInfo.Description
	b.IDs.GoogleBooksID = v.ID
	b.Cache.SearchID = v.ID

	for _, name := range v.VolumeInfo.Authors {
		b.Authors = append(b.Authors, book.Author{Name: name})
	}

	b.Cache.Image = pickImage(v.VolumeInfo.ImageLinks,
		[]string{"medium", "large", "extraLarge", "small", "thumbnail", "smallThumbnail"})
	b.Cache.Thumbnail = pickImage(v.VolumeInfo.ImageLinks,
		[]string{"thumbnail", "smallThumbnail", "small", "medium", "large", "extraLarge"})
	if b.Cache.Image != "" {
		b.Images.HasImage = true
	}

	b.Tags = volumeTags(v.VolumeInfo)

	// Prefer ISBN-13; fall back to ISBN-10 only when no 13 is present.
	for _, id := range v.VolumeInfo.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			b.IDs.ISBN = id.Identifier
		} else if id.Type == "ISBN_10" && b.IDs.ISBN == "" {
			b.IDs.ISBN = id.Identifier
		}
	}

	return b
}

// pickImage returns the first non-empty cover link in preference order.
func pickImage(links ImageLinks, order []string) string {
	bySize := map[string]string{
		"smallThumbnail": links.SmallThumbnail,
		"thumbnail":      links.Thumbnail,
		"small":          links.Small,
		"medium":         links.Medium,
		"large":          links.Large,
		"extraLarge":     links.ExtraLarge,
	}
	for _, size := range order {
		if bySize[size] != "" {
			return bySize[size]
		}
	}
	return ""
}

// volumeTags flattens BISAC headings ("Fiction / Science Fiction /
// General") into individual deduplicated tags.
func volumeTags(info VolumeInfo) []string {
	tags := []string{}
	seen := map[string]bool{}
	add := func(heading string) {
		for _, part := range strings.Split(heading, "/") {
			part = strings.TrimSpace(part)
			if part != "" && !seen[part] {
				seen[part] = true
				tags = append(tags, part)
			}
		}
	}
	if info.MainCategory != "" {
		add(info.MainCategory)
	}
	for _, cat := range info.Categories {
		add(cat)
	}
	return tags
}
