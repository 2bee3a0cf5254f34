package googlebooks

// Volume is a Google Books volume resource, trimmed to the fields the
// catalog uses.
//
// https://developers.google.com/books/docs/v1/reference/volumes
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the descriptive metadata of a volume.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	ImageLinks          ImageLinks           `json:"imageLinks"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	MainCategory        string               `json:"mainCategory"`
	Categories          []string             `json:"categories"`
}

// ImageLinks lists cover image URLs by size.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
	ExtraLarge     string `json:"extraLarge"`
}

// IndustryIdentifier is an ISBN or other identifier attached to a volume.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// VolumeSearch is the response shape of the volumes search endpoint.
type VolumeSearch struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}
