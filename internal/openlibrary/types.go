package openlibrary

// SearchResult is one work from the OpenLibrary search API, trimmed to
// the fields the catalog uses. Parallel author_name/author_key slices
// line up by index.
//
// https://openlibrary.org/dev/docs/api/search
type SearchResult struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	AuthorKey        []string `json:"author_key"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear int      `json:"first_publish_year"`
	PublishYear      []int    `json:"publish_year"`
	CoverEditionKey  string   `json:"cover_edition_key"`
	CoverID          int      `json:"cover_i"`
	IA               []string `json:"ia"`
	OCLC             []string `json:"oclc"`
	IDGoogle         []string `json:"id_google"`
	IDLibraryThing   []string `json:"id_librarything"`
	IDAmazon         []string `json:"id_amazon"`
	IDGoodreads      []string `json:"id_goodreads"`
	IDWikidata       []string `json:"id_wikidata"`
}

// SearchResponse is the envelope of the search API.
type SearchResponse struct {
	NumFound int            `json:"numFound"`
	Start    int            `json:"start"`
	Docs     []SearchResult `json:"docs"`
}

// Work is a work resource from the books API.
//
// https://openlibrary.org/dev/docs/api/books
type Work struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description any    `json:"description"`
	Covers      []int  `json:"covers"`
}

// DescriptionText extracts the description, which the API serves either
// as a plain string or as a {"type", "value"} text object.
func (w *Work) DescriptionText() string {
	switch d := w.Description.(type) {
	case string:
		return d
	case map[string]any:
		if v, ok := d["value"].(string); ok {
			return v
		}
	}
	return ""
}
