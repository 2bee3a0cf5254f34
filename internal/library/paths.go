package library

import (
	"regexp"
	"strings"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

// UnknownSegment is used whenever sanitizing leaves nothing usable, so a
// blank title or author list can never produce an empty path segment.
const UnknownSegment = "__unknown__"

var (
	illegalPathChars = regexp.MustCompile("[/\\\\:^*{}\\[\\]?`|\"[:cntrl:]]")
	placeholderRuns  = regexp.MustCompile("_+")
	placeholderEdges = regexp.MustCompile("(?:_ | _)")
)

// sanitizeSegment strips characters that are illegal or risky in
// filesystem paths, collapses placeholder runs, and smooths out the
// "Foo_ _Bar" artifacts stripping leaves behind.
func sanitizeSegment(s string) string {
	s = illegalPathChars.ReplaceAllString(s, "_")
	s = placeholderRuns.ReplaceAllString(s, "_")
	s = placeholderEdges.ReplaceAllString(s, " ")
	return s
}

// AuthorsToDir derives the author directory name from an author list.
// Names are sanitized individually and joined in list order.
func AuthorsToDir(authors []book.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, sanitizeSegment(a.Name))
	}
	dir := strings.Join(names, ", ")
	if dir == "" {
		dir = UnknownSegment
	}
	return dir
}

// TitleToFilename derives the record filename (without extension) from a title.
func TitleToFilename(title string) string {
	filename := sanitizeSegment(title)
	if filename == "" {
		filename = UnknownSegment
	}
	return filename
}

// URLPath percent-encodes spaces in a relative record path for use in
// UI resource URLs.
func URLPath(filepath string) string {
	return strings.ReplaceAll(filepath, " ", "%20")
}
