package library

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

// Encode serializes a book record for storage. The Cache struct carries a
// yaml:"-" tag, so derived fields can never reach disk; they are
// recomputed from the file's actual location on every read.
func Encode(b book.Book) ([]byte, error) {
	b.Version = book.CurrentVersion
	data, err := yaml.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding book record: %w", err)
	}
	return data, nil
}

// versionProbe reads only the schema tag so Decode can pick the right
// shape before committing to a full unmarshal.
type versionProbe struct {
	Version string `yaml:"version"`
}

// bookV1 is the legacy flat record layout. Identifier and image fields
// lived at the top level, and the derived location fields were persisted.
type bookV1 struct {
	Version        string        `yaml:"version"`
	Title          string        `yaml:"title"`
	Authors        []book.Author `yaml:"authors"`
	AuthorDir      string        `yaml:"authorDir"`
	Filename       string        `yaml:"filename"`
	Tags           []string      `yaml:"tags"`
	Series         string        `yaml:"series"`
	DatePublished  string        `yaml:"datePublished"`
	DateRead       string        `yaml:"dateRead"`
	TimestampAdded int64         `yaml:"timestampAdded"`
	HasImage       bool          `yaml:"hasImage"`
	ImageUpdated   int64         `yaml:"imageUpdated"`
	Image          string        `yaml:"image"`
	Thumbnail      string        `yaml:"thumbnail"`
	ISBN           string        `yaml:"isbn"`
	GoogleBooksID  string        `yaml:"googleBooksId"`
}

// Decode parses a record and upgrades it to the current schema if needed.
// A version tag that is neither current nor upgradeable fails; the
// repository wraps that into a SchemaError carrying the offending path.
func Decode(data []byte) (book.Book, error) {
	var probe versionProbe
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return book.Book{}, fmt.Errorf("parsing book record: %w", err)
	}

	switch probe.Version {
	case book.CurrentVersion:
		var b book.Book
		if err := yaml.Unmarshal(data, &b); err != nil {
			return book.Book{}, fmt.Errorf("parsing book record: %w", err)
		}
		fillDefaults(&b)
		return b, nil
	case "", "1":
		var v1 bookV1
		if err := yaml.Unmarshal(data, &v1); err != nil {
			return book.Book{}, fmt.Errorf("parsing legacy book record: %w", err)
		}
		return upgradeV1(v1), nil
	default:
		return book.Book{}, fmt.Errorf("unrecognized schema version %q", probe.Version)
	}
}

// upgradeV1 is the one-way transform from the legacy flat layout to the
// current nested one. Every field the legacy shape lacks is defaulted,
// never left undefined. Applying Decode to its output is a fixed point.
func upgradeV1(v1 bookV1) book.Book {
	b := book.New()
	b.Title = v1.Title
	if v1.Authors != nil {
		b.Authors = v1.Authors
	}
	if v1.Tags != nil {
		b.Tags = v1.Tags
	}
	b.Series = v1.Series
	b.DatePublished = v1.DatePublished
	b.DateRead = v1.DateRead
	b.TimestampAdded = v1.TimestampAdded
	b.Images = book.Images{
		HasImage:     v1.HasImage,
		ImageUpdated: v1.ImageUpdated,
	}
	b.IDs = book.IDs{
		ISBN:          v1.ISBN,
		GoogleBooksID: v1.GoogleBooksID,
	}
	b.Cache = book.Cache{
		AuthorDir: v1.AuthorDir,
		Filename:  v1.Filename,
		Filepath:  v1.AuthorDir + "/" + v1.Filename,
		Image:     v1.Image,
		Thumbnail: v1.Thumbnail,
	}
	return b
}

// fillDefaults replaces nil slices left by the YAML decoder so callers
// never see an undefined list.
func fillDefaults(b *book.Book) {
	b.Version = book.CurrentVersion
	if b.Authors == nil {
		b.Authors = []book.Author{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
}
