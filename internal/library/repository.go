// Package library owns the on-disk book catalog: one directory per
// author group, one YAML/JPEG file pair per book. A book's location is
// always derived from its current authors and title, never stored, so the
// repository's main job is keeping "book identity as currently known" and
// "book's files on disk" consistent across renames.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

const recordExt = ".yaml"

// Repository reads and writes book records under a single books directory.
// Save and Delete serialize per author directory, and Open takes a file
// lock on the whole tree so only one process owns it at a time.
type Repository struct {
	booksDir string
	lock     *flock.Flock
	dirLocks sync.Map // author dir name -> *sync.Mutex
}

// Open creates the books directory if missing and acquires exclusive
// ownership of it.
func Open(booksDir string) (*Repository, error) {
	if booksDir == "" {
		return nil, fmt.Errorf("books directory not specified")
	}
	if _, err := os.Stat(booksDir); os.IsNotExist(err) {
		slog.Warn("Books directory missing, creating", "dir", booksDir)
		if err := os.MkdirAll(booksDir, 0o755); err != nil {
			return nil, &StoreError{Op: "create books directory", Path: booksDir, Err: err}
		}
	}

	r := &Repository{
		booksDir: booksDir,
		lock:     flock.New(filepath.Join(booksDir, ".bookwyrm.lock")),
	}
	ok, err := r.lock.TryLock()
	if err != nil {
		return nil, &StoreError{Op: "lock books directory", Path: booksDir, Err: err}
	}
	if !ok {
		return nil, &StoreError{Op: "lock books directory", Path: booksDir,
			Err: fmt.Errorf("another instance owns this books directory")}
	}
	return r, nil
}

// Close releases ownership of the books directory.
func (r *Repository) Close() error {
	return r.lock.Unlock()
}

// BooksDir returns the root of the catalog tree.
func (r *Repository) BooksDir() string { return r.booksDir }

// lockDirs acquires the per-author-directory mutexes for the given dir
// names in stable order and returns the matching unlock. Concurrent saves
// touching the same author directory serialize here.
func (r *Repository) lockDirs(dirs ...string) func() {
	uniq := map[string]bool{}
	var names []string
	for _, d := range dirs {
		if d != "" && !uniq[d] {
			uniq[d] = true
			names = append(names, d)
		}
	}
	sort.Strings(names)

	var held []*sync.Mutex
	for _, name := range names {
		mu, _ := r.dirLocks.LoadOrStore(name, &sync.Mutex{})
		m := mu.(*sync.Mutex)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// Save persists a book record, deriving its location from the current
// authors and title. For an edited book the caller passes the previous
// on-disk identity so stale files can be migrated or removed; for a new
// book both old-identity arguments are empty and no cleanup happens.
//
// Step order is load-bearing: directory creation, image write, record
// write, then old-file cleanup. A crash mid-save leaves recoverable stale
// files rather than lost data.
func (r *Repository) Save(ctx context.Context, partial book.Book, oldAuthorDir, oldFilename string) (book.Book, error) {
	b := partial
	b.Clean()

	action := "Saving"
	if oldAuthorDir == "" && oldFilename == "" {
		action = "Adding"
	}
	slog.Info(action+" book", "title", b.Title, "authors", b.AuthorNames())

	b.Cache.AuthorDir = AuthorsToDir(b.Authors)
	b.Cache.Filename = TitleToFilename(b.Title)
	b.Cache.Filepath = b.Cache.AuthorDir + "/" + b.Cache.Filename
	b.Cache.URLPath = URLPath(b.Cache.Filepath)

	unlock := r.lockDirs(b.Cache.AuthorDir, oldAuthorDir)
	defer unlock()

	authorPath := filepath.Join(r.booksDir, b.Cache.AuthorDir)
	if err := os.MkdirAll(authorPath, 0o755); err != nil {
		return book.Book{}, &StoreError{Op: "create author directory", Path: authorPath, Err: err}
	}

	// A record is brand new when nothing exists at its derived path and
	// no prior read carried a timestamp forward. The timestamp is never
	// re-derived from disk metadata and never overwritten once set.
	recordPath := filepath.Join(authorPath, b.Cache.Filename+recordExt)
	if b.TimestampAdded == 0 && !fileExists(recordPath) {
		b.TimestampAdded = time.Now().UnixMilli()
	}

	// A pending image source means the user picked a new cover during
	// this edit, regardless of whether one already existed.
	newImage := false
	hadImage := b.Images.HasImage
	if b.Cache.Image != "" {
		if err := saveImage(ctx, r.booksDir, &b, b.Cache.Image); err != nil {
			return book.Book{}, err
		}
		newImage = true
		b.Images.HasImage = true
		b.Images.ImageUpdated = time.Now().UnixMilli()
	}

	data, err := Encode(b)
	if err != nil {
		return book.Book{}, &SchemaError{Path: recordPath, Err: err}
	}
	if err := os.WriteFile(recordPath, data, 0o644); err != nil {
		return book.Book{}, &StoreError{Op: "write book record", Path: recordPath, Err: err}
	}

	if err := r.cleanupOldFiles(b, oldAuthorDir, oldFilename, hadImage, newImage); err != nil {
		return book.Book{}, err
	}

	return b, nil
}

// cleanupOldFiles migrates or removes the artifacts left at the book's
// previous identity after a rename. The new record is already on disk at
// this point, so every failure mode here leaves stale files, not data loss.
func (r *Repository) cleanupOldFiles(b book.Book, oldAuthorDir, oldFilename string, hadImage, newImage bool) error {
	changedAuthor := oldAuthorDir != "" && oldAuthorDir != b.Cache.AuthorDir
	changedTitle := oldFilename != "" && oldFilename != b.Cache.Filename
	if !changedAuthor && !changedTitle {
		return nil
	}

	authorPath := filepath.Join(r.booksDir, b.Cache.AuthorDir)
	oldAuthorPath := authorPath
	if oldAuthorDir != "" {
		oldAuthorPath = filepath.Join(r.booksDir, oldAuthorDir)
	}
	oldBase := filepath.Join(oldAuthorPath, b.Cache.Filename)
	if oldFilename != "" {
		oldBase = filepath.Join(oldAuthorPath, oldFilename)
	}

	if hadImage && fileExists(oldBase+imageExt) {
		if newImage {
			// A fresh cover was just written at the new path; the old one
			// is an orphan at a different basename.
			slog.Debug("Deleting old image", "path", oldBase+imageExt)
			if err := os.Remove(oldBase + imageExt); err != nil {
				return &StoreError{Op: "remove old image", Path: oldBase + imageExt, Err: err}
			}
		} else {
			// Cheaper than re-fetching or re-encoding the same image.
			slog.Debug("Moving image", "from", oldBase+imageExt)
			newImagePath := filepath.Join(authorPath, b.Cache.Filename+imageExt)
			if err := os.Rename(oldBase+imageExt, newImagePath); err != nil {
				return &StoreError{Op: "move image", Path: oldBase + imageExt, Err: err}
			}
		}
	}

	if fileExists(oldBase + recordExt) {
		slog.Debug("Deleting old record", "path", oldBase+recordExt)
		if err := os.Remove(oldBase + recordExt); err != nil {
			return &StoreError{Op: "remove old record", Path: oldBase + recordExt, Err: err}
		}
	}

	if changedAuthor {
		r.pruneEmptyDir(oldAuthorPath)
	}
	return nil
}

// pruneEmptyDir removes an author directory once its last record is gone.
// Best effort: a non-empty or already-missing directory is left alone.
func (r *Repository) pruneEmptyDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	slog.Debug("Deleting empty author directory", "dir", dir)
	if err := os.Remove(dir); err != nil {
		slog.Warn("Could not remove empty author directory", "dir", dir, "error", err)
	}
}

// Read loads one book record. It returns a NotFoundError when nothing
// exists at the path and a SchemaError when a file exists but cannot be
// decoded, so callers can tell the two apart.
func (r *Repository) Read(ctx context.Context, authorDir, filename string) (book.Book, error) {
	_ = ctx
	recordPath := filepath.Join(r.booksDir, authorDir, filename+recordExt)
	data, err := os.ReadFile(recordPath)
	if err != nil {
		if os.IsNotExist(err) {
			return book.Book{}, &NotFoundError{Path: recordPath}
		}
		return book.Book{}, &StoreError{Op: "read book record", Path: recordPath, Err: err}
	}

	b, err := Decode(data)
	if err != nil {
		return book.Book{}, &SchemaError{Path: recordPath, Err: err}
	}

	r.rebuildCache(&b, authorDir, filename)
	return b, nil
}

// ReadAll enumerates every record in the catalog. Each top-level
// directory is an author group; each .yaml inside is a record. A record
// that fails to decode is skipped with a warning rather than failing the
// whole read; browsing must tolerate one bad file.
func (r *Repository) ReadAll(ctx context.Context) ([]book.Book, error) {
	_ = ctx
	entries, err := os.ReadDir(r.booksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []book.Book{}, nil
		}
		return nil, &StoreError{Op: "read books directory", Path: r.booksDir, Err: err}
	}

	var books []book.Book
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		authorDir := entry.Name()
		authorPath := filepath.Join(r.booksDir, authorDir)
		records, err := os.ReadDir(authorPath)
		if err != nil {
			return nil, &StoreError{Op: "read author directory", Path: authorPath, Err: err}
		}
		for _, rec := range records {
			if rec.IsDir() || !strings.HasSuffix(rec.Name(), recordExt) {
				continue
			}
			recordPath := filepath.Join(authorPath, rec.Name())
			data, err := os.ReadFile(recordPath)
			if err != nil {
				return nil, &StoreError{Op: "read book record", Path: recordPath, Err: err}
			}
			b, err := Decode(data)
			if err != nil {
				slog.Warn("Skipping unreadable book record", "path", recordPath, "error", err)
				continue
			}
			r.rebuildCache(&b, authorDir, strings.TrimSuffix(rec.Name(), recordExt))
			books = append(books, b)
		}
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// rebuildCache overwrites the derived fields from the names actually
// found on disk. The filesystem is the source of truth for where a record
// is; the record's content only says what it contains. HasImage is
// likewise recomputed from the sibling image file, never trusted from the
// stored text.
func (r *Repository) rebuildCache(b *book.Book, authorDir, filename string) {
	b.Images.HasImage = fileExists(filepath.Join(r.booksDir, authorDir, filename+imageExt))
	b.Cache = book.Cache{
		AuthorDir: authorDir,
		Filename:  filename,
		Filepath:  authorDir + "/" + filename,
	}
	b.Cache.URLPath = URLPath(b.Cache.Filepath)
}

// Delete removes a book's record and image and prunes the author
// directory if it is now empty. The canonical path is recomputed from the
// book's current authors and title; possibly stale cache fields on the
// in-memory value are not trusted.
func (r *Repository) Delete(ctx context.Context, b book.Book) error {
	_ = ctx
	authorDir := AuthorsToDir(b.Authors)
	filename := TitleToFilename(b.Title)

	unlock := r.lockDirs(authorDir)
	defer unlock()

	authorPath := filepath.Join(r.booksDir, authorDir)
	base := filepath.Join(authorPath, filename)

	if fileExists(base + recordExt) {
		if err := os.Remove(base + recordExt); err != nil {
			return &StoreError{Op: "delete book record", Path: base + recordExt, Err: err}
		}
	}
	if fileExists(base + imageExt) {
		if err := os.Remove(base + imageExt); err != nil {
			return &StoreError{Op: "delete book image", Path: base + imageExt, Err: err}
		}
	}
	r.pruneEmptyDir(authorPath)
	return nil
}

// AddImage saves a cover for an existing book from a URL or local path
// and rewrites its record with the updated image state.
func (r *Repository) AddImage(ctx context.Context, b book.Book, source string) (book.Book, error) {
	if b.Cache.AuthorDir == "" {
		b.Cache.AuthorDir = AuthorsToDir(b.Authors)
	}
	if b.Cache.Filename == "" {
		b.Cache.Filename = TitleToFilename(b.Title)
	}

	unlock := r.lockDirs(b.Cache.AuthorDir)
	defer unlock()

	if err := saveImage(ctx, r.booksDir, &b, source); err != nil {
		return book.Book{}, err
	}
	b.Images.HasImage = true
	b.Images.ImageUpdated = time.Now().UnixMilli()

	return b, r.writeRecord(b)
}

// AddImageBytes is AddImage for raw image data already in memory.
func (r *Repository) AddImageBytes(ctx context.Context, b book.Book, data []byte) (book.Book, error) {
	_ = ctx
	if b.Cache.AuthorDir == "" {
		b.Cache.AuthorDir = AuthorsToDir(b.Authors)
	}
	if b.Cache.Filename == "" {
		b.Cache.Filename = TitleToFilename(b.Title)
	}

	unlock := r.lockDirs(b.Cache.AuthorDir)
	defer unlock()

	if err := saveImageBytes(r.booksDir, &b, data); err != nil {
		return book.Book{}, err
	}
	b.Images.HasImage = true
	b.Images.ImageUpdated = time.Now().UnixMilli()

	return b, r.writeRecord(b)
}

func (r *Repository) writeRecord(b book.Book) error {
	recordPath := filepath.Join(r.booksDir, b.Cache.AuthorDir, b.Cache.Filename+recordExt)
	data, err := Encode(b)
	if err != nil {
		return &SchemaError{Path: recordPath, Err: err}
	}
	if err := os.WriteFile(recordPath, data, 0o644); err != nil {
		return &StoreError{Op: "write book record", Path: recordPath, Err: err}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
