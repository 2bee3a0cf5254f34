package library

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/bookwyrm/internal/book"
)

// MaxImageDim bounds cover images to a MaxImageDim x MaxImageDim box.
// Images are scaled down to fit, preserving aspect ratio, never upscaled
// and never cropped.
const MaxImageDim = 1000

const imageExt = ".jpg"

var (
	imageHTTPClient    *http.Client
	imageClientOnce    sync.Once
	imageHTTPClientNew = func() *http.Client {
		return &http.Client{Timeout: 30 * time.Second}
	}
)

func getImageHTTPClient() *http.Client {
	imageClientOnce.Do(func() {
		imageHTTPClient = imageHTTPClientNew()
	})
	return imageHTTPClient
}

// windowsDrivePrefix matches the stray leading slash some URL-to-path
// conversions prepend to a Windows drive letter ("/C:/...").
var windowsDrivePrefix = regexp.MustCompile(`^/[A-Za-z]:`)

// saveImage fetches or reads the cover from source and writes the
// normalized result beside the record as <Filename>.jpg. Source may be an
// http(s) URL, a file: URL, or a bare local path.
func saveImage(ctx context.Context, booksDir string, b *book.Book, source string) error {
	if booksDir == "" {
		return &StoreError{Op: "save image", Path: source, Err: fmt.Errorf("books directory not specified")}
	}
	if b.Cache.AuthorDir == "" {
		b.Cache.AuthorDir = AuthorsToDir(b.Authors)
	}
	if b.Cache.Filename == "" {
		b.Cache.Filename = TitleToFilename(b.Title)
	}
	dest := filepath.Join(booksDir, b.Cache.AuthorDir, b.Cache.Filename+imageExt)

	slog.Debug("Saving cover image", "source", source, "dest", dest)

	source = strings.ReplaceAll(source, "\\", "/")

	var img image.Image
	var err error
	switch {
	case strings.HasPrefix(source, "http"):
		img, err = fetchImage(ctx, upgradeToHTTPS(source))
	case strings.HasPrefix(source, "file:"):
		var local string
		local, err = fileURLToPath(source)
		if err == nil {
			img, err = openLocalImage(local)
		}
	default:
		img, err = openLocalImage(source)
	}
	if err != nil {
		return &StoreError{Op: "save image", Path: dest, Err: err}
	}

	if err := writeImage(img, dest); err != nil {
		return &StoreError{Op: "save image", Path: dest, Err: err}
	}
	return nil
}

// saveImageBytes decodes raw image data and writes it as the book's
// cover, applying the same size normalization as saveImage.
func saveImageBytes(booksDir string, b *book.Book, data []byte) error {
	if booksDir == "" {
		return &StoreError{Op: "save image", Path: "", Err: fmt.Errorf("books directory not specified")}
	}
	if b.Cache.AuthorDir == "" {
		b.Cache.AuthorDir = AuthorsToDir(b.Authors)
	}
	if b.Cache.Filename == "" {
		b.Cache.Filename = TitleToFilename(b.Title)
	}
	dest := filepath.Join(booksDir, b.Cache.AuthorDir, b.Cache.Filename+imageExt)

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return &StoreError{Op: "save image", Path: dest, Err: err}
	}
	if err := writeImage(img, dest); err != nil {
		return &StoreError{Op: "save image", Path: dest, Err: err}
	}
	return nil
}

// upgradeToHTTPS rewrites insecure image URLs; providers frequently hand
// out http links that fail mixed-content checks downstream.
func upgradeToHTTPS(rawURL string) string {
	if strings.HasPrefix(rawURL, "http:") {
		return "https:" + strings.TrimPrefix(rawURL, "http:")
	}
	return rawURL
}

// fileURLToPath converts a file: URL to a plain local path.
func fileURLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing file URL: %w", err)
	}
	return u.Path, nil
}

// cleanLocalPath undoes percent-encoding artifacts and the leading slash
// prepended to Windows drive letters before the path reaches the decoder.
func cleanLocalPath(path string) string {
	if windowsDrivePrefix.MatchString(path) {
		path = path[1:]
	}
	return strings.ReplaceAll(path, "%20", " ")
}

func fetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := getImageHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}
	return imaging.Decode(resp.Body, imaging.AutoOrientation(true))
}

func openLocalImage(path string) (image.Image, error) {
	return imaging.Open(cleanLocalPath(path), imaging.AutoOrientation(true))
}

// writeImage normalizes the image to the bounding box and writes it via a
// temp file in the destination directory, renamed into place only after a
// complete encode. A failed fetch or encode never leaves a partial cover.
func writeImage(img image.Image, dest string) error {
	bounds := img.Bounds()
	if bounds.Dx() > MaxImageDim || bounds.Dy() > MaxImageDim {
		img = imaging.Fit(img, MaxImageDim, MaxImageDim, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".cover-*"+imageExt)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, dest)
}
