package googlebooks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
	"kind": "books#volumes",
	"totalItems": 1,
	"items": [
		{
			"id": "B1hSG45JCX4C",
			"volumeInfo": {
				"title": "Dune",
				"authors": ["Frank Herbert"],
				"publishedDate": "1965",
				"industryIdentifiers": [
					{"type": "ISBN_13", "identifier": "9780441172719"}
				]
			}
		}
	]
}`

func TestSearch(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, searchResponse)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	books, err := client.Search(context.Background(), "dune herbert")
	require.NoError(t, err)

	assert.Equal(t, "/volumes", gotPath)
	assert.Equal(t, "dune herbert", gotQuery)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "9780441172719", books[0].IDs.ISBN)
}

func TestSearchSendsAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, `{"totalItems": 0}`)
	}))
	defer server.Close()

	client := NewClient("secret-key", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "dune")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", gotKey)
}

func TestSearchISBNRequiresISBN(t *testing.T) {
	client := NewClient("")
	_, err := client.SearchISBN(context.Background(), "  - ")
	require.Error(t, err)
}

func TestSearchISBNNormalizes(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, searchResponse)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	books, err := client.SearchISBN(context.Background(), "978-0-441-17271-9")
	require.NoError(t, err)

	assert.Equal(t, "isbn:9780441172719", gotQuery)
	require.Len(t, books, 1)
}

func TestVolume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/B1hSG45JCX4C", r.URL.Path)
		fmt.Fprint(w, `{"id": "B1hSG45JCX4C", "volumeInfo": {"title": "Dune"}}`)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	b, err := client.Volume(context.Background(), "B1hSG45JCX4C")
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "B1hSG45JCX4C", b.IDs.GoogleBooksID)
}

func TestVolumeRequiresID(t *testing.T) {
	client := NewClient("")
	_, err := client.Volume(context.Background(), "")
	require.Error(t, err)
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "dune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
