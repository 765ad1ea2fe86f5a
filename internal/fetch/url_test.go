package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_ExtractsTitleAndStripsTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>  Example   Page  </title><style>.x{color:red}</style></head>` +
			`<body><h1>Hello</h1><script>alert(1)</script><p>World</p></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	title, body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Example Page", title)
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "World")
	assert.NotContains(t, body, "alert(1)")
}

func TestHTTPFetcher_MissingTitleReturnsEmptyString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>No title here</p></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	title, body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, title)
	assert.Contains(t, body, "No title here")
}

func TestHTTPFetcher_ServerErrorStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	_, _, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
