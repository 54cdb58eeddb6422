package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.Handler) (*Provider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	origin, err := url.Parse(server.URL)
	require.NoError(t, err)

	provider := NewProvider(origin, Options{
		Timeout:   2 * time.Second,
		UserAgent: "linkscout-test",
	})
	require.NoError(t, provider.Open())
	t.Cleanup(provider.Close)
	return provider, server
}

func TestFetchReturnsSnapshot(t *testing.T) {
	provider, server := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Hello</title></head>
			<body><p>World</p><a href="/about">About</a></body></html>`))
	}))

	snapshot, err := provider.Fetch(context.Background(), server.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "Hello", snapshot.Title)
	assert.Equal(t, []string{"World"}, snapshot.Paragraphs)
	require.Len(t, snapshot.OutboundLinks, 1)
	assert.Equal(t, server.URL+"/about", snapshot.OutboundLinks[0])
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestFetchNotFound(t *testing.T) {
	provider, server := newTestProvider(t, http.NotFoundHandler())

	_, err := provider.Fetch(context.Background(), server.URL+"/missing")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, KindNotFound, fetchErr.Kind)
}

func TestFetchNonHTML(t *testing.T) {
	provider, server := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))

	_, err := provider.Fetch(context.Background(), server.URL+"/file.pdf")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, KindNonHTML, fetchErr.Kind)
}

func TestFetchServerError(t *testing.T) {
	provider, server := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := provider.Fetch(context.Background(), server.URL+"/")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, KindNetworkError, fetchErr.Kind)
}

func TestFetchTimeout(t *testing.T) {
	provider, server := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := provider.Fetch(ctx, server.URL+"/")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, KindTimeout, fetchErr.Kind)
}

func TestFetchTextReturnsRawBody(t *testing.T) {
	provider, server := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte("<urlset><url><loc>https://example.com/</loc></url></urlset>"))
	}))

	body, err := provider.FetchText(context.Background(), server.URL+"/sitemap.xml")
	require.NoError(t, err)
	assert.Contains(t, body, "<loc>")
}

func TestOpenTwiceFails(t *testing.T) {
	origin, err := url.Parse("https://example.com/")
	require.NoError(t, err)
	provider := NewProvider(origin, Options{UserAgent: "linkscout-test"})

	require.NoError(t, provider.Open())
	assert.Error(t, provider.Open())
	provider.Close()
}

func TestFetchOutsideOpenWindowFails(t *testing.T) {
	origin, err := url.Parse("https://example.com/")
	require.NoError(t, err)
	provider := NewProvider(origin, Options{UserAgent: "linkscout-test"})

	// Before Open.
	_, err = provider.Fetch(context.Background(), "https://example.com/")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, KindNetworkError, fetchErr.Kind)

	_, err = provider.FetchText(context.Background(), "https://example.com/sitemap.xml")
	assert.Error(t, err)

	// After Close.
	require.NoError(t, provider.Open())
	provider.Close()
	_, err = provider.Fetch(context.Background(), "https://example.com/")
	assert.Error(t, err)
}
