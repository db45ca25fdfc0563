package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dom/libriverse/internal/catalog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const duneVolume = `{
  "id": "B1hSG45JCX4C",
  "volumeInfo": {
    "title": "Dune",
    "authors": ["Frank Herbert"],
    "publisher": "Penguin",
    "publishedDate": "2003",
    "description": "Set on the desert planet Arrakis.",
    "imageLinks": {"thumbnail": "http://books.google.com/dune.jpg"}
  }
}`

func TestClient_GetVolume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/volumes/B1hSG45JCX4C":
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(duneVolume))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := catalog.NewClient(catalog.Config{BaseURL: srv.URL, APIKey: "secret"})

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "existing volume", id: "B1hSG45JCX4C"},
		{name: "unknown volume", id: "missing", wantErr: catalog.ErrVolumeNotFound},
		{name: "empty id", id: "", wantErr: catalog.ErrVolumeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol, err := client.GetVolume(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "B1hSG45JCX4C", vol.ID)
			assert.Equal(t, "Dune", vol.VolumeInfo.Title)
			assert.Equal(t, []string{"Frank Herbert"}, vol.VolumeInfo.Authors)
			assert.Equal(t, "http://books.google.com/dune.jpg", vol.VolumeInfo.ImageLinks.Thumbnail)
		})
	}
}

func TestClient_Search(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Query().Get("q") == "nothing" {
			_, _ = w.Write([]byte(`{"totalItems": 0}`))
			return
		}
		_, _ = w.Write([]byte(`{"totalItems": 1, "items": [` + duneVolume + `]}`))
	}))
	defer srv.Close()

	client := catalog.NewClient(catalog.Config{BaseURL: srv.URL})

	result, err := client.Search(context.Background(), "dune", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalItems)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Dune", result.Items[0].VolumeInfo.Title)
	assert.Contains(t, gotQuery, "startIndex=10")
	assert.Contains(t, gotQuery, "maxResults=10")
	assert.NotContains(t, gotQuery, "key=")

	result, err = client.Search(context.Background(), "nothing", 1, 500)
	require.NoError(t, err)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.Contains(t, gotQuery, "maxResults=40")
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := catalog.NewClient(catalog.Config{BaseURL: srv.URL})

	for i := 0; i < 5; i++ {
		_, err := client.GetVolume(context.Background(), "any")
		assert.ErrorIs(t, err, catalog.ErrUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	_, err := client.GetVolume(context.Background(), "any")
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
	assert.True(t, strings.Contains(err.Error(), "open"))
	assert.Equal(t, int32(5), calls.Load(), "open breaker must not reach the catalog")
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := catalog.NewClient(catalog.Config{BaseURL: srv.URL})

	for i := 0; i < 10; i++ {
		_, err := client.GetVolume(context.Background(), "missing")
		assert.ErrorIs(t, err, catalog.ErrVolumeNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, client.State())
}
