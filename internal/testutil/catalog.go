package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/dom/libriverse/internal/catalog"
)

// FakeCatalog serves a subset of the Google Books volumes API from memory.
type FakeCatalog struct {
	server *httptest.Server

	mu      sync.RWMutex
	volumes map[string]*catalog.Volume
	failing bool

	requests atomic.Int64
}

func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()

	fc := &FakeCatalog{volumes: make(map[string]*catalog.Volume)}

	mux := http.NewServeMux()
	mux.HandleFunc("/volumes/", fc.handleVolume)
	mux.HandleFunc("/volumes", fc.handleSearch)
	fc.server = httptest.NewServer(mux)

	t.Cleanup(fc.server.Close)
	return fc
}

func (fc *FakeCatalog) URL() string {
	return fc.server.URL
}

// AddVolume makes id resolvable and searchable by title.
func (fc *FakeCatalog) AddVolume(id, title string, authors ...string) *catalog.Volume {
	v := &catalog.Volume{
		ID: id,
		VolumeInfo: catalog.VolumeInfo{
			Title:         title,
			Authors:       authors,
			Publisher:     "Test Press",
			PublishedDate: "2020-01-01",
			Description:   "A book about " + title,
			ImageLinks: catalog.ImageLinks{
				Thumbnail: "https://books.example.com/" + id + ".jpg",
			},
		},
	}

	fc.mu.Lock()
	fc.volumes[id] = v
	fc.mu.Unlock()
	return v
}

// SetFailing makes every request return 503.
func (fc *FakeCatalog) SetFailing(failing bool) {
	fc.mu.Lock()
	fc.failing = failing
	fc.mu.Unlock()
}

// Requests returns how many requests reached the catalog.
func (fc *FakeCatalog) Requests() int64 {
	return fc.requests.Load()
}

func (fc *FakeCatalog) handleVolume(w http.ResponseWriter, r *http.Request) {
	fc.requests.Add(1)
	if fc.isFailing() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/volumes/")

	fc.mu.RLock()
	v, ok := fc.volumes[id]
	fc.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, v)
}

func (fc *FakeCatalog) handleSearch(w http.ResponseWriter, r *http.Request) {
	fc.requests.Add(1)
	if fc.isFailing() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	q := strings.ToLower(r.URL.Query().Get("q"))

	fc.mu.RLock()
	items := make([]*catalog.Volume, 0)
	for _, v := range fc.volumes {
		if strings.Contains(strings.ToLower(v.VolumeInfo.Title), q) {
			items = append(items, v)
		}
	}
	fc.mu.RUnlock()

	writeJSON(w, catalog.SearchResult{TotalItems: len(items), Items: items})
}

func (fc *FakeCatalog) isFailing() bool {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.failing
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
