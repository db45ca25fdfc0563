package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/service"
	"github.com/dom/libriverse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookHandler_GetBook(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Catalog.AddVolume("vol-1", "Persuasion", "Jane Austen")

	var first domain.Book
	t.Run("first request fetches from the catalog", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/book/get-book?googleBooksId=vol-1"), "", nil)
		env := testutil.ReadEnvelope(t, resp, http.StatusCreated, &first)
		assert.Equal(t, "Book fetched successfully", env.Message)
		assert.Equal(t, "Persuasion", first.Title)
		assert.Equal(t, []string{"Jane Austen"}, []string(first.Authors))
	})

	t.Run("second request is served from storage", func(t *testing.T) {
		requests := ts.Catalog.Requests()

		var again domain.Book
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/book/get-book?googleBooksId=vol-1"), "", nil)
		env := testutil.ReadEnvelope(t, resp, http.StatusOK, &again)
		assert.Equal(t, "Book already exists", env.Message)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, requests, ts.Catalog.Requests())
	})

	tests := []struct {
		name            string
		query           string
		failing         bool
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "missing id",
			query:           "",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Google Books ID is required",
		},
		{
			name:            "unknown volume",
			query:           "?googleBooksId=nope",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Book not found",
		},
		{
			name:            "catalog down",
			query:           "?googleBooksId=vol-2",
			failing:         true,
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "Book catalog unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.Catalog.SetFailing(tt.failing)
			defer ts.Catalog.SetFailing(false)

			resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/book/get-book"+tt.query), "", nil)
			testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedMessage)
		})
	}
}

func TestBookHandler_Search(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Catalog.AddVolume("vol-1", "Emma", "Jane Austen")
	ts.Catalog.AddVolume("vol-2", "Ulysses", "James Joyce")

	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/book/search?q=emma&limit=5"), "", nil)

	var result service.SearchResult
	testutil.ReadEnvelope(t, resp, http.StatusOK, &result)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "vol-1", result.Items[0].GoogleBooksID)
	assert.Equal(t, 1, result.TotalItems)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/book/search?q="), "", nil)
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Search query is required")
}
