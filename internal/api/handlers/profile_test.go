package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileData struct {
	ID            string               `json:"id"`
	FavoriteBooks []domain.BookSummary `json:"favoriteBooks"`
	Followers     []domain.UserRef     `json:"followers"`
	Following     []domain.UserRef     `json:"following"`
}

func TestProfileHandler_Favorites(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	book := testutil.NewBookBuilder().WithTitle("Middlemarch").Build(t, ts.DB.DB)

	tests := []struct {
		name            string
		path            string
		body            map[string]string
		expectedStatus  int
		expectedMessage string
		expectedCount   int
	}{
		{
			name:            "add",
			path:            "/auth/add-favorite",
			body:            map[string]string{"bookId": book.ID.String()},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Book added to favorites",
			expectedCount:   1,
		},
		{
			name:            "add again is idempotent",
			path:            "/auth/add-favorite",
			body:            map[string]string{"bookId": book.ID.String()},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Book added to favorites",
			expectedCount:   1,
		},
		{
			name:            "missing book id",
			path:            "/auth/add-favorite",
			body:            map[string]string{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "bookId is required",
		},
		{
			name:            "malformed book id",
			path:            "/auth/add-favorite",
			body:            map[string]string{"bookId": "abc"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "bookId must be a valid id",
		},
		{
			name:            "unknown book",
			path:            "/auth/add-favorite",
			body:            map[string]string{"bookId": uuid.New().String()},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Book not found",
		},
		{
			name:            "remove",
			path:            "/auth/delete-favorite",
			body:            map[string]string{"bookId": book.ID.String()},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Book removed from favorites",
			expectedCount:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL(tt.path), token, tt.body)

			if tt.expectedStatus != http.StatusOK {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedMessage)
				return
			}

			var profile profileData
			env := testutil.ReadEnvelope(t, resp, http.StatusOK, &profile)
			assert.Equal(t, tt.expectedMessage, env.Message)
			assert.Len(t, profile.FavoriteBooks, tt.expectedCount)
		})
	}

	t.Run("requires authentication", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/favorite-books"), "", nil)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Authentication required")
	})
}

func TestProfileHandler_Follow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	alice, aliceToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	bob, bobToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	feed := testutil.NewWSClient(t, ts.WebSocketURL(bobToken))
	require.Eventually(t, func() bool { return ts.Hub.ConnectionCount(bob.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/auth/follow-user/"+bob.ID.String()), aliceToken, nil)
	var profile profileData
	env := testutil.ReadEnvelope(t, resp, http.StatusOK, &profile)
	assert.Equal(t, "User followed successfully", env.Message)
	require.Len(t, profile.Following, 1)
	assert.Equal(t, bob.ID, profile.Following[0].ID)

	event := feed.ExpectActivity(domain.ActivityFollowed, 2*time.Second)
	assert.Equal(t, alice.ID, event.Actor.ID)
	assert.Equal(t, alice.Username, event.Actor.Username)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/user"), bobToken, nil)
	var bobProfile profileData
	testutil.ReadEnvelope(t, resp, http.StatusOK, &bobProfile)
	require.Len(t, bobProfile.Followers, 1)
	assert.Equal(t, alice.ID, bobProfile.Followers[0].ID)

	tests := []struct {
		name            string
		path            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "self follow",
			path:            "/auth/follow-user/" + alice.ID.String(),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "You cannot follow yourself",
		},
		{
			name:            "unknown user",
			path:            "/auth/follow-user/" + uuid.New().String(),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "User not found",
		},
		{
			name:            "malformed id",
			path:            "/auth/unfollow-user/nope",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "User ID must be a valid id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL(tt.path), aliceToken, nil)
			testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedMessage)
		})
	}

	t.Run("unfollow", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/auth/unfollow-user/"+bob.ID.String()), aliceToken, nil)
		var profile profileData
		env := testutil.ReadEnvelope(t, resp, http.StatusOK, &profile)
		assert.Equal(t, "User unfollowed successfully", env.Message)
		assert.Empty(t, profile.Following)
	})
}

func TestProfileHandler_Suggestions(t *testing.T) {
	ts := testutil.NewTestServer(t)
	alice, aliceToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	bob, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	t.Run("cold start", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/suggestions"), aliceToken, nil)
		env := testutil.ReadEnvelope(t, resp, http.StatusOK, nil)
		assert.True(t, env.Success)
		assert.Equal(t, "No suggestions available yet", env.Message)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	dune := testutil.NewBookBuilder().WithTitle("Dune").Build(t, ts.DB.DB)
	emma := testutil.NewBookBuilder().WithTitle("Emma").Build(t, ts.DB.DB)
	testutil.AddFavorites(t, ts.DB.DB, alice, dune)
	testutil.AddFavorites(t, ts.DB.DB, bob, dune, emma)

	t.Run("books from shared-taste readers", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/suggestions"), aliceToken, nil)

		var books []domain.BookSummary
		testutil.ReadEnvelope(t, resp, http.StatusOK, &books)
		require.Len(t, books, 1)
		assert.Equal(t, emma.ID, books[0].ID)
		assert.Equal(t, "Emma", books[0].Title)
	})
}
