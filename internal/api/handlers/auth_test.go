package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dom/libriverse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Signup(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name            string
		request         map[string]string
		setup           func()
		expectedStatus  int
		expectedMessage string
		expectedField   string
	}{
		{
			name: "successful signup",
			request: map[string]string{
				"username": "newreader",
				"email":    "newreader@example.com",
				"password": testutil.DefaultPassword,
			},
			expectedStatus:  http.StatusCreated,
			expectedMessage: "Your account for newreader@example.com has been created successfully",
		},
		{
			name: "invalid email",
			request: map[string]string{
				"username": "reader",
				"email":    "not-an-email",
				"password": testutil.DefaultPassword,
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "email must be a valid email address",
			expectedField:   "email",
		},
		{
			name: "email with unsupported domain",
			request: map[string]string{
				"username": "reader",
				"email":    "reader@example.org",
				"password": testutil.DefaultPassword,
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "email must end in .com or .net",
			expectedField:   "email",
		},
		{
			name: "password without special character",
			request: map[string]string{
				"username": "reader",
				"email":    "reader@example.com",
				"password": "password123",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "password must contain at least one special character",
			expectedField:   "password",
		},
		{
			name: "duplicate email",
			request: map[string]string{
				"username": "someoneelse",
				"email":    "existing@example.com",
				"password": testutil.DefaultPassword,
			},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("existing@example.com").Build(t, ts.DB.DB)
			},
			expectedStatus:  http.StatusConflict,
			expectedMessage: "User already exists",
		},
		{
			name:            "empty request body",
			request:         map[string]string{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "username is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/signup"), "", tt.request)
			env := testutil.ReadEnvelope(t, resp, tt.expectedStatus, nil)
			assert.Equal(t, tt.expectedMessage, env.Message)
			assert.Equal(t, tt.expectedStatus < 300, env.Success)
			if tt.expectedField != "" {
				assert.Contains(t, env.Fields, tt.expectedField)
			}
			assert.NotContains(t, string(env.Data), "password")
		})
	}
}

func TestAuthHandler_Signin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	t.Run("sets the session cookie", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
			"email":    user.Email,
			"password": password,
		})
		env := testutil.ReadEnvelope(t, resp, http.StatusOK, nil)
		assert.True(t, env.Success)
		assert.Equal(t, "Logged in successfully", env.Message)
		require.NotEmpty(t, env.Token)

		var session *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == "Authorization" {
				session = c
			}
		}
		require.NotNil(t, session, "session cookie not set")
		assert.Equal(t, "Bearer "+env.Token, session.Value)
		assert.True(t, session.HttpOnly)
		assert.Equal(t, 8*60*60, session.MaxAge)
	})

	failures := []struct {
		name  string
		email string
	}{
		{name: "wrong password", email: user.Email},
		{name: "unknown email", email: "nobody@example.com"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
				"email":    tt.email,
				"password": "wrong!password",
			})
			testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid email or password")
		})
	}
}

func TestAuthHandler_Session(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().WithBio("Loves long novels").BuildAndAuthenticate(t, ts)

	t.Run("current user with header", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/user"), token, nil)

		var profile struct {
			ID            string        `json:"id"`
			Username      string        `json:"username"`
			Bio           string        `json:"bio"`
			FavoriteBooks []interface{} `json:"favoriteBooks"`
			Followers     []interface{} `json:"followers"`
		}
		testutil.ReadEnvelope(t, resp, http.StatusOK, &profile)
		assert.Equal(t, user.ID.String(), profile.ID)
		assert.Equal(t, "Loves long novels", profile.Bio)
		assert.NotNil(t, profile.FavoriteBooks)
		assert.NotNil(t, profile.Followers)
	})

	t.Run("current user with cookie", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/user"), nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "Authorization", Value: "Bearer " + token})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		testutil.ReadEnvelope(t, resp, http.StatusOK, nil)
	})

	t.Run("bad cookie is cleared", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/user"), nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "Authorization", Value: "Bearer forged"})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid or expired token")

		cleared := false
		for _, c := range resp.Cookies() {
			if c.Name == "Authorization" && c.MaxAge < 0 {
				cleared = true
			}
		}
		assert.True(t, cleared, "expected the session cookie to be cleared")
	})

	t.Run("non-browser client without header", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/user"), nil)
		require.NoError(t, err)
		req.Header.Set("Client", "not-browser")
		req.AddCookie(&http.Cookie{Name: "Authorization", Value: "Bearer " + token})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Authentication required")
	})

	t.Run("public user info", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/user-info/"+user.ID.String()), "", nil)
		env := testutil.ReadEnvelope(t, resp, http.StatusOK, nil)
		assert.True(t, strings.Contains(string(env.Data), `"recommendations":[]`))
		assert.True(t, strings.Contains(string(env.Data), `"reviews":[]`))
	})

	t.Run("signout clears the cookie", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/signout"), token, nil)
		env := testutil.ReadEnvelope(t, resp, http.StatusOK, nil)
		assert.Equal(t, "Logged out successfully", env.Message)

		require.NotEmpty(t, resp.Cookies())
		assert.Less(t, resp.Cookies()[0].MaxAge, 0)
	})
}
