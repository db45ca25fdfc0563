package testutil

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the decoded form of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	Data    json.RawMessage   `json:"data"`
	Fields  map[string]string `json:"fields"`
}

// DoJSON sends body as JSON. A non-empty token is sent as a Bearer header
// by a non-browser client.
func DoJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err, "failed to build request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Client", "not-browser")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "request failed")
	return resp
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// ReadEnvelope checks the status code and decodes the envelope. When data
// is non-nil the envelope's data is decoded into it.
func ReadEnvelope(t *testing.T, resp *http.Response, expectedStatus int, data interface{}) Envelope {
	t.Helper()
	defer resp.Body.Close()

	var env Envelope
	AssertJSONResponse(t, resp, &env)
	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code: %s", env.Message)

	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), "failed to decode data: %s", string(env.Data))
	}
	return env
}

// AssertErrorResponse verifies a failure envelope with the expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()
	defer resp.Body.Close()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var env Envelope
	AssertJSONResponse(t, resp, &env)
	assert.False(t, env.Success, "expected success=false")
	assert.Equal(t, expectedMessage, env.Message, "error message mismatch")
}
