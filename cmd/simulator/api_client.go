package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// APIClient handles HTTP communication with the backend as a non-browser
// client: the session token travels in the Authorization header.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Book struct {
	ID            string   `json:"id"`
	GoogleBooksID string   `json:"googleBooksId"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
}

type Recommendation struct {
	ID                 string `json:"id"`
	RecommendationText string `json:"recommendationText"`
	LikesCount         int    `json:"likesCount"`
}

// Session is a signed-in simulated reader.
type Session struct {
	User  User
	Token string
}

func (c *APIClient) Signup(username, email, password string) (*User, error) {
	var user User
	_, err := c.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"bio":      "Simulated reader",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *APIClient) Signin(email, password string) (*Session, error) {
	var user User
	env, err := c.do(http.MethodPost, "/auth/signin", "", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: env.Token}, nil
}

func (c *APIClient) GetBook(googleBooksID string) (*Book, error) {
	var book Book
	_, err := c.do(http.MethodGet, "/book/get-book?googleBooksId="+url.QueryEscape(googleBooksID), "", nil, &book)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *APIClient) AddFavorite(token, bookID string) error {
	_, err := c.do(http.MethodPatch, "/auth/add-favorite", token, map[string]string{"bookId": bookID}, nil)
	return err
}

func (c *APIClient) Follow(token, userID string) error {
	_, err := c.do(http.MethodPatch, "/auth/follow-user/"+userID, token, nil, nil)
	return err
}

func (c *APIClient) Recommend(token, bookID, text string) (*Recommendation, error) {
	var rec Recommendation
	_, err := c.do(http.MethodPost, "/recommendation/create-recommendation", token, map[string]string{
		"bookId":             bookID,
		"recommendationText": text,
	}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *APIClient) Like(token, recommendationID string) error {
	_, err := c.do(http.MethodPatch, "/recommendation/like-recommendation/"+recommendationID, token, nil, nil)
	return err
}

func (c *APIClient) Suggestions(token string) ([]Book, string, error) {
	var books []Book
	env, err := c.do(http.MethodGet, "/auth/suggestions", token, nil, &books)
	if err != nil {
		return nil, "", err
	}
	return books, env.Message, nil
}

func (c *APIClient) TopRecommendations(token string) ([]Recommendation, error) {
	var recs []Recommendation
	if _, err := c.do(http.MethodGet, "/recommendation/top", token, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *APIClient) do(method, path, token string, body, out interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client", "not-browser")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, string(raw))
	}
	if resp.StatusCode >= 300 || !env.Success {
		return nil, fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return &env, nil
}
