package testutil

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dom/libriverse/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultPassword satisfies the signup password rules.
const DefaultPassword = "password!123"

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
	bio      string
}

// NewUserBuilder creates a new UserBuilder with unique default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: "reader_" + suffix,
		email:    fmt.Sprintf("reader_%s@example.com", suffix),
		password: DefaultPassword,
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithBio(bio string) *UserBuilder {
	b.bio = bio
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.ToLower(b.username),
		Email:        strings.ToLower(b.email),
		PasswordHash: string(hashedPassword),
		Bio:          b.bio,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// SigninResponse matches the signin response body
type SigninResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Data    domain.User `json:"data"`
}

// BuildAndAuthenticate signs the user up and in through the API and returns
// the user and session token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	resp := DoJSON(t, http.MethodPost, ts.APIURL("/auth/signup"), "", map[string]string{
		"username": b.username,
		"email":    b.email,
		"password": b.password,
		"bio":      b.bio,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected signup status code: %d", resp.StatusCode)
	}

	resp = DoJSON(t, http.MethodPost, ts.APIURL("/auth/signin"), "", map[string]string{
		"email":    b.email,
		"password": b.password,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected signin status code: %d", resp.StatusCode)
	}

	var signin SigninResponse
	AssertJSONResponse(t, resp, &signin)

	user := signin.Data
	return &user, signin.Token
}

// BookBuilder creates cached books directly in the database
type BookBuilder struct {
	googleBooksID string
	title         string
	authors       []string
}

func NewBookBuilder() *BookBuilder {
	suffix := uuid.New().String()[:8]
	return &BookBuilder{
		googleBooksID: "gb_" + suffix,
		title:         "Book " + suffix,
		authors:       []string{"Test Author"},
	}
}

func (b *BookBuilder) WithGoogleBooksID(id string) *BookBuilder {
	b.googleBooksID = id
	return b
}

func (b *BookBuilder) WithTitle(title string) *BookBuilder {
	b.title = title
	return b
}

func (b *BookBuilder) WithAuthors(authors ...string) *BookBuilder {
	b.authors = authors
	return b
}

func (b *BookBuilder) Build(t *testing.T, db *gorm.DB) *domain.Book {
	t.Helper()

	book := &domain.Book{
		ID:            uuid.New(),
		GoogleBooksID: b.googleBooksID,
		Title:         b.title,
		Authors:       datatypes.JSONSlice[string](b.authors),
		Publisher:     "Test Press",
		PublishedDate: "2020-01-01",
	}

	if err := db.Create(book).Error; err != nil {
		t.Fatalf("failed to create book: %v", err)
	}
	return book
}

// RecommendationBuilder creates recommendations with optional likes
type RecommendationBuilder struct {
	author    *domain.User
	book      *domain.Book
	text      string
	likedBy   []*domain.User
	createdAt time.Time
}

func NewRecommendationBuilder() *RecommendationBuilder {
	return &RecommendationBuilder{
		text:      "You should read this",
		createdAt: time.Now(),
	}
}

func (b *RecommendationBuilder) WithAuthor(user *domain.User) *RecommendationBuilder {
	b.author = user
	return b
}

func (b *RecommendationBuilder) WithBook(book *domain.Book) *RecommendationBuilder {
	b.book = book
	return b
}

func (b *RecommendationBuilder) WithText(text string) *RecommendationBuilder {
	b.text = text
	return b
}

func (b *RecommendationBuilder) LikedBy(users ...*domain.User) *RecommendationBuilder {
	b.likedBy = append(b.likedBy, users...)
	return b
}

func (b *RecommendationBuilder) CreatedAt(at time.Time) *RecommendationBuilder {
	b.createdAt = at
	return b
}

func (b *RecommendationBuilder) Build(t *testing.T, db *gorm.DB) *domain.Recommendation {
	t.Helper()

	if b.author == nil || b.book == nil {
		t.Fatalf("recommendation builder needs an author and a book")
	}

	rec := &domain.Recommendation{
		ID:                 uuid.New(),
		UserID:             b.author.ID,
		BookID:             b.book.ID,
		RecommendationText: b.text,
		CreatedAt:          b.createdAt,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create recommendation: %v", err)
	}

	for _, u := range b.likedBy {
		like := &domain.RecommendationLike{RecommendationID: rec.ID, UserID: u.ID}
		if err := db.Create(like).Error; err != nil {
			t.Fatalf("failed to create like: %v", err)
		}
	}

	return rec
}

// AddFavorites stores favorites directly, bypassing the API.
func AddFavorites(t *testing.T, db *gorm.DB, user *domain.User, books ...*domain.Book) {
	t.Helper()

	for _, book := range books {
		fav := &domain.FavoriteBook{UserID: user.ID, BookID: book.ID}
		if err := db.Create(fav).Error; err != nil {
			t.Fatalf("failed to add favorite: %v", err)
		}
	}
}
