package repository

import (
	"context"

	"github.com/dom/libriverse/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// FavoriteSnapshot is a consistent view of one user's favorites and the
// favorites of every user who shares at least one of them.
type FavoriteSnapshot struct {
	Own       []uuid.UUID
	Neighbors map[uuid.UUID][]uuid.UUID
}

type FavoriteRepository interface {
	// Add is a no-op when the book is already a favorite.
	Add(ctx context.Context, userID, bookID uuid.UUID) error
	Remove(ctx context.Context, userID, bookID uuid.UUID) error
	ListBooks(ctx context.Context, userID uuid.UUID) ([]*domain.Book, error)
	Snapshot(ctx context.Context, userID uuid.UUID) (*FavoriteSnapshot, error)
}

type FollowRepository interface {
	// Follow returns false when the edge already existed.
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID) ([]*domain.User, error)
	Following(ctx context.Context, userID uuid.UUID) ([]*domain.User, error)
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	GetByGoogleID(ctx context.Context, googleBooksID string) (*domain.Book, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Book, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	GetByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*domain.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecommendationFilter struct {
	UserID *uuid.UUID
	BookID *uuid.UUID
}

type RecommendationRepository interface {
	Create(ctx context.Context, rec *domain.Recommendation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error)
	List(ctx context.Context, filter RecommendationFilter) ([]*domain.Recommendation, error)
	TopLiked(ctx context.Context, limit int) ([]*domain.Recommendation, error)
	Recent(ctx context.Context, limit int) ([]*domain.Recommendation, error)
	Update(ctx context.Context, rec *domain.Recommendation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleLike(ctx context.Context, recommendationID, userID uuid.UUID) (liked bool, likes int64, err error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByRecommendation(ctx context.Context, recommendationID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User           UserRepository
	Favorite       FavoriteRepository
	Follow         FollowRepository
	Book           BookRepository
	Review         ReviewRepository
	Recommendation RecommendationRepository
	Comment        CommentRepository
}
