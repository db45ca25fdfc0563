package service

import (
	"context"
	"errors"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	bookRepo     repository.BookRepository
	users        *UserService
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, bookRepo repository.BookRepository, users *UserService) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		bookRepo:     bookRepo,
		users:        users,
	}
}

// AddFavorite is idempotent: adding a book twice leaves one entry.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, bookID uuid.UUID) (*Profile, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if err := s.favoriteRepo.Add(ctx, userID, bookID); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			// Either side was deleted between the check and the insert.
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.users.GetProfile(ctx, userID)
}

// RemoveFavorite is a no-op when the book is not a favorite.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, bookID uuid.UUID) (*Profile, error) {
	if err := s.favoriteRepo.Remove(ctx, userID, bookID); err != nil {
		return nil, err
	}
	return s.users.GetProfile(ctx, userID)
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.BookSummary, error) {
	books, err := s.favoriteRepo.ListBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.SummarizeBooks(books), nil
}
