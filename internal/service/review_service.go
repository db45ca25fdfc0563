package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadyReviewed = errors.New("you have already reviewed this book")
	ErrReviewNotFound  = errors.New("review not found")
	ErrNoReviews       = errors.New("no reviews found for this book")
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

type CreateReviewInput struct {
	BookID     uuid.UUID
	Rating     int
	ReviewText string
}

type UpdateReviewInput struct {
	Rating     *int
	ReviewText *string
}

// Create stores a review. A user may review a given book once.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewView, error) {
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if _, err := s.reviewRepo.GetByUserAndBook(ctx, userID, input.BookID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &domain.Review{
		ID:         uuid.New(),
		UserID:     userID,
		BookID:     input.BookID,
		Rating:     input.Rating,
		ReviewText: strings.TrimSpace(input.ReviewText),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	review.Book = book
	view := newReviewView(review)
	return &view, nil
}

func (s *ReviewService) ListForBook(ctx context.Context, bookID uuid.UUID) ([]ReviewView, error) {
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}
	return newReviewViews(reviews), nil
}

func (s *ReviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewView, error) {
	review, err := s.ownReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := domain.ValidateRating(*input.Rating); err != nil {
			return nil, err
		}
		review.Rating = *input.Rating
	}
	if input.ReviewText != nil {
		review.ReviewText = strings.TrimSpace(*input.ReviewText)
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	view := newReviewView(review)
	return &view, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	if _, err := s.ownReview(ctx, userID, reviewID); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

// ownReview hides other users' reviews behind ErrReviewNotFound.
func (s *ReviewService) ownReview(ctx context.Context, userID, reviewID uuid.UUID) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}
