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

const highlightLimit = 5

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrEmptyText              = errors.New("text is required")
)

type RecommendationService struct {
	recRepo  repository.RecommendationRepository
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	notifier ActivityNotifier
}

func NewRecommendationService(recRepo repository.RecommendationRepository, bookRepo repository.BookRepository, userRepo repository.UserRepository, notifier ActivityNotifier) *RecommendationService {
	return &RecommendationService{
		recRepo:  recRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

func (s *RecommendationService) Create(ctx context.Context, userID, bookID uuid.UUID, text string) (*RecommendationView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	rec := &domain.Recommendation{
		ID:                 uuid.New(),
		UserID:             userID,
		BookID:             bookID,
		RecommendationText: text,
	}
	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return s.Get(ctx, rec.ID)
}

func (s *RecommendationService) Get(ctx context.Context, id uuid.UUID) (*RecommendationView, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newRecommendationView(rec)
	return &view, nil
}

func (s *RecommendationService) ListAll(ctx context.Context) ([]RecommendationView, error) {
	return s.list(ctx, repository.RecommendationFilter{})
}

func (s *RecommendationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]RecommendationView, error) {
	return s.list(ctx, repository.RecommendationFilter{UserID: &userID})
}

func (s *RecommendationService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]RecommendationView, error) {
	return s.list(ctx, repository.RecommendationFilter{BookID: &bookID})
}

// Top returns the five most liked recommendations.
func (s *RecommendationService) Top(ctx context.Context) ([]RecommendationView, error) {
	recs, err := s.recRepo.TopLiked(ctx, highlightLimit)
	if err != nil {
		return nil, err
	}
	return newRecommendationViews(recs), nil
}

// Recent returns the five newest recommendations.
func (s *RecommendationService) Recent(ctx context.Context) ([]RecommendationView, error) {
	recs, err := s.recRepo.Recent(ctx, highlightLimit)
	if err != nil {
		return nil, err
	}
	return newRecommendationViews(recs), nil
}

func (s *RecommendationService) Update(ctx context.Context, userID, id uuid.UUID, text string) (*RecommendationView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	rec, err := s.own(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rec.RecommendationText = text
	if err := s.recRepo.Update(ctx, rec); err != nil {
		return nil, err
	}

	view := newRecommendationView(rec)
	return &view, nil
}

func (s *RecommendationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.own(ctx, userID, id); err != nil {
		return err
	}
	return s.recRepo.Delete(ctx, id)
}

// ToggleLike flips userID's like on the recommendation. The author is
// notified of new likes from other users.
func (s *RecommendationService) ToggleLike(ctx context.Context, userID, id uuid.UUID) (*LikeResult, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	liked, count, err := s.recRepo.ToggleLike(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}

	if liked && rec.UserID != userID {
		if actor, err := s.userRepo.GetByID(ctx, userID); err == nil {
			notify(s.notifier, rec.UserID, domain.ActivityRecommendationLiked, actor.Ref(), &rec.ID)
		}
	}

	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

func (s *RecommendationService) list(ctx context.Context, filter repository.RecommendationFilter) ([]RecommendationView, error) {
	recs, err := s.recRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newRecommendationViews(recs), nil
}

func (s *RecommendationService) find(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	rec, err := s.recRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *RecommendationService) own(ctx context.Context, userID, id uuid.UUID) (*domain.Recommendation, error) {
	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrRecommendationNotFound
	}
	return rec, nil
}
