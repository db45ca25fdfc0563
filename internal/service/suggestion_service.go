package service

import (
	"context"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/metrics"
	"github.com/dom/libriverse/internal/repository"
	"github.com/dom/libriverse/internal/suggest"
	"github.com/google/uuid"
)

type SuggestionService struct {
	favoriteRepo repository.FavoriteRepository
	bookRepo     repository.BookRepository
}

func NewSuggestionService(favoriteRepo repository.FavoriteRepository, bookRepo repository.BookRepository) *SuggestionService {
	return &SuggestionService{
		favoriteRepo: favoriteRepo,
		bookRepo:     bookRepo,
	}
}

// SuggestBooks returns books favorited by users who share a favorite with
// userID, excluding userID's own favorites. A user without favorites gets an
// empty list.
func (s *SuggestionService) SuggestBooks(ctx context.Context, userID uuid.UUID) ([]domain.BookSummary, error) {
	snap, err := s.favoriteRepo.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := suggest.Compute(snap.Own, snap.Neighbors)
	metrics.SuggestionResultSize.Observe(float64(len(ids)))
	if len(ids) == 0 {
		return []domain.BookSummary{}, nil
	}

	books, err := s.bookRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return domain.SummarizeBooks(books), nil
}
