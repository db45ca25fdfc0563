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

var ErrCommentNotFound = errors.New("comment not found")

type CommentService struct {
	commentRepo repository.CommentRepository
	recRepo     repository.RecommendationRepository
	notifier    ActivityNotifier
}

func NewCommentService(commentRepo repository.CommentRepository, recRepo repository.RecommendationRepository, notifier ActivityNotifier) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		recRepo:     recRepo,
		notifier:    notifier,
	}
}

func (s *CommentService) Create(ctx context.Context, userID, recommendationID uuid.UUID, text string) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	rec, err := s.recRepo.GetByID(ctx, recommendationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		ID:               uuid.New(),
		UserID:           userID,
		RecommendationID: recommendationID,
		CommentText:      text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}

	stored, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	if stored.User != nil {
		notify(s.notifier, rec.UserID, domain.ActivityRecommendationCommented, stored.User.Ref(), &rec.ID)
	}

	view := newCommentView(stored)
	return &view, nil
}

func (s *CommentService) List(ctx context.Context, recommendationID uuid.UUID) ([]CommentView, error) {
	if _, err := s.recRepo.GetByID(ctx, recommendationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, err
	}

	comments, err := s.commentRepo.ListByRecommendation(ctx, recommendationID)
	if err != nil {
		return nil, err
	}

	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, newCommentView(c))
	}
	return out, nil
}

func (s *CommentService) Update(ctx context.Context, userID, commentID uuid.UUID, text string) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	comment, err := s.own(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	comment.CommentText = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	view := newCommentView(comment)
	return &view, nil
}

func (s *CommentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	if _, err := s.own(ctx, userID, commentID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *CommentService) own(ctx context.Context, userID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
