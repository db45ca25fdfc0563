package service

import (
	"time"

	"github.com/dom/libriverse/internal/domain"
	"github.com/google/uuid"
)

// Response projections. They never carry credential fields.

type ReviewView struct {
	ID         uuid.UUID           `json:"id"`
	User       *domain.UserRef     `json:"user,omitempty"`
	BookID     uuid.UUID           `json:"bookId"`
	Book       *domain.BookSummary `json:"book,omitempty"`
	Rating     int                 `json:"rating"`
	ReviewText string              `json:"reviewText"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func newReviewView(r *domain.Review) ReviewView {
	v := ReviewView{
		ID:         r.ID,
		BookID:     r.BookID,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.User != nil {
		ref := r.User.Ref()
		v.User = &ref
	}
	if r.Book != nil {
		summary := r.Book.Summary()
		v.Book = &summary
	}
	return v
}

func newReviewViews(reviews []*domain.Review) []ReviewView {
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, newReviewView(r))
	}
	return out
}

type RecommendationView struct {
	ID                 uuid.UUID           `json:"id"`
	User               *domain.UserRef     `json:"user,omitempty"`
	BookID             uuid.UUID           `json:"bookId"`
	Book               *domain.BookSummary `json:"book,omitempty"`
	RecommendationText string              `json:"recommendationText"`
	Likes              []domain.UserRef    `json:"likes"`
	LikesCount         int                 `json:"likesCount"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func newRecommendationView(r *domain.Recommendation) RecommendationView {
	likes := r.Likers()
	v := RecommendationView{
		ID:                 r.ID,
		BookID:             r.BookID,
		RecommendationText: r.RecommendationText,
		Likes:              likes,
		LikesCount:         len(r.Likes),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.User != nil {
		ref := r.User.Ref()
		v.User = &ref
	}
	if r.Book != nil {
		summary := r.Book.Summary()
		v.Book = &summary
	}
	return v
}

func newRecommendationViews(recs []*domain.Recommendation) []RecommendationView {
	out := make([]RecommendationView, 0, len(recs))
	for _, r := range recs {
		out = append(out, newRecommendationView(r))
	}
	return out
}

type CommentView struct {
	ID               uuid.UUID       `json:"id"`
	RecommendationID uuid.UUID       `json:"recommendationId"`
	User             *domain.UserRef `json:"user,omitempty"`
	CommentText      string          `json:"commentText"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func newCommentView(c *domain.Comment) CommentView {
	v := CommentView{
		ID:               c.ID,
		RecommendationID: c.RecommendationID,
		CommentText:      c.CommentText,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.User != nil {
		ref := c.User.Ref()
		v.User = &ref
	}
	return v
}

func userRefs(users []*domain.User) []domain.UserRef {
	out := make([]domain.UserRef, 0, len(users))
	for _, u := range users {
		out = append(out, u.Ref())
	}
	return out
}
