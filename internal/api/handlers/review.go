package handlers

import (
	"net/http"

	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/service"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type CreateReviewRequest struct {
	BookID     string `json:"bookId" validate:"required,uuid"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText string `json:"reviewText"`
}

type UpdateReviewRequest struct {
	Rating     *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	ReviewText *string `json:"reviewText"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if !decode(w, r, &req) {
		return
	}

	review, err := h.reviewService.Create(r.Context(), userID, service.CreateReviewInput{
		BookID:     uuid.MustParse(req.BookID),
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		handleServiceError(w, r, "handlers.CreateReview", err)
		return
	}
	response.Success(w, r, http.StatusCreated, "Review created successfully", review)
}

func (h *ReviewHandler) ListForBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookId", "Book ID")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForBook(r.Context(), bookID)
	if err != nil {
		handleServiceError(w, r, "handlers.ListReviews", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Reviews fetched successfully", reviews)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "reviewId", "Review ID")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if !decode(w, r, &req) {
		return
	}

	review, err := h.reviewService.Update(r.Context(), userID, reviewID, service.UpdateReviewInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		handleServiceError(w, r, "handlers.UpdateReview", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Updated review successfully", review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "reviewId", "Review ID")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(r.Context(), userID, reviewID); err != nil {
		handleServiceError(w, r, "handlers.DeleteReview", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Review deleted successfully", nil)
}
