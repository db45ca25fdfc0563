package handlers

import (
	"net/http"

	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/service"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CreateCommentRequest struct {
	RecommendationID string `json:"recommendationId" validate:"required,uuid"`
	CommentText      string `json:"commentText" validate:"required"`
}

type UpdateCommentRequest struct {
	CommentText string `json:"commentText" validate:"required"`
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !decode(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, uuid.MustParse(req.RecommendationID), req.CommentText)
	if err != nil {
		handleServiceError(w, r, "handlers.CreateComment", err)
		return
	}
	response.Success(w, r, http.StatusCreated, "Comment created successfully", comment)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	recID, ok := pathID(w, r, "recommendationId", "Recommendation ID")
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), recID)
	if err != nil {
		handleServiceError(w, r, "handlers.ListComments", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Comments fetched successfully", comments)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId", "Comment ID")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if !decode(w, r, &req) {
		return
	}

	comment, err := h.commentService.Update(r.Context(), userID, commentID, req.CommentText)
	if err != nil {
		handleServiceError(w, r, "handlers.UpdateComment", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Comment updated successfully", comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId", "Comment ID")
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, commentID); err != nil {
		handleServiceError(w, r, "handlers.DeleteComment", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Comment deleted successfully", nil)
}
