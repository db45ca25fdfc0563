package handlers

import (
	"net/http"

	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/service"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	recService *service.RecommendationService
}

func NewRecommendationHandler(recService *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recService: recService}
}

type CreateRecommendationRequest struct {
	BookID             string `json:"bookId" validate:"required,uuid"`
	RecommendationText string `json:"recommendationText" validate:"required"`
}

type UpdateRecommendationRequest struct {
	RecommendationText string `json:"recommendationText" validate:"required"`
}

func (h *RecommendationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateRecommendationRequest
	if !decode(w, r, &req) {
		return
	}

	rec, err := h.recService.Create(r.Context(), userID, uuid.MustParse(req.BookID), req.RecommendationText)
	if err != nil {
		handleServiceError(w, r, "handlers.CreateRecommendation", err)
		return
	}
	response.Success(w, r, http.StatusCreated, "Recommendation created successfully", rec)
}

func (h *RecommendationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	recs, err := h.recService.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, "handlers.UserRecommendations", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Recommendations fetched successfully", recs)
}

func (h *RecommendationHandler) All(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recService.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, r, "handlers.AllRecommendations", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Recommendations fetched successfully", recs)
}

func (h *RecommendationHandler) Top(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recService.Top(r.Context())
	if err != nil {
		handleServiceError(w, r, "handlers.TopRecommendations", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Top recommendations fetched successfully", recs)
}

func (h *RecommendationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recService.Recent(r.Context())
	if err != nil {
		handleServiceError(w, r, "handlers.RecentRecommendations", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Recent recommendations fetched successfully", recs)
}

func (h *RecommendationHandler) ByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookId", "Book ID")
	if !ok {
		return
	}

	recs, err := h.recService.ListByBook(r.Context(), bookID)
	if err != nil {
		handleServiceError(w, r, "handlers.BookRecommendations", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Recommendations fetched successfully", recs)
}

func (h *RecommendationHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId", "User ID")
	if !ok {
		return
	}

	recs, err := h.recService.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, "handlers.UserRecommendations", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Recommendations fetched successfully", recs)
}

func (h *RecommendationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	recID, ok := pathID(w, r, "recommendationId", "Recommendation ID")
	if !ok {
		return
	}

	var req UpdateRecommendationRequest
	if !decode(w, r, &req) {
		return
	}

	rec, err := h.recService.Update(r.Context(), userID, recID, req.RecommendationText)
	if err != nil {
		handleServiceError(w, r, "handlers.UpdateRecommendation", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Recommendation updated successfully", rec)
}

// Like toggles the caller's like.
func (h *RecommendationHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	recID, ok := pathID(w, r, "recommendationId", "Recommendation ID")
	if !ok {
		return
	}

	result, err := h.recService.ToggleLike(r.Context(), userID, recID)
	if err != nil {
		handleServiceError(w, r, "handlers.LikeRecommendation", err)
		return
	}

	message := "Recommendation unliked"
	if result.Liked {
		message = "Recommendation liked"
	}
	response.Success(w, r, http.StatusOK, message, result)
}

func (h *RecommendationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	recID, ok := pathID(w, r, "recommendationId", "Recommendation ID")
	if !ok {
		return
	}

	if err := h.recService.Delete(r.Context(), userID, recID); err != nil {
		handleServiceError(w, r, "handlers.DeleteRecommendation", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Recommendation deleted successfully", nil)
}
