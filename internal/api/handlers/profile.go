package handlers

import (
	"net/http"

	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/service"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	favoriteService   *service.FavoriteService
	followService     *service.FollowService
	suggestionService *service.SuggestionService
}

func NewProfileHandler(favoriteService *service.FavoriteService, followService *service.FollowService, suggestionService *service.SuggestionService) *ProfileHandler {
	return &ProfileHandler{
		favoriteService:   favoriteService,
		followService:     followService,
		suggestionService: suggestionService,
	}
}

// FavoriteRequest is the body of add-favorite and delete-favorite.
type FavoriteRequest struct {
	BookID string `json:"bookId" validate:"required,uuid"`
}

func (h *ProfileHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := h.favoriteRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.favoriteService.AddFavorite(r.Context(), userID, bookID)
	if err != nil {
		handleServiceError(w, r, "handlers.AddFavorite", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Book added to favorites", profile)
}

func (h *ProfileHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := h.favoriteRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.favoriteService.RemoveFavorite(r.Context(), userID, bookID)
	if err != nil {
		handleServiceError(w, r, "handlers.DeleteFavorite", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Book removed from favorites", profile)
}

func (h *ProfileHandler) FavoriteBooks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	books, err := h.favoriteService.ListFavorites(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, "handlers.FavoriteBooks", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Favorite books fetched successfully", books)
}

func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "UserId", "User ID")
	if !ok {
		return
	}

	profile, err := h.followService.Follow(r.Context(), userID, targetID)
	if err != nil {
		handleServiceError(w, r, "handlers.Follow", err)
		return
	}
	response.Success(w, r, http.StatusOK, "User followed successfully", profile)
}

func (h *ProfileHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "UserId", "User ID")
	if !ok {
		return
	}

	profile, err := h.followService.Unfollow(r.Context(), userID, targetID)
	if err != nil {
		handleServiceError(w, r, "handlers.Unfollow", err)
		return
	}
	response.Success(w, r, http.StatusOK, "User unfollowed successfully", profile)
}

// Suggestions lists books favored by users who share a favorite with the
// caller. An empty list is a success.
func (h *ProfileHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	books, err := h.suggestionService.SuggestBooks(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, "handlers.Suggestions", err)
		return
	}

	message := "Suggestions fetched successfully"
	if len(books) == 0 {
		message = "No suggestions available yet"
	}
	response.Success(w, r, http.StatusOK, message, books)
}

func (h *ProfileHandler) favoriteRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	var req FavoriteRequest
	if !decode(w, r, &req) {
		return uuid.Nil, uuid.Nil, false
	}
	// Validated as a uuid above.
	return userID, uuid.MustParse(req.BookID), true
}
