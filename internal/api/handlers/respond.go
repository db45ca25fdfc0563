package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dom/libriverse/internal/api/middleware"
	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/service"
	"github.com/dom/libriverse/internal/validation"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and returns false when the request should stop.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validation.Struct(dst); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.Validation(w, r, verr)
			return false
		}
		internalError(w, r, "handlers.decode", err)
		return false
	}
	return true
}

// pathID parses a UUID route parameter. name is used in the 400 message.
func pathID(w http.ResponseWriter, r *http.Request, param, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		response.Error(w, r, http.StatusBadRequest, name+" is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, name+" must be a valid id")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser reads the authenticated user id set by middleware.Auth.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// handleServiceError maps service and domain errors to status codes.
// Anything unrecognised is logged and reported as a generic 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, component string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrEmailExists):
		response.Error(w, r, http.StatusConflict, "User already exists")
	case errors.Is(err, service.ErrUsernameExists):
		response.Error(w, r, http.StatusConflict, "Username already exists")

	case errors.Is(err, service.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrBookNotFound):
		response.Error(w, r, http.StatusNotFound, "Book not found")
	case errors.Is(err, service.ErrReviewNotFound):
		response.Error(w, r, http.StatusNotFound, "Review not found")
	case errors.Is(err, service.ErrNoReviews):
		response.Error(w, r, http.StatusNotFound, "No reviews found for this book")
	case errors.Is(err, service.ErrRecommendationNotFound):
		response.Error(w, r, http.StatusNotFound, "Recommendation not found")
	case errors.Is(err, service.ErrCommentNotFound):
		response.Error(w, r, http.StatusNotFound, "Comment not found")

	case errors.Is(err, service.ErrCannotFollowSelf):
		response.Error(w, r, http.StatusBadRequest, "You cannot follow yourself")
	case errors.Is(err, service.ErrAlreadyReviewed):
		response.Error(w, r, http.StatusBadRequest, "You have already reviewed this book")
	case errors.Is(err, service.ErrEmptyText):
		response.Error(w, r, http.StatusBadRequest, "Text is required")
	case errors.Is(err, service.ErrEmptyQuery):
		response.Error(w, r, http.StatusBadRequest, "Search query is required")
	case errors.Is(err, domain.ErrInvalidRating):
		response.Error(w, r, http.StatusBadRequest, "rating must be between 1 and 5")

	case errors.Is(err, service.ErrCatalogUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Str("component", component).Msg("book catalog unavailable")
		response.Error(w, r, http.StatusBadGateway, "Book catalog unavailable")

	default:
		internalError(w, r, component, err)
	}
}

func internalError(w http.ResponseWriter, r *http.Request, component string, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Str("component", component).Msg("request failed")
	response.Error(w, r, http.StatusInternalServerError, "Internal server error")
}
