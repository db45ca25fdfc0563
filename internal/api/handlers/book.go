package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/service"
)

const defaultSearchLimit = 10

type BookHandler struct {
	bookService *service.BookService
}

func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// GetBook returns the stored book for ?googleBooksId=, fetching it from the
// catalog on first request.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	googleBooksID := strings.TrimSpace(r.URL.Query().Get("googleBooksId"))
	if googleBooksID == "" {
		response.Error(w, r, http.StatusBadRequest, "Google Books ID is required")
		return
	}

	book, created, err := h.bookService.GetOrFetch(r.Context(), googleBooksID)
	if err != nil {
		handleServiceError(w, r, "handlers.GetBook", err)
		return
	}

	if created {
		response.Success(w, r, http.StatusCreated, "Book fetched successfully", book)
		return
	}
	response.Success(w, r, http.StatusOK, "Book already exists", book)
}

func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := intParam(query.Get("page"), 0)
	limit := intParam(query.Get("limit"), defaultSearchLimit)

	result, err := h.bookService.Search(r.Context(), query.Get("q"), page, limit)
	if err != nil {
		handleServiceError(w, r, "handlers.SearchBooks", err)
		return
	}
	response.Success(w, r, http.StatusOK, "Books fetched successfully", result)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
