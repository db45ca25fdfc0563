package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/libriverse/internal/catalog"
	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrCatalogUnavailable = errors.New("book catalog unavailable")
	ErrEmptyQuery         = errors.New("search query is required")
)

// BookCatalog is the remote source of book metadata.
type BookCatalog interface {
	GetVolume(ctx context.Context, id string) (*catalog.Volume, error)
	Search(ctx context.Context, query string, page, limit int) (*catalog.SearchResult, error)
}

// CatalogBook is a search hit. It is not stored until someone opens it.
type CatalogBook struct {
	GoogleBooksID string   `json:"googleBooksId"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	CoverImage    string   `json:"coverImage"`
}

type SearchResult struct {
	TotalItems int           `json:"totalItems"`
	Items      []CatalogBook `json:"items"`
}

type BookService struct {
	bookRepo repository.BookRepository
	catalog  BookCatalog
}

func NewBookService(bookRepo repository.BookRepository, catalog BookCatalog) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		catalog:  catalog,
	}
}

// GetOrFetch returns the cached book for googleBooksID, fetching and storing
// it on first use. created reports whether this call stored it.
func (s *BookService) GetOrFetch(ctx context.Context, googleBooksID string) (book *domain.Book, created bool, err error) {
	googleBooksID = strings.TrimSpace(googleBooksID)

	book, err = s.bookRepo.GetByGoogleID(ctx, googleBooksID)
	if err == nil {
		return book, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	volume, err := s.catalog.GetVolume(ctx, googleBooksID)
	if err != nil {
		if errors.Is(err, catalog.ErrVolumeNotFound) {
			return nil, false, ErrBookNotFound
		}
		return nil, false, errors.Join(ErrCatalogUnavailable, err)
	}

	book = bookFromVolume(googleBooksID, volume)
	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent request stored it first.
			existing, lookupErr := s.bookRepo.GetByGoogleID(ctx, googleBooksID)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return book, true, nil
}

func (s *BookService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) Search(ctx context.Context, query string, page, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	result, err := s.catalog.Search(ctx, query, page, limit)
	if err != nil {
		return nil, errors.Join(ErrCatalogUnavailable, err)
	}

	items := make([]CatalogBook, 0, len(result.Items))
	for _, v := range result.Items {
		items = append(items, catalogBook(v))
	}
	return &SearchResult{TotalItems: result.TotalItems, Items: items}, nil
}

func bookFromVolume(googleBooksID string, v *catalog.Volume) *domain.Book {
	info := catalogBook(v)
	if info.GoogleBooksID == "" {
		info.GoogleBooksID = googleBooksID
	}
	return &domain.Book{
		ID:            uuid.New(),
		GoogleBooksID: info.GoogleBooksID,
		Title:         info.Title,
		Authors:       datatypes.JSONSlice[string](info.Authors),
		Publisher:     info.Publisher,
		Description:   info.Description,
		CoverImage:    info.CoverImage,
		PublishedDate: info.PublishedDate,
	}
}

func catalogBook(v *catalog.Volume) CatalogBook {
	authors := v.VolumeInfo.Authors
	if authors == nil {
		authors = []string{}
	}
	cover := v.VolumeInfo.ImageLinks.Thumbnail
	if cover == "" {
		cover = v.VolumeInfo.ImageLinks.SmallThumbnail
	}
	return CatalogBook{
		GoogleBooksID: v.ID,
		Title:         v.VolumeInfo.Title,
		Authors:       authors,
		Publisher:     v.VolumeInfo.Publisher,
		PublishedDate: v.VolumeInfo.PublishedDate,
		Description:   v.VolumeInfo.Description,
		CoverImage:    cover,
	}
}
