package postgres

import (
	"context"

	"github.com/dom/libriverse/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *bookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	var book domain.Book
	err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) GetByGoogleID(ctx context.Context, googleBooksID string) (*domain.Book, error) {
	var book domain.Book
	err := r.db.WithContext(ctx).First(&book, "google_books_id = ?", googleBooksID).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByIDs returns the books in the order of ids, skipping unknown ids.
func (r *bookRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Book, error) {
	if len(ids) == 0 {
		return []*domain.Book{}, nil
	}

	var found []*domain.Book
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	books := make([]*domain.Book, 0, len(found))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			books = append(books, b)
		}
	}
	return books, nil
}
