package postgres

import (
	"context"
	"database/sql"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *favoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, bookID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.FavoriteBook{UserID: userID, BookID: bookID}).Error
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&domain.FavoriteBook{}).Error
}

func (r *favoriteRepository) ListBooks(ctx context.Context, userID uuid.UUID) ([]*domain.Book, error) {
	var books []*domain.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN favorite_books ON favorite_books.book_id = books.id").
		Where("favorite_books.user_id = ?", userID).
		Order("favorite_books.created_at").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Snapshot reads the user's favorites and their neighbors' favorites in one
// read-only REPEATABLE READ transaction, so a concurrent Add is either fully
// visible or not at all.
func (r *favoriteRepository) Snapshot(ctx context.Context, userID uuid.UUID) (*repository.FavoriteSnapshot, error) {
	snap := &repository.FavoriteSnapshot{
		Own:       []uuid.UUID{},
		Neighbors: make(map[uuid.UUID][]uuid.UUID),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.FavoriteBook{}).
			Where("user_id = ?", userID).
			Order("created_at").
			Pluck("book_id", &snap.Own).Error; err != nil {
			return err
		}
		if len(snap.Own) == 0 {
			return nil
		}

		neighbors := tx.Model(&domain.FavoriteBook{}).
			Distinct("user_id").
			Where("book_id IN ? AND user_id <> ?", snap.Own, userID)

		var edges []domain.FavoriteBook
		if err := tx.Select("user_id", "book_id").
			Where("user_id IN (?)", neighbors).
			Order("created_at").
			Find(&edges).Error; err != nil {
			return err
		}

		for _, e := range edges {
			snap.Neighbors[e.UserID] = append(snap.Neighbors[e.UserID], e.BookID)
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}

	return snap, nil
}
