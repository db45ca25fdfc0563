package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Book is a locally cached Google Books volume. Rows are created on first
// lookup and not updated afterwards.
type Book struct {
	ID            uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GoogleBooksID string                      `json:"googleBooksId" gorm:"uniqueIndex;not null"`
	Title         string                      `json:"title" gorm:"index;not null"`
	Authors       datatypes.JSONSlice[string] `json:"authors" gorm:"type:jsonb"`
	Publisher     string                      `json:"publisher"`
	Description   string                      `json:"description"`
	CoverImage    string                      `json:"coverImage"`
	PublishedDate string                      `json:"publishedDate"` // as delivered by the catalog: "2004", "2004-05" or "2004-05-01"
	CreatedAt     time.Time                   `json:"createdAt"`
}

// BookSummary is the projection embedded in profiles, reviews and suggestions.
type BookSummary struct {
	ID            uuid.UUID `json:"id"`
	GoogleBooksID string    `json:"googleBooksId"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"`
	CoverImage    string    `json:"coverImage"`
}

func (b *Book) Summary() BookSummary {
	authors := []string(b.Authors)
	if authors == nil {
		authors = []string{}
	}
	return BookSummary{
		ID:            b.ID,
		GoogleBooksID: b.GoogleBooksID,
		Title:         b.Title,
		Authors:       authors,
		CoverImage:    b.CoverImage,
	}
}

func SummarizeBooks(books []*Book) []BookSummary {
	out := make([]BookSummary, 0, len(books))
	for _, b := range books {
		out = append(out, b.Summary())
	}
	return out
}
