package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RecommendationID uuid.UUID `json:"recommendationId" gorm:"type:uuid;not null;index"`
	CommentText      string    `json:"commentText" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Relations
	User           *User           `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recommendation *Recommendation `json:"-" gorm:"foreignKey:RecommendationID;constraint:OnDelete:CASCADE"`
}
