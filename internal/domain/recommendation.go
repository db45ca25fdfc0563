package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is a user's pitch for a book, independent of any review.
type Recommendation struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID             uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	BookID             uuid.UUID `json:"bookId" gorm:"type:uuid;not null;index"`
	RecommendationText string    `json:"recommendationText" gorm:"not null"`
	CreatedAt          time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt          time.Time `json:"updatedAt"`

	// Relations
	User  *User                `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Book  *Book                `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	Likes []RecommendationLike `json:"-" gorm:"foreignKey:RecommendationID"`
}

type RecommendationLike struct {
	RecommendationID uuid.UUID `json:"recommendationId" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	CreatedAt        time.Time `json:"createdAt"`

	Recommendation *Recommendation `json:"-" gorm:"foreignKey:RecommendationID;constraint:OnDelete:CASCADE"`
	User           *User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Likers returns the users who liked the recommendation. Likes must have
// been preloaded together with their users.
func (r *Recommendation) Likers() []UserRef {
	refs := make([]UserRef, 0, len(r.Likes))
	for _, like := range r.Likes {
		if like.User != nil {
			refs = append(refs, like.User.Ref())
		}
	}
	return refs
}
