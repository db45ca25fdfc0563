package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FavoriteBook is one entry of a user's favorites set. The composite primary
// key keeps the set free of duplicates.
type FavoriteBook struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	BookID    uuid.UUID `json:"bookId" gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Book *Book `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

// Follow is a single directed edge of the social graph. A user's followers
// and following lists are both read from this table, so the two sides can
// never disagree.
type Follow struct {
	FollowerID uuid.UUID `json:"followerId" gorm:"type:uuid;primaryKey;check:follower_id <> followee_id"`
	FolloweeID uuid.UUID `json:"followeeId" gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time `json:"createdAt"`

	Follower *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followee *User `json:"-" gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
}

// UserRef is the minimal public projection of a user.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}
