package domain

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityFollowed                ActivityType = "FOLLOWED"
	ActivityRecommendationLiked     ActivityType = "RECOMMENDATION_LIKED"
	ActivityRecommendationCommented ActivityType = "RECOMMENDATION_COMMENTED"
)

// ActivityEvent is pushed to a user when someone interacts with them or
// their content.
type ActivityEvent struct {
	Type      ActivityType `json:"type"`
	Actor     UserRef      `json:"actor"`
	SubjectID *uuid.UUID   `json:"subjectId,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}
