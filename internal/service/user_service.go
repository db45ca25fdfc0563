package service

import (
	"context"
	"errors"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is a user with favorites and both sides of the social graph
// expanded.
type Profile struct {
	*domain.User
	FavoriteBooks []domain.BookSummary `json:"favoriteBooks"`
	Followers     []domain.UserRef     `json:"followers"`
	Following     []domain.UserRef     `json:"following"`
}

// PublicProfile adds the user's recommendations and reviews.
type PublicProfile struct {
	Profile
	Recommendations []RecommendationView `json:"recommendations"`
	Reviews         []ReviewView         `json:"reviews"`
}

type UserService struct {
	userRepo     repository.UserRepository
	favoriteRepo repository.FavoriteRepository
	followRepo   repository.FollowRepository
	reviewRepo   repository.ReviewRepository
	recRepo      repository.RecommendationRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	favoriteRepo repository.FavoriteRepository,
	followRepo repository.FollowRepository,
	reviewRepo repository.ReviewRepository,
	recRepo repository.RecommendationRepository,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		favoriteRepo: favoriteRepo,
		followRepo:   followRepo,
		reviewRepo:   reviewRepo,
		recRepo:      recRepo,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	favorites, err := s.favoriteRepo.ListBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:          user,
		FavoriteBooks: domain.SummarizeBooks(favorites),
		Followers:     userRefs(followers),
		Following:     userRefs(following),
	}, nil
}

func (s *UserService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	recs, err := s.recRepo.List(ctx, repository.RecommendationFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		Profile:         *profile,
		Recommendations: newRecommendationViews(recs),
		Reviews:         newReviewViews(reviews),
	}, nil
}
