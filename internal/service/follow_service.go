package service

import (
	"context"
	"errors"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCannotFollowSelf = errors.New("cannot follow yourself")

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	users      *UserService
	notifier   ActivityNotifier
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, users *UserService, notifier ActivityNotifier) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		users:      users,
		notifier:   notifier,
	}
}

// Follow adds the edge actor -> target and returns the actor's profile. A
// repeated follow changes nothing and sends no event.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID uuid.UUID) (*Profile, error) {
	if actorID == targetID {
		return nil, ErrCannotFollowSelf
	}

	created, err := s.followRepo.Follow(ctx, actorID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.users.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if created {
		notify(s.notifier, targetID, domain.ActivityFollowed, profile.User.Ref(), &actorID)
	}

	return profile, nil
}

// Unfollow removes the edge if present and returns the actor's profile.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) (*Profile, error) {
	if actorID == targetID {
		return nil, ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.followRepo.Unfollow(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	return s.users.GetProfile(ctx, actorID)
}
