package service

import (
	"github.com/dom/libriverse/internal/config"
	"github.com/dom/libriverse/internal/repository"
)

type Services struct {
	Auth           *AuthService
	User           *UserService
	Favorite       *FavoriteService
	Follow         *FollowService
	Suggestion     *SuggestionService
	Book           *BookService
	Review         *ReviewService
	Recommendation *RecommendationService
	Comment        *CommentService
}

// NewServices wires every service. notifier may be nil, in which case
// activity events are discarded.
func NewServices(repos *repository.Repositories, catalog BookCatalog, notifier ActivityNotifier, cfg *config.Config) *Services {
	if notifier == nil {
		notifier = discardNotifier{}
	}

	users := NewUserService(repos.User, repos.Favorite, repos.Follow, repos.Review, repos.Recommendation)

	return &Services{
		Auth:           NewAuthService(repos.User, cfg),
		User:           users,
		Favorite:       NewFavoriteService(repos.Favorite, repos.Book, users),
		Follow:         NewFollowService(repos.Follow, repos.User, users, notifier),
		Suggestion:     NewSuggestionService(repos.Favorite, repos.Book),
		Book:           NewBookService(repos.Book, catalog),
		Review:         NewReviewService(repos.Review, repos.Book),
		Recommendation: NewRecommendationService(repos.Recommendation, repos.Book, repos.User, notifier),
		Comment:        NewCommentService(repos.Comment, repos.Recommendation, notifier),
	}
}
