package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dom/libriverse/internal/api/handlers"
	"github.com/dom/libriverse/internal/api/middleware"
	"github.com/dom/libriverse/internal/config"
	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/metrics"
	"github.com/dom/libriverse/internal/service"
	"github.com/dom/libriverse/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authHandler := handlers.NewAuthHandler(services.Auth, services.User, cfg)
	profileHandler := handlers.NewProfileHandler(services.Favorite, services.Follow, services.Suggestion)
	bookHandler := handlers.NewBookHandler(services.Book)
	reviewHandler := handlers.NewReviewHandler(services.Review)
	recHandler := handlers.NewRecommendationHandler(services.Recommendation)
	commentHandler := handlers.NewCommentHandler(services.Comment)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, cfg)

	requireAuth := middleware.Auth(services.Auth, cfg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg))
				r.Post("/signup", authHandler.Signup)
				r.Post("/signin", authHandler.Signin)
			})
			r.Get("/user-info/{userId}", authHandler.UserInfo)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/signout", authHandler.Signout)
				r.Get("/user", authHandler.CurrentUser)
				r.Patch("/add-favorite", profileHandler.AddFavorite)
				r.Patch("/delete-favorite", profileHandler.DeleteFavorite)
				r.Get("/favorite-books", profileHandler.FavoriteBooks)
				r.Patch("/follow-user/{UserId}", profileHandler.Follow)
				r.Patch("/unfollow-user/{UserId}", profileHandler.Unfollow)
				r.Get("/suggestions", profileHandler.Suggestions)
			})
		})

		r.Route("/book", func(r chi.Router) {
			r.Get("/get-book", bookHandler.GetBook)
			r.Get("/search", bookHandler.Search)
		})

		r.Route("/review", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create-review", reviewHandler.Create)
			r.Get("/view-reviews/{bookId}", reviewHandler.ListForBook)
			r.Patch("/update-review/{reviewId}", reviewHandler.Update)
			r.Delete("/delete-review/{reviewId}", reviewHandler.Delete)
		})

		r.Route("/recommendation", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create-recommendation", recHandler.Create)
			r.Get("/user-recommendation", recHandler.Mine)
			r.Get("/all", recHandler.All)
			r.Get("/top", recHandler.Top)
			r.Get("/recent", recHandler.Recent)
			r.Get("/book/{bookId}", recHandler.ByBook)
			r.Get("/user/{userId}", recHandler.ByUser)
			r.Patch("/update-recommendation/{recommendationId}", recHandler.Update)
			r.Patch("/like-recommendation/{recommendationId}", recHandler.Like)
			r.Delete("/delete-recommendation/{recommendationId}", recHandler.Delete)
		})

		r.Route("/comment", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create-comment", commentHandler.Create)
			r.Get("/view-comments/{recommendationId}", commentHandler.List)
			r.Patch("/update-comment/{commentId}", commentHandler.Update)
			r.Delete("/delete-comment/{commentId}", commentHandler.Delete)
		})

		// Authenticates itself so ?token= works for non-browser clients.
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
