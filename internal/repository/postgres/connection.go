package postgres

import (
	"time"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in migration order.
var Models = []interface{}{
	&domain.User{},
	&domain.Book{},
	&domain.FavoriteBook{},
	&domain.Follow{},
	&domain.Review{},
	&domain.Recommendation{},
	&domain.RecommendationLike{},
	&domain.Comment{},
}

// NewConnection opens the database and migrates the schema. Unique
// violations surface as gorm.ErrDuplicatedKey.
func NewConnection(databaseURL string, development bool) (*gorm.DB, error) {
	level := logger.Warn
	if development {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:           NewUserRepository(db),
		Favorite:       NewFavoriteRepository(db),
		Follow:         NewFollowRepository(db),
		Book:           NewBookRepository(db),
		Review:         NewReviewRepository(db),
		Recommendation: NewRecommendationRepository(db),
		Comment:        NewCommentRepository(db),
	}
}

// gormWriter sends gorm's own log lines through zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logging.Info().Str("component", "gorm").Msgf(format, args...)
}
