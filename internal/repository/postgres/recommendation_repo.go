package postgres

import (
	"context"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type recommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *recommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("recommendation_likes.created_at")
		}).
		Preload("Likes.User")
}

func (r *recommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	err := r.withRelations(ctx).First(&rec, "recommendations.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) List(ctx context.Context, filter repository.RecommendationFilter) ([]*domain.Recommendation, error) {
	query := r.withRelations(ctx)
	if filter.UserID != nil {
		query = query.Where("recommendations.user_id = ?", *filter.UserID)
	}
	if filter.BookID != nil {
		query = query.Where("recommendations.book_id = ?", *filter.BookID)
	}

	var recs []*domain.Recommendation
	if err := query.Order("recommendations.created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recommendationRepository) TopLiked(ctx context.Context, limit int) ([]*domain.Recommendation, error) {
	likes := r.db.Model(&domain.RecommendationLike{}).
		Select("COUNT(*)").
		Where("recommendation_likes.recommendation_id = recommendations.id")

	var recs []*domain.Recommendation
	err := r.withRelations(ctx).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "(?) DESC, recommendations.created_at DESC", Vars: []interface{}{likes}}}).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recommendationRepository) Recent(ctx context.Context, limit int) ([]*domain.Recommendation, error) {
	var recs []*domain.Recommendation
	err := r.withRelations(ctx).
		Order("recommendations.created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recommendationRepository) Update(ctx context.Context, rec *domain.Recommendation) error {
	return r.db.WithContext(ctx).
		Model(rec).
		Select("recommendation_text", "updated_at").
		Updates(rec).Error
}

func (r *recommendationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Recommendation{}, "id = ?", id).Error
}

// ToggleLike removes the user's like if present and adds it otherwise. The
// recommendation row is locked so concurrent toggles serialize.
func (r *recommendationRepository) ToggleLike(ctx context.Context, recommendationID, userID uuid.UUID) (bool, int64, error) {
	var (
		liked bool
		count int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec domain.Recommendation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&rec, "id = ?", recommendationID).Error; err != nil {
			return err
		}

		res := tx.Where("recommendation_id = ? AND user_id = ?", recommendationID, userID).
			Delete(&domain.RecommendationLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			like := &domain.RecommendationLike{RecommendationID: recommendationID, UserID: userID}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			liked = true
		}

		return tx.Model(&domain.RecommendationLike{}).
			Where("recommendation_id = ?", recommendationID).
			Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}
