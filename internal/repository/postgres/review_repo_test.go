package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/repository/postgres"
	"github.com/dom/libriverse/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReviewRepository_OnePerUserAndBook(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewReviewRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	book := testutil.NewBookBuilder().Build(t, testDB.DB)

	first := &domain.Review{ID: uuid.New(), UserID: user.ID, BookID: book.ID, Rating: 4, ReviewText: "Good"}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.Review{ID: uuid.New(), UserID: user.ID, BookID: book.ID, Rating: 2, ReviewText: "Changed my mind"}
	assert.ErrorIs(t, repo.Create(ctx, second), gorm.ErrDuplicatedKey)

	got, err := repo.GetByUserAndBook(ctx, user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	require.NotNil(t, got.User)
	assert.Equal(t, user.Username, got.User.Username)
	require.NotNil(t, got.Book)
	assert.Equal(t, book.Title, got.Book.Title)
}

func TestReviewRepository_RatingConstraint(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewReviewRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	book := testutil.NewBookBuilder().Build(t, testDB.DB)

	for _, rating := range []int{0, 6} {
		err := repo.Create(ctx, &domain.Review{ID: uuid.New(), UserID: user.ID, BookID: book.ID, Rating: rating})
		assert.Error(t, err, "rating %d should be rejected", rating)
	}
}

func TestReviewRepository_UpdateAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewReviewRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	book := testutil.NewBookBuilder().Build(t, testDB.DB)

	review := &domain.Review{ID: uuid.New(), UserID: user.ID, BookID: book.ID, Rating: 3, ReviewText: "Fine"}
	require.NoError(t, repo.Create(ctx, review))

	review.Rating = 5
	review.ReviewText = "Better on a second read"
	require.NoError(t, repo.Update(ctx, review))

	reviews, err := repo.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Better on a second read", reviews[0].ReviewText)

	require.NoError(t, repo.Delete(ctx, review.ID))

	reviews, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
