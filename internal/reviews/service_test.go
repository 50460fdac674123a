package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

type stubProducts struct {
	db *gorm.DB
}

func (s stubProducts) FindProductBySlug(ctx context.Context, slug string) (*models.Product, *models.Category, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, nil, err
	}
	return &product, &models.Category{}, nil
}

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  discount_price NUMERIC,
  category_id TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  UNIQUE (product_id, user_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newReviewsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		ReviewRepo: NewRepository(db),
		Products:   stubProducts{db: db},
	})
	require.NoError(t, err)
	return svc
}

func seedReviewedProduct(t *testing.T, db *gorm.DB, slug string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Name:       slug,
		Slug:       slug,
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: uuid.New(),
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedReviewer(t *testing.T, db *gorm.DB, first, last string) uuid.UUID {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    first,
		LastName:     last,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func TestCreateReview(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedReviewedProduct(t, db, "reviewable")
	userID := seedReviewer(t, db, "Grace", "Hopper")

	dto, err := svc.Create(context.Background(), userID, "reviewable", CreateInput{Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.Equal(t, product.ID, dto.ProductID)
	assert.Equal(t, 4, dto.Rating)
}

func TestCreateReviewDuplicateConflicts(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	seedReviewedProduct(t, db, "once-only")
	userID := seedReviewer(t, db, "Grace", "Hopper")

	_, err := svc.Create(context.Background(), userID, "once-only", CreateInput{Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), userID, "once-only", CreateInput{Rating: 3})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	seedReviewedProduct(t, db, "bounded")
	userID := seedReviewer(t, db, "Grace", "Hopper")

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), userID, "bounded", CreateInput{Rating: rating})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestAggregateAverage(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	svc := newReviewsService(t, db)
	product := seedReviewedProduct(t, db, "rated")

	for _, rating := range []int{5, 4, 3} {
		userID := seedReviewer(t, db, "User", "Tester")
		_, err := svc.Create(context.Background(), userID, "rated", CreateInput{Rating: rating})
		require.NoError(t, err)
	}

	average, count, err := repo.Aggregate(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.InDelta(t, 4.0, average, 0.001)
}

func TestAggregateUnreviewedIsZero(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	product := seedReviewedProduct(t, db, "quiet")

	average, count, err := repo.Aggregate(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, average)
}

func TestListByProductIncludesReviewerName(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	svc := newReviewsService(t, db)
	product := seedReviewedProduct(t, db, "named")
	userID := seedReviewer(t, db, "Grace", "Hopper")

	_, err := svc.Create(context.Background(), userID, "named", CreateInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	records, err := repo.ListByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Grace", records[0].FirstName)
	assert.Equal(t, "great", records[0].Comment)
}
