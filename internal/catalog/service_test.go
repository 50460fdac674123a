package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/internal/reviews"
	"github.com/shopworks/storefront-backend/pkg/config"
	"github.com/shopworks/storefront-backend/pkg/db/models"
	"github.com/shopworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

type stubWishlist struct {
	saved map[uuid.UUID]bool
}

func (s stubWishlist) Contains(_ context.Context, _ uuid.UUID, productID uuid.UUID) (bool, error) {
	return s.saved[productID], nil
}

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1
);`,
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
		`CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  is_primary INTEGER NOT NULL DEFAULT 0
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

func testCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		PageSize:        12,
		FeaturedCount:   8,
		OnSaleCount:     4,
		RelatedProducts: 4,
	}
}

func newCatalogService(t *testing.T, db *gorm.DB, wl WishlistChecker) Service {
	t.Helper()

	if wl == nil {
		wl = stubWishlist{}
	}
	svc, err := NewService(ServiceParams{
		CatalogRepo: NewRepository(db),
		ReviewRepo:  reviews.NewRepository(db),
		Wishlist:    wl,
		Config:      testCatalogConfig(),
	})
	require.NoError(t, err)
	return svc
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     slug,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

type productSeed struct {
	name     string
	price    string
	discount string
	stock    int
	created  time.Time
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, category *models.Category, seed productSeed) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Name:       seed.name,
		Slug:       seed.name,
		Price:      decimal.RequireFromString(seed.price),
		CategoryID: category.ID,
		Stock:      seed.stock,
		IsActive:   true,
		CreatedAt:  seed.created,
		UpdatedAt:  seed.created,
	}
	if seed.discount != "" {
		d := decimal.RequireFromString(seed.discount)
		product.DiscountPrice = &d
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListProductsUnknownCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db, nil)

	_, err := svc.ListProducts(context.Background(), ListFilter{CategorySlug: "no-such-thing"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListProductsFiltersAndSorts(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db, nil)
	now := time.Now().UTC()

	electronics := seedCategory(t, db, "Electronics", "electronics")
	garden := seedCategory(t, db, "Garden", "garden")

	seedCatalogProduct(t, db, electronics, productSeed{name: "expensive", price: "300.00", stock: 5, created: now.Add(-time.Hour)})
	seedCatalogProduct(t, db, electronics, productSeed{name: "cheap", price: "100.00", stock: 5, created: now})
	seedCatalogProduct(t, db, electronics, productSeed{name: "marked-down", price: "250.00", discount: "20.00", stock: 5, created: now})
	seedCatalogProduct(t, db, garden, productSeed{name: "shovel", price: "15.00", stock: 5, created: now})

	page, err := svc.ListProducts(context.Background(), ListFilter{
		CategorySlug: "electronics",
		Sort:         enums.SortPriceLow,
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 3)
	// ordered by list price, not the discounted one
	assert.Equal(t, "cheap", page.Products[0].Name)
	assert.Equal(t, "marked-down", page.Products[1].Name)
	assert.Equal(t, "expensive", page.Products[2].Name)
	assert.True(t, page.Products[1].OnSale)
	assert.True(t, page.Products[1].EffectivePrice.Equal(decimal.RequireFromString("20.00")))
	require.NotNil(t, page.Category)
	assert.Equal(t, "electronics", page.Category.Slug)
}

func TestListProductsSearch(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db, nil)
	now := time.Now().UTC()
	category := seedCategory(t, db, "Tools", "tools")

	seedCatalogProduct(t, db, category, productSeed{name: "hammer-pro", price: "25.00", stock: 5, created: now})
	seedCatalogProduct(t, db, category, productSeed{name: "wrench-set", price: "35.00", stock: 5, created: now})

	page, err := svc.ListProducts(context.Background(), ListFilter{Search: "HAMMER"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "hammer-pro", page.Products[0].Name)
}

func TestListProductsPriceRange(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db, nil)
	now := time.Now().UTC()
	category := seedCategory(t, db, "Range", "range")

	seedCatalogProduct(t, db, category, productSeed{name: "low-end", price: "10.00", stock: 1, created: now})
	seedCatalogProduct(t, db, category, productSeed{name: "mid-end", price: "50.00", stock: 1, created: now})
	seedCatalogProduct(t, db, category, productSeed{name: "high-end", price: "200.00", stock: 1, created: now})
	// list price is what the range applies to, so the markdown does not pull this one in
	seedCatalogProduct(t, db, category, productSeed{name: "marked-down", price: "150.00", discount: "30.00", stock: 1, created: now})

	minPrice := decimal.RequireFromString("20")
	maxPrice := decimal.RequireFromString("100")
	page, err := svc.ListProducts(context.Background(), ListFilter{
		CategorySlug: "range",
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "mid-end", page.Products[0].Name)
}

func TestListProductsPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db, nil)
	now := time.Now().UTC()
	category := seedCategory(t, db, "Bulk", "bulk")

	for i := 0; i < 15; i++ {
		seedCatalogProduct(t, db, category, productSeed{
			name:    "bulk-" + uuid.NewString(),
			price:   "10.00",
			stock:   1,
			created: now.Add(time.Duration(i) * time.Minute),
		})
	}

	page, err := svc.ListProducts(context.Background(), ListFilter{CategorySlug: "bulk", Page: 2, PageSize: 12})
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestGetProductDetail(t *testing.T) {
	db := setupCatalogTestDB(t)
	now := time.Now().UTC()
	category := seedCategory(t, db, "Detail", "detail")

	main := seedCatalogProduct(t, db, category, productSeed{name: "main-item", price: "40.00", stock: 3, created: now})
	seedCatalogProduct(t, db, category, productSeed{name: "sibling-a", price: "10.00", stock: 1, created: now})
	seedCatalogProduct(t, db, category, productSeed{name: "sibling-b", price: "12.00", stock: 1, created: now})

	// two reviews from different users
	for _, rating := range []int{5, 3} {
		user := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@x.com", PasswordHash: "x", FirstName: "R", LastName: "V", IsActive: true}
		require.NoError(t, db.Create(user).Error)
		review := &models.ProductReview{ID: uuid.New(), ProductID: main.ID, UserID: user.ID, Rating: rating}
		require.NoError(t, db.Create(review).Error)
	}

	viewer := uuid.New()
	svc := newCatalogService(t, db, stubWishlist{saved: map[uuid.UUID]bool{main.ID: true}})

	detail, err := svc.GetProduct(context.Background(), "main-item", viewer)
	require.NoError(t, err)
	assert.Equal(t, "main-item", detail.Name)
	assert.Equal(t, "detail", detail.Category.Slug)
	assert.Len(t, detail.Related, 2)
	assert.Equal(t, 2, detail.ReviewCount)
	assert.InDelta(t, 4.0, detail.AverageRating, 0.001)
	assert.True(t, detail.InWishlist)
	assert.True(t, detail.InStock)
}

func TestGetProductAnonymousViewer(t *testing.T) {
	db := setupCatalogTestDB(t)
	category := seedCategory(t, db, "Anon", "anon")
	product := seedCatalogProduct(t, db, category, productSeed{name: "anon-item", price: "5.00", stock: 1, created: time.Now()})
	svc := newCatalogService(t, db, stubWishlist{saved: map[uuid.UUID]bool{product.ID: true}})

	detail, err := svc.GetProduct(context.Background(), "anon-item", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, detail.InWishlist)
}

func TestGetProductNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db, nil)

	_, err := svc.GetProduct(context.Background(), "ghost", uuid.Nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestHomeAssemblesSections(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db, nil)
	now := time.Now().UTC()
	category := seedCategory(t, db, "Home", "home-cat")

	for i := 0; i < 10; i++ {
		seed := productSeed{
			name:    "home-" + uuid.NewString(),
			price:   "10.00",
			stock:   1,
			created: now.Add(time.Duration(i) * time.Minute),
		}
		if i%2 == 0 {
			seed.discount = "8.00"
		}
		seedCatalogProduct(t, db, category, seed)
	}

	home, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, home.Featured, 8)
	assert.Len(t, home.OnSale, 4)
	assert.NotEmpty(t, home.Categories)
	for _, product := range home.OnSale {
		assert.True(t, product.OnSale)
	}
}
