package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db/models"
	"github.com/shopworks/storefront-backend/pkg/enums"
	"github.com/shopworks/storefront-backend/pkg/pagination"
)

// Repository encapsulates catalog reads.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindCategoryBySlug loads an active category.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category).
		Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all active categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).
		Error
	return categories, err
}

// ListProducts returns one page of active products matching the filter plus
// the total match count.
func (r *Repository) ListProducts(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Product, int64, error) {
	query := r.activeProducts(ctx)

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories c ON c.id = products.category_id").
			Where("c.slug = ?", filter.CategorySlug)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.brand) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Preload("Images").
		Order(orderClause(filter.Sort)).
		Limit(params.PageSize).
		Offset(pagination.Offset(params)).
		Find(&products).
		Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindProductBySlug loads an active product with its gallery and category.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, *models.Category, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).
		Error
	if err != nil {
		return nil, nil, err
	}

	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", product.CategoryID).Error; err != nil {
		return nil, nil, err
	}
	return &product, &category, nil
}

// ListRelated returns up to limit active products sharing the category,
// excluding the product itself.
func (r *Repository) ListRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.activeProducts(ctx).
		Preload("Images").
		Where("category_id = ? AND products.id <> ?", categoryID, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).
		Error
	return products, err
}

// ListFeatured returns the newest active products.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.activeProducts(ctx).
		Preload("Images").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).
		Error
	return products, err
}

// ListOnSale returns active products carrying a discount price.
func (r *Repository) ListOnSale(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.activeProducts(ctx).
		Preload("Images").
		Where("discount_price IS NOT NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).
		Error
	return products, err
}

func (r *Repository) activeProducts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.is_active = ?", true)
}

func orderClause(sort enums.SortKey) string {
	switch sort {
	case enums.SortPriceLow:
		return "products.price ASC"
	case enums.SortPriceHigh:
		return "products.price DESC"
	case enums.SortName:
		return "products.name ASC"
	default:
		return "products.created_at DESC"
	}
}
