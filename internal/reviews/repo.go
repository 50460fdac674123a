package reviews

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db/models"
)

// Repository encapsulates review persistence.
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

// Create inserts a review. The unique (product, user) index rejects a second
// review from the same user.
func (r *Repository) Create(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Record is one review row joined with the reviewer's name.
type Record struct {
	ID        uuid.UUID `gorm:"column:id"`
	UserID    uuid.UUID `gorm:"column:user_id"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Rating    int       `gorm:"column:rating"`
	Comment   string    `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// ListByProduct returns reviews for a product, newest first, with reviewer names.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]Record, error) {
	var records []Record
	err := r.db.WithContext(ctx).
		Table("product_reviews pr").
		Select("pr.id, pr.user_id, u.first_name, u.last_name, pr.rating, pr.comment, pr.created_at").
		Joins("JOIN users u ON u.id = pr.user_id").
		Where("pr.product_id = ?", productID).
		Order("pr.created_at DESC").
		Scan(&records).
		Error
	return records, err
}

// Aggregate returns the average rating and review count for a product.
// A product with no reviews aggregates to (0, 0).
func (r *Repository) Aggregate(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var row struct {
		Average float64 `gorm:"column:average"`
		Count   int     `gorm:"column:count"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.ProductReview{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).
		Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average, row.Count, nil
}

// HasReviewed reports whether the user already reviewed the product.
func (r *Repository) HasReviewed(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductReview{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
