package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db"
	"github.com/shopworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

// CreateInput is the payload accepted when posting a review.
type CreateInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ReviewDTO is the projection returned after creating a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductFinder resolves a product slug to its record.
type ProductFinder interface {
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, *models.Category, error)
}

// ServiceParams groups dependencies for the review service.
type ServiceParams struct {
	ReviewRepo *Repository
	Products   ProductFinder
}

// Service exposes review creation on top of the catalog.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, productSlug string, input CreateInput) (ReviewDTO, error)
}

type service struct {
	reviewRepo *Repository
	products   ProductFinder
}

func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product finder is required")
	}
	return &service{reviewRepo: params.ReviewRepo, products: params.Products}, nil
}

// Create validates the rating, resolves the product and inserts the review.
// A second review of the same product by the same user is a conflict.
func (s *service) Create(ctx context.Context, userID uuid.UUID, productSlug string, input CreateInput) (ReviewDTO, error) {
	if userID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	product, _, err := s.products.FindProductBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	reviewed, err := s.reviewRepo.HasReviewed(ctx, product.ID, userID)
	if err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking existing review")
	}
	if reviewed {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	}

	review := &models.ProductReview{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "product_reviews_product_user_key") {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already reviewed")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating review")
	}

	return ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}, nil
}
