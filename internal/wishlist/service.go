package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/internal/cart"
	"github.com/shopworks/storefront-backend/internal/catalog"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

// Toggle actions accepted by the endpoint. Empty means flip the current state.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// StatusAdded and StatusRemoved are the toggle outcomes.
const (
	StatusAdded   = "added"
	StatusRemoved = "removed"
)

// ToggleInput is the payload for the toggle endpoint.
type ToggleInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Action    string    `json:"action" validate:"omitempty,oneof=add remove"`
}

// ToggleResult reports which way the toggle went.
type ToggleResult struct {
	Status string `json:"status"`
}

// ItemDTO is one saved product.
type ItemDTO struct {
	Product catalog.ProductSummary `json:"product"`
	SavedAt time.Time              `json:"saved_at"`
}

// ListDTO is the full wishlist.
type ListDTO struct {
	Items []ItemDTO `json:"items"`
	Count int       `json:"count"`
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	Products     cart.ProductLoader
}

// Service exposes wishlist reads and the idempotent toggle.
type Service interface {
	Toggle(ctx context.Context, userID uuid.UUID, input ToggleInput) (ToggleResult, error)
	List(ctx context.Context, userID uuid.UUID) (ListDTO, error)
}

type service struct {
	wishlistRepo *Repository
	products     cart.ProductLoader
}

func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{wishlistRepo: params.WishlistRepo, products: params.Products}, nil
}

// Toggle adds or removes the product. Both directions are idempotent: adding
// an already-saved product or removing an absent one settles on the same
// final state and reports it.
func (s *service) Toggle(ctx context.Context, userID uuid.UUID, input ToggleInput) (ToggleResult, error) {
	if input.ProductID == uuid.Nil {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	switch input.Action {
	case ActionAdd:
		if _, err := s.wishlistRepo.Add(ctx, userID, input.ProductID); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving wishlist item")
		}
		return ToggleResult{Status: StatusAdded}, nil

	case ActionRemove:
		if _, err := s.wishlistRepo.Remove(ctx, userID, input.ProductID); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing wishlist item")
		}
		return ToggleResult{Status: StatusRemoved}, nil

	default:
		added, err := s.wishlistRepo.Add(ctx, userID, input.ProductID)
		if err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving wishlist item")
		}
		if added {
			return ToggleResult{Status: StatusAdded}, nil
		}
		if _, err := s.wishlistRepo.Remove(ctx, userID, input.ProductID); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing wishlist item")
		}
		return ToggleResult{Status: StatusRemoved}, nil
	}
}

// List returns the user's saved products, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID) (ListDTO, error) {
	items, err := s.wishlistRepo.List(ctx, userID)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing wishlist")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ItemDTO{
			Product: catalog.SummaryFromModel(item.Product),
			SavedAt: item.CreatedAt,
		})
	}
	return ListDTO{Items: dtos, Count: len(dtos)}, nil
}
