package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

// ProductLoader resolves product rows for cart operations.
type ProductLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// gormProductLoader is the default loader backed by the catalog tables.
type gormProductLoader struct {
	db *gorm.DB
}

func (l gormProductLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := l.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// NewProductLoader builds the default product loader.
func NewProductLoader(db *gorm.DB) ProductLoader {
	return gormProductLoader{db: db}
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo *Repository
	Products ProductLoader
}

// Service exposes cart mutation and read operations for the current user.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (CartDTO, error)
	UpdateQuantities(ctx context.Context, userID uuid.UUID, input BatchUpdateInput) (BatchUpdateResult, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (QuantityResult, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (CartDTO, error)
}

type service struct {
	cartRepo *Repository
	products ProductLoader
}

func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{cartRepo: params.CartRepo, products: params.Products}, nil
}

// GetCart returns the cart with derived totals, creating it when absent.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if _, err := s.cartRepo.EnsureCart(ctx, userID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring cart")
	}
	return s.loadDTO(ctx, userID)
}

// AddItem puts a product in the cart. A repeat add merges into the existing
// line; either path is rejected when the merged quantity exceeds stock, and
// the existing line is left untouched in that case.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (CartDTO, error) {
	if input.Quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if !product.InStock() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock").
			WithDetails(map[string]any{"product_id": product.ID, "stock": 0})
	}

	cart, err := s.cartRepo.EnsureCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring cart")
	}

	existing, err := s.cartRepo.FindItemByProduct(ctx, cart.ID, product.ID)
	switch {
	case err == nil:
		merged := existing.Quantity + input.Quantity
		if merged > product.Stock {
			return CartDTO{}, insufficientStock(product, merged)
		}
		if err := s.cartRepo.UpdateItemQuantity(ctx, existing.ID, merged); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart line")
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		if input.Quantity > product.Stock {
			return CartDTO{}, insufficientStock(product, input.Quantity)
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
		}
		if err := s.cartRepo.CreateItem(ctx, item); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart line")
		}

	default:
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}

	return s.loadDTO(ctx, userID)
}

// UpdateQuantities applies a batch of quantity changes. Lines that fail
// validation are reported individually and do not block the rest.
func (s *service) UpdateQuantities(ctx context.Context, userID uuid.UUID, input BatchUpdateInput) (BatchUpdateResult, error) {
	cart, err := s.cartRepo.EnsureCart(ctx, userID)
	if err != nil {
		return BatchUpdateResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring cart")
	}

	results := make([]LineResult, 0, len(input.Items))
	for _, update := range input.Items {
		results = append(results, s.applyQuantity(ctx, cart.ID, update))
	}

	dto, err := s.loadDTO(ctx, userID)
	if err != nil {
		return BatchUpdateResult{}, err
	}
	return BatchUpdateResult{Results: results, Cart: dto}, nil
}

func (s *service) applyQuantity(ctx context.Context, cartID uuid.UUID, update QuantityUpdate) LineResult {
	item, err := s.cartRepo.FindItem(ctx, cartID, update.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LineResult{ItemID: update.ItemID, Message: "item not found"}
		}
		return LineResult{ItemID: update.ItemID, Message: "could not load item"}
	}

	if update.Quantity <= 0 {
		if _, err := s.cartRepo.DeleteItem(ctx, cartID, update.ItemID); err != nil {
			return LineResult{ItemID: update.ItemID, Message: "could not remove item"}
		}
		return LineResult{ItemID: update.ItemID, Applied: true, Removed: true}
	}

	if update.Quantity > item.Product.Stock {
		return LineResult{
			ItemID:  update.ItemID,
			Message: fmt.Sprintf("only %d of %s available", item.Product.Stock, item.Product.Name),
		}
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, update.Quantity); err != nil {
		return LineResult{ItemID: update.ItemID, Message: "could not update item"}
	}
	return LineResult{ItemID: update.ItemID, Applied: true}
}

// SetQuantity is the single-line async variant. Quantity 0 or below removes
// the line. Stock failures come back as an unsuccessful payload, not an error.
func (s *service) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (QuantityResult, error) {
	cart, err := s.cartRepo.EnsureCart(ctx, userID)
	if err != nil {
		return QuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring cart")
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return QuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart line")
	}

	if quantity <= 0 {
		if _, err := s.cartRepo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return QuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
		}
		return s.quantityPayload(ctx, userID, nil, "")
	}

	if quantity > item.Product.Stock {
		message := fmt.Sprintf("only %d of %s available", item.Product.Stock, item.Product.Name)
		return s.quantityPayloadWithFailure(ctx, userID, message)
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return QuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart line")
	}

	item.Quantity = quantity
	lineTotal := LineTotal(*item)
	return s.quantityPayload(ctx, userID, &lineTotal, "")
}

// RemoveItem deletes a line scoped to the user's cart.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (CartDTO, error) {
	cart, err := s.cartRepo.EnsureCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring cart")
	}

	affected, err := s.cartRepo.DeleteItem(ctx, cart.ID, itemID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart line")
	}
	if affected == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	return s.loadDTO(ctx, userID)
}

func (s *service) quantityPayload(ctx context.Context, userID uuid.UUID, itemTotal *decimal.Decimal, message string) (QuantityResult, error) {
	dto, err := s.loadDTO(ctx, userID)
	if err != nil {
		return QuantityResult{}, err
	}
	return QuantityResult{
		Success:   true,
		Message:   message,
		ItemTotal: itemTotal,
		CartTotal: dto.Subtotal,
		CartItems: dto.ItemCount,
	}, nil
}

func (s *service) quantityPayloadWithFailure(ctx context.Context, userID uuid.UUID, message string) (QuantityResult, error) {
	dto, err := s.loadDTO(ctx, userID)
	if err != nil {
		return QuantityResult{}, err
	}
	return QuantityResult{
		Success:   false,
		Message:   message,
		CartTotal: dto.Subtotal,
		CartItems: dto.ItemCount,
	}, nil
}

func (s *service) loadDTO(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	cart, err := s.cartRepo.LoadCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if cart == nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeInternal, "cart missing after ensure")
	}
	return ToDTO(cart), nil
}

func insufficientStock(product *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
		WithDetails(map[string]any{
			"product_id": product.ID,
			"requested":  requested,
			"available":  product.Stock,
		})
}

// ToDTO projects a loaded cart into its response shape with derived totals.
func ToDTO(cart *models.Cart) CartDTO {
	items := make([]ItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, ItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			ProductSlug:  item.Product.Slug,
			UnitPrice:    item.Product.EffectivePrice(),
			Quantity:     item.Quantity,
			LineTotal:    LineTotal(item),
			Stock:        item.Product.Stock,
			ThumbnailURL: thumbnail(item.Product.Images),
			AddedAt:      item.AddedAt,
		})
	}
	return CartDTO{
		ID:        cart.ID,
		Items:     items,
		ItemCount: ItemCount(cart.Items),
		Subtotal:  Subtotal(cart.Items),
	}
}

func thumbnail(images []models.ProductImage) *string {
	if len(images) == 0 {
		return nil
	}
	for _, image := range images {
		if image.IsPrimary {
			url := image.URL
			return &url
		}
	}
	url := images[0].URL
	return &url
}
