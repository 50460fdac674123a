package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/internal/cart"
	"github.com/shopworks/storefront-backend/internal/checkout/stock"
	"github.com/shopworks/storefront-backend/internal/coupons"
	"github.com/shopworks/storefront-backend/internal/orders"
	"github.com/shopworks/storefront-backend/pkg/db"
	"github.com/shopworks/storefront-backend/pkg/db/models"
	"github.com/shopworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Tx         TxRunner
	CartRepo   *cart.Repository
	CouponRepo *coupons.Repository
	OrderRepo  *orders.Repository
}

// Service places orders.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (orders.OrderDTO, error)
}

type service struct {
	tx         TxRunner
	cartRepo   *cart.Repository
	couponRepo *coupons.Repository
	orderRepo  *orders.Repository
	now        func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.CouponRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{
		tx:         params.Tx,
		cartRepo:   params.CartRepo,
		couponRepo: params.CouponRepo,
		orderRepo:  params.OrderRepo,
		now:        time.Now,
	}, nil
}

var _ TxRunner = (*db.Client)(nil)

// Execute places the order in one transaction: reserve stock for every cart
// line, redeem the coupon if one was supplied, snapshot the cart into frozen
// order lines and clear the cart. Any failure rolls the whole thing back.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (orders.OrderDTO, error) {
	paymentMethod, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	var placed *models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		couponRepo := s.couponRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		loaded, err := cartRepo.LoadCart(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
		}
		if loaded == nil || len(loaded.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		lines := make([]stock.Line, 0, len(loaded.Items))
		for _, item := range loaded.Items {
			lines = append(lines, stock.Line{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		failure, err := stock.Reserve(ctx, tx, lines)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserving stock")
		}
		if failure != nil {
			return stockError(loaded.Items, failure)
		}

		subtotal := cart.Subtotal(loaded.Items)

		discount := decimal.Zero
		var couponCode *string
		if code := coupons.NormalizeCode(input.CouponCode); code != "" {
			coupon, err := couponRepo.FindByCode(ctx, code)
			if err != nil {
				if coupons.ErrNotFound(err) {
					return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "coupon not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading coupon")
			}
			discount, err = coupons.Validate(coupon, subtotal, s.now())
			if err != nil {
				return err
			}
			redeemed, err := couponRepo.Redeem(ctx, code)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeeming coupon")
			}
			if !redeemed {
				return pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached")
			}
			couponCode = &code
		}

		tax := decimal.Zero
		final := subtotal.Sub(discount).Add(tax)

		order := buildOrder(userID, input, paymentMethod, loaded.Items)
		order.TotalAmount = subtotal
		order.DiscountAmount = discount
		order.TaxAmount = tax
		order.FinalAmount = final
		order.CouponCode = couponCode

		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}
		if err := cartRepo.ClearItems(ctx, loaded.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
		}

		placed = order
		return nil
	})
	if txErr != nil {
		return orders.OrderDTO{}, txErr
	}

	return orders.ToDTO(placed), nil
}

func buildOrder(userID uuid.UUID, input Input, paymentMethod enums.PaymentMethod, items []models.CartItem) *models.Order {
	shipping := joinAddress(input.Address, input.City, input.State, input.PostalCode, input.Country)
	billing := strings.TrimSpace(input.BillingAddress)
	if billing == "" {
		billing = shipping
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		productID := item.ProductID
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   &productID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.EffectivePrice(),
			TotalPrice:  cart.LineTotal(item),
		})
	}

	return &models.Order{
		OrderID:         NewOrderID(),
		UserID:          userID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		Address:         input.Address,
		City:            input.City,
		State:           input.State,
		PostalCode:      input.PostalCode,
		Country:         input.Country,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		Items:           orderItems,
	}
}

func joinAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func stockError(items []models.CartItem, failure *stock.Failure) error {
	name := ""
	for _, item := range items {
		if item.ProductID == failure.ProductID {
			name = item.Product.Name
			break
		}
	}

	code := pkgerrors.CodeInsufficientStock
	if failure.Available == 0 {
		code = pkgerrors.CodeOutOfStock
	}
	return pkgerrors.New(code, "not enough stock to complete checkout").
		WithDetails(map[string]any{
			"product_id":   failure.ProductID,
			"product_name": name,
			"requested":    failure.Requested,
			"available":    failure.Available,
		})
}
