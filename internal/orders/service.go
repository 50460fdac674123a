package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db/models"
	"github.com/shopworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
	"github.com/shopworks/storefront-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	OrderRepo *Repository
}

// Service exposes the user's order history and status changes.
type Service interface {
	History(ctx context.Context, userID uuid.UUID, page, pageSize int) (HistoryPageDTO, error)
	Get(ctx context.Context, userID uuid.UUID, orderID string) (OrderDTO, error)
	Cancel(ctx context.Context, userID uuid.UUID, orderID string) (OrderDTO, error)
}

type service struct {
	orderRepo *Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{orderRepo: params.OrderRepo}, nil
}

// History returns the user's orders newest first.
func (s *service) History(ctx context.Context, userID uuid.UUID, page, pageSize int) (HistoryPageDTO, error) {
	params := pagination.Normalize(pagination.Params{Page: page, PageSize: pageSize})

	orders, total, err := s.orderRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return HistoryPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}

	summaries := make([]SummaryDTO, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, toSummaryDTO(order))
	}

	return HistoryPageDTO{
		Orders:     summaries,
		Pagination: pagination.BuildMeta(params, total),
	}, nil
}

// Get returns one order. Orders belonging to other users are indistinguishable
// from missing ones.
func (s *service) Get(ctx context.Context, userID uuid.UUID, orderID string) (OrderDTO, error) {
	order, err := s.load(ctx, userID, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	return ToDTO(order), nil
}

// Cancel moves a pending or processing order to cancelled.
func (s *service) Cancel(ctx context.Context, userID uuid.UUID, orderID string) (OrderDTO, error) {
	order, err := s.load(ctx, userID, orderID)
	if err != nil {
		return OrderDTO{}, err
	}

	if !order.Status.CanTransition(enums.OrderStatusCancelled) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "order can no longer be cancelled").
			WithDetails(map[string]any{"status": order.Status})
	}

	applied, err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, enums.OrderStatusCancelled)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancelling order")
	}
	if !applied {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
	}

	order.Status = enums.OrderStatusCancelled
	return ToDTO(order), nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orderRepo.FindByOrderID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

// ToDTO projects an order with its frozen lines.
func ToDTO(order *models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalPrice:  item.TotalPrice,
		})
	}
	return OrderDTO{
		OrderID:         order.OrderID,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		TaxAmount:       order.TaxAmount,
		FinalAmount:     order.FinalAmount,
		CouponCode:      order.CouponCode,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}

func toSummaryDTO(order models.Order) SummaryDTO {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return SummaryDTO{
		OrderID:     order.OrderID,
		Status:      order.Status,
		FinalAmount: order.FinalAmount,
		ItemCount:   count,
		CreatedAt:   order.CreatedAt,
	}
}
