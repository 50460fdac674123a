package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/storefront-backend/pkg/enums"
	"github.com/shopworks/storefront-backend/pkg/pagination"
)

// ItemDTO is one frozen order line.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderDTO is the full order projection.
type OrderDTO struct {
	OrderID         string              `json:"order_id"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ShippingAddress string              `json:"shipping_address"`
	BillingAddress  string              `json:"billing_address"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	FinalAmount     decimal.Decimal     `json:"final_amount"`
	CouponCode      *string             `json:"coupon_code,omitempty"`
	Items           []ItemDTO           `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

// SummaryDTO is the history-list projection.
type SummaryDTO struct {
	OrderID     string            `json:"order_id"`
	Status      enums.OrderStatus `json:"status"`
	FinalAmount decimal.Decimal   `json:"final_amount"`
	ItemCount   int               `json:"item_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

// HistoryPageDTO is one page of the user's order history.
type HistoryPageDTO struct {
	Orders     []SummaryDTO    `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}
