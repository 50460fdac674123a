package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput is the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// QuantityUpdate is one line of a batch quantity update.
type QuantityUpdate struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity"`
}

// BatchUpdateInput carries the full batch.
type BatchUpdateInput struct {
	Items []QuantityUpdate `json:"items" validate:"required,min=1,dive"`
}

// LineResult reports the outcome of one batch line.
type LineResult struct {
	ItemID  uuid.UUID `json:"item_id"`
	Applied bool      `json:"applied"`
	Removed bool      `json:"removed,omitempty"`
	Message string    `json:"message,omitempty"`
}

// BatchUpdateResult is the batch response plus the refreshed cart.
type BatchUpdateResult struct {
	Results []LineResult `json:"results"`
	Cart    CartDTO      `json:"cart"`
}

// ItemDTO is one cart line with its derived total.
type ItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Stock        int             `json:"stock"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`
	AddedAt      time.Time       `json:"added_at"`
}

// CartDTO is the cart projection with derived totals.
type CartDTO struct {
	ID        uuid.UUID       `json:"id"`
	Items     []ItemDTO       `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// QuantityResult is the async single-line update payload.
type QuantityResult struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	ItemTotal *decimal.Decimal `json:"item_total,omitempty"`
	CartTotal decimal.Decimal  `json:"cart_total"`
	CartItems int              `json:"cart_items"`
}
