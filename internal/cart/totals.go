package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shopworks/storefront-backend/pkg/db/models"
)

// ItemCount sums quantities across lines.
func ItemCount(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums effective price times quantity across lines. The item's
// Product must be loaded.
func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total
}

// LineTotal is the effective price of one line.
func LineTotal(item models.CartItem) decimal.Decimal {
	return item.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
}
