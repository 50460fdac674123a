package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shopworks/storefront-backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTotalsDeriveFromEffectivePrice(t *testing.T) {
	discounted := dec("19.99")
	items := []models.CartItem{
		{
			Quantity: 2,
			Product:  models.Product{Price: dec("25.00"), DiscountPrice: &discounted},
		},
		{
			Quantity: 3,
			Product:  models.Product{Price: dec("10.00")},
		},
	}

	assert.Equal(t, 5, ItemCount(items))
	assert.True(t, Subtotal(items).Equal(dec("69.98")), "got %s", Subtotal(items))
	assert.True(t, LineTotal(items[0]).Equal(dec("39.98")))
}

func TestTotalsEmptyCart(t *testing.T) {
	assert.Equal(t, 0, ItemCount(nil))
	assert.True(t, Subtotal(nil).Equal(decimal.Zero))
}
