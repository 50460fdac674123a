package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db/models"
	"github.com/shopworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func baseCoupon(now time.Time) *models.Coupon {
	return &models.Coupon{
		ID:            uuid.New(),
		Code:          "TEST",
		DiscountType:  enums.DiscountTypePercent,
		DiscountValue: dec("20"),
		ValidFrom:     now.Add(-time.Hour),
		ValidTo:       now.Add(time.Hour),
		IsActive:      true,
		UsageLimit:    10,
	}
}

func TestValidatePercentDiscount(t *testing.T) {
	now := time.Now()
	coupon := baseCoupon(now)

	discount, err := Validate(coupon, dec("200.00"), now)
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("40.00")), "got %s", discount)
}

func TestValidatePercentCapsAtMaxDiscount(t *testing.T) {
	now := time.Now()
	coupon := baseCoupon(now)
	ceiling := dec("25.00")
	coupon.MaxDiscount = &ceiling

	discount, err := Validate(coupon, dec("200.00"), now)
	require.NoError(t, err)
	assert.True(t, discount.Equal(ceiling))
}

func TestValidateFixedNeverExceedsSubtotal(t *testing.T) {
	now := time.Now()
	coupon := baseCoupon(now)
	coupon.DiscountType = enums.DiscountTypeFixed
	coupon.DiscountValue = dec("50.00")

	discount, err := Validate(coupon, dec("30.00"), now)
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("30.00")))
}

func TestValidateRejections(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name     string
		mutate   func(*models.Coupon)
		subtotal decimal.Decimal
	}{
		{"inactive", func(c *models.Coupon) { c.IsActive = false }, dec("100")},
		{"before window", func(c *models.Coupon) { c.ValidFrom = now.Add(time.Minute) }, dec("100")},
		{"after window", func(c *models.Coupon) { c.ValidTo = now.Add(-time.Minute) }, dec("100")},
		{"exhausted", func(c *models.Coupon) { c.UsedCount = c.UsageLimit }, dec("100")},
		{"below minimum", func(c *models.Coupon) { c.MinOrderAmount = dec("500") }, dec("100")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coupon := baseCoupon(now)
			tc.mutate(coupon)

			_, err := Validate(coupon, tc.subtotal, now)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func setupCouponTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_type TEXT NOT NULL,
  discount_value NUMERIC NOT NULL,
  min_order_amount NUMERIC NOT NULL DEFAULT 0,
  max_discount NUMERIC,
  valid_from DATETIME NOT NULL,
  valid_to DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  usage_limit INTEGER NOT NULL DEFAULT 1,
  used_count INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRedeemStopsAtUsageLimit(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewRepository(db)
	now := time.Now()

	coupon := baseCoupon(now)
	coupon.Code = "LIMIT2"
	coupon.UsageLimit = 2
	require.NoError(t, db.Create(coupon).Error)

	for i := 0; i < 2; i++ {
		redeemed, err := repo.Redeem(context.Background(), "LIMIT2")
		require.NoError(t, err)
		assert.True(t, redeemed)
	}

	redeemed, err := repo.Redeem(context.Background(), "LIMIT2")
	require.NoError(t, err)
	assert.False(t, redeemed)

	var used int
	require.NoError(t, db.Raw(`SELECT used_count FROM coupons WHERE code = 'LIMIT2'`).Scan(&used).Error)
	assert.Equal(t, 2, used)
}

func TestFindByCodeNormalizes(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewRepository(db)
	now := time.Now()

	coupon := baseCoupon(now)
	coupon.Code = "UPPER"
	require.NoError(t, db.Create(coupon).Error)

	found, err := repo.FindByCode(context.Background(), "  upper ")
	require.NoError(t, err)
	assert.Equal(t, "UPPER", found.Code)
}
