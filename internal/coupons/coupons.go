package coupons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/pkg/db/models"
	"github.com/shopworks/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
)

// Repository encapsulates coupon persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByCode loads a coupon by its normalized code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "code = ?", NormalizeCode(code)).
		Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Redeem increments used_count only while capacity remains. Zero rows means
// the coupon filled up since validation.
func (r *Repository) Redeem(ctx context.Context, code string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE coupons SET used_count = used_count + 1 WHERE code = ? AND used_count < usage_limit`,
		NormalizeCode(code),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// NormalizeCode uppercases and trims a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks eligibility at a point in time and computes the discount.
// It never mutates the coupon.
func Validate(coupon *models.Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if coupon == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if !coupon.IsActive {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "coupon is not active")
	}
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidTo) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "coupon is outside its validity window")
	}
	if coupon.UsedCount >= coupon.UsageLimit {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached")
	}
	if subtotal.LessThan(coupon.MinOrderAmount) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "order total below coupon minimum").
			WithDetails(map[string]any{"min_order_amount": coupon.MinOrderAmount})
	}

	return Discount(coupon, subtotal), nil
}

// Discount computes the amount taken off the subtotal. Percent discounts cap
// at max_discount when set; fixed discounts never exceed the subtotal.
func Discount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	switch coupon.DiscountType {
	case enums.DiscountTypePercent:
		discount := subtotal.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount != nil && discount.GreaterThan(*coupon.MaxDiscount) {
			discount = *coupon.MaxDiscount
		}
		return discount.Round(2)
	case enums.DiscountTypeFixed:
		if coupon.DiscountValue.GreaterThan(subtotal) {
			return subtotal
		}
		return coupon.DiscountValue
	default:
		return decimal.Zero
	}
}

// ErrNotFound reports whether err is the missing-coupon case.
func ErrNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
