package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/storefront-backend/pkg/enums"
)

// Coupon is a redeemable discount code. used_count only moves forward and
// only on completed checkouts.
type Coupon struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue  decimal.Decimal    `gorm:"column:discount_value;type:numeric(10,2);not null"`
	MinOrderAmount decimal.Decimal    `gorm:"column:min_order_amount;type:numeric(10,2);not null;default:0"`
	MaxDiscount    *decimal.Decimal   `gorm:"column:max_discount;type:numeric(10,2)"`
	ValidFrom      time.Time          `gorm:"column:valid_from;not null"`
	ValidTo        time.Time          `gorm:"column:valid_to;not null"`
	IsActive       bool               `gorm:"column:is_active;not null;default:true"`
	UsageLimit     int                `gorm:"column:usage_limit;not null;default:1"`
	UsedCount      int                `gorm:"column:used_count;not null;default:0"`
}
