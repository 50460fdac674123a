package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/storefront-backend/pkg/enums"
)

// Order is an immutable snapshot produced at checkout. Amounts and line items
// never change after creation; only the status advances.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         string              `gorm:"column:order_id;type:char(20);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	FirstName       string              `gorm:"column:first_name"`
	LastName        string              `gorm:"column:last_name"`
	Email           string              `gorm:"column:email"`
	Phone           string              `gorm:"column:phone"`
	Address         string              `gorm:"column:address"`
	City            string              `gorm:"column:city"`
	State           string              `gorm:"column:state"`
	PostalCode      string              `gorm:"column:postal_code"`
	Country         string              `gorm:"column:country"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	ShippingAddress string              `gorm:"column:shipping_address;not null"`
	BillingAddress  string              `gorm:"column:billing_address;not null"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DiscountAmount  decimal.Decimal     `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	TaxAmount       decimal.Decimal     `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	FinalAmount     decimal.Decimal     `gorm:"column:final_amount;type:numeric(12,2);not null"`
	CouponCode      *string             `gorm:"column:coupon_code"`
	Items           []OrderItem         `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
