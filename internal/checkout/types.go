package checkout

// Input is the payload accepted when placing an order.
type Input struct {
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,max=32"`
	Address        string `json:"address" validate:"required,max=255"`
	City           string `json:"city" validate:"required,max=100"`
	State          string `json:"state" validate:"omitempty,max=100"`
	PostalCode     string `json:"postal_code" validate:"required,max=20"`
	Country        string `json:"country" validate:"required,max=100"`
	PaymentMethod  string `json:"payment_method" validate:"required"`
	BillingAddress string `json:"billing_address" validate:"omitempty,max=512"`
	CouponCode     string `json:"coupon_code" validate:"omitempty,max=50"`
}
