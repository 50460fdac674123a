package orders

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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  billing_address TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  tax_amount NUMERIC NOT NULL DEFAULT 0,
  final_amount NUMERIC NOT NULL,
  coupon_code TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_ref TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newOrdersService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{OrderRepo: NewRepository(db)})
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, orderID string, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	amount := decimal.RequireFromString("42.00")
	order := &models.Order{
		ID:              uuid.New(),
		OrderID:         orderID,
		UserID:          userID,
		Status:          status,
		PaymentMethod:   enums.PaymentMethodCOD,
		ShippingAddress: "1 Test St, Town",
		BillingAddress:  "1 Test St, Town",
		TotalAmount:     amount,
		FinalAmount:     amount,
		CreatedAt:       created,
		UpdatedAt:       created,
		Items: []models.OrderItem{
			{
				ID:          uuid.New(),
				ProductName: "thing",
				Quantity:    2,
				Price:       decimal.RequireFromString("21.00"),
				TotalPrice:  amount,
			},
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestHistoryNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)
	userID := uuid.New()
	now := time.Now().UTC()

	seedOrder(t, db, userID, "aaaaaaaaaaaaaaaaaaa1", enums.OrderStatusPending, now.Add(-2*time.Hour))
	seedOrder(t, db, userID, "aaaaaaaaaaaaaaaaaaa2", enums.OrderStatusShipped, now.Add(-time.Hour))
	seedOrder(t, db, uuid.New(), "bbbbbbbbbbbbbbbbbbb1", enums.OrderStatusPending, now)

	page, err := svc.History(context.Background(), userID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaa2", page.Orders[0].OrderID)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaa1", page.Orders[1].OrderID)
	assert.Equal(t, 2, page.Orders[0].ItemCount)
}

func TestGetScopedToOwner(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)
	owner := uuid.New()
	seedOrder(t, db, owner, "ccccccccccccccccccc1", enums.OrderStatusPending, time.Now())

	dto, err := svc.Get(context.Background(), owner, "ccccccccccccccccccc1")
	require.NoError(t, err)
	assert.Equal(t, "ccccccccccccccccccc1", dto.OrderID)
	require.Len(t, dto.Items, 1)

	// another user's lookup is indistinguishable from a missing order
	_, err = svc.Get(context.Background(), uuid.New(), "ccccccccccccccccccc1")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCancelPendingOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)
	owner := uuid.New()
	seedOrder(t, db, owner, "ddddddddddddddddddd1", enums.OrderStatusPending, time.Now())

	dto, err := svc.Cancel(context.Background(), owner, "ddddddddddddddddddd1")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, dto.Status)

	var status string
	require.NoError(t, db.Raw(`SELECT status FROM orders WHERE order_id = ?`, "ddddddddddddddddddd1").Scan(&status).Error)
	assert.Equal(t, "cancelled", status)
}

func TestCancelRejectedAfterShipping(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersService(t, db)
	owner := uuid.New()
	seedOrder(t, db, owner, "eeeeeeeeeeeeeeeeeee1", enums.OrderStatusShipped, time.Now())

	_, err := svc.Cancel(context.Background(), owner, "eeeeeeeeeeeeeeeeeee1")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}
