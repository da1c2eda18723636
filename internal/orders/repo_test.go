package orders

import (
	"context"
	"testing"

	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  session_id TEXT NOT NULL,
  status TEXT NOT NULL,
  subtotal_cents INTEGER NOT NULL,
  tax_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  transaction_id TEXT,
  failure_reason TEXT,
  customer_email TEXT NOT NULL,
  customer_first_name TEXT NOT NULL,
  customer_last_name TEXT NOT NULL,
  customer_address TEXT NOT NULL,
  customer_city TEXT NOT NULL,
  customer_country TEXT NOT NULL,
  customer_postal_code TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	itemsTable := `
CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  image_url TEXT,
  file_url TEXT NOT NULL,
  created_at DATETIME
);`
	txnsTable := `
CREATE TABLE payment_transactions (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  transaction_id TEXT,
  amount_cents INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  status TEXT NOT NULL,
  gateway TEXT NOT NULL DEFAULT 'verifone',
  error_message TEXT,
  created_at DATETIME
);`

	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(itemsTable).Error)
	require.NoError(t, db.Exec(txnsTable).Error)
	return db
}

func seedOrder(sessionID uuid.UUID) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		Number:        "ORD-1700000000001",
		SessionID:     sessionID,
		Status:        enums.OrderStatusPending,
		SubtotalCents: 7998,
		TaxCents:      800,
		TotalCents:    8798,
		Currency:      enums.CurrencyUSD,

		CustomerEmail:      "dev@example.com",
		CustomerFirstName:  "Ada",
		CustomerLastName:   "Lovelace",
		CustomerAddress:    "1 Main St",
		CustomerCity:       "Austin",
		CustomerCountry:    "US",
		CustomerPostalCode: "78701",

		Items: []models.OrderItem{
			{
				ID:             uuid.New(),
				ProductID:      uuid.New(),
				Name:           "Open Source Bundle",
				UnitPriceCents: 3999,
				Quantity:       2,
				FileURL:        "https://files.test/oss.zip",
			},
		},
	}
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := seedOrder(uuid.New())
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Number, found.Number)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Open Source Bundle", found.Items[0].Name)
	assert.Equal(t, int64(3999), found.Items[0].UnitPriceCents)
}

func TestRepositoryFindByIDAndSessionScopes(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	sessionID := uuid.New()
	order := seedOrder(sessionID)
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)

	found, err := repo.FindByIDAndSession(context.Background(), order.ID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByIDAndSession(context.Background(), order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdatePersistsStatusFields(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := seedOrder(uuid.New())
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)

	txnID := "TXN_XYZ"
	order.Status = enums.OrderStatusCompleted
	order.TransactionID = &txnID
	require.NoError(t, repo.Update(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, found.Status)
	require.NotNil(t, found.TransactionID)
	assert.Equal(t, txnID, *found.TransactionID)
	assert.Nil(t, found.FailureReason)
}

func TestRepositoryCreateTransaction(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := seedOrder(uuid.New())
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)

	reason := "Payment declined by bank"
	txn := &models.PaymentTransaction{
		ID:           uuid.New(),
		OrderID:      order.ID,
		AmountCents:  order.TotalCents,
		Currency:     enums.CurrencyUSD,
		Status:       enums.PaymentStatusFailed,
		Gateway:      "verifone",
		ErrorMessage: &reason,
	}
	created, err := repo.CreateTransaction(context.Background(), txn)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, created.Status)
}
