package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- Helpers ---

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&Customer{}, &Category{}, &Product{}, &Order{}, &Mapping{}))
	return db
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, price(want).Equal(got), "expected %s, got %s", want, got.String())
}

func seedCustomer(t *testing.T, db *gorm.DB, username string) *Customer {
	t.Helper()
	c := &Customer{Username: username}
	require.NoError(t, db.Omit("Orders").Create(c).Error)
	return c
}

func seedCategory(t *testing.T, db *gorm.DB, title string) *Category {
	t.Helper()
	c := &Category{Title: title}
	require.NoError(t, db.Omit("Products").Create(c).Error)
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, title, discounted string, categoryID *uint) *Product {
	t.Helper()
	p := &Product{
		Title:           title,
		OriginalPrice:   price(discounted),
		DiscountedPrice: price(discounted),
		CategoryID:      categoryID,
	}
	require.NoError(t, db.Omit("Category", "Mappings").Create(p).Error)
	return p
}

func seedOrder(t *testing.T, db *gorm.DB, customerID uint) *Order {
	t.Helper()
	o := &Order{CustomerID: customerID}
	require.NoError(t, db.Omit("Customer", "Mappings").Create(o).Error)
	return o
}

func seedItem(t *testing.T, db *gorm.DB, orderID, productID uint, quantity int) *Mapping {
	t.Helper()
	m := &Mapping{OrderID: orderID, ProductID: productID, Quantity: quantity}
	require.NoError(t, db.Omit("Order", "Product").Create(m).Error)
	return m
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) Order {
	t.Helper()
	var o Order
	require.NoError(t, db.First(&o, id).Error)
	return o
}
