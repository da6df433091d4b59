package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultQuantity is used for line items created without a quantity.
const DefaultQuantity = 1

// Mapping is an order line item: one product with a quantity.
type Mapping struct {
	ID        uint     `gorm:"primaryKey"`
	OrderID   uint     `gorm:"not null;index"`
	Order     *Order   `gorm:"foreignKey:OrderID"`
	ProductID uint     `gorm:"not null;index"`
	Product   *Product `gorm:"foreignKey:ProductID"`
	Quantity  int      `gorm:"not null;default:1"`
}

func (m *Mapping) TableName() string {
	return "mappings"
}

func (m *Mapping) String() string {
	title := ""
	if m.Product != nil {
		title = m.Product.Title
	}
	return fmt.Sprintf("Order #%d-%s", m.OrderID, title)
}

// Subtotal is the discounted price of the product times the quantity.
// It is zero when the product is not loaded.
func (m *Mapping) Subtotal() decimal.Decimal {
	if m.Product == nil {
		return decimal.Zero
	}
	return m.Product.DiscountedPrice.Mul(decimal.NewFromInt(int64(m.Quantity)))
}

func (m *Mapping) Validate() error {
	if m.OrderID == 0 {
		return validationError("order is required")
	}
	if m.ProductID == 0 {
		return validationError("product is required")
	}
	if m.Quantity < 1 {
		return validationError("quantity must be at least 1, got %d", m.Quantity)
	}
	return nil
}

func (m *Mapping) BeforeSave(tx *gorm.DB) error {
	if m.ID == 0 && m.Quantity == 0 {
		m.Quantity = DefaultQuantity
	}
	return m.Validate()
}

func (m *Mapping) AfterSave(tx *gorm.DB) error {
	return RecalculateOrderTotal(tx, m.OrderID)
}

// BeforeDelete resolves the owning order when only the primary key is known.
func (m *Mapping) BeforeDelete(tx *gorm.DB) error {
	if m.OrderID != 0 || m.ID == 0 {
		return nil
	}
	var orderIDs []uint
	if err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Mapping{}).
		Where("id = ?", m.ID).
		Pluck("order_id", &orderIDs).Error; err != nil {
		return err
	}
	if len(orderIDs) > 0 {
		m.OrderID = orderIDs[0]
	}
	return nil
}

func (m *Mapping) AfterDelete(tx *gorm.DB) error {
	if m.OrderID == 0 {
		return nil
	}
	return RecalculateOrderTotal(tx, m.OrderID)
}
