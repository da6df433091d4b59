package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderTotal sums discounted price times quantity over the order's line
// items. An order without line items totals zero.
func OrderTotal(db *gorm.DB, orderID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Session(&gorm.Session{NewDB: true}).
		Table("mappings").
		Select("COALESCE(SUM(products.discounted_price * mappings.quantity), 0)").
		Joins("JOIN products ON products.id = mappings.product_id").
		Where("mappings.order_id = ?", orderID).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum order %d: %w", orderID, err)
	}
	return total.Round(moneyPlaces), nil
}

// RecalculateOrderTotal stores the current total of the order and bumps its
// updated_at. It runs on whatever connection or transaction db is bound to.
//
// The order row is locked before summing so concurrent line item writes on
// the same order serialize and the later one sums the committed rows. NO KEY
// UPDATE does not conflict with the key-share lock taken by the line item
// foreign key, so two writers cannot deadlock on it.
func RecalculateOrderTotal(db *gorm.DB, orderID uint) error {
	var locked []Order
	if err := db.Session(&gorm.Session{NewDB: true}).
		Clauses(clause.Locking{Strength: "NO KEY UPDATE"}).
		Select("id").
		Where("id = ?", orderID).
		Find(&locked).Error; err != nil {
		return fmt.Errorf("lock order %d: %w", orderID, err)
	}

	total, err := OrderTotal(db, orderID)
	if err != nil {
		return err
	}
	if !fitsMoney(total) {
		return fmt.Errorf("%w: order %d would total %s", ErrTotalOutOfRange, orderID, total.StringFixed(moneyPlaces))
	}

	tx := db.Session(&gorm.Session{NewDB: true})
	err = tx.Model(&Order{}).
		Where("id = ?", orderID).
		UpdateColumns(map[string]any{
			"total":      total,
			"updated_at": tx.NowFunc(),
		}).Error
	if err != nil {
		return fmt.Errorf("update order %d total: %w", orderID, err)
	}
	return nil
}
