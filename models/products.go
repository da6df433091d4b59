package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const productTitleMaxLen = 127

// Product represents a product in the catalog.
// It carries an original and a discounted price; order totals are computed
// from the discounted one.
type Product struct {
	ID              uint            `gorm:"primaryKey"`
	Title           string          `gorm:"size:127;not null"`
	Description     *string         `gorm:"type:text"`
	PrimaryImage    *string         `gorm:"size:100"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	CategoryID      *uint           `gorm:"index"`
	Category        *Category       `gorm:"foreignKey:CategoryID"`
	Mappings        []Mapping       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	// orders losing a line item through the delete cascade
	affectedOrders []uint
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) String() string {
	return p.Title
}

func (p *Product) Validate() error {
	if err := validateTitle("title", p.Title, productTitleMaxLen); err != nil {
		return err
	}
	if err := validatePrice("original price", p.OriginalPrice); err != nil {
		return err
	}
	return validatePrice("discounted price", p.DiscountedPrice)
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

// BeforeDelete remembers which orders reference the product, since the
// database cascade removes their line items without running Mapping hooks.
func (p *Product) BeforeDelete(tx *gorm.DB) error {
	if p.ID == 0 {
		return nil
	}
	p.affectedOrders = nil
	return tx.Session(&gorm.Session{NewDB: true}).
		Model(&Mapping{}).
		Where("product_id = ?", p.ID).
		Distinct().
		Pluck("order_id", &p.affectedOrders).Error
}

func (p *Product) AfterDelete(tx *gorm.DB) error {
	for _, orderID := range p.affectedOrders {
		if err := RecalculateOrderTotal(tx, orderID); err != nil {
			return err
		}
	}
	p.affectedOrders = nil
	return nil
}
