package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusOrderSent   OrderStatus = "order_sent"
	StatusPaid        OrderStatus = "paid"
	StatusInvoiceMade OrderStatus = "invoice_made"
	StatusProductSent OrderStatus = "product_sent"
	StatusOrderClosed OrderStatus = "order_closed"
	StatusOrderFailed OrderStatus = "order_failed"
)

// StatusChoice pairs a stored status value with its display label.
type StatusChoice struct {
	Value OrderStatus
	Label string
}

// StatusChoices lists every valid order status in display order.
var StatusChoices = []StatusChoice{
	{StatusOrderSent, "Order placed"},
	{StatusPaid, "Paid"},
	{StatusInvoiceMade, "Invoice issued"},
	{StatusProductSent, "Product shipped"},
	{StatusOrderClosed, "Order closed"},
	{StatusOrderFailed, "Order failed"},
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	for _, c := range StatusChoices {
		if c.Value == s {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the status, or the raw value
// for unknown statuses.
func (s OrderStatus) Label() string {
	for _, c := range StatusChoices {
		if c.Value == s {
			return c.Label
		}
	}
	return string(s)
}

// Order is a customer's purchase. Total is kept in sync with the order's
// line items by the Mapping hooks and is never written by callers.
type Order struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"not null;index"`
	Customer   *Customer
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Total      decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	Status     OrderStatus     `gorm:"size:63;not null;default:order_sent"`
	Mappings   []Mapping       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) TableName() string {
	return "orders"
}

func (o *Order) String() string {
	return strconv.FormatUint(uint64(o.ID), 10)
}

// Products returns the products of the loaded line items.
func (o *Order) Products() []Product {
	products := make([]Product, 0, len(o.Mappings))
	for _, m := range o.Mappings {
		if m.Product != nil {
			products = append(products, *m.Product)
		}
	}
	return products
}

func (o *Order) Validate() error {
	if o.CustomerID == 0 {
		return validationError("customer is required")
	}
	if !o.Status.Valid() {
		return validationError("unknown order status %q", o.Status)
	}
	if !fitsMoney(o.Total) {
		return ErrTotalOutOfRange
	}
	return nil
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = StatusOrderSent
	}
	return o.Validate()
}
