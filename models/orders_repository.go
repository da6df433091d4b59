package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

type OrderFilters struct {
	CustomerID *uint
	Status     OrderStatus
}

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

func (r *OrdersRepository) ListOrders(ctx context.Context, filters OrderFilters) ([]Order, error) {
	query := r.db.WithContext(ctx).Model(&Order{})
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var orders []Order
	if err := query.
		Preload("Mappings", orderByID).
		Preload("Mappings.Product").
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrdersRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	return getOrder(r.db.WithContext(ctx), id)
}

// CreateOrder inserts the order and its line items in one transaction and
// returns the stored order with its computed total.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *Order, items []Mapping) (*Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &Customer{}, order.CustomerID, ErrCustomerNotFound); err != nil {
			return err
		}

		order.ID = 0
		order.Total = decimal.Zero
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}

		for _, item := range items {
			if _, err := addItem(tx, order.ID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uint, status OrderStatus) (*Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, id)
		if err != nil {
			return err
		}
		order.Status = status
		return tx.Model(order).Omit(clause.Associations).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrdersRepository) DeleteOrder(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Order{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrdersRepository) AddItem(ctx context.Context, orderID, productID uint, quantity int) (*Mapping, error) {
	var item *Mapping
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &Order{}, orderID, ErrOrderNotFound); err != nil {
			return err
		}
		var err error
		item, err = addItem(tx, orderID, productID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *OrdersRepository) UpdateItemQuantity(ctx context.Context, orderID, itemID uint, quantity int) (*Mapping, error) {
	var item *Mapping
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = getItem(tx, orderID, itemID)
		if err != nil {
			return err
		}
		item.Quantity = quantity
		return tx.Omit(clause.Associations).Save(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *OrdersRepository) RemoveItem(ctx context.Context, orderID, itemID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := getItem(tx, orderID, itemID)
		if err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

// RecalculateTotal refreshes the stored total from the order's line items.
func (r *OrdersRepository) RecalculateTotal(ctx context.Context, id uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &Order{}, id, ErrOrderNotFound); err != nil {
			return err
		}
		if err := RecalculateOrderTotal(tx, id); err != nil {
			return err
		}
		var err error
		total, err = OrderTotal(tx, id)
		return err
	})
	return total, err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func getOrder(db *gorm.DB, id uint) (*Order, error) {
	var order Order
	if err := db.
		Preload("Customer").
		Preload("Mappings", orderByID).
		Preload("Mappings.Product").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func getItem(tx *gorm.DB, orderID, itemID uint) (*Mapping, error) {
	var item Mapping
	if err := tx.
		Where("order_id = ?", orderID).
		Preload("Product").
		First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func addItem(tx *gorm.DB, orderID, productID uint, quantity int) (*Mapping, error) {
	var product Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item := &Mapping{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, err
	}
	item.Product = &product
	return item, nil
}

func requireRow(tx *gorm.DB, model any, id uint, notFound error) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
