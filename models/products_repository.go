package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

type ProductFilters struct {
	CategoryID    *uint
	PriceLessThan *float64
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.WithContext(ctx).Model(&Product{})

	// Filter
	if filters.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filters.CategoryID)
	}
	if filters.PriceLessThan != nil {
		query = query.Where("products.discounted_price < ?", *filters.PriceLessThan)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if err := query.
		Preload("Category").
		Order("products.id").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.checkCategory(ctx, product.CategoryID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// UpdateProduct saves every editable column of an existing product.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product) error {
	if _, err := r.GetByID(ctx, product.ID); err != nil {
		return err
	}
	if err := r.checkCategory(ctx, product.CategoryID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(product).
		Select("Title", "Description", "OriginalPrice", "DiscountedPrice", "CategoryID").
		Updates(product).Error
}

// SetPrimaryImage stores a new image path and returns the previous one.
func (r *ProductsRepository) SetPrimaryImage(ctx context.Context, id uint, path string) (*string, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Update writes through the loaded pointer, so keep a copy.
	previous := cloneString(product.PrimaryImage)
	if err := r.db.WithContext(ctx).Model(product).Omit(clause.Associations).Update("primary_image", path).Error; err != nil {
		return nil, err
	}
	return previous, nil
}

// DeleteProduct removes the product together with every line item that
// references it. Totals of the affected orders are recomputed by the
// product's delete hooks.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Product{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductsRepository) checkCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
