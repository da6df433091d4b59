package models

import "gorm.io/gorm"

const categoryTitleMaxLen = 63

// Category represents a product category.
// Products keep existing when their category is deleted.
type Category struct {
	ID       uint      `gorm:"primaryKey"`
	Title    string    `gorm:"size:63;not null"`
	Image    *string   `gorm:"size:100"`
	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

func (c *Category) TableName() string {
	return "categories"
}

func (c *Category) String() string {
	return c.Title
}

func (c *Category) Validate() error {
	return validateTitle("title", c.Title, categoryTitleMaxLen)
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}
