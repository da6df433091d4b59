package models

import (
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

const (
	usernameMaxLen = 150
	emailMaxLen    = 254
)

// Customer is the account that places orders.
// Deleting a customer deletes all of their orders.
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:150;uniqueIndex;not null"`
	Email     string `gorm:"size:254;not null;default:''"`
	CreatedAt time.Time
	Orders    []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (c *Customer) TableName() string {
	return "customers"
}

func (c *Customer) String() string {
	return c.Username
}

func (c *Customer) Validate() error {
	if err := validateTitle("username", c.Username, usernameMaxLen); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Email) > emailMaxLen {
		return validationError("email must be at most %d characters", emailMaxLen)
	}
	return nil
}

func (c *Customer) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}
