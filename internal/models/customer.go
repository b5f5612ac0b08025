package models

import "time"

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:150;not null;index"`
	Phone     string `gorm:"size:50;not null;uniqueIndex"`
	Email     string `gorm:"size:100"`
	Address   string `gorm:"size:255"`
	Note      string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Orders []Order
}
