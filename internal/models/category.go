package models

import "time"

// Category - Perde kategorisi (TÜL PERDE, FON PERDE, STOR PERDE, AKSESUAR ...)
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;unique"`
	SortOrder int       `gorm:"not null;default:0"`
	Variants  []Variant `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Variant - Kategoriye ait fiyatlı ürün (kumaş/model)
type Variant struct {
	ID         uint    `gorm:"primaryKey"`
	CategoryID uint    `gorm:"index;not null"`
	Name       string  `gorm:"size:150;not null"`
	UnitPrice  float64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
