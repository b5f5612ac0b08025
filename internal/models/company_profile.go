package models

import "time"

// CompanyProfile - Firma bilgileri (tek satır). Fiş/A4 çıktılarında kullanılır.
type CompanyProfile struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:150;not null"`
	TaxOffice  string `gorm:"size:100"`
	TaxNumber  string `gorm:"size:50"`
	Address    string `gorm:"size:255"`
	Phone      string `gorm:"size:50"`
	Email      string `gorm:"size:100"`
	Website    string `gorm:"size:150"`
	LogoURL    string `gorm:"size:255"`
	FooterNote string `gorm:"size:500"` // Sipariş çıktısının altındaki not
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
