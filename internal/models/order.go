package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // beklemede
	OrderStatusProcessing OrderStatus = "processing" // hazırlanıyor
	OrderStatusWorkshop   OrderStatus = "workshop"   // atölyede
	OrderStatusCompleted  OrderStatus = "completed"  // tamamlandı
	OrderStatusDelivered  OrderStatus = "delivered"  // teslim edildi
	OrderStatusCancelled  OrderStatus = "cancelled"  // iptal
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusWorkshop,
		OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"     // nakit
	PaymentMethodTransfer PaymentMethod = "TRANSFER" // havale/EFT
	PaymentMethodCard     PaymentMethod = "CARD"     // kredi kartı
)

// Order - Müşteri siparişi. Ara toplam, indirim, net tutar ve bakiye
// saklanmaz; her okumada kalemlerden ve ödemelerden hesaplanır.
type Order struct {
	ID                  uint  `gorm:"primaryKey"`
	BranchID            *uint `gorm:"index"`
	Branch              *Branch
	CustomerID          *uint `gorm:"index"`
	Customer            *Customer
	CustomerName        string      `gorm:"size:150;not null"`
	CustomerPhone       string      `gorm:"size:50;not null;index"`
	Note                string      `gorm:"size:1000"`
	Status              OrderStatus `gorm:"size:20;not null;index"`
	DeliveryDate        *time.Time  `gorm:"type:date;index"`
	DiscountPercent     float64     `gorm:"not null;default:0"`
	DiscountFixedAmount float64     `gorm:"not null;default:0"`
	PaymentMethod       string      `gorm:"size:20"`
	Version             int         `gorm:"not null;default:1"` // iyimser kilit
	CreatedByID         *uint
	Items               []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments            []OrderPayment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OrderItem - Sipariş kalemi. Silme soft delete'tir (deleted_at).
type OrderItem struct {
	ID          uint     `gorm:"primaryKey"`
	OrderID     uint     `gorm:"index;not null"`
	CategoryID  uint     `gorm:"index;not null"`
	Category    Category `gorm:"foreignKey:CategoryID"`
	VariantID   uint     `gorm:"index;not null"`
	Variant     Variant  `gorm:"foreignKey:VariantID"`
	Qty         int      `gorm:"not null;default:1"`
	Width       int      `gorm:"not null;default:0"` // cm
	Height      int      `gorm:"not null;default:0"` // cm
	UnitPrice   float64  `gorm:"not null"`
	FileDensity float64  `gorm:"not null;default:1"` // file/pile sıklığı
	Note        string   `gorm:"size:500"`
	Subtotal    float64  `gorm:"not null"`
	SlotIndex   *int     // sadece kutulu kategorilerde
	LineStatus  string   `gorm:"size:20;not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// OrderPayment - Siparişe yapılan ödeme
type OrderPayment struct {
	ID          uint          `gorm:"primaryKey"`
	OrderID     uint          `gorm:"index;not null"`
	BranchID    *uint         `gorm:"index"`
	Amount      float64       `gorm:"not null"`
	Method      PaymentMethod `gorm:"size:20;not null;index"`
	Note        string        `gorm:"size:255"`
	PaidAt      time.Time     `gorm:"index;not null"`
	CreatedByID *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
