// Package dto sunucu ile sipariş motoru arasındaki JSON sözleşmeleri.
package dto

import (
	"encoding/json"
	"fmt"

	"perde-backend/internal/ordercalc"
)

const ActionDelete = "delete"

// Ödeme yöntemleri
const (
	PaymentCash     = "CASH"
	PaymentTransfer = "TRANSFER"
	PaymentCard     = "CARD"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

// LineItemDTO siparişin tek kalemi. ID yeni satırlarda gönderilmez.
// SlotIndex kutusuz kategorilerde null'dır.
type LineItemDTO struct {
	ID           *uint   `json:"id,omitempty"`
	CategoryID   uint    `json:"categoryId"`
	VariantID    uint    `json:"variantId"`
	Qty          int     `json:"qty"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	UnitPrice    float64 `json:"unitPrice"`
	FileDensity  float64 `json:"fileDensity"`
	Note         string  `json:"note"`
	SlotIndex    *int    `json:"slotIndex"`
	LineStatus   string  `json:"lineStatus"`
	CategoryName string  `json:"categoryName,omitempty"`
	VariantName  string  `json:"variantName,omitempty"`
	Subtotal     float64 `json:"subtotal,omitempty"`
}

// PatchItem PATCH isteğindeki kalem: ya upsert edilecek satır ya da
// {id, _action:"delete"} silme işareti.
type PatchItem struct {
	Line   LineItemDTO
	Delete bool
}

func DeleteMarker(id uint) PatchItem {
	return PatchItem{Line: LineItemDTO{ID: &id}, Delete: true}
}

func Upsert(line LineItemDTO) PatchItem {
	return PatchItem{Line: line}
}

type deleteMarker struct {
	ID     uint   `json:"id"`
	Action string `json:"_action"`
}

func (p PatchItem) MarshalJSON() ([]byte, error) {
	if p.Delete {
		if p.Line.ID == nil {
			return nil, fmt.Errorf("silme işaretinde id zorunlu")
		}
		return json.Marshal(deleteMarker{ID: *p.Line.ID, Action: ActionDelete})
	}
	return json.Marshal(p.Line)
}

func (p *PatchItem) UnmarshalJSON(data []byte) error {
	var aux struct {
		LineItemDTO
		Action string `json:"_action"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch aux.Action {
	case "":
		p.Delete = false
	case ActionDelete:
		if aux.ID == nil {
			return fmt.Errorf("silme işaretinde id zorunlu")
		}
		p.Delete = true
	default:
		return fmt.Errorf("bilinmeyen _action: %q", aux.Action)
	}
	p.Line = aux.LineItemDTO
	return nil
}

type Discount struct {
	Percent     float64 `json:"percent"`
	FixedAmount float64 `json:"fixedAmount"`
}

func (d Discount) Calc() ordercalc.Discount {
	return ordercalc.Discount{Percent: d.Percent, FixedAmount: d.FixedAmount}
}

// CreateOrderRequest POST /api/orders
type CreateOrderRequest struct {
	BranchID      *uint         `json:"branchId,omitempty"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Note          string        `json:"note"`
	Status        string        `json:"status"`
	DeliveryDate  string        `json:"deliveryDate"`
	Discount      Discount      `json:"discount"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Items         []LineItemDTO `json:"items"`
}

// UpdateOrderRequest PATCH /api/orders/:id. Version gönderilirse sunucudaki
// sürümle eşleşmek zorundadır.
type UpdateOrderRequest struct {
	CustomerName  *string     `json:"customerName,omitempty"`
	CustomerPhone *string     `json:"customerPhone,omitempty"`
	Note          *string     `json:"note,omitempty"`
	Status        *string     `json:"status,omitempty"`
	DeliveryAt    *string     `json:"deliveryAt,omitempty"`
	Discount      *Discount   `json:"discount,omitempty"`
	PaymentMethod *string     `json:"paymentMethod,omitempty"`
	Version       *int        `json:"version,omitempty"`
	Items         []PatchItem `json:"items"`
}

type PaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Note   string  `json:"note,omitempty"`
}

type PaymentResponse struct {
	ID        uint    `json:"id"`
	OrderID   uint    `json:"orderId"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Note      string  `json:"note"`
	CreatedAt string  `json:"createdAt"`
}

type OrderResponse struct {
	ID            uint              `json:"id"`
	BranchID      *uint             `json:"branchId"`
	CustomerID    *uint             `json:"customerId"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	Note          string            `json:"note"`
	Status        string            `json:"status"`
	DeliveryDate  string            `json:"deliveryDate"`
	Discount      Discount          `json:"discount"`
	PaymentMethod string            `json:"paymentMethod"`
	Version       int               `json:"version"`
	Items         []LineItemDTO     `json:"items"`
	Payments      []PaymentResponse `json:"payments"`
	Totals        ordercalc.Totals  `json:"totals"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

type VariantRequest struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
}
