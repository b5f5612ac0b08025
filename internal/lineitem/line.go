package lineitem

import "fmt"

// Status satır bazlı durum; siparişin kendi durumundan bağımsızdır.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusWorkshop   Status = "workshop"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusWorkshop:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("geçersiz satır durumu: %q", s)
	}
	return st, nil
}

// Line siparişteki tek perde kalemi.
//
// Key bellek içi kimliktir (yeni satırlar için istemci tarafında üretilir),
// ID ise sunucunun verdiği kalıcı kimliktir; henüz kaydedilmemiş satırda 0'dır.
// SlotIndex sadece kutulu kategorilerde anlamlıdır; yerleşmemiş satırda nil.
type Line struct {
	Key          string
	ID           uint
	CategoryID   uint
	CategoryName string
	VariantID    uint
	VariantName  string
	Qty          int
	Width        int
	Height       int
	UnitPrice    float64
	Density      float64
	Note         string
	Subtotal     float64
	SlotIndex    *int
	Status       Status
}

func (l Line) Persisted() bool { return l.ID != 0 }

func (l Line) Placed() bool { return l.SlotIndex != nil }

func intPtr(v int) *int { return &v }
