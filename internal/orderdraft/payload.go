package orderdraft

import (
	"fmt"
	"math"

	"perde-backend/internal/dto"
)

// Validate ağ çağrısından önce çalışır; hata varsa hiçbir kayıt denenmez.
func (d *Draft) Validate() error {
	if trimmed(d.CustomerName) == "" {
		return invalid(ErrCustomerNameRequired, "")
	}
	if trimmed(d.CustomerPhone) == "" {
		return invalid(ErrCustomerPhoneRequired, "")
	}
	if len(d.lines) == 0 {
		return invalid(ErrNoLines, "")
	}
	if d.DeliveryDate != "" {
		if _, err := dto.ParseDate(d.DeliveryDate); err != nil {
			return invalid(ErrInvalidDate, d.DeliveryDate)
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"indirim yüzdesi", d.Discount.Percent},
		{"indirim tutarı", d.Discount.FixedAmount},
		{"ödenen tutar", d.Paid},
	} {
		if !finite(f.value) {
			return invalid(ErrNonFinite, f.name)
		}
	}
	for i, l := range d.lines {
		if !finite(l.UnitPrice) || !finite(l.Density) || !finite(l.Subtotal) {
			return invalid(ErrNonFinite, fmt.Sprintf("%d. kalem", i+1))
		}
	}
	return nil
}

// CreatePayload yeni sipariş için POST yükü. Hiçbir kalemde id yoktur.
func (d *Draft) CreatePayload() (dto.CreateOrderRequest, error) {
	if err := d.Validate(); err != nil {
		return dto.CreateOrderRequest{}, err
	}
	delivery, _ := dto.NormalizeDate(d.DeliveryDate)

	items := make([]dto.LineItemDTO, 0, len(d.lines))
	for _, l := range d.lines {
		items = append(items, LineToDTO(l, false))
	}

	return dto.CreateOrderRequest{
		BranchID:      d.BranchID,
		CustomerName:  trimmed(d.CustomerName),
		CustomerPhone: trimmed(d.CustomerPhone),
		Note:          d.Note,
		Status:        d.orderStatus(),
		DeliveryDate:  delivery,
		Discount:      dto.Discount{Percent: d.Discount.Percent, FixedAmount: d.Discount.FixedAmount},
		PaymentMethod: d.PaymentMethod,
		Items:         items,
	}, nil
}

// PatchPayload mevcut sipariş için PATCH yükü. Teslim tarihi her zaman
// gönderilir; boş değer sunucuda tarihi temizler. Kalemler:
//   - yüklenen siparişte olan kalemler id ile (güncelleme),
//   - yeni kalemler id'siz (oluşturma),
//   - yüklenen siparişte olup artık olmayan her id için {id, _action:"delete"}.
func (d *Draft) PatchPayload() (dto.UpdateOrderRequest, error) {
	if d.ID == 0 {
		return dto.UpdateOrderRequest{}, ErrNotPersisted
	}
	if err := d.Validate(); err != nil {
		return dto.UpdateOrderRequest{}, err
	}
	delivery, _ := dto.NormalizeDate(d.DeliveryDate)

	items := make([]dto.PatchItem, 0, len(d.lines)+len(d.originalIDs))
	present := make(map[uint]struct{}, len(d.lines))
	for _, l := range d.lines {
		_, known := d.originalIDs[l.ID]
		if l.ID != 0 && known {
			present[l.ID] = struct{}{}
			items = append(items, dto.Upsert(LineToDTO(l, true)))
			continue
		}
		items = append(items, dto.Upsert(LineToDTO(l, false)))
	}
	for _, id := range d.OriginalIDs() {
		if _, ok := present[id]; !ok {
			items = append(items, dto.DeleteMarker(id))
		}
	}

	name := trimmed(d.CustomerName)
	phone := trimmed(d.CustomerPhone)
	note := d.Note
	status := d.orderStatus()
	discount := dto.Discount{Percent: d.Discount.Percent, FixedAmount: d.Discount.FixedAmount}
	version := d.Version

	req := dto.UpdateOrderRequest{
		CustomerName:  &name,
		CustomerPhone: &phone,
		Note:          &note,
		Status:        &status,
		Discount:      &discount,
		DeliveryAt:    &delivery,
		Version:       &version,
		Items:         items,
	}
	if d.PaymentMethod != "" {
		pm := d.PaymentMethod
		req.PaymentMethod = &pm
	}
	return req, nil
}

func (d *Draft) orderStatus() string {
	if trimmed(d.Status) == "" {
		return defaultOrderStatus
	}
	return d.Status
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
