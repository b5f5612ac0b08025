package orders

import (
	"math"
	"strings"
	"time"

	"perde-backend/internal/customers"
	"perde-backend/internal/dto"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func parseOrderStatus(s string) (models.OrderStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.OrderStatusPending, nil
	}
	st := models.OrderStatus(strings.ToLower(s))
	if !st.Valid() {
		return "", fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş durumu")
	}
	return st, nil
}

// parseDelivery boş tarih için nil döner.
func parseDelivery(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Teslim tarihi formatı 'YYYY-MM-DD' olmalı")
	}
	return &t, nil
}

// normalizeDiscount indirimi toplam hesabıyla aynı kurala getirir: yüzde
// [0,100] aralığına sıkıştırılır, negatif sabit tutar 0 sayılır (yüzde
// geçerli olur). Sadece sayı olmayan değerler reddedilir.
func normalizeDiscount(d dto.Discount) (dto.Discount, error) {
	for _, v := range []float64{d.Percent, d.FixedAmount} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return dto.Discount{}, fiber.NewError(fiber.StatusBadRequest, "İndirim değeri geçersiz")
		}
	}
	d.Percent = math.Min(math.Max(d.Percent, 0), 100)
	d.FixedAmount = math.Max(d.FixedAmount, 0)
	return d, nil
}

func normalizePaymentMethod(m string) (string, error) {
	m = strings.ToUpper(strings.TrimSpace(m))
	if m == "" {
		return "", nil
	}
	if !dto.ValidPaymentMethod(m) {
		return "", fiber.NewError(fiber.StatusBadRequest, "Ödeme yöntemi CASH, TRANSFER veya CARD olmalı")
	}
	return m, nil
}

// applyHeader PATCH isteğindeki dolu alanları siparişe uygular. Müşteri
// bilgisi değiştiyse true döner.
func applyHeader(o *models.Order, body dto.UpdateOrderRequest) (bool, error) {
	customerChanged := false

	if body.CustomerName != nil {
		name := strings.TrimSpace(*body.CustomerName)
		if name == "" {
			return false, fiber.NewError(fiber.StatusBadRequest, "Müşteri adı zorunlu")
		}
		customerChanged = customerChanged || name != o.CustomerName
		o.CustomerName = name
	}
	if body.CustomerPhone != nil {
		phone := customers.NormalizePhone(*body.CustomerPhone)
		if phone == "" {
			return false, fiber.NewError(fiber.StatusBadRequest, "Müşteri telefonu zorunlu")
		}
		customerChanged = customerChanged || phone != o.CustomerPhone
		o.CustomerPhone = phone
	}
	if body.Note != nil {
		o.Note = *body.Note
	}
	if body.Status != nil {
		st, err := parseOrderStatus(*body.Status)
		if err != nil {
			return false, err
		}
		o.Status = st
	}
	if body.DeliveryAt != nil {
		t, err := parseDelivery(*body.DeliveryAt)
		if err != nil {
			return false, err
		}
		o.DeliveryDate = t
	}
	if body.Discount != nil {
		disc, err := normalizeDiscount(*body.Discount)
		if err != nil {
			return false, err
		}
		o.DiscountPercent = disc.Percent
		o.DiscountFixedAmount = disc.FixedAmount
	}
	if body.PaymentMethod != nil {
		pm, err := normalizePaymentMethod(*body.PaymentMethod)
		if err != nil {
			return false, err
		}
		o.PaymentMethod = pm
	}
	return customerChanged, nil
}
