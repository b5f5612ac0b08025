package orders

import (
	"sort"

	"perde-backend/internal/dto"
	"perde-backend/internal/models"
	"perde-backend/internal/ordercalc"
)

const timeLayout = "2006-01-02 15:04:05"

func toItemDTO(it models.OrderItem) dto.LineItemDTO {
	id := it.ID
	out := dto.LineItemDTO{
		ID:           &id,
		CategoryID:   it.CategoryID,
		VariantID:    it.VariantID,
		Qty:          it.Qty,
		Width:        it.Width,
		Height:       it.Height,
		UnitPrice:    it.UnitPrice,
		FileDensity:  it.FileDensity,
		Note:         it.Note,
		LineStatus:   it.LineStatus,
		CategoryName: it.Category.Name,
		VariantName:  it.Variant.Name,
		Subtotal:     it.Subtotal,
	}
	if it.SlotIndex != nil {
		idx := *it.SlotIndex
		out.SlotIndex = &idx
	}
	return out
}

func toPaymentResponse(p models.OrderPayment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Note:      p.Note,
		CreatedAt: p.PaidAt.Format(timeLayout),
	}
}

// sortItems: kategori, slot (slotsuzlar sonda), sonra ekleniş sırası.
func sortItems(items []models.OrderItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		switch {
		case a.SlotIndex != nil && b.SlotIndex != nil:
			if *a.SlotIndex != *b.SlotIndex {
				return *a.SlotIndex < *b.SlotIndex
			}
		case a.SlotIndex != nil:
			return true
		case b.SlotIndex != nil:
			return false
		}
		return a.ID < b.ID
	})
}

// toResponse toplamları saklanan değerlerden değil kalem ve ödemelerden üretir.
func toResponse(o models.Order) dto.OrderResponse {
	items := append([]models.OrderItem(nil), o.Items...)
	sortItems(items)

	itemDTOs := make([]dto.LineItemDTO, 0, len(items))
	subtotals := make([]float64, 0, len(items))
	for _, it := range items {
		itemDTOs = append(itemDTOs, toItemDTO(it))
		subtotals = append(subtotals, it.Subtotal)
	}

	payments := make([]dto.PaymentResponse, 0, len(o.Payments))
	amounts := make([]float64, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, toPaymentResponse(p))
		amounts = append(amounts, p.Amount)
	}

	discount := dto.Discount{Percent: o.DiscountPercent, FixedAmount: o.DiscountFixedAmount}
	resp := dto.OrderResponse{
		ID:            o.ID,
		BranchID:      o.BranchID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Note:          o.Note,
		Status:        string(o.Status),
		Discount:      discount,
		PaymentMethod: o.PaymentMethod,
		Version:       o.Version,
		Items:         itemDTOs,
		Payments:      payments,
		Totals:        ordercalc.Compute(subtotals, discount.Calc(), ordercalc.SumPayments(amounts)),
		CreatedAt:     o.CreatedAt.Format(timeLayout),
		UpdatedAt:     o.UpdatedAt.Format(timeLayout),
	}
	if o.DeliveryDate != nil {
		resp.DeliveryDate = dto.FormatDate(*o.DeliveryDate)
	}
	return resp
}

// CalendarOrder takvim hücresindeki sipariş özeti.
type CalendarOrder struct {
	ID           uint    `json:"id"`
	CustomerName string  `json:"customerName"`
	Status       string  `json:"status"`
	ItemCount    int     `json:"itemCount"`
	NetTotal     float64 `json:"netTotal"`
	Balance      float64 `json:"balance"`
}

type CalendarDay struct {
	Date   string          `json:"date"`
	Orders []CalendarOrder `json:"orders"`
}

// groupByDelivery siparişleri teslim gününe göre gruplar; teslim tarihi
// olmayanlar atlanır. Günler artan sırada döner.
func groupByDelivery(orders []dto.OrderResponse) []CalendarDay {
	byDate := make(map[string][]CalendarOrder)
	for _, o := range orders {
		if o.DeliveryDate == "" {
			continue
		}
		byDate[o.DeliveryDate] = append(byDate[o.DeliveryDate], CalendarOrder{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Status:       o.Status,
			ItemCount:    len(o.Items),
			NetTotal:     o.Totals.NetTotal,
			Balance:      o.Totals.Balance,
		})
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]CalendarDay, 0, len(dates))
	for _, d := range dates {
		list := byDate[d]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		out = append(out, CalendarDay{Date: d, Orders: list})
	}
	return out
}
