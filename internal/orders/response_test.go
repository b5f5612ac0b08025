package orders

import (
	"testing"
	"time"

	"perde-backend/internal/dto"
	"perde-backend/internal/models"
	"perde-backend/internal/ordercalc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortItems(t *testing.T) {
	items := []models.OrderItem{
		{ID: 5, CategoryID: 4},
		{ID: 4, CategoryID: 1},
		{ID: 3, CategoryID: 1, SlotIndex: intp(2)},
		{ID: 2, CategoryID: 1, SlotIndex: intp(0)},
		{ID: 1, CategoryID: 4},
	}
	sortItems(items)

	var ids []uint
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []uint{2, 3, 4, 1, 5}, ids)
}

func TestToResponse_TotalsFromItemsAndPayments(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	o := models.Order{
		ID:                  9,
		CustomerName:        "Ayşe",
		Status:              models.OrderStatusProcessing,
		DeliveryDate:        &delivery,
		DiscountPercent:     10,
		DiscountFixedAmount: 0,
		Version:             4,
		Items: []models.OrderItem{
			{ID: 1, CategoryID: 3, Subtotal: 600},
			{ID: 2, CategoryID: 1, Subtotal: 400, SlotIndex: intp(0)},
		},
		Payments: []models.OrderPayment{
			{ID: 1, Amount: 100, Method: models.PaymentMethodCash, PaidAt: delivery},
			{ID: 2, Amount: 200, Method: models.PaymentMethodCard, PaidAt: delivery},
		},
	}

	resp := toResponse(o)
	assert.Equal(t, "2025-06-10", resp.DeliveryDate)
	assert.Equal(t, 4, resp.Version)
	assert.Equal(t, ordercalc.Totals{SubTotal: 1000, Discount: 100, NetTotal: 900, Paid: 300, Balance: 600}, resp.Totals)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, uint(2), *resp.Items[0].ID)
	assert.Equal(t, "CASH", resp.Payments[0].Method)
	assert.Equal(t, "2025-06-10 00:00:00", resp.Payments[0].CreatedAt)
}

func TestGroupByDelivery(t *testing.T) {
	orders := []dto.OrderResponse{
		{ID: 3, DeliveryDate: "2025-06-12", Items: make([]dto.LineItemDTO, 2)},
		{ID: 1, DeliveryDate: "2025-06-10"},
		{ID: 2, DeliveryDate: ""},
		{ID: 4, DeliveryDate: "2025-06-10", Totals: ordercalc.Totals{NetTotal: 500, Balance: 200}},
	}

	days := groupByDelivery(orders)
	require.Len(t, days, 2)

	assert.Equal(t, "2025-06-10", days[0].Date)
	require.Len(t, days[0].Orders, 2)
	assert.Equal(t, uint(1), days[0].Orders[0].ID)
	assert.Equal(t, 200.0, days[0].Orders[1].Balance)

	assert.Equal(t, "2025-06-12", days[1].Date)
	assert.Equal(t, 2, days[1].Orders[0].ItemCount)
}
