package reports

import (
	"fmt"
	"time"

	"perde-backend/internal/auth"
	"perde-backend/internal/database"
	"perde-backend/internal/dto"
	"perde-backend/internal/models"
	"perde-backend/internal/ordercalc"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SalesPoint struct {
	Label      string  `json:"label"` // dilim başlangıcı
	Cash       float64 `json:"cash"`
	Transfer   float64 `json:"transfer"`
	Card       float64 `json:"card"`
	Collected  float64 `json:"collected"`
	OrderCount int     `json:"order_count"`
	NetSales   float64 `json:"net_sales"`
}

type SalesTotals struct {
	Cash       float64 `json:"cash"`
	Transfer   float64 `json:"transfer"`
	Card       float64 `json:"card"`
	Collected  float64 `json:"collected"`
	OrderCount int     `json:"order_count"`
	NetSales   float64 `json:"net_sales"`
}

type SalesResponse struct {
	BranchID    *uint        `json:"branch_id"`
	Period      string       `json:"period"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Currency    string       `json:"currency"`
	Points      []SalesPoint `json:"points"`
	GrandTotals SalesTotals  `json:"grand_totals"`
}

// paymentRow ödemelerin dilim + yöntem bazlı toplamı
type paymentRow struct {
	Bucket time.Time `gorm:"column:bucket"`
	Method string    `gorm:"column:method"`
	Total  float64   `gorm:"column:total"`
}

// orderRow dilimdeki tek siparişin net tutarı
type orderRow struct {
	CreatedAt time.Time
	NetTotal  float64
}

// branchFilter: personel kendi şubesi, admin ?branch_id ile (boşsa tümü).
func branchFilter(c *fiber.Ctx) (*uint, error) {
	role, ok := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}
	if role == models.RoleStaff {
		actor := auth.CurrentActor(c)
		if actor.BranchID == nil {
			return nil, fiber.NewError(fiber.StatusForbidden, "Şube bilgisi bulunamadı")
		}
		return actor.BranchID, nil
	}

	bidStr := c.Query("branch_id")
	if bidStr == "" {
		return nil, nil
	}
	var bid uint
	if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "branch_id geçersiz")
	}
	return &bid, nil
}

// orderNetTotal siparişin indirim sonrası tutarı, kalemlerden hesaplanır.
func orderNetTotal(o models.Order) float64 {
	subtotals := make([]float64, 0, len(o.Items))
	for _, it := range o.Items {
		subtotals = append(subtotals, it.Subtotal)
	}
	discount := dto.Discount{Percent: o.DiscountPercent, FixedAmount: o.DiscountFixedAmount}
	return ordercalc.Compute(subtotals, discount.Calc(), 0).NetTotal
}

// buildSalesPoints tüm dilimleri (boş olanlar dahil) sırayla doldurur.
func buildSalesPoints(period string, start, end time.Time, payments []paymentRow, orders []orderRow) ([]SalesPoint, SalesTotals) {
	type agg struct {
		cash, transfer, card, net decimal.Decimal
		count                     int
	}
	byBucket := make(map[string]*agg)
	keys := buckets(period, start, end)
	for _, b := range keys {
		byBucket[b.Format(dto.DateLayout)] = &agg{}
	}

	for _, p := range payments {
		a, ok := byBucket[bucketStart(period, p.Bucket).Format(dto.DateLayout)]
		if !ok {
			continue
		}
		amount := decimal.NewFromFloat(p.Total)
		switch p.Method {
		case string(models.PaymentMethodCash):
			a.cash = a.cash.Add(amount)
		case string(models.PaymentMethodTransfer):
			a.transfer = a.transfer.Add(amount)
		case string(models.PaymentMethodCard):
			a.card = a.card.Add(amount)
		}
	}
	for _, o := range orders {
		a, ok := byBucket[bucketStart(period, o.CreatedAt).Format(dto.DateLayout)]
		if !ok {
			continue
		}
		a.count++
		a.net = a.net.Add(decimal.NewFromFloat(o.NetTotal))
	}

	points := make([]SalesPoint, 0, len(keys))
	var grand SalesTotals
	for _, b := range keys {
		label := b.Format(dto.DateLayout)
		a := byBucket[label]
		collected := a.cash.Add(a.transfer).Add(a.card)
		p := SalesPoint{
			Label:      label,
			Cash:       a.cash.InexactFloat64(),
			Transfer:   a.transfer.InexactFloat64(),
			Card:       a.card.InexactFloat64(),
			Collected:  collected.InexactFloat64(),
			OrderCount: a.count,
			NetSales:   a.net.InexactFloat64(),
		}
		points = append(points, p)

		grand.Cash += p.Cash
		grand.Transfer += p.Transfer
		grand.Card += p.Card
		grand.Collected += p.Collected
		grand.OrderCount += p.OrderCount
		grand.NetSales += p.NetSales
	}
	return points, grand
}

// GET /api/reports/sales?period=daily&count=7&branch_id=1
func SalesReportHandler(currency string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := branchFilter(c)
		if err != nil {
			return err
		}

		period, start, end, err := periodRange(c.Query("period", PeriodDaily), c.QueryInt("count", 0), time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		trunc := "day"
		switch period {
		case PeriodWeekly:
			trunc = "week"
		case PeriodMonthly:
			trunc = "month"
		}

		var payments []paymentRow
		payQuery := database.DB.Model(&models.OrderPayment{}).
			Select(fmt.Sprintf("date_trunc('%s', paid_at)::date AS bucket, method, SUM(amount) AS total", trunc)).
			Where("paid_at >= ? AND paid_at < ?", start, end)
		if branchID != nil {
			payQuery = payQuery.Where("branch_id = ?", *branchID)
		}
		if err := payQuery.Group("bucket, method").Order("bucket ASC").Scan(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}

		var orders []models.Order
		orderQuery := database.DB.Preload("Items").
			Where("created_at >= ? AND created_at < ?", start, end).
			Where("status <> ?", models.OrderStatusCancelled)
		if branchID != nil {
			orderQuery = orderQuery.Where("branch_id = ?", *branchID)
		}
		if err := orderQuery.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}
		rows := make([]orderRow, 0, len(orders))
		for _, o := range orders {
			rows = append(rows, orderRow{CreatedAt: o.CreatedAt, NetTotal: orderNetTotal(o)})
		}

		points, grand := buildSalesPoints(period, start, end, payments, rows)

		return c.JSON(SalesResponse{
			BranchID:    branchID,
			Period:      period,
			From:        start.Format(dto.DateLayout),
			To:          end.AddDate(0, 0, -1).Format(dto.DateLayout),
			Currency:    currency,
			Points:      points,
			GrandTotals: grand,
		})
	}
}
