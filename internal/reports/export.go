package reports

import (
	"fmt"
	"strconv"
	"time"

	"perde-backend/internal/database"
	"perde-backend/internal/dto"
	"perde-backend/internal/models"
	"perde-backend/internal/ordercalc"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	ordersSheet = "Siparişler"
	itemsSheet  = "Kalemler"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func orderTotals(o models.Order) ordercalc.Totals {
	subtotals := make([]float64, 0, len(o.Items))
	for _, it := range o.Items {
		subtotals = append(subtotals, it.Subtotal)
	}
	amounts := make([]float64, 0, len(o.Payments))
	for _, p := range o.Payments {
		amounts = append(amounts, p.Amount)
	}
	discount := dto.Discount{Percent: o.DiscountPercent, FixedAmount: o.DiscountFixedAmount}
	return ordercalc.Compute(subtotals, discount.Calc(), ordercalc.SumPayments(amounts))
}

func slotLabel(idx *int) string {
	if idx == nil {
		return ""
	}
	return strconv.Itoa(*idx + 1)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// BuildOrdersWorkbook iki sayfalık dosya üretir: sipariş özetleri ve kalemler.
// Tutarlar kaydedilmiş kalem ara toplamlarından yeniden hesaplanır.
func BuildOrdersWorkbook(orders []models.Order, currency string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	money := func(label string) string { return fmt.Sprintf("%s (%s)", label, currency) }

	orderHeader := []any{
		"Sipariş No", "Tarih", "Müşteri", "Telefon", "Durum", "Teslim Tarihi", "Kalem",
		money("Ara Toplam"), money("İndirim"), money("Net Tutar"), money("Ödenen"), money("Kalan"),
	}
	itemHeader := []any{
		"Sipariş No", "Kategori", "Ürün", "Slot", "Adet", "En (cm)", "Boy (cm)", "Sıklık",
		money("Birim Fiyat"), money("Tutar"), "Durum", "Not",
	}

	if err := writeRow(f, ordersSheet, 1, orderHeader); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRow(f, itemsSheet, 1, itemHeader); err != nil {
		f.Close()
		return nil, err
	}
	_ = f.SetRowStyle(ordersSheet, 1, 1, bold)
	_ = f.SetRowStyle(itemsSheet, 1, 1, bold)
	_ = f.SetColWidth(ordersSheet, "A", "L", 16)
	_ = f.SetColWidth(itemsSheet, "A", "L", 14)

	orderRowNo, itemRowNo := 2, 2
	for _, o := range orders {
		t := orderTotals(o)
		delivery := ""
		if o.DeliveryDate != nil {
			delivery = dto.FormatDate(*o.DeliveryDate)
		}
		if err := writeRow(f, ordersSheet, orderRowNo, []any{
			o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.CustomerName, o.CustomerPhone,
			string(o.Status), delivery, len(o.Items),
			t.SubTotal, t.Discount, t.NetTotal, t.Paid, t.Balance,
		}); err != nil {
			f.Close()
			return nil, err
		}
		orderRowNo++

		for _, it := range o.Items {
			if err := writeRow(f, itemsSheet, itemRowNo, []any{
				o.ID, it.Category.Name, it.Variant.Name, slotLabel(it.SlotIndex),
				it.Qty, it.Width, it.Height, it.FileDensity,
				it.UnitPrice, it.Subtotal, it.LineStatus, it.Note,
			}); err != nil {
				f.Close()
				return nil, err
			}
			itemRowNo++
		}
	}

	return f, nil
}

// GET /api/reports/orders.xlsx?from=2025-01-01&to=2025-01-31
func OrdersExportHandler(currency string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := branchFilter(c)
		if err != nil {
			return err
		}

		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := now
		if s := c.Query("from"); s != "" {
			if from, err = dto.ParseDate(s); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from formatı 'YYYY-MM-DD' olmalı")
			}
		}
		if s := c.Query("to"); s != "" {
			if to, err = dto.ParseDate(s); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to formatı 'YYYY-MM-DD' olmalı")
			}
		}
		if to.Before(from) {
			return fiber.NewError(fiber.StatusBadRequest, "Bitiş tarihi başlangıçtan önce olamaz")
		}

		query := database.DB.
			Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("category_id asc, slot_index asc, id asc") }).
			Preload("Items.Category").
			Preload("Items.Variant").
			Preload("Payments").
			Where("created_at >= ? AND created_at < ?", from, dayAfter(to))
		if branchID != nil {
			query = query.Where("branch_id = ?", *branchID)
		}

		var orders []models.Order
		if err := query.Order("created_at asc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler okunamadı")
		}

		f, err := BuildOrdersWorkbook(orders, currency)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası yazılamadı")
		}

		filename := fmt.Sprintf("siparisler_%s_%s.xlsx", from.Format(dto.DateLayout), to.Format(dto.DateLayout))
		c.Set(fiber.HeaderContentType, xlsxMIME)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

func dayAfter(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
