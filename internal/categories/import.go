package categories

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"perde-backend/internal/audit"
	"perde-backend/internal/catalog"
	"perde-backend/internal/database"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type priceRow struct {
	Name      string
	UnitPrice float64
}

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// parsePrice "1.250,50", "1250.5", "1250 TL" gibi yazımları kabul eder.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "TL"), "₺")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("geçersiz fiyat: %q", s)
	}
	return v, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := catalog.NormalizeName(row[0])
	return strings.Contains(first, "ÜRÜN") || strings.Contains(first, "PRODUCT") || first == "AD" || first == "İSİM"
}

// parsePriceList ilk kolon ürün adı, ikinci kolon birim fiyat. Başlık satırı
// varsa atlanır; okunamayan satırlar skipped listesine düşer.
func parsePriceList(rows [][]string) ([]priceRow, []string) {
	start := 0
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		start = 1
	}

	var out []priceRow
	var skipped []string
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		name := strings.Join(strings.Fields(row[0]), " ")
		if len(row) < 2 {
			skipped = append(skipped, name)
			continue
		}
		price, err := parsePrice(row[1])
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		out = append(out, priceRow{Name: name, UnitPrice: price})
	}
	return out, skipped
}

// POST /api/categories/:id/variants/import (multipart, alan adı "file")
// Aynı isimli ürünün fiyatı güncellenir, olmayan ürün eklenir.
func ImportVariantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.Category
		if err := database.DB.Preload("Variants").First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}
		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}

		prices, skipped := parsePriceList(rows)
		if len(prices) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Dosyada okunabilir ürün satırı yok")
		}

		existing := make(map[string]models.Variant, len(cat.Variants))
		for _, v := range cat.Variants {
			existing[catalog.NormalizeName(v.Name)] = v
		}

		result := ImportResult{Skipped: skipped}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, p := range prices {
				key := catalog.NormalizeName(p.Name)
				if v, ok := existing[key]; ok {
					if v.UnitPrice == p.UnitPrice {
						continue
					}
					v.UnitPrice = p.UnitPrice
					if err := tx.Save(&v).Error; err != nil {
						return err
					}
					existing[key] = v
					result.Updated++
					continue
				}
				v := models.Variant{CategoryID: cat.ID, Name: p.Name, UnitPrice: p.UnitPrice}
				if err := tx.Create(&v).Error; err != nil {
					return err
				}
				existing[key] = v
				result.Created++
			}
			return nil
		})
		if err != nil {
			zap.L().Error("Fiyat listesi içe aktarılamadı", zap.Uint("category_id", cat.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat listesi kaydedilemedi")
		}

		if len(skipped) > 0 {
			zap.L().Info("Fiyat listesinde okunamayan satırlar", zap.Uint("category_id", cat.ID), zap.Strings("rows", skipped))
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    cat.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Fiyat listesi yüklendi: %s (%d yeni, %d güncel)", cat.Name, result.Created, result.Updated),
			After:       result,
		})

		return c.JSON(result)
	}
}
