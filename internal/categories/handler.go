package categories

import (
	"fmt"
	"math"
	"strings"

	"perde-backend/internal/audit"
	"perde-backend/internal/catalog"
	"perde-backend/internal/database"
	"perde-backend/internal/dto"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name      string `json:"name"`
	SortOrder *int   `json:"sortOrder"`
}

// ToCatalog GORM kayıtlarını motorun katalog tipine çevirir. Kind isimden
// çözülür, veritabanında saklanmaz.
func ToCatalog(rows []models.Category) []catalog.Category {
	out := make([]catalog.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, toCategory(r))
	}
	return out
}

func toCategory(r models.Category) catalog.Category {
	variants := make([]catalog.Variant, 0, len(r.Variants))
	for _, v := range r.Variants {
		variants = append(variants, toVariant(v))
	}
	return catalog.Category{
		ID:       r.ID,
		Name:     r.Name,
		Kind:     catalog.ResolveKind(r.Name),
		Variants: variants,
	}
}

func toVariant(v models.Variant) catalog.Variant {
	return catalog.Variant{ID: v.ID, Name: v.Name, UnitPrice: v.UnitPrice}
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []models.Category
		if err := database.DB.
			Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
			Order("sort_order asc, id asc").
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}
		return c.JSON(ToCatalog(rows))
	}
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		name := catalog.CanonicalName(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı boş olamaz")
		}

		var existing []models.Category
		database.DB.Find(&existing)
		for _, e := range existing {
			if catalog.SameName(e.Name, name) {
				return fiber.NewError(fiber.StatusBadRequest, "Bu kategori zaten var")
			}
		}

		cat := models.Category{Name: name, SortOrder: len(existing)}
		if body.SortOrder != nil {
			cat.SortOrder = *body.SortOrder
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    cat.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Kategori eklendi: %s", cat.Name),
			After:       toCategory(cat),
		})

		return c.Status(fiber.StatusCreated).JSON(toCategory(cat))
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.Category
		if err := database.DB.Preload("Variants").First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		before := toCategory(cat)

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if strings.TrimSpace(body.Name) != "" {
			name := catalog.CanonicalName(body.Name)
			// Kutulu kategorinin adı değişirse slot tablosu da değişir;
			// mevcut siparişlerin slotları geçersiz kalır.
			if before.Kind.Boxed && !catalog.SameName(cat.Name, name) {
				return fiber.NewError(fiber.StatusBadRequest, "Kutulu kategorinin adı değiştirilemez")
			}
			var dup models.Category
			if err := database.DB.Where("LOWER(name) = LOWER(?) AND id <> ?", name, cat.ID).First(&dup).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu kategori zaten var")
			}
			cat.Name = name
		}
		if body.SortOrder != nil {
			cat.SortOrder = *body.SortOrder
		}

		if err := database.DB.Omit("Variants").Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    cat.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Kategori güncellendi: %s", cat.Name),
			Before:      before,
			After:       toCategory(cat),
		})

		return c.JSON(toCategory(cat))
	}
}

// DELETE /api/categories/:id - siparişte kullanılan kategori silinemez
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.Category
		if err := database.DB.Preload("Variants").First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var used int64
		database.DB.Unscoped().Model(&models.OrderItem{}).Where("category_id = ?", cat.ID).Count(&used)
		if used > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kategori siparişlerde kullanılıyor, silinemez")
		}

		if err := database.DB.Select("Variants").Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "category",
			EntityID:    cat.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Kategori silindi: %s", cat.Name),
			Before:      toCategory(cat),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// ÜRÜNLER (VARIANT)
// ----------------------------------------

// POST /api/categories/:id/variants -> {id, name, unitPrice}
func CreateVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var body dto.VariantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
		}
		if !validPrice(body.UnitPrice) {
			return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat geçersiz")
		}

		var dup models.Variant
		if err := database.DB.Where("category_id = ? AND LOWER(name) = LOWER(?)", cat.ID, body.Name).First(&dup).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kategoride zaten var")
		}

		v := models.Variant{CategoryID: cat.ID, Name: body.Name, UnitPrice: body.UnitPrice}
		if err := database.DB.Create(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "variant",
			EntityID:    v.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ürün eklendi: %s / %s (%.2f)", cat.Name, v.Name, v.UnitPrice),
			After:       toVariant(v),
		})

		return c.Status(fiber.StatusCreated).JSON(toVariant(v))
	}
}

// PUT /api/categories/:id/variants/:variantId
// Fiyat değişikliği mevcut sipariş kalemlerini etkilemez; kalemler kendi
// birim fiyatını saklar.
func UpdateVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v models.Variant
		if err := database.DB.
			Where("id = ? AND category_id = ?", c.Params("variantId"), c.Params("id")).
			First(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := toVariant(v)

		var body struct {
			Name      *string  `json:"name"`
			UnitPrice *float64 `json:"unitPrice"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			var dup models.Variant
			if err := database.DB.
				Where("category_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", v.CategoryID, name, v.ID).
				First(&dup).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kategoride zaten var")
			}
			v.Name = name
		}
		if body.UnitPrice != nil {
			if !validPrice(*body.UnitPrice) {
				return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat geçersiz")
			}
			v.UnitPrice = *body.UnitPrice
		}

		if err := database.DB.Save(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "variant",
			EntityID:    v.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ürün güncellendi: %s", v.Name),
			Before:      before,
			After:       toVariant(v),
		})

		return c.JSON(toVariant(v))
	}
}

// DELETE /api/categories/:id/variants/:variantId
func DeleteVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v models.Variant
		if err := database.DB.
			Where("id = ? AND category_id = ?", c.Params("variantId"), c.Params("id")).
			First(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var used int64
		database.DB.Unscoped().Model(&models.OrderItem{}).Where("variant_id = ?", v.ID).Count(&used)
		if used > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürün siparişlerde kullanılıyor, silinemez")
		}

		if err := database.DB.Delete(&v).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "variant",
			EntityID:    v.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Ürün silindi: %s", v.Name),
			Before:      toVariant(v),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
