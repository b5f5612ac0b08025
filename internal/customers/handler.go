package customers

import (
	"errors"
	"fmt"
	"strings"

	"perde-backend/internal/audit"
	"perde-backend/internal/database"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Note    string `json:"note"`
}

type CustomerResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Note       string `json:"note"`
	OrderCount int64  `json:"order_count"`
	CreatedAt  string `json:"created_at"`
}

func toResponse(c models.Customer, orderCount int64) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		Note:       c.Note,
		OrderCount: orderCount,
		CreatedAt:  c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// NormalizePhone boşlukları, tire ve parantezleri atar. Telefon müşterinin
// doğal anahtarıdır; "0532 111 22 33" ile "05321112233" aynı kayda düşer.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UpsertByPhone siparişten gelen müşteri bilgisini telefon üzerinden
// eşler. Kayıt yoksa oluşturur, varsa ismi günceller.
func UpsertByPhone(tx *gorm.DB, name, phone string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	phone = NormalizePhone(phone)
	if name == "" || phone == "" {
		return nil, fmt.Errorf("müşteri adı ve telefonu zorunlu")
	}

	var customer models.Customer
	err := tx.Where("phone = ?", phone).First(&customer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{Name: name, Phone: phone}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, fmt.Errorf("müşteri oluşturulamadı: %w", err)
		}
		return &customer, nil
	case err != nil:
		return nil, fmt.Errorf("müşteri sorgulanamadı: %w", err)
	}

	if customer.Name != name {
		customer.Name = name
		if err := tx.Save(&customer).Error; err != nil {
			return nil, fmt.Errorf("müşteri güncellenemedi: %w", err)
		}
	}
	return &customer, nil
}

// GET /api/customers?q=...
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		query := database.DB.Model(&models.Customer{})
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+NormalizePhone(q)+"%")
		}

		var list []models.Customer
		if err := query.Order("name asc").Limit(limit).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		res := make([]CustomerResponse, 0, len(list))
		for _, cu := range list {
			res = append(res, toResponse(cu, 0))
		}
		return c.JSON(res)
	}
}

func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var orderCount int64
		database.DB.Model(&models.Order{}).Where("customer_id = ?", customer.ID).Count(&orderCount)

		return c.JSON(toResponse(customer, orderCount))
	}
}

func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Phone = NormalizePhone(body.Phone)
		if body.Name == "" || body.Phone == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri adı ve telefonu zorunlu")
		}

		var exist models.Customer
		if err := database.DB.Where("phone = ?", body.Phone).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu telefon numarası zaten kayıtlı")
		}

		customer := models.Customer{
			Name:    body.Name,
			Phone:   body.Phone,
			Email:   strings.TrimSpace(body.Email),
			Address: strings.TrimSpace(body.Address),
			Note:    body.Note,
		}
		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Müşteri eklendi: %s", customer.Name),
			After:       toResponse(customer, 0),
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(customer, 0))
	}
}

func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		before := toResponse(customer, 0)

		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if name := strings.TrimSpace(body.Name); name != "" {
			customer.Name = name
		}
		if phone := NormalizePhone(body.Phone); phone != "" && phone != customer.Phone {
			var exist models.Customer
			if err := database.DB.Where("phone = ? AND id <> ?", phone, customer.ID).First(&exist).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu telefon numarası başka bir müşteride kayıtlı")
			}
			customer.Phone = phone
		}
		customer.Email = strings.TrimSpace(body.Email)
		customer.Address = strings.TrimSpace(body.Address)
		customer.Note = body.Note

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Müşteri güncellendi: %s", customer.Name),
			Before:      before,
			After:       toResponse(customer, 0),
		})

		return c.JSON(toResponse(customer, 0))
	}
}

// Siparişi olan müşteri silinemez; siparişler müşteri adını ve telefonunu
// zaten kendi üzerinde tutar.
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var orderCount int64
		database.DB.Model(&models.Order{}).Where("customer_id = ?", customer.ID).Count(&orderCount)
		if orderCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu müşteriye ait siparişler var, müşteri silinemez")
		}

		if err := database.DB.Delete(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Müşteri silindi: %s", customer.Name),
			Before:      toResponse(customer, 0),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
