package orders

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"perde-backend/internal/audit"
	"perde-backend/internal/auth"
	"perde-backend/internal/database"
	"perde-backend/internal/dto"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func validatePayment(body dto.PaymentRequest) (dto.PaymentRequest, error) {
	if math.IsNaN(body.Amount) || math.IsInf(body.Amount, 0) || body.Amount <= 0 {
		return body, fiber.NewError(fiber.StatusBadRequest, "Ödeme tutarı 0'dan büyük olmalı")
	}
	method, err := normalizePaymentMethod(body.Method)
	if err != nil {
		return body, err
	}
	if method == "" {
		return body, fiber.NewError(fiber.StatusBadRequest, "Ödeme yöntemi zorunlu")
	}
	body.Method = method
	body.Note = strings.TrimSpace(body.Note)
	return body, nil
}

// POST /api/orders/:id/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.PaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		body, err := validatePayment(body)
		if err != nil {
			return err
		}

		var order models.Order
		if err := scopeBranch(c, database.DB).First(&order, "orders.id = ?", c.Params("id")).Error; err != nil {
			return errOrderNotFound
		}
		if order.Status == models.OrderStatusCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "İptal edilmiş siparişe ödeme eklenemez")
		}

		actor := auth.CurrentActor(c)
		payment := models.OrderPayment{
			OrderID:  order.ID,
			BranchID: order.BranchID,
			Amount:   body.Amount,
			Method:   models.PaymentMethod(body.Method),
			Note:     body.Note,
			PaidAt:   time.Now(),
		}
		if actor.UserID != 0 {
			payment.CreatedByID = &actor.UserID
		}

		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme kaydedilemedi")
		}

		audit.Record(c, audit.LogOptions{
			BranchID:    order.BranchID,
			EntityType:  "order_payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ödeme alındı: sipariş #%d, %.2f (%s)", order.ID, payment.Amount, payment.Method),
			After:       toPaymentResponse(payment),
		})

		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(payment))
	}
}

// GET /api/orders/:id/payments
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.Order
		if err := scopeBranch(c, database.DB).First(&order, "orders.id = ?", c.Params("id")).Error; err != nil {
			return errOrderNotFound
		}

		var list []models.OrderPayment
		if err := database.DB.Where("order_id = ?", order.ID).Order("paid_at asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}

		res := make([]dto.PaymentResponse, 0, len(list))
		for _, p := range list {
			res = append(res, toPaymentResponse(p))
		}
		return c.JSON(res)
	}
}

// DELETE /api/orders/:id/payments/:paymentId
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.Order
		if err := scopeBranch(c, database.DB).First(&order, "orders.id = ?", c.Params("id")).Error; err != nil {
			return errOrderNotFound
		}

		var payment models.OrderPayment
		if err := database.DB.
			Where("id = ? AND order_id = ?", c.Params("paymentId"), order.ID).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Ödeme bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme okunamadı")
		}

		if err := database.DB.Delete(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			BranchID:    order.BranchID,
			EntityType:  "order_payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Ödeme silindi: sipariş #%d, %.2f (%s)", order.ID, payment.Amount, payment.Method),
			Before:      toPaymentResponse(payment),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
