package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"perde-backend/internal/audit"
	"perde-backend/internal/auth"
	"perde-backend/internal/catalog"
	"perde-backend/internal/categories"
	"perde-backend/internal/config"
	"perde-backend/internal/customers"
	"perde-backend/internal/database"
	"perde-backend/internal/dto"
	"perde-backend/internal/lineitem"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errOrderNotFound = fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")

func loadCatalog(db *gorm.DB) (catalog.Catalog, error) {
	var rows []models.Category
	if err := db.Preload("Variants").Order("sort_order asc, id asc").Find(&rows).Error; err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.New(categories.ToCatalog(rows)), nil
}

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("Items.Category").
		Preload("Items.Variant").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB { return tx.Order("paid_at asc") })
}

// scopeBranch: personel sadece kendi şubesinin siparişlerini görür.
func scopeBranch(c *fiber.Ctx, q *gorm.DB) *gorm.DB {
	role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
	if role != models.RoleStaff {
		return q
	}
	actor := auth.CurrentActor(c)
	if actor.BranchID == nil {
		return q.Where("1 = 0")
	}
	return q.Where("orders.branch_id = ?", *actor.BranchID)
}

func findOrder(c *fiber.Ctx, db *gorm.DB, id string) (models.Order, error) {
	var order models.Order
	if err := scopeBranch(c, preloadOrder(db)).First(&order, "orders.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, errOrderNotFound
		}
		return order, fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
	}
	return order, nil
}

// txError transaction içinden dönen fiber hatasını korur, diğerlerini loglayıp
// genel hataya çevirir.
func txError(err error, msg string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	zap.L().Error(msg, zap.Error(err))
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

func actorLog(c *fiber.Ctx, opts audit.LogOptions) audit.LogOptions {
	actor := auth.CurrentActor(c)
	opts.UserID = actor.UserID
	opts.UserName = actor.Name
	return opts
}

// ----------------------------------------
// SİPARİŞ OLUŞTUR
// POST /api/orders
// ----------------------------------------

func CreateOrderHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		name := strings.TrimSpace(body.CustomerName)
		phone := customers.NormalizePhone(body.CustomerPhone)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri adı zorunlu")
		}
		if phone == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri telefonu zorunlu")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Siparişte en az bir kalem olmalı")
		}

		status, err := parseOrderStatus(body.Status)
		if err != nil {
			return err
		}
		delivery, err := parseDelivery(body.DeliveryDate)
		if err != nil {
			return err
		}
		discount, err := normalizeDiscount(body.Discount)
		if err != nil {
			return err
		}
		paymentMethod, err := normalizePaymentMethod(body.PaymentMethod)
		if err != nil {
			return err
		}

		cat, err := loadCatalog(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog okunamadı")
		}
		items, err := planCreate(cat, body.Items, cfg.LineDefaults())
		if err != nil {
			return err
		}

		actor := auth.CurrentActor(c)
		branchID := actor.BranchID
		if role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole); role == models.RoleAdmin && body.BranchID != nil {
			branchID = body.BranchID
		}

		order := models.Order{
			BranchID:            branchID,
			CustomerName:        name,
			CustomerPhone:       phone,
			Note:                body.Note,
			Status:              status,
			DeliveryDate:        delivery,
			DiscountPercent:     discount.Percent,
			DiscountFixedAmount: discount.FixedAmount,
			PaymentMethod:       paymentMethod,
			Version:             1,
		}
		if actor.UserID != 0 {
			order.CreatedByID = &actor.UserID
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			customer, err := customers.UpsertByPhone(tx, name, phone)
			if err != nil {
				return err
			}
			order.CustomerID = &customer.ID

			if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}

			return audit.WriteLog(tx, actorLog(c, audit.LogOptions{
				BranchID:    order.BranchID,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sipariş oluşturuldu: #%d %s (%d kalem)", order.ID, order.CustomerName, len(items)),
			}))
		})
		if err != nil {
			return txError(err, "Sipariş oluşturulamadı")
		}

		saved, err := findOrder(c, database.DB, fmt.Sprint(order.ID))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(saved))
	}
}

// ----------------------------------------
// SİPARİŞ LİSTE / DETAY
// ----------------------------------------

// GET /api/orders?status=&from=&to=&q=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := scopeBranch(c, preloadOrder(database.DB).Model(&models.Order{}))

		if s := strings.TrimSpace(c.Query("status")); s != "" {
			st := models.OrderStatus(strings.ToLower(s))
			if !st.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş durumu")
			}
			query = query.Where("orders.status = ?", st)
		}
		if from := c.Query("from"); from != "" {
			t, err := dto.ParseDate(from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from formatı 'YYYY-MM-DD' olmalı")
			}
			query = query.Where("orders.created_at >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := dto.ParseDate(to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to formatı 'YYYY-MM-DD' olmalı")
			}
			query = query.Where("orders.created_at < ?", t.AddDate(0, 0, 1))
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(orders.customer_name) LIKE ? OR orders.customer_phone LIKE ?",
				like, "%"+customers.NormalizePhone(q)+"%")
		}

		limit := c.QueryInt("limit", 200)
		if limit <= 0 || limit > 1000 {
			limit = 200
		}

		var list []models.Order
		if err := query.Order("orders.created_at DESC").Limit(limit).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]dto.OrderResponse, 0, len(list))
		for _, o := range list {
			res = append(res, toResponse(o))
		}
		return c.JSON(res)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := findOrder(c, database.DB, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toResponse(order))
	}
}

// ----------------------------------------
// SİPARİŞ GÜNCELLE
// PATCH /api/orders/:id
// ----------------------------------------

func UpdateOrderHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.UpdateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		cat, err := loadCatalog(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog okunamadı")
		}

		var orderID uint
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := scopeBranch(c, tx.Clauses(clause.Locking{Strength: "UPDATE"})).
				First(&order, "orders.id = ?", c.Params("id")).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errOrderNotFound
				}
				return err
			}
			orderID = order.ID

			if body.Version != nil && *body.Version != order.Version {
				return fiber.NewError(fiber.StatusConflict, "Sipariş başka bir kullanıcı tarafından değiştirildi, lütfen yeniden yükleyin")
			}

			var existing []models.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Order("id asc").Find(&existing).Error; err != nil {
				return err
			}

			plan, err := planPatch(cat, existing, body.Items, cfg.LineDefaults(), lineitem.FlowEditOrder)
			if err != nil {
				return err
			}
			if len(existing)-len(plan.Deletes)+len(plan.Creates) <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Siparişte en az bir kalem olmalı")
			}

			// Slot takaslarında benzersiz index'e takılmamak için dokunulan
			// kalemlerin slotları önce boşaltılır.
			if ids := plan.touchedIDs(); len(ids) > 0 {
				if err := tx.Model(&models.OrderItem{}).Where("id IN ?", ids).Update("slot_index", nil).Error; err != nil {
					return err
				}
			}
			if len(plan.Deletes) > 0 {
				if err := tx.Where("id IN ?", plan.Deletes).Delete(&models.OrderItem{}).Error; err != nil {
					return err
				}
			}
			for i := range plan.Updates {
				if err := tx.Omit(clause.Associations).Save(&plan.Updates[i]).Error; err != nil {
					return err
				}
			}
			for i := range plan.Creates {
				plan.Creates[i].OrderID = order.ID
			}
			if len(plan.Creates) > 0 {
				if err := tx.Omit(clause.Associations).Create(&plan.Creates).Error; err != nil {
					return err
				}
			}

			customerChanged, err := applyHeader(&order, body)
			if err != nil {
				return err
			}
			if customerChanged {
				customer, err := customers.UpsertByPhone(tx, order.CustomerName, order.CustomerPhone)
				if err != nil {
					return err
				}
				order.CustomerID = &customer.ID
			}

			order.Version++
			if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
				return err
			}

			return audit.WriteLog(tx, actorLog(c, audit.LogOptions{
				BranchID:   order.BranchID,
				EntityType: "order",
				EntityID:   order.ID,
				Action:     models.AuditActionUpdate,
				Description: fmt.Sprintf("Sipariş güncellendi: #%d (+%d yeni, %d güncel, %d silinen kalem)",
					order.ID, len(plan.Creates), len(plan.Updates), len(plan.Deletes)),
				After: body,
			}))
		})
		if err != nil {
			return txError(err, "Sipariş güncellenemedi")
		}

		saved, err := findOrder(c, database.DB, fmt.Sprint(orderID))
		if err != nil {
			return err
		}
		return c.JSON(toResponse(saved))
	}
}

// PATCH /api/orders/:id/items/:itemId/status
// Sadece kalem durumunu değiştirir; sipariş sürümü artar.
func UpdateItemStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			LineStatus string `json:"lineStatus"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		status, err := lineitem.ParseStatus(strings.ToLower(strings.TrimSpace(body.LineStatus)))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kalem durumu")
		}

		var orderID uint
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := scopeBranch(c, tx.Clauses(clause.Locking{Strength: "UPDATE"})).
				First(&order, "orders.id = ?", c.Params("id")).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errOrderNotFound
				}
				return err
			}
			orderID = order.ID

			var item models.OrderItem
			if err := tx.Where("id = ? AND order_id = ?", c.Params("itemId"), order.ID).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Kalem bulunamadı")
				}
				return err
			}
			prev := item.LineStatus

			if err := tx.Model(&item).Update("line_status", string(status)).Error; err != nil {
				return err
			}
			if err := tx.Model(&order).Update("version", gorm.Expr("version + 1")).Error; err != nil {
				return err
			}

			return audit.WriteLog(tx, actorLog(c, audit.LogOptions{
				BranchID:    order.BranchID,
				EntityType:  "order_item",
				EntityID:    item.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Kalem durumu: %s -> %s (sipariş #%d)", prev, status, order.ID),
				Before:      map[string]string{"lineStatus": prev},
				After:       map[string]string{"lineStatus": string(status)},
			}))
		})
		if err != nil {
			return txError(err, "Kalem durumu güncellenemedi")
		}

		saved, err := findOrder(c, database.DB, fmt.Sprint(orderID))
		if err != nil {
			return err
		}
		return c.JSON(toResponse(saved))
	}
}

// DELETE /api/orders/:id - kalemler ve ödemelerle birlikte kalıcı silinir
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := findOrder(c, database.DB, c.Params("id"))
		if err != nil {
			return err
		}
		snapshot := toResponse(order)

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderPayment{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Delete(&models.Order{}, order.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, actorLog(c, audit.LogOptions{
				BranchID:    order.BranchID,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Sipariş silindi: #%d %s", order.ID, order.CustomerName),
				Before:      snapshot,
			}))
		})
		if err != nil {
			return txError(err, "Sipariş silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/orders/calendar?month=2025-03
func CalendarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.Query("month")
		var start time.Time
		if month == "" {
			now := time.Now()
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		} else {
			t, err := time.Parse("2006-01", month)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "month formatı 'YYYY-MM' olmalı")
			}
			start = t
		}
		end := start.AddDate(0, 1, 0)

		var list []models.Order
		if err := scopeBranch(c, preloadOrder(database.DB)).
			Where("orders.delivery_date >= ? AND orders.delivery_date < ?", start, end).
			Where("orders.status <> ?", models.OrderStatusCancelled).
			Order("orders.delivery_date asc, orders.id asc").
			Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Takvim verisi alınamadı")
		}

		resp := make([]dto.OrderResponse, 0, len(list))
		for _, o := range list {
			resp = append(resp, toResponse(o))
		}

		return c.JSON(fiber.Map{
			"month": start.Format("2006-01"),
			"days":  groupByDelivery(resp),
		})
	}
}
