package main

import (
	"log"
	"strings"

	"perde-backend/internal/admin"
	"perde-backend/internal/audit"
	"perde-backend/internal/auth"
	"perde-backend/internal/categories"
	"perde-backend/internal/config"
	"perde-backend/internal/customers"
	"perde-backend/internal/database"
	"perde-backend/internal/logging"
	"perde-backend/internal/models"
	"perde-backend/internal/orders"
	"perde-backend/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logging.Init(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Logger kurulamadı: %v", err)
	}
	defer zlog.Sync()

	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			zlog.Error("Beklenmeyen hata", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminOnly := auth.RequireRole(models.RoleAdmin)
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(adminOnly)

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())
	adminRoutes.Post("/branches/:id/staff", admin.CreateStaffHandler())
	adminRoutes.Get("/branches/:id/staff", admin.ListStaffHandler())

	// Firma bilgileri
	adminRoutes.Put("/company-profile", admin.UpdateCompanyProfileHandler())
	protected.Get("/company-profile", admin.GetCompanyProfileHandler())

	// Müşteriler
	protected.Post("/customers", customers.CreateCustomerHandler())
	protected.Get("/customers", customers.ListCustomersHandler())
	protected.Get("/customers/:id", customers.GetCustomerHandler())
	protected.Put("/customers/:id", customers.UpdateCustomerHandler())
	protected.Delete("/customers/:id", adminOnly, customers.DeleteCustomerHandler())

	// Kategoriler ve ürünler
	protected.Get("/categories", categories.ListCategoriesHandler())
	protected.Post("/categories", adminOnly, categories.CreateCategoryHandler())
	protected.Put("/categories/:id", adminOnly, categories.UpdateCategoryHandler())
	protected.Delete("/categories/:id", adminOnly, categories.DeleteCategoryHandler())
	protected.Post("/categories/:id/variants", categories.CreateVariantHandler())
	protected.Post("/categories/:id/variants/import", adminOnly, categories.ImportVariantsHandler())
	protected.Put("/categories/:id/variants/:variantId", adminOnly, categories.UpdateVariantHandler())
	protected.Delete("/categories/:id/variants/:variantId", adminOnly, categories.DeleteVariantHandler())

	// Siparişler (calendar, :id'den önce tanımlanmalı)
	protected.Get("/orders/calendar", orders.CalendarHandler())
	protected.Post("/orders", orders.CreateOrderHandler(cfg))
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Patch("/orders/:id", orders.UpdateOrderHandler(cfg))
	protected.Patch("/orders/:id/items/:itemId/status", orders.UpdateItemStatusHandler())
	protected.Delete("/orders/:id", adminOnly, orders.DeleteOrderHandler())

	// Ödemeler
	protected.Post("/orders/:id/payments", orders.CreatePaymentHandler())
	protected.Get("/orders/:id/payments", orders.ListPaymentsHandler())
	protected.Delete("/orders/:id/payments/:paymentId", adminOnly, orders.DeletePaymentHandler())

	// Raporlar
	protected.Get("/reports/sales", reports.SalesReportHandler(cfg.CurrencyLabel))
	protected.Get("/reports/orders.xlsx", reports.OrdersExportHandler(cfg.CurrencyLabel))

	// Audit logs
	protected.Get("/audit-logs", adminOnly, audit.ListAuditLogsHandler())

	zlog.Info("Server çalışıyor", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zlog.Fatal("Server durdu", zap.Error(err))
	}
}
