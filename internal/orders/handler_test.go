package orders

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"perde-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Post("/orders", CreateOrderHandler(&config.Config{}))
	app.Get("/orders/calendar", CalendarHandler())
	return app
}

func TestCreateOrderHandler_RejectsBeforeDatabase(t *testing.T) {
	app := validationApp()
	item := `{"categoryId":1,"variantId":11,"qty":1}`

	cases := []struct {
		name string
		body string
		want string
	}{
		{"bozuk json", `{`, "Geçersiz veri gönderildi"},
		{"ad yok", `{"customerPhone":"0532","items":[` + item + `]}`, "Müşteri adı zorunlu"},
		{"telefon yok", `{"customerName":"Ayşe","customerPhone":" - ","items":[` + item + `]}`, "Müşteri telefonu zorunlu"},
		{"kalem yok", `{"customerName":"Ayşe","customerPhone":"0532","items":[]}`, "Siparişte en az bir kalem olmalı"},
		{"geçersiz durum", `{"customerName":"Ayşe","customerPhone":"0532","status":"lost","items":[` + item + `]}`, "Geçersiz sipariş durumu"},
		{"geçersiz tarih", `{"customerName":"Ayşe","customerPhone":"0532","deliveryDate":"yarın","items":[` + item + `]}`, "Teslim tarihi formatı 'YYYY-MM-DD' olmalı"},
		{"geçersiz ödeme yöntemi", `{"customerName":"Ayşe","customerPhone":"0532","discount":{"percent":150},"paymentMethod":"BITCOIN","items":[` + item + `]}`, "Ödeme yöntemi CASH, TRANSFER veya CARD olmalı"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/orders", strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var payload map[string]string
			require.NoError(t, json.Unmarshal(raw, &payload))
			assert.Equal(t, tc.want, payload["error"])
		})
	}
}

func TestCalendarHandler_BadMonth(t *testing.T) {
	resp, err := validationApp().Test(httptest.NewRequest(fiber.MethodGet, "/orders/calendar?month=2025-13", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
