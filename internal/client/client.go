// Package client sipariş ekranlarının sunucu ile konuştuğu HTTP istemcisi.
// Taslak kaydı tek seferde bir istekle sınırlıdır; başarısız kayıt taslağı
// değiştirmez.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"perde-backend/internal/catalog"
	"perde-backend/internal/config"
	"perde-backend/internal/dto"
	"perde-backend/internal/orderdraft"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	saving  atomic.Bool
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New baseURL örn. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig zaman aşımını CLIENT_TIMEOUT_SECONDS'tan alır.
func NewFromConfig(cfg *config.Config, baseURL, token string) *Client {
	return New(baseURL,
		WithToken(token),
		WithTimeout(time.Duration(cfg.ClientTimeoutSeconds)*time.Second),
	)
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) agent(method, path string) *fiber.Agent {
	url := c.baseURL + path
	var a *fiber.Agent
	switch method {
	case fiber.MethodPost:
		a = fiber.Post(url)
	case fiber.MethodPatch:
		a = fiber.Patch(url)
	case fiber.MethodPut:
		a = fiber.Put(url)
	case fiber.MethodDelete:
		a = fiber.Delete(url)
	default:
		a = fiber.Get(url)
	}
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	return a.Timeout(c.timeout)
}

func (c *Client) do(method, path string, body, out any) error {
	a := c.agent(method, path)
	if body != nil {
		a.JSON(body)
	}
	if err := a.Parse(); err != nil {
		return fmt.Errorf("istek hazırlanamadı: %w", err)
	}

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("sunucuya ulaşılamadı: %w", errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return decodeAPIError(code, resp)
	}
	if out == nil || len(resp) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("sunucu cevabı okunamadı: %w", err)
	}
	return nil
}

func decodeAPIError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &APIError{Status: code, Message: strings.TrimSpace(string(body))}
	}
	return &APIError{Status: code, Message: payload.Error}
}

// Categories ekran açılışında kataloğu yükler.
func (c *Client) Categories() (catalog.Catalog, error) {
	var list []catalog.Category
	if err := c.do(fiber.MethodGet, "/categories", nil, &list); err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.New(list), nil
}

// CreateVariant sunucu onayladıktan sonra ürünü kataloğa ekler. Hata
// durumunda verilen katalog aynen döner.
func (c *Client) CreateVariant(cat catalog.Catalog, categoryID uint, name string, unitPrice float64) (catalog.Catalog, catalog.Variant, error) {
	var v catalog.Variant
	path := fmt.Sprintf("/categories/%d/variants", categoryID)
	if err := c.do(fiber.MethodPost, path, dto.VariantRequest{Name: strings.TrimSpace(name), UnitPrice: unitPrice}, &v); err != nil {
		return cat, catalog.Variant{}, err
	}
	next, err := cat.AppendVariant(categoryID, v)
	if err != nil {
		return cat, catalog.Variant{}, err
	}
	return next, v, nil
}

func (c *Client) GetOrder(id uint) (dto.OrderResponse, error) {
	var resp dto.OrderResponse
	err := c.do(fiber.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &resp)
	return resp, err
}

// LoadOrder "sipariş düzenle" ekranı için taslak oluşturur.
func (c *Client) LoadOrder(id uint, cat catalog.Catalog, opts ...orderdraft.Option) (*orderdraft.Draft, error) {
	resp, err := c.GetOrder(id)
	if err != nil {
		return nil, err
	}
	return orderdraft.Load(cat, resp, opts...)
}

func (c *Client) CreatePayment(orderID uint, req dto.PaymentRequest) (dto.PaymentResponse, error) {
	var resp dto.PaymentResponse
	err := c.do(fiber.MethodPost, fmt.Sprintf("/orders/%d/payments", orderID), req, &resp)
	return resp, err
}

// UpdateItemStatus tek kalemin durumunu değiştirir. Çağıran taraf hata
// durumunda kendi iyimser değişikliğini geri almalıdır.
func (c *Client) UpdateItemStatus(orderID, itemID uint, status string) (dto.OrderResponse, error) {
	var resp dto.OrderResponse
	path := fmt.Sprintf("/orders/%d/items/%d/status", orderID, itemID)
	err := c.do(fiber.MethodPatch, path, map[string]string{"lineStatus": status}, &resp)
	return resp, err
}

// SaveDraft taslağı kaydeder: yeni siparişte POST (+ Paid > 0 ise ayrı
// ödeme çağrısı), mevcut siparişte PATCH. Doğrulama hatası ağa çıkmadan
// döner. Başarılı kayıtta taslak sunucu cevabıyla eşitlenir; başarısız
// kayıtta taslağa dokunulmaz.
//
// Sipariş oluşup ödeme başarısız olursa *PartialSaveError döner ve taslak
// yine de kaydedilmiş siparişe eşitlenir, tekrar denemede ikinci sipariş
// oluşmaz.
func (c *Client) SaveDraft(d *orderdraft.Draft) (dto.OrderResponse, error) {
	if !c.saving.CompareAndSwap(false, true) {
		return dto.OrderResponse{}, ErrSaveInFlight
	}
	defer c.saving.Store(false)

	if !d.IsNew() {
		payload, err := d.PatchPayload()
		if err != nil {
			return dto.OrderResponse{}, err
		}
		var resp dto.OrderResponse
		if err := c.do(fiber.MethodPatch, fmt.Sprintf("/orders/%d", d.ID), payload, &resp); err != nil {
			return dto.OrderResponse{}, err
		}
		if err := d.MarkSaved(resp); err != nil {
			return resp, err
		}
		return resp, nil
	}

	payload, err := d.CreatePayload()
	if err != nil {
		return dto.OrderResponse{}, err
	}
	paid := d.Paid
	method := d.PaymentMethod

	var created dto.OrderResponse
	if err := c.do(fiber.MethodPost, "/orders", payload, &created); err != nil {
		return dto.OrderResponse{}, err
	}

	if paid <= 0 {
		if err := d.MarkSaved(created); err != nil {
			return created, err
		}
		return created, nil
	}

	if method == "" {
		method = dto.PaymentCash
	}
	if _, payErr := c.CreatePayment(created.ID, dto.PaymentRequest{Amount: paid, Method: method}); payErr != nil {
		if err := d.MarkSaved(created); err != nil {
			return created, err
		}
		return created, &PartialSaveError{Order: created, Err: payErr}
	}

	// Ödeme dahil güncel hali
	fresh, err := c.GetOrder(created.ID)
	if err != nil {
		fresh = created
		fresh.Payments = append(fresh.Payments, dto.PaymentResponse{OrderID: created.ID, Amount: paid, Method: method})
	}
	if err := d.MarkSaved(fresh); err != nil {
		return fresh, err
	}
	return fresh, nil
}

// Saving kayıt sürüyor mu (ekranda giriş kilidi için).
func (c *Client) Saving() bool {
	return c.saving.Load()
}
