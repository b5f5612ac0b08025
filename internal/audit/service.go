package audit

import (
	"encoding/json"
	"fmt"

	"perde-backend/internal/auth"
	"perde-backend/internal/database"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LogOptions struct {
	BranchID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// BuildLog kaydedilecek satırı hazırlar; before/after JSON'a çevrilir.
func BuildLog(opts LogOptions) models.AuditLog {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	return models.AuditLog{
		BranchID:    opts.BranchID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}
}

// WriteLog verilen bağlantı (tx olabilir) üzerinden log yazar.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	entry := BuildLog(opts)
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// Record istek sahibini context'ten alıp log yazar. Hata isteği bozmaz,
// sadece loglanır.
func Record(c *fiber.Ctx, opts LogOptions) {
	actor := auth.CurrentActor(c)
	opts.UserID = actor.UserID
	opts.UserName = actor.Name
	if opts.BranchID == nil {
		opts.BranchID = actor.BranchID
	}
	if err := WriteLog(database.DB, opts); err != nil {
		zap.L().Warn("Audit log yazılamadı",
			zap.String("entity_type", opts.EntityType),
			zap.Uint("entity_id", opts.EntityID),
			zap.Error(err))
	}
}
