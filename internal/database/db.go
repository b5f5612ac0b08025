package database

import (
	"perde-backend/internal/config"
	"perde-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("Veritabanına bağlanılamadı", zap.Error(err))
	}

	err = DB.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.CompanyProfile{},
		&models.Customer{},
		&models.Category{},
		&models.Variant{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderPayment{},
		&models.AuditLog{},
	)
	if err != nil {
		zap.L().Fatal("AutoMigrate hatası", zap.Error(err))
	}

	// Slot benzersizliği: aynı siparişte aynı kategorinin bir slotunda en fazla
	// bir (silinmemiş) kalem olabilir.
	if err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_order_items_slot
		ON order_items(order_id, category_id, slot_index)
		WHERE slot_index IS NOT NULL AND deleted_at IS NULL
	`).Error; err != nil {
		zap.L().Warn("Slot index oluşturulamadı", zap.Error(err))
	}

	// Aynı kategoride aynı isimde iki ürün olmasın
	if err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_category_name
		ON variants(category_id, lower(name))
	`).Error; err != nil {
		zap.L().Warn("Ürün index'i oluşturulamadı", zap.Error(err))
	}

	seedCategories()

	zap.L().Info("Veritabanı bağlantısı başarılı, migration tamamlandı")
}

// Varsayılan kategoriler: kutulu olanlar sabit tablodan, hızlı giriş
// kategorileri örnek olarak. Tablo boş değilse dokunulmaz.
var defaultCategories = []string{"TÜL PERDE", "FON PERDE", "GÜNEŞLİK", "STOR PERDE", "AKSESUAR"}

func seedCategories() {
	var count int64
	if err := DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		zap.L().Error("Kategori sayısı alınamadı", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}
	for i, name := range defaultCategories {
		cat := models.Category{Name: name, SortOrder: i}
		if err := DB.Create(&cat).Error; err != nil {
			zap.L().Error("Varsayılan kategori eklenemedi", zap.String("category", name), zap.Error(err))
		}
	}
	zap.L().Info("Varsayılan kategoriler eklendi", zap.Int("count", len(defaultCategories)))
}
