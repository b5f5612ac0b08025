package config

import (
	"log"
	"os"
	"strconv"

	"perde-backend/internal/lineitem"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	JWTSecret     string
	CORSOrigins   string
	CurrencyLabel string // Rapor ve audit açıklamalarında kullanılan para birimi etiketi
	AppEnv        string // development | production
	LogLevel      string

	// Yeni satırların varsayılan durumu (yeni sipariş / sipariş düzenleme ekranı)
	DefaultLineStatusNew  lineitem.Status
	DefaultLineStatusEdit lineitem.Status

	ClientTimeoutSeconds int // İstemci (sipariş kaydetme) HTTP zaman aşımı
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=perde port=5432 sslmode=disable"

func Load() *Config {
	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:           getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		CORSOrigins:           getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		CurrencyLabel:         getEnv("CURRENCY_LABEL", "TL"),
		AppEnv:                getEnv("APP_ENV", "production"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DefaultLineStatusNew:  lineitem.Status(getEnv("DEFAULT_LINE_STATUS_NEW", string(lineitem.StatusProcessing))),
		DefaultLineStatusEdit: lineitem.Status(getEnv("DEFAULT_LINE_STATUS_EDIT", string(lineitem.StatusPending))),
		ClientTimeoutSeconds:  getEnvInt("CLIENT_TIMEOUT_SECONDS", 15),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}
	if !cfg.DefaultLineStatusNew.Valid() {
		log.Printf("[WARN] DEFAULT_LINE_STATUS_NEW geçersiz (%q), 'processing' kullanılacak", cfg.DefaultLineStatusNew)
		cfg.DefaultLineStatusNew = lineitem.StatusProcessing
	}
	if !cfg.DefaultLineStatusEdit.Valid() {
		log.Printf("[WARN] DEFAULT_LINE_STATUS_EDIT geçersiz (%q), 'pending' kullanılacak", cfg.DefaultLineStatusEdit)
		cfg.DefaultLineStatusEdit = lineitem.StatusPending
	}

	return cfg
}

// LineDefaults satır varsayılanlarını motorun beklediği yapıya çevirir.
func (c *Config) LineDefaults() lineitem.Defaults {
	d := lineitem.DefaultStatuses
	d.NewOrder = c.DefaultLineStatusNew
	d.EditOrder = c.DefaultLineStatusEdit
	return d
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] %s geçersiz (%q), varsayılan %d kullanılacak", key, v, def)
		return def
	}
	return n
}
