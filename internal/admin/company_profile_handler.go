package admin

import (
	"errors"
	"strings"

	"perde-backend/internal/audit"
	"perde-backend/internal/database"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CompanyProfileRequest struct {
	Name       string `json:"name"`
	TaxOffice  string `json:"tax_office"`
	TaxNumber  string `json:"tax_number"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Website    string `json:"website"`
	LogoURL    string `json:"logo_url"`
	FooterNote string `json:"footer_note"`
}

type CompanyProfileResponse struct {
	CompanyProfileRequest
	UpdatedAt string `json:"updated_at"`
}

func toProfileResponse(p models.CompanyProfile) CompanyProfileResponse {
	resp := CompanyProfileResponse{
		CompanyProfileRequest: CompanyProfileRequest{
			Name:       p.Name,
			TaxOffice:  p.TaxOffice,
			TaxNumber:  p.TaxNumber,
			Address:    p.Address,
			Phone:      p.Phone,
			Email:      p.Email,
			Website:    p.Website,
			LogoURL:    p.LogoURL,
			FooterNote: p.FooterNote,
		},
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// GET /api/company-profile - kayıt yoksa boş profil döner
func GetCompanyProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var profile models.CompanyProfile
		err := database.DB.Order("id asc").First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Firma bilgileri alınamadı")
		}
		return c.JSON(toProfileResponse(profile))
	}
}

// PUT /api/admin/company-profile - tek satır upsert
func UpdateCompanyProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CompanyProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Firma adı boş olamaz")
		}

		var profile models.CompanyProfile
		err := database.DB.Order("id asc").First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Firma bilgileri alınamadı")
		}
		before := toProfileResponse(profile)

		profile.Name = body.Name
		profile.TaxOffice = strings.TrimSpace(body.TaxOffice)
		profile.TaxNumber = strings.TrimSpace(body.TaxNumber)
		profile.Address = strings.TrimSpace(body.Address)
		profile.Phone = strings.TrimSpace(body.Phone)
		profile.Email = strings.ToLower(strings.TrimSpace(body.Email))
		profile.Website = strings.TrimSpace(body.Website)
		profile.LogoURL = strings.TrimSpace(body.LogoURL)
		profile.FooterNote = body.FooterNote

		if err := database.DB.Save(&profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Firma bilgileri kaydedilemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "company_profile",
			EntityID:    profile.ID,
			Action:      models.AuditActionUpdate,
			Description: "Firma bilgileri güncellendi",
			Before:      before,
			After:       toProfileResponse(profile),
		})

		return c.JSON(toProfileResponse(profile))
	}
}
