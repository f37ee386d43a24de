package services

import (
	"bytes"
	"fmt"

	"github.com/animehub/backend/internal/config"
	"github.com/animehub/backend/internal/models"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

type ExportService struct {
	cfg *config.Config
}

func NewExportService(cfg *config.Config) *ExportService { return &ExportService{cfg: cfg} }

// GenerateCategoryShareQR renders a QR code PNG pointing at the frontend page
// of a gallery category.
func (s *ExportService) GenerateCategoryShareQR(category *models.GalleryImageCategory) ([]byte, error) {
	shareURL := fmt.Sprintf("%s/gallery/%d", s.cfg.FrontendURL, category.ID)
	return qrcode.Encode(shareURL, qrcode.Medium, 512)
}

// GenerateCharacterSheetPDF generates a printable A4 sheet for a character:
// bio, greatest feat, attires with their accessories. The profile is expected
// with attires, accessory links and lore links preloaded.
func (s *ExportService) GenerateCharacterSheetPDF(profile *models.CharacterProfile, greatestFeat *models.LoreEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, profile.Name)
	pdf.Ln(10)

	pdf.SetFont("Arial", "I", 12)
	if profile.Series != "" {
		pdf.Cell(0, 8, profile.Series)
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "", 11)
	if profile.Biography != "" {
		pdf.MultiCell(0, 5, profile.Biography, "", "L", false)
		pdf.Ln(4)
	}

	if greatestFeat != nil && !greatestFeat.IsSentinel() {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Greatest Feat")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 5, fmt.Sprintf("%s - %s", greatestFeat.Title, greatestFeat.Narrative), "", "L", false)
		pdf.Ln(4)
	}

	if len(profile.Attires) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Attires")
		pdf.Ln(8)
		for _, attire := range profile.Attires {
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 6, fmt.Sprintf("%s (%s)", attire.Name, attire.Type))
			pdf.Ln(6)
			pdf.SetFont("Arial", "", 10)
			if attire.Description != "" {
				pdf.MultiCell(0, 5, attire.Description, "", "L", false)
			}
			if attire.HairstyleDescription != "" {
				pdf.MultiCell(0, 5, "Hairstyle: "+attire.HairstyleDescription, "", "L", false)
			}
			for _, link := range attire.AccessoryLinks {
				if link.Accessory == nil {
					continue
				}
				line := "- " + link.Accessory.Description
				if link.Accessory.IsWeapon {
					line += " (weapon)"
				}
				if link.Accessory.UniqueEffect != nil {
					line += ": " + *link.Accessory.UniqueEffect
				}
				pdf.MultiCell(0, 5, line, "", "L", false)
			}
			pdf.Ln(2)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
