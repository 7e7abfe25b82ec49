package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// InterfaceQrCodeService defines the QR rendering service interface
type InterfaceQrCodeService interface {
	Generate(abonnementID string) error
	PathFor(abonnementID string) string
}

// QrCodeService renders the scannable QR image of a subscription. The QR
// encodes the encrypted active token when one exists, otherwise the
// subscription number, so a freshly registered school already has a code to
// print.
type QrCodeService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewQrCodeService creates a new QR rendering service
func NewQrCodeService(db *gorm.DB, cfg *config.Config) InterfaceQrCodeService {
	return &QrCodeService{DB: db, Config: cfg}
}

// 1. PathFor returns the storage path of a subscription's QR image
func (s *QrCodeService) PathFor(abonnementID string) string {
	return filepath.Join(s.Config.StoragePath, "qrcodes", fmt.Sprintf("%s.png", abonnementID))
}

// 2. Generate renders (or re-renders) the QR image and records its path on
// the subscription
func (s *QrCodeService) Generate(abonnementID string) error {
	var abonnement models.Abonnement
	if err := s.DB.First(&abonnement, "id = ?", abonnementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("abonnement %s", abonnementID)
		}
		return err
	}

	content := abonnement.NumeroAbonnement
	var token models.TokenSirene
	err := s.DB.Where("abonnement_id = ? AND actif = ? AND date_expiration >= ?",
		abonnementID, true, time.Now()).
		Order("date_generation DESC").First(&token).Error
	if err == nil {
		content = token.TokenCrypte
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	path := s.PathFor(abonnementID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := qrcode.WriteFile(content, qrcode.Medium, 512, path); err != nil {
		return err
	}

	if err := s.DB.Model(&models.Abonnement{}).Where("id = ?", abonnementID).
		Update("qr_code_path", path).Error; err != nil {
		return err
	}
	logger.Info("qr code de l'abonnement %s régénéré", abonnementID)
	return nil
}
