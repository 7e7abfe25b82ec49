package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceOtpService defines the OTP service interface
type InterfaceOtpService interface {
	Generate(telephone, otpType string) (*models.OtpCode, error)
	Verify(telephone, code string) error
	CleanupExpired() (int64, error)
}

// ErrOtpExpire flags an expired login code. It wraps ErrValidation so
// generic mappings still treat it as a client error.
var ErrOtpExpire = Validationf("le code a expiré")

// OtpService issues and checks the single-use SMS login codes.
type OtpService struct {
	DB         *gorm.DB
	Config     *config.Config
	SmsService InterfaceSmsService
}

// NewOtpService creates a new OTP service
func NewOtpService(db *gorm.DB, cfg *config.Config, sms InterfaceSmsService) InterfaceOtpService {
	return &OtpService{DB: db, Config: cfg, SmsService: sms}
}

// 1. Generate issues a fresh code for a phone number. Any prior unverified
// code for the number is dropped first so only one code is live at a time.
// When the SMS cannot be delivered the code is deleted again: a code the
// user never received must not sit in the table as a valid secret.
func (s *OtpService) Generate(telephone, otpType string) (*models.OtpCode, error) {
	if telephone == "" {
		return nil, Validationf("un numéro de téléphone est requis")
	}
	if otpType == "" {
		otpType = "login"
	}

	if err := s.DB.Where("telephone = ? AND verifie = ?", telephone, false).
		Delete(&models.OtpCode{}).Error; err != nil {
		return nil, err
	}

	otp := &models.OtpCode{
		Telephone:      telephone,
		Code:           utils.RandomDigits(6),
		Type:           otpType,
		DateExpiration: time.Now().Add(time.Duration(s.Config.OtpExpirationMinutes) * time.Minute),
	}
	if err := s.DB.Create(otp).Error; err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Votre code de vérification est %s. Il expire dans %d minutes.",
		otp.Code, s.Config.OtpExpirationMinutes)
	if err := s.SmsService.Send(telephone, message); err != nil {
		logger.Error("envoi du code OTP à %s impossible: %v", telephone, err)
		if delErr := s.DB.Delete(otp).Error; delErr != nil {
			logger.Error("nettoyage du code OTP %s impossible: %v", otp.ID, delErr)
		}
		return nil, fmt.Errorf("sms delivery: %w", err)
	}
	return otp, nil
}

// 2. Verify checks a submitted code. The code is single-use: success flags it
// verified; an expired code is deleted; too many wrong attempts invalidate it.
func (s *OtpService) Verify(telephone, code string) error {
	var otp models.OtpCode
	err := s.DB.Where("telephone = ? AND verifie = ?", telephone, false).
		Order("created_at DESC").First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("aucun code en attente pour %s", telephone)
		}
		return err
	}

	if time.Now().After(otp.DateExpiration) {
		if err := s.DB.Delete(&otp).Error; err != nil {
			return err
		}
		return ErrOtpExpire
	}

	if otp.Code != code {
		otp.Tentatives++
		if otp.Tentatives >= s.Config.OtpMaxAttempts {
			if err := s.DB.Delete(&otp).Error; err != nil {
				return err
			}
			return Validationf("nombre maximal de tentatives atteint")
		}
		if err := s.DB.Model(&otp).Update("tentatives", otp.Tentatives).Error; err != nil {
			return err
		}
		return Validationf("code incorrect")
	}

	now := time.Now()
	return s.DB.Model(&otp).Updates(map[string]interface{}{
		"verifie":           true,
		"date_verification": now,
	}).Error
}

// 3. CleanupExpired removes expired unverified codes, meant for a scheduled
// job
func (s *OtpService) CleanupExpired() (int64, error) {
	result := s.DB.Where("verifie = ? AND date_expiration < ?", false, time.Now()).
		Delete(&models.OtpCode{})
	return result.RowsAffected, result.Error
}
