package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/crypto/tokencrypto"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceTokenSireneService defines the siren token service interface
type InterfaceTokenSireneService interface {
	IssueToken(tx *gorm.DB, abonnementID string) (*models.TokenSirene, error)
	DeactivateTokens(tx *gorm.DB, abonnementID string) error
	GetActiveToken(abonnementID string) (*models.TokenSirene, error)
	FindByCiphertext(tokenCrypte string) (*models.TokenSirene, error)
	ValidateToken(token *models.TokenSirene) bool
	DecryptPayload(token *models.TokenSirene) (*models.TokenPayload, error)
}

// TokenSireneService issues and validates the encrypted credentials proving
// an active, paid subscription.
type TokenSireneService struct {
	DB           *gorm.DB
	Config       *config.Config
	RedisService InterfaceRedisService
	key          []byte
}

// NewTokenSireneService creates a new siren token service
func NewTokenSireneService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceTokenSireneService {
	return &TokenSireneService{
		DB:           db,
		Config:       cfg,
		RedisService: redis,
		key:          tokencrypto.DeriveKey(cfg.TokenSecretKey),
	}
}

// 1. IssueToken generates the active token for a subscription. The caller
// passes the transaction of the surrounding state change so the token insert
// and the deactivation of prior tokens commit or roll back with it.
//
// Guards, in order:
//   - no validated payment -> silent no-op (no token without proof of payment)
//   - an active token already exists -> no-op (idempotent, never double-issue)
func (s *TokenSireneService) IssueToken(tx *gorm.DB, abonnementID string) (*models.TokenSirene, error) {
	if tx == nil {
		tx = s.DB
	}

	var abonnement models.Abonnement
	if err := tx.Preload("Sirene").Preload("Ecole").First(&abonnement, "id = ?", abonnementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("abonnement %s", abonnementID)
		}
		return nil, err
	}

	var paiementsValides int64
	if err := tx.Model(&models.Paiement{}).
		Where("abonnement_id = ? AND statut = ?", abonnementID, models.PaiementValide).
		Count(&paiementsValides).Error; err != nil {
		return nil, err
	}
	if paiementsValides == 0 {
		logger.Warning("abonnement %s sans paiement validé, pas de token", abonnementID)
		return nil, nil
	}

	var actifs int64
	if err := tx.Model(&models.TokenSirene{}).
		Where("abonnement_id = ? AND actif = ?", abonnementID, true).
		Count(&actifs).Error; err != nil {
		return nil, err
	}
	if actifs > 0 {
		return nil, nil
	}

	now := time.Now()
	payload := models.TokenPayload{
		AbonnementID:     abonnement.ID,
		NumeroAbonnement: abonnement.NumeroAbonnement,
		SireneID:         abonnement.SireneID,
		EcoleID:          abonnement.EcoleID,
		SiteID:           abonnement.SiteID,
		GeneratedAt:      now.Format(time.RFC3339),
		ExpiresAt:        abonnement.DateFin.Format(time.RFC3339),
		Signature:        utils.RandomString(32),
	}
	if abonnement.Sirene != nil {
		payload.NumeroSerie = abonnement.Sirene.NumeroSerie
	}
	if abonnement.Ecole != nil {
		payload.EcoleNom = abonnement.Ecole.Nom
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	ciphertext, err := tokencrypto.Encrypt(s.key, plaintext)
	if err != nil {
		return nil, err
	}

	token := &models.TokenSirene{
		AbonnementID:   abonnement.ID,
		SireneID:       abonnement.SireneID,
		SiteID:         abonnement.SiteID,
		TokenCrypte:    ciphertext,
		TokenHash:      tokencrypto.Hash(ciphertext),
		DateDebut:      abonnement.DateDebut,
		DateFin:        abonnement.DateFin,
		DateGeneration: now,
		DateExpiration: abonnement.DateFin,
		Actif:          true,
	}
	if err := tx.Create(token).Error; err != nil {
		return nil, err
	}

	if s.RedisService != nil {
		s.RedisService.InvalidateActiveToken(abonnement.ID)
	}
	logger.Info("token %s généré pour l'abonnement %s", token.ID, abonnement.ID)
	return token, nil
}

// 2. DeactivateTokens flags every active token of a subscription inactive
func (s *TokenSireneService) DeactivateTokens(tx *gorm.DB, abonnementID string) error {
	if tx == nil {
		tx = s.DB
	}
	if err := tx.Model(&models.TokenSirene{}).
		Where("abonnement_id = ? AND actif = ?", abonnementID, true).
		Update("actif", false).Error; err != nil {
		return err
	}
	if s.RedisService != nil {
		s.RedisService.InvalidateActiveToken(abonnementID)
	}
	return nil
}

// 3. GetActiveToken returns the single active, unexpired token of a
// subscription, hitting the cache first
func (s *TokenSireneService) GetActiveToken(abonnementID string) (*models.TokenSirene, error) {
	if s.RedisService != nil {
		if token := s.RedisService.GetCachedActiveToken(abonnementID); token != nil {
			return token, nil
		}
	}

	var token models.TokenSirene
	err := s.DB.Where("abonnement_id = ? AND actif = ? AND date_expiration >= ?",
		abonnementID, true, time.Now()).
		Order("date_generation DESC").First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("token actif de l'abonnement %s", abonnementID)
		}
		return nil, err
	}

	if s.RedisService != nil {
		s.RedisService.CacheActiveToken(&token)
	}
	return &token, nil
}

// 4. FindByCiphertext resolves a scanned token by the hash of its ciphertext
func (s *TokenSireneService) FindByCiphertext(tokenCrypte string) (*models.TokenSirene, error) {
	var token models.TokenSirene
	err := s.DB.Where("token_hash = ?", tokencrypto.Hash(tokenCrypte)).
		Order("date_generation DESC").First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("token inconnu")
		}
		return nil, err
	}
	return &token, nil
}

// 5. ValidateToken is the check consumed by the device/QR scan flow. It
// returns a plain boolean and never surfaces an error: decryption failure,
// expiry and identifier mismatch all mean invalid.
func (s *TokenSireneService) ValidateToken(token *models.TokenSirene) bool {
	if token == nil || !token.Actif {
		return false
	}

	payload, err := s.DecryptPayload(token)
	if err != nil {
		logger.Warning("décryptage du token %s impossible: %v", token.ID, err)
		return false
	}

	if payload.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, payload.ExpiresAt)
		if err != nil || time.Now().After(expiresAt) {
			return false
		}
	}

	return payload.SireneID == token.SireneID && payload.AbonnementID == token.AbonnementID
}

// 6. DecryptPayload opens the encrypted payload of a token
func (s *TokenSireneService) DecryptPayload(token *models.TokenSirene) (*models.TokenPayload, error) {
	plaintext, err := tokencrypto.Decrypt(s.key, token.TokenCrypte)
	if err != nil {
		return nil, err
	}
	var payload models.TokenPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
