package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaiementData carries the caller-provided fields of a payment.
type PaiementData struct {
	Montant          float64
	Moyen            models.MoyenPaiement
	ReferenceExterne string
	Metadata         datatypes.JSON
}

// InterfacePaiementService defines the payment service interface
type InterfacePaiementService interface {
	Traiter(abonnementID string, data PaiementData) (*models.Paiement, error)
	Valider(paiementID string) (*models.Paiement, error)
	GetByID(id string) (*models.Paiement, error)
	GetAll(page, pageSize int, statut string) ([]models.Paiement, int64, error)
	GetByAbonnement(abonnementID string) ([]models.Paiement, error)
}

// PaiementService records payments and triggers subscription activation on
// validation
type PaiementService struct {
	DB                  *gorm.DB
	Config              *config.Config
	AbonnementService   InterfaceAbonnementService
	NotificationService InterfaceNotificationService
}

// NewPaiementService creates a new payment service
func NewPaiementService(db *gorm.DB, cfg *config.Config, abonnementService InterfaceAbonnementService, notif InterfaceNotificationService) InterfacePaiementService {
	return &PaiementService{
		DB:                  db,
		Config:              cfg,
		AbonnementService:   abonnementService,
		NotificationService: notif,
	}
}

// 1. Traiter records a pending payment for a subscription
func (s *PaiementService) Traiter(abonnementID string, data PaiementData) (*models.Paiement, error) {
	if !data.Moyen.Valid() {
		return nil, Validationf("moyen de paiement inconnu %q", data.Moyen)
	}

	var abonnement models.Abonnement
	if err := s.DB.First(&abonnement, "id = ?", abonnementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("abonnement %s", abonnementID)
		}
		return nil, err
	}
	if abonnement.Statut == models.AbonnementActif {
		return nil, Conflictf("l'abonnement %s est déjà payé", abonnementID)
	}

	montant := data.Montant
	if montant <= 0 {
		montant = abonnement.Montant
	}

	paiement := &models.Paiement{
		AbonnementID:      abonnementID,
		EcoleID:           abonnement.EcoleID,
		NumeroTransaction: utils.GenerateReference("TXN", 8),
		Montant:           montant,
		Moyen:             data.Moyen,
		Statut:            models.PaiementEnAttente,
		ReferenceExterne:  data.ReferenceExterne,
		Metadata:          data.Metadata,
		DatePaiement:      time.Now(),
	}
	if err := s.DB.Create(paiement).Error; err != nil {
		return nil, err
	}
	return paiement, nil
}

// 2. Valider validates a payment and activates its subscription in the same
// transaction; token issuance rides along (see AbonnementService)
func (s *PaiementService) Valider(paiementID string) (*models.Paiement, error) {
	var paiement models.Paiement
	if err := s.DB.First(&paiement, "id = ?", paiementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("paiement %s", paiementID)
		}
		return nil, err
	}
	if paiement.Statut == models.PaiementValide {
		return nil, Conflictf("paiement %s déjà validé", paiementID)
	}

	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Paiement{}).Where("id = ?", paiement.ID).Updates(map[string]interface{}{
			"statut":          models.PaiementValide,
			"date_validation": now,
		}).Error; err != nil {
			return err
		}
		return s.AbonnementService.ActivateAfterPayment(tx, paiement.AbonnementID)
	})
	if err != nil {
		return nil, err
	}

	paiement.Statut = models.PaiementValide
	paiement.DateValidation = &now

	s.NotificationService.NotifyAdmins(
		"Nouveau paiement validé",
		"Un paiement de "+utils.FormatMontant(paiement.Montant)+" a été validé pour l'abonnement "+paiement.AbonnementID+".",
		map[string]interface{}{"paiement_id": paiement.ID, "abonnement_id": paiement.AbonnementID})

	return &paiement, nil
}

// 3. GetByID loads a payment
func (s *PaiementService) GetByID(id string) (*models.Paiement, error) {
	var paiement models.Paiement
	if err := s.DB.Preload("Abonnement").First(&paiement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("paiement %s", id)
		}
		return nil, err
	}
	return &paiement, nil
}

// 4. GetAll lists payments with pagination and optional status filter
func (s *PaiementService) GetAll(page, pageSize int, statut string) ([]models.Paiement, int64, error) {
	var paiements []models.Paiement
	var total int64

	query := s.DB.Model(&models.Paiement{})
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("date_paiement DESC").Limit(pageSize).Offset(offset).Find(&paiements).Error; err != nil {
		return nil, 0, err
	}
	return paiements, total, nil
}

// 5. GetByAbonnement lists the payments of a subscription
func (s *PaiementService) GetByAbonnement(abonnementID string) ([]models.Paiement, error) {
	var paiements []models.Paiement
	if err := s.DB.Where("abonnement_id = ?", abonnementID).
		Order("date_paiement DESC").Find(&paiements).Error; err != nil {
		return nil, err
	}
	return paiements, nil
}
