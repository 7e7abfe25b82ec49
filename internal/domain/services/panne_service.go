package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"gorm.io/gorm"
)

// InterfacePanneService defines the fault report service interface
type InterfacePanneService interface {
	Declarer(sireneID string, description string, priorite models.PrioritePanne) (*models.Panne, error)
	Valider(panneID string, techniciensRequis int) (*models.Panne, error)
	Cloturer(panneID string) (*models.Panne, error)
	GetByID(id string) (*models.Panne, error)
	GetAll(page, pageSize int, statut string) ([]models.Panne, int64, error)
}

// PanneService drives the fault report workflow
type PanneService struct {
	DB                  *gorm.DB
	Config              *config.Config
	NotificationService InterfaceNotificationService
}

// NewPanneService creates a new fault report service
func NewPanneService(db *gorm.DB, cfg *config.Config, notif InterfaceNotificationService) InterfacePanneService {
	return &PanneService{
		DB:                  db,
		Config:              cfg,
		NotificationService: notif,
	}
}

// 1. Declarer opens a fault report against a siren and flags the device
func (s *PanneService) Declarer(sireneID string, description string, priorite models.PrioritePanne) (*models.Panne, error) {
	if description == "" {
		return nil, Validationf("une description est requise")
	}
	if priorite == "" {
		priorite = models.PrioriteMoyenne
	}
	if !priorite.Valid() {
		return nil, Validationf("priorité inconnue %q", priorite)
	}

	var sirene models.Sirene
	if err := s.DB.First(&sirene, "id = ?", sireneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("sirène %s", sireneID)
		}
		return nil, err
	}
	if sirene.SiteID == nil {
		return nil, Conflictf("la sirène %s n'est affectée à aucun site", sirene.NumeroSerie)
	}

	panne := &models.Panne{
		SireneID:        sirene.ID,
		SiteID:          *sirene.SiteID,
		Description:     description,
		Priorite:        priorite,
		Statut:          models.PanneEnAttente,
		DateDeclaration: time.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(panne).Error; err != nil {
			return err
		}
		return tx.Model(&models.Sirene{}).
			Where("id = ?", sirene.ID).
			Update("statut", models.SireneEnPanne).Error
	})
	if err != nil {
		return nil, err
	}
	return panne, nil
}

// 2. Valider validates a pending report and creates its mission order in the
// same transaction, targeting the city of the reporting site.
// techniciensRequis sizes the order; zero means one technician.
func (s *PanneService) Valider(panneID string, techniciensRequis int) (*models.Panne, error) {
	if techniciensRequis < 0 || techniciensRequis > 10 {
		return nil, Validationf("nombre de techniciens requis invalide: %d", techniciensRequis)
	}
	if techniciensRequis == 0 {
		techniciensRequis = 1
	}

	var panne models.Panne
	if err := s.DB.Preload("Site").First(&panne, "id = ?", panneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("panne %s", panneID)
		}
		return nil, err
	}

	if !panne.Statut.CanTransitionTo(models.PanneValidee) {
		return nil, Conflictf("panne %s est %s", panneID, panne.Statut)
	}
	if panne.Site == nil {
		return nil, NotFoundf("site de la panne %s", panneID)
	}

	var ordre *models.OrdreMission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// The unique index on panne_id backs up this check under concurrency.
		var count int64
		if err := tx.Model(&models.OrdreMission{}).Where("panne_id = ?", panne.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return Conflictf("un ordre de mission existe déjà pour la panne %s", panne.ID)
		}

		now := time.Now()
		if err := tx.Model(&models.Panne{}).Where("id = ?", panne.ID).Updates(map[string]interface{}{
			"statut":          models.PanneValidee,
			"date_validation": now,
		}).Error; err != nil {
			return err
		}

		ordre = &models.OrdreMission{
			PanneID:                 panne.ID,
			VilleID:                 panne.Site.VilleID,
			NumeroOrdre:             utils.GenerateReference("OM", 6),
			Statut:                  models.OrdreEnAttente,
			DateGeneration:          now,
			NombreTechniciensRequis: techniciensRequis,
		}
		if err := tx.Create(ordre).Error; err != nil {
			return err
		}

		panne.Statut = models.PanneValidee
		panne.DateValidation = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fire-and-forget: the technician pool of the city is informed.
	s.NotificationService.NotifyTechniciensVille(ordre.VilleID,
		"Nouvel ordre de mission disponible",
		"Un nouvel ordre de mission ("+ordre.NumeroOrdre+") a été généré dans votre ville.",
		map[string]interface{}{"ordre_mission_id": ordre.ID, "numero_ordre": ordre.NumeroOrdre})

	panne.OrdreMission = ordre
	return &panne, nil
}

// 3. Cloturer closes a report
func (s *PanneService) Cloturer(panneID string) (*models.Panne, error) {
	var panne models.Panne
	if err := s.DB.First(&panne, "id = ?", panneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("panne %s", panneID)
		}
		return nil, err
	}

	if !panne.Statut.CanTransitionTo(models.PanneCloturee) {
		return nil, Conflictf("panne %s est %s", panneID, panne.Statut)
	}

	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Panne{}).Where("id = ?", panne.ID).Updates(map[string]interface{}{
			"statut":       models.PanneCloturee,
			"date_cloture": now,
		}).Error; err != nil {
			return err
		}
		// The device leaves fault state once the report is closed.
		return tx.Model(&models.Sirene{}).
			Where("id = ? AND statut = ?", panne.SireneID, models.SireneEnPanne).
			Update("statut", models.SireneAffectee).Error
	})
	if err != nil {
		return nil, err
	}

	panne.Statut = models.PanneCloturee
	panne.DateCloture = &now
	logger.Info("panne %s clôturée", panne.ID)
	return &panne, nil
}

// 4. GetByID loads a report with its relations
func (s *PanneService) GetByID(id string) (*models.Panne, error) {
	var panne models.Panne
	if err := s.DB.Preload("Sirene").Preload("Site").Preload("OrdreMission").
		First(&panne, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("panne %s", id)
		}
		return nil, err
	}
	return &panne, nil
}

// 5. GetAll lists reports with pagination and optional status filter
func (s *PanneService) GetAll(page, pageSize int, statut string) ([]models.Panne, int64, error) {
	var pannes []models.Panne
	var total int64

	query := s.DB.Model(&models.Panne{})
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("date_declaration DESC").Limit(pageSize).Offset(offset).Find(&pannes).Error; err != nil {
		return nil, 0, err
	}

	return pannes, total, nil
}
