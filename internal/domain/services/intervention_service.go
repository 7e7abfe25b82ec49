package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"gorm.io/gorm"
)

// RapportData carries the fields of a technician's report.
type RapportData struct {
	Diagnostic       string
	TravauxEffectues string
	PiecesUtilisees  string
	Recommandations  string
	Resultat         models.ResultatIntervention
}

// InterfaceInterventionService defines the intervention service interface
type InterfaceInterventionService interface {
	GetByID(id string) (*models.Intervention, error)
	GetAll(page, pageSize int, statut string) ([]models.Intervention, int64, error)
	Demarrer(interventionID string) (*models.Intervention, error)
	RedigerRapport(interventionID string, data RapportData) (*models.RapportIntervention, error)
	NoterIntervention(interventionID string, note int, commentaire string) (*models.Intervention, error)
	NoterRapport(rapportID string, note int, review string) (*models.RapportIntervention, error)
}

// InterventionService drives the repair visit from assignment to rating
type InterventionService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewInterventionService creates a new intervention service
func NewInterventionService(db *gorm.DB, cfg *config.Config) InterfaceInterventionService {
	return &InterventionService{DB: db, Config: cfg}
}

// 1. GetByID loads an intervention with its relations
func (s *InterventionService) GetByID(id string) (*models.Intervention, error) {
	var intervention models.Intervention
	if err := s.DB.Preload("Panne").Preload("Technicien").Preload("Rapport").
		First(&intervention, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("intervention %s", id)
		}
		return nil, err
	}
	return &intervention, nil
}

// 2. GetAll lists interventions with pagination and optional status filter
func (s *InterventionService) GetAll(page, pageSize int, statut string) ([]models.Intervention, int64, error) {
	var interventions []models.Intervention
	var total int64

	query := s.DB.Model(&models.Intervention{})
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("date_assignation DESC").Limit(pageSize).Offset(offset).Find(&interventions).Error; err != nil {
		return nil, 0, err
	}

	return interventions, total, nil
}

// 3. Demarrer moves an assigned intervention to in progress
func (s *InterventionService) Demarrer(interventionID string) (*models.Intervention, error) {
	intervention, err := s.GetByID(interventionID)
	if err != nil {
		return nil, err
	}
	if !intervention.Statut.CanTransitionTo(models.InterventionEnCours) {
		return nil, Conflictf("intervention %s est %s", interventionID, intervention.Statut)
	}

	now := time.Now()
	if err := s.DB.Model(&models.Intervention{}).Where("id = ?", intervention.ID).Updates(map[string]interface{}{
		"statut":     models.InterventionEnCours,
		"date_debut": now,
	}).Error; err != nil {
		return nil, err
	}

	intervention.Statut = models.InterventionEnCours
	intervention.DateDebut = &now
	return intervention, nil
}

// 4. RedigerRapport files the technician's report and finishes the
// intervention in the same transaction
func (s *InterventionService) RedigerRapport(interventionID string, data RapportData) (*models.RapportIntervention, error) {
	if !data.Resultat.Valid() {
		return nil, Validationf("résultat inconnu %q", data.Resultat)
	}

	intervention, err := s.GetByID(interventionID)
	if err != nil {
		return nil, err
	}
	if !intervention.Statut.CanTransitionTo(models.InterventionTerminee) {
		return nil, Conflictf("intervention %s est %s", interventionID, intervention.Statut)
	}
	if intervention.Rapport != nil {
		return nil, Conflictf("un rapport existe déjà pour l'intervention %s", interventionID)
	}

	now := time.Now()
	rapport := &models.RapportIntervention{
		InterventionID:   intervention.ID,
		Diagnostic:       data.Diagnostic,
		TravauxEffectues: data.TravauxEffectues,
		PiecesUtilisees:  data.PiecesUtilisees,
		Recommandations:  data.Recommandations,
		Resultat:         data.Resultat,
		Statut:           models.RapportBrouillon,
		DateRapport:      now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rapport).Error; err != nil {
			return err
		}
		return tx.Model(&models.Intervention{}).Where("id = ?", intervention.ID).Updates(map[string]interface{}{
			"statut":   models.InterventionTerminee,
			"date_fin": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return rapport, nil
}

// 5. NoterIntervention records the school's rating, 1 to 5
func (s *InterventionService) NoterIntervention(interventionID string, note int, commentaire string) (*models.Intervention, error) {
	if note < 1 || note > 5 {
		return nil, Validationf("la note doit être comprise entre 1 et 5")
	}

	intervention, err := s.GetByID(interventionID)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Intervention{}).Where("id = ?", intervention.ID).Updates(map[string]interface{}{
		"note_ecole":        note,
		"commentaire_ecole": commentaire,
	}).Error; err != nil {
		return nil, err
	}

	intervention.NoteEcole = &note
	intervention.CommentaireEcole = commentaire
	return intervention, nil
}

// 6. NoterRapport records the admin review and validates the report
func (s *InterventionService) NoterRapport(rapportID string, note int, review string) (*models.RapportIntervention, error) {
	if note < 1 || note > 5 {
		return nil, Validationf("la note doit être comprise entre 1 et 5")
	}

	var rapport models.RapportIntervention
	if err := s.DB.First(&rapport, "id = ?", rapportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("rapport %s", rapportID)
		}
		return nil, err
	}

	if err := s.DB.Model(&models.RapportIntervention{}).Where("id = ?", rapport.ID).Updates(map[string]interface{}{
		"review_note":  note,
		"review_admin": review,
		"statut":       models.RapportValide,
	}).Error; err != nil {
		return nil, err
	}

	rapport.ReviewNote = &note
	rapport.ReviewAdmin = review
	rapport.Statut = models.RapportValide
	return &rapport, nil
}
