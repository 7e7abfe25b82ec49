package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceOrdreMissionService defines the mission order service interface
type InterfaceOrdreMissionService interface {
	GetByID(id string) (*models.OrdreMission, error)
	GetAll(page, pageSize int, statut string) ([]models.OrdreMission, int64, error)
	GetByVille(villeID string) ([]models.OrdreMission, error)
	GetCandidatures(ordreMissionID string) ([]models.MissionTechnicien, error)
	CloturerCandidatures(ordreMissionID, adminID string) (*models.OrdreMission, error)
	RouvrirCandidatures(ordreMissionID, adminID string) (*models.OrdreMission, error)
	Cloturer(ordreMissionID string) (*models.OrdreMission, error)
	UpdateCommentaire(ordreMissionID, commentaire string) (*models.OrdreMission, error)
}

// OrdreMissionService manages mission orders and their candidacy window
type OrdreMissionService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewOrdreMissionService creates a new mission order service
func NewOrdreMissionService(db *gorm.DB, cfg *config.Config) InterfaceOrdreMissionService {
	return &OrdreMissionService{DB: db, Config: cfg}
}

// 1. GetByID loads a mission order with its relations
func (s *OrdreMissionService) GetByID(id string) (*models.OrdreMission, error) {
	var ordre models.OrdreMission
	if err := s.DB.Preload("Panne").Preload("Ville").Preload("Technicien").
		Preload("MissionsTechniciens").First(&ordre, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("ordre de mission %s", id)
		}
		return nil, err
	}
	return &ordre, nil
}

// 2. GetAll lists mission orders with pagination and optional status filter
func (s *OrdreMissionService) GetAll(page, pageSize int, statut string) ([]models.OrdreMission, int64, error) {
	var ordres []models.OrdreMission
	var total int64

	query := s.DB.Model(&models.OrdreMission{})
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("date_generation DESC").Limit(pageSize).Offset(offset).Find(&ordres).Error; err != nil {
		return nil, 0, err
	}

	return ordres, total, nil
}

// 3. GetByVille lists the orders dispatched to one city's pool
func (s *OrdreMissionService) GetByVille(villeID string) ([]models.OrdreMission, error) {
	var ordres []models.OrdreMission
	if err := s.DB.Where("ville_id = ?", villeID).Order("date_generation DESC").Find(&ordres).Error; err != nil {
		return nil, err
	}
	return ordres, nil
}

// 4. GetCandidatures lists the candidacies submitted for an order
func (s *OrdreMissionService) GetCandidatures(ordreMissionID string) ([]models.MissionTechnicien, error) {
	var candidatures []models.MissionTechnicien
	if err := s.DB.Preload("Technicien").
		Where("ordre_mission_id = ?", ordreMissionID).Find(&candidatures).Error; err != nil {
		return nil, err
	}
	return candidatures, nil
}

// 5. CloturerCandidatures closes the candidacy window
func (s *OrdreMissionService) CloturerCandidatures(ordreMissionID, adminID string) (*models.OrdreMission, error) {
	ordre, err := s.GetByID(ordreMissionID)
	if err != nil {
		return nil, err
	}
	if ordre.CandidatureCloturee {
		return nil, Conflictf("les candidatures de l'ordre %s sont déjà clôturées", ordreMissionID)
	}

	now := time.Now()
	if err := s.DB.Model(&models.OrdreMission{}).Where("id = ?", ordre.ID).Updates(map[string]interface{}{
		"candidature_cloturee":     true,
		"date_cloture_candidature": now,
		"cloture_candidature_par":  adminID,
	}).Error; err != nil {
		return nil, err
	}

	ordre.CandidatureCloturee = true
	ordre.DateClotureCandidature = &now
	ordre.ClotureCandidaturePar = &adminID
	return ordre, nil
}

// 6. RouvrirCandidatures reopens the candidacy window
func (s *OrdreMissionService) RouvrirCandidatures(ordreMissionID, adminID string) (*models.OrdreMission, error) {
	ordre, err := s.GetByID(ordreMissionID)
	if err != nil {
		return nil, err
	}
	if !ordre.CandidatureCloturee {
		return nil, Conflictf("les candidatures de l'ordre %s ne sont pas clôturées", ordreMissionID)
	}

	if err := s.DB.Model(&models.OrdreMission{}).Where("id = ?", ordre.ID).Updates(map[string]interface{}{
		"candidature_cloturee":     false,
		"date_cloture_candidature": nil,
		"cloture_candidature_par":  nil,
	}).Error; err != nil {
		return nil, err
	}

	ordre.CandidatureCloturee = false
	ordre.DateClotureCandidature = nil
	ordre.ClotureCandidaturePar = nil
	return ordre, nil
}

// 7. Cloturer closes the mission order itself
func (s *OrdreMissionService) Cloturer(ordreMissionID string) (*models.OrdreMission, error) {
	ordre, err := s.GetByID(ordreMissionID)
	if err != nil {
		return nil, err
	}
	if !ordre.Statut.CanTransitionTo(models.OrdreCloture) {
		return nil, Conflictf("ordre %s est %s", ordreMissionID, ordre.Statut)
	}

	if err := s.DB.Model(&models.OrdreMission{}).Where("id = ?", ordre.ID).
		Update("statut", models.OrdreCloture).Error; err != nil {
		return nil, err
	}
	ordre.Statut = models.OrdreCloture
	return ordre, nil
}

// 8. UpdateCommentaire updates the free-text comment
func (s *OrdreMissionService) UpdateCommentaire(ordreMissionID, commentaire string) (*models.OrdreMission, error) {
	ordre, err := s.GetByID(ordreMissionID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.OrdreMission{}).Where("id = ?", ordre.ID).
		Update("commentaire", commentaire).Error; err != nil {
		return nil, err
	}
	ordre.Commentaire = commentaire
	return ordre, nil
}
