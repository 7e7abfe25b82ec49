package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceCandidatureService defines the candidacy service interface
type InterfaceCandidatureService interface {
	Soumettre(ordreMissionID, technicienID string) (*models.MissionTechnicien, error)
	Accepter(candidatureID, adminID string) (*models.Intervention, error)
	Refuser(candidatureID, adminID string) (*models.MissionTechnicien, error)
	Retirer(candidatureID, motif string) (*models.MissionTechnicien, error)
}

// CandidatureService drives technician candidacies on mission orders
type CandidatureService struct {
	DB                  *gorm.DB
	Config              *config.Config
	NotificationService InterfaceNotificationService
}

// NewCandidatureService creates a new candidacy service
func NewCandidatureService(db *gorm.DB, cfg *config.Config, notif InterfaceNotificationService) InterfaceCandidatureService {
	return &CandidatureService{
		DB:                  db,
		Config:              cfg,
		NotificationService: notif,
	}
}

// 1. Soumettre records a technician's bid on an open order
func (s *CandidatureService) Soumettre(ordreMissionID, technicienID string) (*models.MissionTechnicien, error) {
	var ordre models.OrdreMission
	if err := s.DB.First(&ordre, "id = ?", ordreMissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("ordre de mission %s", ordreMissionID)
		}
		return nil, err
	}
	if ordre.CandidatureCloturee {
		return nil, Conflictf("les candidatures de l'ordre %s sont clôturées", ordreMissionID)
	}
	if ordre.Statut != models.OrdreEnAttente {
		return nil, Conflictf("ordre %s est %s", ordreMissionID, ordre.Statut)
	}

	var technicien models.Technicien
	if err := s.DB.First(&technicien, "id = ?", technicienID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("technicien %s", technicienID)
		}
		return nil, err
	}

	// One live candidature per (order, technician): withdrawn bids may be
	// resubmitted, anything else is a duplicate.
	var count int64
	if err := s.DB.Model(&models.MissionTechnicien{}).
		Where("ordre_mission_id = ? AND technicien_id = ? AND statut <> ?",
			ordreMissionID, technicienID, models.CandidatureRetiree).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, Conflictf("le technicien %s a déjà candidaté sur l'ordre %s", technicienID, ordreMissionID)
	}

	candidature := &models.MissionTechnicien{
		OrdreMissionID: ordreMissionID,
		TechnicienID:   technicienID,
		Statut:         models.CandidatureEnAttente,
	}
	if err := s.DB.Create(candidature).Error; err != nil {
		return nil, err
	}

	s.NotificationService.NotifyAdmins(
		"Nouvelle candidature soumise",
		"Le technicien "+technicien.Nom+" a candidaté pour l'ordre de mission "+ordre.NumeroOrdre+".",
		map[string]interface{}{"candidature_id": candidature.ID, "numero_ordre": ordre.NumeroOrdre})

	return candidature, nil
}

// 2. Accepter accepts a candidacy. Three writes happen in one transaction:
// the candidature flips to acceptee, the order counts one more accepted
// technician, and the intervention is created. The order moves to en_cours
// once nombre_techniciens_requis is reached; the first accepted technician
// becomes its lead. A conditional update on the order guards against
// concurrent accepts past the required count.
func (s *CandidatureService) Accepter(candidatureID, adminID string) (*models.Intervention, error) {
	var candidature models.MissionTechnicien
	if err := s.DB.Preload("OrdreMission").First(&candidature, "id = ?", candidatureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("candidature %s", candidatureID)
		}
		return nil, err
	}
	if candidature.OrdreMission == nil {
		return nil, NotFoundf("ordre de mission de la candidature %s", candidatureID)
	}
	if !candidature.Statut.CanTransitionTo(models.CandidatureAcceptee) {
		return nil, Conflictf("candidature %s est %s", candidatureID, candidature.Statut)
	}

	ordre := candidature.OrdreMission
	now := time.Now()
	var intervention *models.Intervention

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Conditional update: only succeeds while the order still waits for
		// technicians. A lost race updates zero rows and aborts everything.
		res := tx.Model(&models.OrdreMission{}).
			Where("id = ? AND statut = ? AND nombre_techniciens_acceptes < nombre_techniciens_requis",
				ordre.ID, models.OrdreEnAttente).
			Updates(map[string]interface{}{
				"statut": gorm.Expr(
					"CASE WHEN nombre_techniciens_acceptes + 1 >= nombre_techniciens_requis THEN ? ELSE statut END",
					models.OrdreEnCours),
				"technicien_id":               gorm.Expr("COALESCE(technicien_id, ?)", candidature.TechnicienID),
				"date_acceptation":            now,
				"nombre_techniciens_acceptes": gorm.Expr("nombre_techniciens_acceptes + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Conflictf("l'ordre %s a déjà ses techniciens", ordre.ID)
		}

		if err := tx.Model(&models.MissionTechnicien{}).Where("id = ?", candidature.ID).Updates(map[string]interface{}{
			"statut":           models.CandidatureAcceptee,
			"date_acceptation": now,
		}).Error; err != nil {
			return err
		}

		intervention = &models.Intervention{
			PanneID:         ordre.PanneID,
			TechnicienID:    candidature.TechnicienID,
			OrdreMissionID:  ordre.ID,
			Statut:          models.InterventionAssignee,
			DateAssignation: now,
		}
		return tx.Create(intervention).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("candidature %s acceptée par %s, intervention %s créée", candidature.ID, adminID, intervention.ID)
	s.NotificationService.NotifyTechnicien(candidature.TechnicienID,
		"Candidature acceptée",
		"Votre candidature pour l'ordre de mission "+ordre.NumeroOrdre+" a été acceptée.",
		map[string]interface{}{"intervention_id": intervention.ID, "numero_ordre": ordre.NumeroOrdre})

	return intervention, nil
}

// 3. Refuser rejects a candidacy
func (s *CandidatureService) Refuser(candidatureID, adminID string) (*models.MissionTechnicien, error) {
	var candidature models.MissionTechnicien
	if err := s.DB.First(&candidature, "id = ?", candidatureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("candidature %s", candidatureID)
		}
		return nil, err
	}
	if !candidature.Statut.CanTransitionTo(models.CandidatureRefusee) {
		return nil, Conflictf("candidature %s est %s", candidatureID, candidature.Statut)
	}

	now := time.Now()
	if err := s.DB.Model(&models.MissionTechnicien{}).Where("id = ?", candidature.ID).Updates(map[string]interface{}{
		"statut":       models.CandidatureRefusee,
		"date_cloture": now,
	}).Error; err != nil {
		return nil, err
	}

	candidature.Statut = models.CandidatureRefusee
	candidature.DateCloture = &now
	return &candidature, nil
}

// 4. Retirer withdraws a candidacy; the reason is mandatory
func (s *CandidatureService) Retirer(candidatureID, motif string) (*models.MissionTechnicien, error) {
	if motif == "" {
		return nil, Validationf("un motif de retrait est requis")
	}

	var candidature models.MissionTechnicien
	if err := s.DB.First(&candidature, "id = ?", candidatureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("candidature %s", candidatureID)
		}
		return nil, err
	}
	if !candidature.Statut.CanTransitionTo(models.CandidatureRetiree) {
		return nil, Conflictf("candidature %s est %s", candidatureID, candidature.Statut)
	}

	now := time.Now()
	if err := s.DB.Model(&models.MissionTechnicien{}).Where("id = ?", candidature.ID).Updates(map[string]interface{}{
		"statut":        models.CandidatureRetiree,
		"date_retrait":  now,
		"motif_retrait": motif,
	}).Error; err != nil {
		return nil, err
	}

	candidature.Statut = models.CandidatureRetiree
	candidature.DateRetrait = &now
	candidature.MotifRetrait = motif
	return &candidature, nil
}
