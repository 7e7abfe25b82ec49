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

// AbonnementStats aggregates the subscription dashboard numbers.
type AbonnementStats struct {
	Total     int64   `json:"total"`
	Actifs    int64   `json:"actifs"`
	EnAttente int64   `json:"en_attente"`
	Expires   int64   `json:"expires"`
	Suspendus int64   `json:"suspendus"`
	Annules   int64   `json:"annules"`
	Revenus   float64 `json:"revenus"`
}

// InterfaceAbonnementService defines the subscription service interface
type InterfaceAbonnementService interface {
	Create(ecoleID, siteID, sireneID string, montant float64) (*models.Abonnement, error)
	GetByID(id string) (*models.Abonnement, error)
	GetAll(page, pageSize int, statut string) ([]models.Abonnement, int64, error)
	GetByEcole(ecoleID string) ([]models.Abonnement, error)
	GetBySirene(sireneID string) ([]models.Abonnement, error)
	GetActifByEcole(ecoleID string) (*models.Abonnement, error)
	ActivateAfterPayment(tx *gorm.DB, abonnementID string) error
	Renouveler(abonnementID string) (*models.Abonnement, error)
	Suspendre(abonnementID, motif string) (*models.Abonnement, error)
	Reactiver(abonnementID string) (*models.Abonnement, error)
	Annuler(abonnementID, motif string) (*models.Abonnement, error)
	GetExpiringSoon(days int) ([]models.Abonnement, error)
	MarquerExpires() (int, error)
	EnvoyerRappelsExpiration(days int) (int, error)
	AutoRenouveler() (int, error)
	Statistiques() (*AbonnementStats, error)
}

// AbonnementService drives the subscription lifecycle. Every state change is
// an explicit operation: token and QR side effects sit in the call graph, not
// in persistence hooks.
type AbonnementService struct {
	DB                  *gorm.DB
	Config              *config.Config
	TokenService        InterfaceTokenSireneService
	QrCodeService       InterfaceQrCodeService
	NotificationService InterfaceNotificationService
}

// NewAbonnementService creates a new subscription service
func NewAbonnementService(
	db *gorm.DB,
	cfg *config.Config,
	tokenService InterfaceTokenSireneService,
	qrService InterfaceQrCodeService,
	notif InterfaceNotificationService,
) InterfaceAbonnementService {
	return &AbonnementService{
		DB:                  db,
		Config:              cfg,
		TokenService:        tokenService,
		QrCodeService:       qrService,
		NotificationService: notif,
	}
}

// 1. Create opens a pending subscription for one sirène on one site
func (s *AbonnementService) Create(ecoleID, siteID, sireneID string, montant float64) (*models.Abonnement, error) {
	if montant <= 0 {
		montant = s.Config.SubscriptionPricePerYear
	}
	now := time.Now()
	abonnement := &models.Abonnement{
		EcoleID:          ecoleID,
		SiteID:           siteID,
		SireneID:         sireneID,
		NumeroAbonnement: utils.GenerateReference("ABO", 6),
		Statut:           models.AbonnementEnAttente,
		DateDebut:        now,
		DateFin:          now.AddDate(1, 0, 0),
		Montant:          montant,
	}
	if err := s.DB.Create(abonnement).Error; err != nil {
		return nil, err
	}

	// QR generation happens after persist and never blocks the operation.
	s.regenerateQr(abonnement.ID)
	return abonnement, nil
}

// 2. GetByID loads a subscription with its relations
func (s *AbonnementService) GetByID(id string) (*models.Abonnement, error) {
	var abonnement models.Abonnement
	if err := s.DB.Preload("Ecole").Preload("Site").Preload("Sirene").Preload("Paiements").
		First(&abonnement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("abonnement %s", id)
		}
		return nil, err
	}
	return &abonnement, nil
}

// 3. GetAll lists subscriptions with pagination and optional status filter
func (s *AbonnementService) GetAll(page, pageSize int, statut string) ([]models.Abonnement, int64, error) {
	var abonnements []models.Abonnement
	var total int64

	query := s.DB.Model(&models.Abonnement{})
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&abonnements).Error; err != nil {
		return nil, 0, err
	}
	return abonnements, total, nil
}

// 4. GetByEcole lists the subscriptions of a school
func (s *AbonnementService) GetByEcole(ecoleID string) ([]models.Abonnement, error) {
	var abonnements []models.Abonnement
	if err := s.DB.Where("ecole_id = ?", ecoleID).Order("created_at DESC").Find(&abonnements).Error; err != nil {
		return nil, err
	}
	return abonnements, nil
}

// 5. GetBySirene lists the subscription history of a device
func (s *AbonnementService) GetBySirene(sireneID string) ([]models.Abonnement, error) {
	var abonnements []models.Abonnement
	if err := s.DB.Where("sirene_id = ?", sireneID).Order("created_at DESC").Find(&abonnements).Error; err != nil {
		return nil, err
	}
	return abonnements, nil
}

// 6. GetActifByEcole returns the currently active subscription of a school
func (s *AbonnementService) GetActifByEcole(ecoleID string) (*models.Abonnement, error) {
	var abonnement models.Abonnement
	err := s.DB.Where("ecole_id = ? AND statut = ?", ecoleID, models.AbonnementActif).
		Order("date_fin DESC").First(&abonnement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("abonnement actif de l'école %s", ecoleID)
		}
		return nil, err
	}
	return &abonnement, nil
}

// 7. ActivateAfterPayment flips the subscription to actif and issues its
// token inside the caller's transaction. Prior active tokens are deactivated
// in the same transaction so a renewal never yields two live tokens.
func (s *AbonnementService) ActivateAfterPayment(tx *gorm.DB, abonnementID string) error {
	if tx == nil {
		tx = s.DB
	}

	var abonnement models.Abonnement
	if err := tx.First(&abonnement, "id = ?", abonnementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("abonnement %s", abonnementID)
		}
		return err
	}
	if !abonnement.Statut.CanTransitionTo(models.AbonnementActif) {
		return Conflictf("abonnement %s est %s", abonnementID, abonnement.Statut)
	}

	now := time.Now()
	if err := tx.Model(&models.Abonnement{}).Where("id = ?", abonnementID).Updates(map[string]interface{}{
		"statut":        models.AbonnementActif,
		"date_paiement": now,
	}).Error; err != nil {
		return err
	}

	if err := s.TokenService.DeactivateTokens(tx, abonnementID); err != nil {
		return err
	}
	if _, err := s.TokenService.IssueToken(tx, abonnementID); err != nil {
		return err
	}

	s.regenerateQr(abonnementID)
	return nil
}

// 8. Renouveler starts a fresh pending cycle on an expiring or expired
// subscription: new number, new date range, recomputed price
func (s *AbonnementService) Renouveler(abonnementID string) (*models.Abonnement, error) {
	ancien, err := s.GetByID(abonnementID)
	if err != nil {
		return nil, err
	}
	switch ancien.Statut {
	case models.AbonnementActif, models.AbonnementExpire:
		// renewable
	default:
		return nil, Conflictf("abonnement %s est %s et ne peut être renouvelé", abonnementID, ancien.Statut)
	}

	debut := time.Now()
	if ancien.DateFin.After(debut) {
		debut = ancien.DateFin
	}

	nouveau := &models.Abonnement{
		EcoleID:          ancien.EcoleID,
		SiteID:           ancien.SiteID,
		SireneID:         ancien.SireneID,
		NumeroAbonnement: utils.GenerateReference("ABO", 6),
		Statut:           models.AbonnementEnAttente,
		DateDebut:        debut,
		DateFin:          debut.AddDate(1, 0, 0),
		Montant:          s.Config.SubscriptionPricePerYear,
	}
	if err := s.DB.Create(nouveau).Error; err != nil {
		return nil, err
	}

	s.regenerateQr(nouveau.ID)
	return nouveau, nil
}

// 9. Suspendre suspends an active subscription; the reason is mandatory.
// The active token goes down with it.
func (s *AbonnementService) Suspendre(abonnementID, motif string) (*models.Abonnement, error) {
	if motif == "" {
		return nil, Validationf("un motif de suspension est requis")
	}
	abonnement, err := s.GetByID(abonnementID)
	if err != nil {
		return nil, err
	}
	if !abonnement.Statut.CanTransitionTo(models.AbonnementSuspendu) {
		return nil, Conflictf("abonnement %s est %s", abonnementID, abonnement.Statut)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Abonnement{}).Where("id = ?", abonnementID).Updates(map[string]interface{}{
			"statut":           models.AbonnementSuspendu,
			"motif_suspension": motif,
		}).Error; err != nil {
			return err
		}
		return s.TokenService.DeactivateTokens(tx, abonnementID)
	})
	if err != nil {
		return nil, err
	}

	abonnement.Statut = models.AbonnementSuspendu
	abonnement.MotifSuspension = motif
	s.regenerateQr(abonnementID)
	return abonnement, nil
}

// 10. Reactiver brings a suspended subscription back to actif and reissues
// its token
func (s *AbonnementService) Reactiver(abonnementID string) (*models.Abonnement, error) {
	abonnement, err := s.GetByID(abonnementID)
	if err != nil {
		return nil, err
	}
	if abonnement.Statut != models.AbonnementSuspendu {
		return nil, Conflictf("abonnement %s est %s, seule une suspension se réactive", abonnementID, abonnement.Statut)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.ActivateAfterPayment(tx, abonnementID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(abonnementID)
}

// 11. Annuler cancels a subscription; the reason is mandatory
func (s *AbonnementService) Annuler(abonnementID, motif string) (*models.Abonnement, error) {
	if motif == "" {
		return nil, Validationf("un motif d'annulation est requis")
	}
	abonnement, err := s.GetByID(abonnementID)
	if err != nil {
		return nil, err
	}
	if !abonnement.Statut.CanTransitionTo(models.AbonnementAnnule) {
		return nil, Conflictf("abonnement %s est %s", abonnementID, abonnement.Statut)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Abonnement{}).Where("id = ?", abonnementID).Updates(map[string]interface{}{
			"statut":           models.AbonnementAnnule,
			"motif_annulation": motif,
		}).Error; err != nil {
			return err
		}
		return s.TokenService.DeactivateTokens(tx, abonnementID)
	})
	if err != nil {
		return nil, err
	}

	abonnement.Statut = models.AbonnementAnnule
	abonnement.MotifAnnulation = motif
	s.regenerateQr(abonnementID)
	return abonnement, nil
}

// 12. GetExpiringSoon lists active subscriptions ending within the window
func (s *AbonnementService) GetExpiringSoon(days int) ([]models.Abonnement, error) {
	if days <= 0 {
		days = 30
	}
	var abonnements []models.Abonnement
	limit := time.Now().AddDate(0, 0, days)
	if err := s.DB.Where("statut = ? AND date_fin BETWEEN ? AND ?",
		models.AbonnementActif, time.Now(), limit).
		Order("date_fin ASC").Find(&abonnements).Error; err != nil {
		return nil, err
	}
	return abonnements, nil
}

// 13. MarquerExpires is the cron-invoked sweep flipping overdue
// subscriptions to expire and killing their tokens
func (s *AbonnementService) MarquerExpires() (int, error) {
	var expirables []models.Abonnement
	if err := s.DB.Where("statut = ? AND date_fin < ?", models.AbonnementActif, time.Now()).
		Find(&expirables).Error; err != nil {
		return 0, err
	}

	count := 0
	for i := range expirables {
		abonnement := &expirables[i]
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Abonnement{}).Where("id = ?", abonnement.ID).
				Update("statut", models.AbonnementExpire).Error; err != nil {
				return err
			}
			return s.TokenService.DeactivateTokens(tx, abonnement.ID)
		})
		if err != nil {
			logger.Error("expiration de l'abonnement %s impossible: %v", abonnement.ID, err)
			continue
		}
		s.regenerateQr(abonnement.ID)
		count++
	}
	return count, nil
}

// 14. EnvoyerRappelsExpiration notifies schools whose subscription ends soon
func (s *AbonnementService) EnvoyerRappelsExpiration(days int) (int, error) {
	abonnements, err := s.GetExpiringSoon(days)
	if err != nil {
		return 0, err
	}
	for i := range abonnements {
		a := &abonnements[i]
		s.NotificationService.NotifyEcole(a.EcoleID,
			"Abonnement bientôt expiré",
			"Votre abonnement "+a.NumeroAbonnement+" expire le "+a.DateFin.Format("02/01/2006")+".",
			map[string]interface{}{"abonnement_id": a.ID, "jours_restants": a.JoursRestants(time.Now())})
	}
	return len(abonnements), nil
}

// 15. AutoRenouveler opens a pending renewal for every subscription expiring
// within a week that has none yet
func (s *AbonnementService) AutoRenouveler() (int, error) {
	abonnements, err := s.GetExpiringSoon(7)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range abonnements {
		a := &abonnements[i]
		var pending int64
		if err := s.DB.Model(&models.Abonnement{}).
			Where("sirene_id = ? AND statut = ? AND date_debut >= ?", a.SireneID, models.AbonnementEnAttente, a.DateFin).
			Count(&pending).Error; err != nil {
			return count, err
		}
		if pending > 0 {
			continue
		}
		if _, err := s.Renouveler(a.ID); err != nil {
			logger.Error("auto-renouvellement de l'abonnement %s impossible: %v", a.ID, err)
			continue
		}
		count++
	}
	return count, nil
}

// 16. Statistiques aggregates counters and validated revenue
func (s *AbonnementService) Statistiques() (*AbonnementStats, error) {
	stats := &AbonnementStats{}

	counts := map[models.StatutAbonnement]*int64{
		models.AbonnementActif:     &stats.Actifs,
		models.AbonnementEnAttente: &stats.EnAttente,
		models.AbonnementExpire:    &stats.Expires,
		models.AbonnementSuspendu:  &stats.Suspendus,
		models.AbonnementAnnule:    &stats.Annules,
	}
	if err := s.DB.Model(&models.Abonnement{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	for statut, dest := range counts {
		if err := s.DB.Model(&models.Abonnement{}).Where("statut = ?", statut).Count(dest).Error; err != nil {
			return nil, err
		}
	}

	var revenus *float64
	if err := s.DB.Model(&models.Paiement{}).
		Where("statut = ?", models.PaiementValide).
		Select("SUM(montant)").Scan(&revenus).Error; err != nil {
		return nil, err
	}
	if revenus != nil {
		stats.Revenus = *revenus
	}
	return stats, nil
}

// regenerateQr refreshes the QR artifact off the request path. The state
// transition never waits on image generation.
func (s *AbonnementService) regenerateQr(abonnementID string) {
	if s.QrCodeService == nil {
		return
	}
	go func() {
		if err := s.QrCodeService.Generate(abonnementID); err != nil {
			logger.Warning("génération du QR code de l'abonnement %s impossible: %v", abonnementID, err)
		}
	}()
}
