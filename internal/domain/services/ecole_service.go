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

// SiteData describes one site submitted at registration time. When
// NumeroSerieSirene is set, the matching available device is assigned to the
// site and a pending subscription is opened for it.
type SiteData struct {
	Nom               string
	Adresse           string
	VilleID           string
	EstPrincipale     bool
	NumeroSerieSirene string
}

// InscriptionData is the full registration payload of a school.
type InscriptionData struct {
	Nom              string
	Adresse          string
	TelephoneContact string
	EmailContact     string
	Sites            []SiteData
}

// InscriptionResult is what the registration hands back to the caller. The
// temporary password is only ever returned here, the stored copy is hashed.
type InscriptionResult struct {
	Ecole                *models.Ecole       `json:"ecole"`
	Abonnements          []models.Abonnement `json:"abonnements"`
	NomUtilisateur       string              `json:"nom_utilisateur"`
	MotDePasseTemporaire string              `json:"mot_de_passe_temporaire"`
}

// InterfaceEcoleService defines the school service interface
type InterfaceEcoleService interface {
	Inscrire(data InscriptionData) (*InscriptionResult, error)
	GetByID(id string) (*models.Ecole, error)
	GetAll(page, pageSize int) ([]models.Ecole, int64, error)
	GetSites(ecoleID string) ([]models.Site, error)
	Update(id string, updates map[string]interface{}) (*models.Ecole, error)
	Delete(id string) error
}

// EcoleService manages school registration and records
type EcoleService struct {
	DB     *gorm.DB
	Config *config.Config
	Qr     InterfaceQrCodeService
	Notif  InterfaceNotificationService
}

// NewEcoleService creates a new school service
func NewEcoleService(db *gorm.DB, cfg *config.Config, qr InterfaceQrCodeService, notif InterfaceNotificationService) InterfaceEcoleService {
	return &EcoleService{DB: db, Config: cfg, Qr: qr, Notif: notif}
}

// 1. Inscrire registers a school in one transaction: the school record, its
// sites, the siren assignment of each site that declares one, one pending
// subscription per assigned siren, and an ecole account with a temporary
// password. QR codes are rendered after the transaction commits.
func (s *EcoleService) Inscrire(data InscriptionData) (*InscriptionResult, error) {
	if data.Nom == "" {
		return nil, Validationf("le nom de l'école est requis")
	}
	if data.TelephoneContact == "" {
		return nil, Validationf("un téléphone de contact est requis")
	}
	if len(data.Sites) == 0 {
		return nil, Validationf("au moins un site est requis")
	}
	principal := 0
	for _, site := range data.Sites {
		if site.Nom == "" || site.VilleID == "" {
			return nil, Validationf("chaque site doit avoir un nom et une ville")
		}
		if site.EstPrincipale {
			principal++
		}
	}
	if principal != 1 {
		return nil, Validationf("exactement un site principal est requis")
	}

	tempPassword := utils.RandomString(10)
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	result := &InscriptionResult{MotDePasseTemporaire: tempPassword}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ecole := &models.Ecole{
			Nom:              data.Nom,
			Adresse:          data.Adresse,
			TelephoneContact: data.TelephoneContact,
			EmailContact:     data.EmailContact,
		}
		if err := tx.Create(ecole).Error; err != nil {
			return err
		}

		for _, siteData := range data.Sites {
			site := &models.Site{
				EcoleID:       ecole.ID,
				VilleID:       siteData.VilleID,
				Nom:           siteData.Nom,
				Adresse:       siteData.Adresse,
				EstPrincipale: siteData.EstPrincipale,
			}
			if err := tx.Create(site).Error; err != nil {
				return err
			}
			if siteData.NumeroSerieSirene == "" {
				continue
			}

			var sirene models.Sirene
			if err := tx.Where("numero_serie = ?", siteData.NumeroSerieSirene).First(&sirene).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundf("sirène %s", siteData.NumeroSerieSirene)
				}
				return err
			}
			if sirene.Statut != models.SireneDisponible || sirene.SiteID != nil {
				return Conflictf("la sirène %s n'est pas disponible", sirene.NumeroSerie)
			}
			if err := tx.Model(&models.Sirene{}).Where("id = ?", sirene.ID).Updates(map[string]interface{}{
				"site_id": site.ID,
				"statut":  models.SireneAffectee,
			}).Error; err != nil {
				return err
			}

			now := time.Now()
			abonnement := models.Abonnement{
				EcoleID:          ecole.ID,
				SiteID:           site.ID,
				SireneID:         sirene.ID,
				NumeroAbonnement: utils.GenerateReference("ABO", 6),
				Statut:           models.AbonnementEnAttente,
				DateDebut:        now,
				DateFin:          now.AddDate(1, 0, 0),
				Montant:          s.Config.SubscriptionPricePerYear,
			}
			if err := tx.Create(&abonnement).Error; err != nil {
				return err
			}
			result.Abonnements = append(result.Abonnements, abonnement)
		}

		user := &models.User{
			NomUtilisateur: data.TelephoneContact,
			MotDePasse:     hashed,
			Role:           models.RoleEcole,
			Telephone:      data.TelephoneContact,
			Email:          data.EmailContact,
			AccountID:      &ecole.ID,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		result.Ecole = ecole
		result.NomUtilisateur = user.NomUtilisateur
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Qr != nil {
		for _, abonnement := range result.Abonnements {
			id := abonnement.ID
			go func() {
				if err := s.Qr.Generate(id); err != nil {
					logger.Warning("qr generation failed for abonnement %s: %v", id, err)
				}
			}()
		}
	}

	logger.Info("ecole %s inscrite (%d site(s), %d abonnement(s))",
		result.Ecole.ID, len(data.Sites), len(result.Abonnements))
	return result, nil
}

// 2. GetByID loads a school with its sites
func (s *EcoleService) GetByID(id string) (*models.Ecole, error) {
	var ecole models.Ecole
	if err := s.DB.Preload("Sites").Preload("Sites.Sirene").First(&ecole, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("école %s", id)
		}
		return nil, err
	}
	return &ecole, nil
}

// 3. GetAll lists schools with pagination
func (s *EcoleService) GetAll(page, pageSize int) ([]models.Ecole, int64, error) {
	var ecoles []models.Ecole
	var total int64

	if err := s.DB.Model(&models.Ecole{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := s.DB.Preload("Sites").Limit(pageSize).Offset(offset).Find(&ecoles).Error; err != nil {
		return nil, 0, err
	}
	return ecoles, total, nil
}

// 4. GetSites lists the sites of a school
func (s *EcoleService) GetSites(ecoleID string) ([]models.Site, error) {
	if _, err := s.GetByID(ecoleID); err != nil {
		return nil, err
	}
	var sites []models.Site
	if err := s.DB.Preload("Ville").Preload("Sirene").Where("ecole_id = ?", ecoleID).Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// 5. Update applies field updates to a school
func (s *EcoleService) Update(id string, updates map[string]interface{}) (*models.Ecole, error) {
	ecole, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(ecole).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// 6. Delete soft-deletes a school. Schools holding an active subscription
// cannot be removed.
func (s *EcoleService) Delete(id string) error {
	ecole, err := s.GetByID(id)
	if err != nil {
		return err
	}
	var active int64
	if err := s.DB.Model(&models.Abonnement{}).
		Where("ecole_id = ? AND statut = ?", id, models.AbonnementActif).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return Conflictf("l'école %s détient un abonnement actif", ecole.Nom)
	}
	return s.DB.Delete(ecole).Error
}
