package services

import (
	"errors"
	"fmt"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceSireneService defines the siren fleet service interface
type InterfaceSireneService interface {
	Create(sirene *models.Sirene) error
	GetByID(id string) (*models.Sirene, error)
	GetAll(page, pageSize int, statut string) ([]models.Sirene, int64, error)
	GetDisponibles() ([]models.Sirene, error)
	FindByNumeroSerie(numeroSerie string) (*models.Sirene, error)
	AffecterASite(sireneID, siteID string) (*models.Sirene, error)
	Update(id string, updates map[string]interface{}) (*models.Sirene, error)
	Delete(id string) error
}

// ErrSiteInconnu flags an assignment to a site that does not exist. It
// wraps ErrNotFound so generic mappings still answer 404.
var ErrSiteInconnu = NotFoundf("site inconnu")

// SireneService manages the siren fleet
type SireneService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewSireneService creates a new siren fleet service
func NewSireneService(db *gorm.DB, cfg *config.Config) InterfaceSireneService {
	return &SireneService{DB: db, Config: cfg}
}

// 1. Create registers a device in the fleet
func (s *SireneService) Create(sirene *models.Sirene) error {
	if sirene.NumeroSerie == "" {
		return Validationf("un numéro de série est requis")
	}
	var count int64
	if err := s.DB.Model(&models.Sirene{}).Where("numero_serie = ?", sirene.NumeroSerie).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return Conflictf("une sirène avec le numéro de série %s existe déjà", sirene.NumeroSerie)
	}
	if sirene.Statut == "" {
		sirene.Statut = models.SireneDisponible
	}
	return s.DB.Create(sirene).Error
}

// 2. GetByID loads a device
func (s *SireneService) GetByID(id string) (*models.Sirene, error) {
	var sirene models.Sirene
	if err := s.DB.Preload("Site").First(&sirene, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("sirène %s", id)
		}
		return nil, err
	}
	return &sirene, nil
}

// 3. GetAll lists devices with pagination and optional status filter
func (s *SireneService) GetAll(page, pageSize int, statut string) ([]models.Sirene, int64, error) {
	var sirenes []models.Sirene
	var total int64

	query := s.DB.Model(&models.Sirene{})
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&sirenes).Error; err != nil {
		return nil, 0, err
	}
	return sirenes, total, nil
}

// 4. GetDisponibles lists unassigned devices
func (s *SireneService) GetDisponibles() ([]models.Sirene, error) {
	var sirenes []models.Sirene
	if err := s.DB.Where("statut = ? AND site_id IS NULL", models.SireneDisponible).Find(&sirenes).Error; err != nil {
		return nil, err
	}
	return sirenes, nil
}

// 5. FindByNumeroSerie looks a device up by serial number
func (s *SireneService) FindByNumeroSerie(numeroSerie string) (*models.Sirene, error) {
	var sirene models.Sirene
	if err := s.DB.Where("numero_serie = ?", numeroSerie).First(&sirene).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("sirène %s", numeroSerie)
		}
		return nil, err
	}
	return &sirene, nil
}

// 6. AffecterASite assigns an available device to a site
func (s *SireneService) AffecterASite(sireneID, siteID string) (*models.Sirene, error) {
	sirene, err := s.GetByID(sireneID)
	if err != nil {
		return nil, err
	}
	if sirene.Statut != models.SireneDisponible || sirene.SiteID != nil {
		return nil, Conflictf("la sirène %s n'est pas disponible", sirene.NumeroSerie)
	}

	var site models.Site
	if err := s.DB.First(&site, "id = ?", siteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("site %s: %w", siteID, ErrSiteInconnu)
		}
		return nil, err
	}

	if err := s.DB.Model(&models.Sirene{}).Where("id = ?", sireneID).Updates(map[string]interface{}{
		"site_id": siteID,
		"statut":  models.SireneAffectee,
	}).Error; err != nil {
		return nil, err
	}

	sirene.SiteID = &siteID
	sirene.Statut = models.SireneAffectee
	return sirene, nil
}

// 7. Update applies field updates
func (s *SireneService) Update(id string, updates map[string]interface{}) (*models.Sirene, error) {
	sirene, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(sirene).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// 8. Delete soft-deletes a device
func (s *SireneService) Delete(id string) error {
	sirene, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(sirene).Error
}
