package services

import (
	"errors"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceVilleService defines the city service interface
type InterfaceVilleService interface {
	Create(ville *models.Ville) error
	GetByID(id string) (*models.Ville, error)
	GetAll() ([]models.Ville, error)
	Update(id string, updates map[string]interface{}) (*models.Ville, error)
	Delete(id string) error
}

// VilleService manages the city referential
type VilleService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewVilleService creates a new city service
func NewVilleService(db *gorm.DB, cfg *config.Config) InterfaceVilleService {
	return &VilleService{DB: db, Config: cfg}
}

// 1. Create adds a city
func (s *VilleService) Create(ville *models.Ville) error {
	if ville.Nom == "" {
		return Validationf("le nom de la ville est requis")
	}
	var count int64
	if err := s.DB.Model(&models.Ville{}).Where("nom = ?", ville.Nom).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return Conflictf("la ville %s existe déjà", ville.Nom)
	}
	return s.DB.Create(ville).Error
}

// 2. GetByID loads a city
func (s *VilleService) GetByID(id string) (*models.Ville, error) {
	var ville models.Ville
	if err := s.DB.First(&ville, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("ville %s", id)
		}
		return nil, err
	}
	return &ville, nil
}

// 3. GetAll lists every city
func (s *VilleService) GetAll() ([]models.Ville, error) {
	var villes []models.Ville
	if err := s.DB.Order("nom asc").Find(&villes).Error; err != nil {
		return nil, err
	}
	return villes, nil
}

// 4. Update applies field updates
func (s *VilleService) Update(id string, updates map[string]interface{}) (*models.Ville, error) {
	ville, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(ville).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// 5. Delete soft-deletes a city, refused while sites still reference it
func (s *VilleService) Delete(id string) error {
	ville, err := s.GetByID(id)
	if err != nil {
		return err
	}
	var sites int64
	if err := s.DB.Model(&models.Site{}).Where("ville_id = ?", id).Count(&sites).Error; err != nil {
		return err
	}
	if sites > 0 {
		return Conflictf("la ville %s est encore référencée par des sites", ville.Nom)
	}
	return s.DB.Delete(ville).Error
}
