package services

import (
	"errors"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceTechnicienService defines the technician service interface
type InterfaceTechnicienService interface {
	Create(technicien *models.Technicien) (*models.Technicien, string, error)
	GetByID(id string) (*models.Technicien, error)
	GetAll(page, pageSize int) ([]models.Technicien, int64, error)
	GetByVille(villeID string) ([]models.Technicien, error)
	Update(id string, updates map[string]interface{}) (*models.Technicien, error)
	Delete(id string) error
}

// TechnicienService manages the technician pool
type TechnicienService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTechnicienService creates a new technician service
func NewTechnicienService(db *gorm.DB, cfg *config.Config) InterfaceTechnicienService {
	return &TechnicienService{DB: db, Config: cfg}
}

// 1. Create registers a technician and opens their account. The temporary
// password is returned in clear once for the admin to forward.
func (s *TechnicienService) Create(technicien *models.Technicien) (*models.Technicien, string, error) {
	if technicien.Nom == "" || technicien.Telephone == "" {
		return nil, "", Validationf("nom et téléphone sont requis")
	}
	var ville models.Ville
	if err := s.DB.First(&ville, "id = ?", technicien.VilleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", NotFoundf("ville %s", technicien.VilleID)
		}
		return nil, "", err
	}

	tempPassword := utils.RandomString(10)
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, "", err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(technicien).Error; err != nil {
			return err
		}
		user := &models.User{
			NomUtilisateur: technicien.Telephone,
			MotDePasse:     hashed,
			Role:           models.RoleTechnicien,
			Telephone:      technicien.Telephone,
			Email:          technicien.Email,
			AccountID:      &technicien.ID,
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, "", err
	}
	return technicien, tempPassword, nil
}

// 2. GetByID loads a technician
func (s *TechnicienService) GetByID(id string) (*models.Technicien, error) {
	var technicien models.Technicien
	if err := s.DB.Preload("Ville").First(&technicien, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("technicien %s", id)
		}
		return nil, err
	}
	return &technicien, nil
}

// 3. GetAll lists technicians with pagination
func (s *TechnicienService) GetAll(page, pageSize int) ([]models.Technicien, int64, error) {
	var techniciens []models.Technicien
	var total int64

	if err := s.DB.Model(&models.Technicien{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := s.DB.Preload("Ville").Limit(pageSize).Offset(offset).Find(&techniciens).Error; err != nil {
		return nil, 0, err
	}
	return techniciens, total, nil
}

// 4. GetByVille lists the technician pool of a city
func (s *TechnicienService) GetByVille(villeID string) ([]models.Technicien, error) {
	var techniciens []models.Technicien
	if err := s.DB.Where("ville_id = ?", villeID).Find(&techniciens).Error; err != nil {
		return nil, err
	}
	return techniciens, nil
}

// 5. Update applies field updates
func (s *TechnicienService) Update(id string, updates map[string]interface{}) (*models.Technicien, error) {
	technicien, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(technicien).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// 6. Delete soft-deletes a technician. Refused while they carry an open
// intervention.
func (s *TechnicienService) Delete(id string) error {
	technicien, err := s.GetByID(id)
	if err != nil {
		return err
	}
	var open int64
	if err := s.DB.Model(&models.Intervention{}).
		Where("technicien_id = ? AND statut IN ?", id,
			[]models.StatutIntervention{models.InterventionAssignee, models.InterventionEnCours}).
		Count(&open).Error; err != nil {
		return err
	}
	if open > 0 {
		return Conflictf("le technicien %s a une intervention en cours", technicien.Nom)
	}
	return s.DB.Delete(technicien).Error
}
