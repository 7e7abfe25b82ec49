package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceJourFerieService defines the public-holiday service interface
type InterfaceJourFerieService interface {
	Create(jour *models.JourFerie) error
	GetAll() ([]models.JourFerie, error)
	IsJourFerie(date time.Time) (bool, error)
	Delete(id string) error
}

// JourFerieService manages the public-holiday calendar
type JourFerieService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewJourFerieService creates a new public-holiday service
func NewJourFerieService(db *gorm.DB, cfg *config.Config) InterfaceJourFerieService {
	return &JourFerieService{DB: db, Config: cfg}
}

// 1. Create adds a holiday
func (s *JourFerieService) Create(jour *models.JourFerie) error {
	if jour.Nom == "" {
		return Validationf("le nom du jour férié est requis")
	}
	if jour.Date.IsZero() {
		return Validationf("la date du jour férié est requise")
	}
	if jour.Type == "" {
		jour.Type = models.JourFerieFixe
	}
	return s.DB.Create(jour).Error
}

// 2. GetAll lists the calendar
func (s *JourFerieService) GetAll() ([]models.JourFerie, error) {
	var jours []models.JourFerie
	if err := s.DB.Order("date asc").Find(&jours).Error; err != nil {
		return nil, err
	}
	return jours, nil
}

// 3. IsJourFerie reports whether the date is a holiday, recurring ones
// included
func (s *JourFerieService) IsJourFerie(date time.Time) (bool, error) {
	jours, err := s.GetAll()
	if err != nil {
		return false, err
	}
	for _, j := range jours {
		if j.Matches(date) {
			return true, nil
		}
	}
	return false, nil
}

// 4. Delete removes a holiday
func (s *JourFerieService) Delete(id string) error {
	var jour models.JourFerie
	if err := s.DB.First(&jour, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("jour férié %s", id)
		}
		return err
	}
	return s.DB.Delete(&jour).Error
}
