package services

import (
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceCalendrierScolaireService defines the school-calendar service
// interface
type InterfaceCalendrierScolaireService interface {
	Create(periode *models.CalendrierScolaire) error
	GetByAnnee(anneeScolaire string) ([]models.CalendrierScolaire, error)
	PeriodeAt(date time.Time) (*models.CalendrierScolaire, error)
	Delete(id string) error
}

// CalendrierScolaireService manages the school-year periods
type CalendrierScolaireService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCalendrierScolaireService creates a new school-calendar service
func NewCalendrierScolaireService(db *gorm.DB, cfg *config.Config) InterfaceCalendrierScolaireService {
	return &CalendrierScolaireService{DB: db, Config: cfg}
}

// 1. Create adds a period
func (s *CalendrierScolaireService) Create(periode *models.CalendrierScolaire) error {
	if periode.AnneeScolaire == "" || periode.Type == "" {
		return Validationf("année scolaire et type sont requis")
	}
	if periode.DateFin.Before(periode.DateDebut) {
		return Validationf("la date de fin précède la date de début")
	}
	return s.DB.Create(periode).Error
}

// 2. GetByAnnee lists the periods of a school year
func (s *CalendrierScolaireService) GetByAnnee(anneeScolaire string) ([]models.CalendrierScolaire, error) {
	var periodes []models.CalendrierScolaire
	if err := s.DB.Where("annee_scolaire = ?", anneeScolaire).
		Order("date_debut asc").Find(&periodes).Error; err != nil {
		return nil, err
	}
	return periodes, nil
}

// 3. PeriodeAt returns the period covering a date, if any
func (s *CalendrierScolaireService) PeriodeAt(date time.Time) (*models.CalendrierScolaire, error) {
	var periode models.CalendrierScolaire
	err := s.DB.Where("date_debut <= ? AND date_fin >= ?", date, date).
		Order("date_debut desc").First(&periode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("aucune période au %s", date.Format("2006-01-02"))
		}
		return nil, err
	}
	return &periode, nil
}

// 4. Delete removes a period
func (s *CalendrierScolaireService) Delete(id string) error {
	var periode models.CalendrierScolaire
	if err := s.DB.First(&periode, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("période %s", id)
		}
		return err
	}
	return s.DB.Delete(&periode).Error
}
