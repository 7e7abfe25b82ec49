package services

import (
	"errors"
	"regexp"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	"gorm.io/gorm"
)

var heureFormat = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var joursValides = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// InterfaceProgrammationService defines the siren schedule service interface
type InterfaceProgrammationService interface {
	Create(programmation *models.Programmation) error
	GetByID(id string) (*models.Programmation, error)
	GetBySirene(sireneID string) ([]models.Programmation, error)
	EffectiveForDate(sireneID string, date time.Time) ([]models.Programmation, error)
	PushToSirene(sireneID string) error
	Update(id string, updates map[string]interface{}) (*models.Programmation, error)
	Delete(id string) error
}

// ProgrammationService manages the scheduled activations of sirens.
type ProgrammationService struct {
	DB               *gorm.DB
	Config           *config.Config
	JourFerieService InterfaceJourFerieService
	CommandService   InterfaceSirenCommandService
}

// NewProgrammationService creates a new schedule service
func NewProgrammationService(
	db *gorm.DB,
	cfg *config.Config,
	jourFerie InterfaceJourFerieService,
	command InterfaceSirenCommandService,
) InterfaceProgrammationService {
	return &ProgrammationService{
		DB:               db,
		Config:           cfg,
		JourFerieService: jourFerie,
		CommandService:   command,
	}
}

// 1. Create adds a schedule slot to a siren
func (s *ProgrammationService) Create(programmation *models.Programmation) error {
	if programmation.Nom == "" {
		return Validationf("le nom de la programmation est requis")
	}
	if !heureFormat.MatchString(programmation.HeureDeclenchement) {
		return Validationf("heure de déclenchement invalide, format attendu HH:MM")
	}
	if programmation.DureeSecondes <= 0 || programmation.DureeSecondes > 600 {
		return Validationf("la durée doit être comprise entre 1 et 600 secondes")
	}
	if len(programmation.JoursSemaine) == 0 {
		return Validationf("au moins un jour de la semaine est requis")
	}
	for _, jour := range programmation.JoursSemaine {
		if !joursValides[jour] {
			return Validationf("jour de semaine invalide: %s", jour)
		}
	}
	var sirene models.Sirene
	if err := s.DB.First(&sirene, "id = ?", programmation.SireneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("sirène %s", programmation.SireneID)
		}
		return err
	}
	return s.DB.Create(programmation).Error
}

// 2. GetByID loads a schedule slot
func (s *ProgrammationService) GetByID(id string) (*models.Programmation, error) {
	var programmation models.Programmation
	if err := s.DB.Preload("Sirene").First(&programmation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("programmation %s", id)
		}
		return nil, err
	}
	return &programmation, nil
}

// 3. GetBySirene lists the slots of a siren
func (s *ProgrammationService) GetBySirene(sireneID string) ([]models.Programmation, error) {
	var programmations []models.Programmation
	if err := s.DB.Where("sirene_id = ?", sireneID).
		Order("heure_declenchement asc").Find(&programmations).Error; err != nil {
		return nil, err
	}
	return programmations, nil
}

// 4. EffectiveForDate returns the slots that actually fire on a date: active,
// inside their validity window, matching the weekday, and not silenced by a
// public holiday unless the slot includes holidays.
func (s *ProgrammationService) EffectiveForDate(sireneID string, date time.Time) ([]models.Programmation, error) {
	programmations, err := s.GetBySirene(sireneID)
	if err != nil {
		return nil, err
	}

	ferie, err := s.JourFerieService.IsJourFerie(date)
	if err != nil {
		return nil, err
	}

	effective := make([]models.Programmation, 0, len(programmations))
	for _, p := range programmations {
		if !p.AppliesOn(date) {
			continue
		}
		if ferie && !p.JoursFeriesInclus {
			continue
		}
		effective = append(effective, p)
	}
	return effective, nil
}

// 5. PushToSirene publishes today's effective schedule to the device
func (s *ProgrammationService) PushToSirene(sireneID string) error {
	var sirene models.Sirene
	if err := s.DB.First(&sirene, "id = ?", sireneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("sirène %s", sireneID)
		}
		return err
	}

	effective, err := s.EffectiveForDate(sireneID, time.Now())
	if err != nil {
		return err
	}
	if err := s.CommandService.PublishSchedule(sirene.NumeroSerie, effective); err != nil {
		return err
	}
	logger.Info("programmation poussée vers la sirène %s (%d créneau(x))", sirene.NumeroSerie, len(effective))
	return nil
}

// 6. Update applies field updates to a slot
func (s *ProgrammationService) Update(id string, updates map[string]interface{}) (*models.Programmation, error) {
	programmation, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if heure, ok := updates["heure_declenchement"].(string); ok && !heureFormat.MatchString(heure) {
		return nil, Validationf("heure de déclenchement invalide, format attendu HH:MM")
	}
	if err := s.DB.Model(programmation).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// 7. Delete removes a slot
func (s *ProgrammationService) Delete(id string) error {
	programmation, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(programmation).Error
}
