package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InterfaceNotificationService defines the notification service interface.
// Every Notify method is fire-and-forget: failures are logged and swallowed
// so a notification outage never breaks the workflow that triggered it.
type InterfaceNotificationService interface {
	NotifyAdmins(titre, message string, data map[string]interface{})
	NotifyTechnicien(technicienID, titre, message string, data map[string]interface{})
	NotifyTechniciensVille(villeID, titre, message string, data map[string]interface{})
	NotifyEcole(ecoleID, titre, message string, data map[string]interface{})
	GetForTarget(notifiableType, notifiableID string, page, pageSize int) ([]models.Notification, int64, error)
	MarquerLue(id string) (*models.Notification, error)
}

// NotificationService persists in-app notifications. Admin recipients are
// resolved through the injected resolver instead of an ad hoc role query, so
// tests and callers control exactly who gets notified.
type NotificationService struct {
	DB            *gorm.DB
	Config        *config.Config
	AdminResolver func() []string
}

// NewNotificationService creates a new notification service. adminResolver
// returns the user IDs that admin broadcasts target.
func NewNotificationService(db *gorm.DB, cfg *config.Config, adminResolver func() []string) InterfaceNotificationService {
	if adminResolver == nil {
		adminResolver = func() []string { return nil }
	}
	return &NotificationService{DB: db, Config: cfg, AdminResolver: adminResolver}
}

func (s *NotificationService) persist(notifiableType, notifiableID, titre, message string, data map[string]interface{}) {
	var payload datatypes.JSON
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.Warning("notification payload marshal failed: %v", err)
		} else {
			payload = datatypes.JSON(raw)
		}
	}
	notification := &models.Notification{
		NotifiableID:   notifiableID,
		NotifiableType: notifiableType,
		Titre:          titre,
		Message:        message,
		Data:           payload,
		DateEnvoi:      time.Now(),
	}
	if err := s.DB.Create(notification).Error; err != nil {
		logger.Warning("notification to %s %s not persisted: %v", notifiableType, notifiableID, err)
	}
}

// 1. NotifyAdmins notifies every resolved admin account
func (s *NotificationService) NotifyAdmins(titre, message string, data map[string]interface{}) {
	admins := s.AdminResolver()
	if len(admins) == 0 {
		logger.Warning("no admin target resolved, notification %q dropped", titre)
		return
	}
	for _, id := range admins {
		s.persist(models.NotifiableUser, id, titre, message, data)
	}
}

// 2. NotifyTechnicien notifies one technician
func (s *NotificationService) NotifyTechnicien(technicienID, titre, message string, data map[string]interface{}) {
	s.persist(models.NotifiableTechnicien, technicienID, titre, message, data)
}

// 3. NotifyTechniciensVille notifies every technician of a city's pool
func (s *NotificationService) NotifyTechniciensVille(villeID, titre, message string, data map[string]interface{}) {
	var techniciens []models.Technicien
	if err := s.DB.Where("ville_id = ?", villeID).Find(&techniciens).Error; err != nil {
		logger.Warning("technician pool lookup for ville %s failed: %v", villeID, err)
		return
	}
	for _, t := range techniciens {
		s.persist(models.NotifiableTechnicien, t.ID, titre, message, data)
	}
}

// 4. NotifyEcole notifies a school
func (s *NotificationService) NotifyEcole(ecoleID, titre, message string, data map[string]interface{}) {
	s.persist(models.NotifiableEcole, ecoleID, titre, message, data)
}

// 5. GetForTarget lists a recipient's notifications, newest first
func (s *NotificationService) GetForTarget(notifiableType, notifiableID string, page, pageSize int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := s.DB.Model(&models.Notification{}).
		Where("notifiable_type = ? AND notifiable_id = ?", notifiableType, notifiableID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Order("date_envoi desc").Limit(pageSize).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// 6. MarquerLue marks a notification as read
func (s *NotificationService) MarquerLue(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := s.DB.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("notification %s", id)
		}
		return nil, err
	}
	if err := s.DB.Model(&notification).Update("lu", true).Error; err != nil {
		return nil, err
	}
	notification.Lu = true
	return &notification, nil
}
