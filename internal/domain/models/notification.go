package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification targets.
const (
	NotifiableUser       = "user"
	NotifiableTechnicien = "technicien"
	NotifiableEcole      = "ecole"
)

// Notification is a persisted in-app notification. Delivery is
// fire-and-forget: failures are logged, never propagated.
type Notification struct {
	BaseModel
	NotifiableID   string         `gorm:"type:varchar(36);not null;index" json:"notifiable_id"`
	NotifiableType string         `gorm:"type:varchar(20);not null" json:"notifiable_type"`
	Titre          string         `gorm:"type:varchar(150);not null" json:"titre"`
	Message        string         `gorm:"type:text;not null" json:"message"`
	Type           string         `gorm:"type:varchar(30);default:'systeme'" json:"type"`
	Canal          string         `gorm:"type:varchar(30);default:'systeme'" json:"canal"`
	Data           datatypes.JSON `json:"data,omitempty"`
	Lu             bool           `gorm:"default:false" json:"lu"`
	DateEnvoi      time.Time      `json:"date_envoi"`
}

func (Notification) TableName() string {
	return "notifications"
}
