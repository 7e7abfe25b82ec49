package models

import "time"

// OtpCode is a single-use, time-boxed login code sent by SMS.
type OtpCode struct {
	BaseModel
	Telephone        string     `gorm:"type:varchar(30);not null;index" json:"telephone"`
	Code             string     `gorm:"type:varchar(6);not null" json:"-"`
	Type             string     `gorm:"type:varchar(20);default:'login'" json:"type"`
	Verifie          bool       `gorm:"default:false" json:"verifie"`
	Tentatives       int        `gorm:"default:0" json:"tentatives"`
	DateExpiration   time.Time  `json:"date_expiration"`
	DateVerification *time.Time `json:"date_verification,omitempty"`
}

func (OtpCode) TableName() string {
	return "otp_codes"
}
