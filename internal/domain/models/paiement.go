package models

import (
	"time"

	"gorm.io/datatypes"
)

// StatutPaiement is the state of a payment.
type StatutPaiement string

const (
	PaiementEnAttente StatutPaiement = "en_attente"
	PaiementValide    StatutPaiement = "valide"
)

// MoyenPaiement bounds the accepted payment methods.
type MoyenPaiement string

const (
	MoyenMobileMoney MoyenPaiement = "MOBILE_MONEY"
	MoyenCarte       MoyenPaiement = "CARTE"
	MoyenQrCode      MoyenPaiement = "QR_CODE"
	MoyenVirement    MoyenPaiement = "VIREMENT"
)

// Valid reports whether the method is one of the accepted values.
func (m MoyenPaiement) Valid() bool {
	switch m {
	case MoyenMobileMoney, MoyenCarte, MoyenQrCode, MoyenVirement:
		return true
	}
	return false
}

// Paiement records a payment against a subscription. Validating a payment is
// the trigger that activates its subscription.
type Paiement struct {
	BaseModel
	AbonnementID      string         `gorm:"type:varchar(36);not null;index" json:"abonnement_id"`
	EcoleID           string         `gorm:"type:varchar(36);not null;index" json:"ecole_id"`
	NumeroTransaction string         `gorm:"type:varchar(30);unique;not null" json:"numero_transaction"`
	Montant           float64        `json:"montant"`
	Moyen             MoyenPaiement  `gorm:"type:varchar(20);not null" json:"moyen"`
	Statut            StatutPaiement `gorm:"type:varchar(20);default:'en_attente'" json:"statut"`
	ReferenceExterne  string         `gorm:"type:varchar(100)" json:"reference_externe"`
	Metadata          datatypes.JSON `json:"metadata,omitempty"`
	DatePaiement      time.Time      `json:"date_paiement"`
	DateValidation    *time.Time     `json:"date_validation,omitempty"`

	Abonnement *Abonnement `gorm:"foreignKey:AbonnementID" json:"abonnement,omitempty"`
	Ecole      *Ecole      `gorm:"foreignKey:EcoleID" json:"ecole,omitempty"`
}

func (Paiement) TableName() string {
	return "paiements"
}
