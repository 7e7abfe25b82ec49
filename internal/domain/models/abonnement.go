package models

import "time"

// StatutAbonnement is the state of a subscription.
type StatutAbonnement string

const (
	AbonnementEnAttente StatutAbonnement = "en_attente"
	AbonnementActif     StatutAbonnement = "actif"
	AbonnementExpire    StatutAbonnement = "expire"
	AbonnementSuspendu  StatutAbonnement = "suspendu"
	AbonnementAnnule    StatutAbonnement = "annule"
)

var abonnementTransitions = map[StatutAbonnement][]StatutAbonnement{
	AbonnementEnAttente: {AbonnementActif, AbonnementAnnule},
	AbonnementActif:     {AbonnementExpire, AbonnementSuspendu, AbonnementAnnule},
	AbonnementSuspendu:  {AbonnementActif, AbonnementAnnule},
	AbonnementExpire:    {},
	AbonnementAnnule:    {},
}

// CanTransitionTo reports whether the transition is allowed.
func (s StatutAbonnement) CanTransitionTo(next StatutAbonnement) bool {
	for _, allowed := range abonnementTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Abonnement covers one sirène on one site of a school for a date range.
type Abonnement struct {
	BaseModel
	EcoleID          string           `gorm:"type:varchar(36);not null;index" json:"ecole_id"`
	SiteID           string           `gorm:"type:varchar(36);not null;index" json:"site_id"`
	SireneID         string           `gorm:"type:varchar(36);not null;index" json:"sirene_id"`
	NumeroAbonnement string           `gorm:"type:varchar(30);unique;not null" json:"numero_abonnement"`
	Statut           StatutAbonnement `gorm:"type:varchar(20);default:'en_attente'" json:"statut"`
	DateDebut        time.Time        `json:"date_debut"`
	DateFin          time.Time        `json:"date_fin"`
	Montant          float64          `json:"montant"`
	DatePaiement     *time.Time       `json:"date_paiement,omitempty"`
	MotifSuspension  string           `gorm:"type:text" json:"motif_suspension"`
	MotifAnnulation  string           `gorm:"type:text" json:"motif_annulation"`
	QrCodePath       string           `gorm:"type:varchar(255)" json:"qr_code_path"`

	Ecole     *Ecole        `gorm:"foreignKey:EcoleID" json:"ecole,omitempty"`
	Site      *Site         `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Sirene    *Sirene       `gorm:"foreignKey:SireneID" json:"sirene,omitempty"`
	Paiements []Paiement    `gorm:"foreignKey:AbonnementID" json:"paiements,omitempty"`
	Tokens    []TokenSirene `gorm:"foreignKey:AbonnementID" json:"tokens,omitempty"`
}

func (Abonnement) TableName() string {
	return "abonnements"
}

// JoursRestants returns the whole days left before expiry, never negative.
func (a *Abonnement) JoursRestants(now time.Time) int {
	if now.After(a.DateFin) {
		return 0
	}
	return int(a.DateFin.Sub(now).Hours() / 24)
}

// EstValide reports whether the subscription is active and inside its window.
func (a *Abonnement) EstValide(now time.Time) bool {
	return a.Statut == AbonnementActif && !now.Before(a.DateDebut) && !now.After(a.DateFin)
}
