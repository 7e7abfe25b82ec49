package models

import "time"

// TypeJourFerie distinguishes one-off holidays from yearly recurring ones.
type TypeJourFerie string

const (
	JourFerieFixe      TypeJourFerie = "fixe"
	JourFerieRecurrent TypeJourFerie = "recurrent"
)

// JourFerie is a public holiday during which sirens stay silent unless a
// programmation explicitly includes holidays.
type JourFerie struct {
	BaseModel
	Nom  string        `gorm:"type:varchar(100);not null" json:"nom"`
	Date time.Time     `gorm:"type:date;not null" json:"date"`
	Type TypeJourFerie `gorm:"type:varchar(20);default:'fixe'" json:"type"`
}

func (JourFerie) TableName() string {
	return "jours_feries"
}

// Matches reports whether the holiday falls on the given date. Recurring
// holidays match on month and day every year.
func (j *JourFerie) Matches(date time.Time) bool {
	if j.Type == JourFerieRecurrent {
		return j.Date.Month() == date.Month() && j.Date.Day() == date.Day()
	}
	y1, m1, d1 := j.Date.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CalendrierScolaire is a period of the school year (term, vacation).
type CalendrierScolaire struct {
	BaseModel
	AnneeScolaire string    `gorm:"type:varchar(9);not null" json:"annee_scolaire"` // "2025-2026"
	Type          string    `gorm:"type:varchar(30);not null" json:"type"`          // "rentree", "vacances", ...
	Libelle       string    `gorm:"type:varchar(150)" json:"libelle"`
	DateDebut     time.Time `gorm:"type:date;not null" json:"date_debut"`
	DateFin       time.Time `gorm:"type:date;not null" json:"date_fin"`
}

func (CalendrierScolaire) TableName() string {
	return "calendriers_scolaires"
}
