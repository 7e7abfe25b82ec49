package models

import (
	"time"

	"gorm.io/datatypes"
)

// Programmation is a scheduled siren activation: a weekly slot with an
// optional validity window.
type Programmation struct {
	BaseModel
	SireneID           string                      `gorm:"type:varchar(36);not null;index" json:"sirene_id"`
	Nom                string                      `gorm:"type:varchar(100);not null" json:"nom"`
	HeureDeclenchement string                      `gorm:"type:varchar(5);not null" json:"heure_declenchement"` // "HH:MM"
	DureeSecondes      int                         `gorm:"default:30" json:"duree_secondes"`
	JoursSemaine       datatypes.JSONSlice[string] `json:"jours_semaine"` // "Monday", "Tuesday", ...
	JoursFeriesInclus  bool                        `gorm:"default:false" json:"jours_feries_inclus"`
	Actif              bool                        `gorm:"default:true" json:"actif"`
	DateDebut          *time.Time                  `json:"date_debut,omitempty"`
	DateFin            *time.Time                  `json:"date_fin,omitempty"`

	Sirene *Sirene `gorm:"foreignKey:SireneID" json:"sirene,omitempty"`
}

func (Programmation) TableName() string {
	return "programmations"
}

// AppliesOn reports whether the slot fires on the given weekday, ignoring
// holidays (the service layer owns the holiday decision).
func (p *Programmation) AppliesOn(date time.Time) bool {
	if !p.Actif {
		return false
	}
	if p.DateDebut != nil && date.Before(*p.DateDebut) {
		return false
	}
	if p.DateFin != nil && date.After(*p.DateFin) {
		return false
	}
	day := date.Weekday().String()
	for _, j := range p.JoursSemaine {
		if j == day {
			return true
		}
	}
	return false
}
