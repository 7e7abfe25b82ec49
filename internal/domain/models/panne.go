package models

import "time"

// StatutPanne is the state of a fault report.
type StatutPanne string

const (
	PanneEnAttente StatutPanne = "en_attente"
	PanneValidee   StatutPanne = "validee"
	PanneCloturee  StatutPanne = "cloturee"
)

// panneTransitions is the guarded transition table for fault reports.
var panneTransitions = map[StatutPanne][]StatutPanne{
	PanneEnAttente: {PanneValidee, PanneCloturee},
	PanneValidee:   {PanneCloturee},
	PanneCloturee:  {},
}

// CanTransitionTo reports whether the transition is allowed.
func (s StatutPanne) CanTransitionTo(next StatutPanne) bool {
	for _, allowed := range panneTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PrioritePanne bounds the accepted priorities.
type PrioritePanne string

const (
	PrioriteBasse   PrioritePanne = "basse"
	PrioriteMoyenne PrioritePanne = "moyenne"
	PrioriteHaute   PrioritePanne = "haute"
)

// Valid reports whether the priority is one of the accepted values.
func (p PrioritePanne) Valid() bool {
	return p == PrioriteBasse || p == PrioriteMoyenne || p == PrioriteHaute
}

// Panne is a fault report declared against a site's siren.
type Panne struct {
	BaseModel
	SireneID        string        `gorm:"type:varchar(36);not null;index" json:"sirene_id"`
	SiteID          string        `gorm:"type:varchar(36);not null;index" json:"site_id"`
	Description     string        `gorm:"type:text;not null" json:"description"`
	Priorite        PrioritePanne `gorm:"type:varchar(10);default:'moyenne'" json:"priorite"`
	Statut          StatutPanne   `gorm:"type:varchar(20);default:'en_attente'" json:"statut"`
	DateDeclaration time.Time     `json:"date_declaration"`
	DateValidation  *time.Time    `json:"date_validation,omitempty"`
	DateCloture     *time.Time    `json:"date_cloture,omitempty"`

	Sirene        *Sirene       `gorm:"foreignKey:SireneID" json:"sirene,omitempty"`
	Site          *Site         `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	OrdreMission  *OrdreMission `gorm:"foreignKey:PanneID" json:"ordre_mission,omitempty"`
	Interventions []Intervention `gorm:"foreignKey:PanneID" json:"interventions,omitempty"`
}

func (Panne) TableName() string {
	return "pannes"
}
