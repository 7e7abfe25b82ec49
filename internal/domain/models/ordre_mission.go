package models

import "time"

// StatutOrdreMission is the state of a mission order.
type StatutOrdreMission string

const (
	OrdreEnAttente StatutOrdreMission = "en_attente"
	OrdreEnCours   StatutOrdreMission = "en_cours"
	OrdreTermine   StatutOrdreMission = "terminee"
	OrdreCloture   StatutOrdreMission = "cloturee"
)

var ordreMissionTransitions = map[StatutOrdreMission][]StatutOrdreMission{
	OrdreEnAttente: {OrdreEnCours, OrdreCloture},
	OrdreEnCours:   {OrdreTermine, OrdreCloture},
	OrdreTermine:   {OrdreCloture},
	OrdreCloture:   {},
}

// CanTransitionTo reports whether the transition is allowed.
func (s StatutOrdreMission) CanTransitionTo(next StatutOrdreMission) bool {
	for _, allowed := range ordreMissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrdreMission is dispatched to the technician pool of a city after a fault
// report has been validated. Exactly one order exists per fault report,
// enforced by the unique index on PanneID.
type OrdreMission struct {
	BaseModel
	PanneID                    string             `gorm:"type:varchar(36);not null;uniqueIndex" json:"panne_id"`
	VilleID                    string             `gorm:"type:varchar(36);not null;index" json:"ville_id"`
	NumeroOrdre                string             `gorm:"type:varchar(30);unique;not null" json:"numero_ordre"`
	Statut                     StatutOrdreMission `gorm:"type:varchar(20);default:'en_attente'" json:"statut"`
	DateGeneration             time.Time          `json:"date_generation"`
	NombreTechniciensRequis    int                `gorm:"default:1" json:"nombre_techniciens_requis"`
	NombreTechniciensAcceptes  int                `gorm:"default:0" json:"nombre_techniciens_acceptes"`
	CandidatureCloturee        bool               `gorm:"default:false" json:"candidature_cloturee"`
	DateClotureCandidature     *time.Time         `json:"date_cloture_candidature,omitempty"`
	ClotureCandidaturePar      *string            `gorm:"type:varchar(36)" json:"cloture_candidature_par,omitempty"`
	TechnicienID               *string            `gorm:"type:varchar(36);index" json:"technicien_id,omitempty"`
	DateAcceptation            *time.Time         `json:"date_acceptation,omitempty"`
	Commentaire                string             `gorm:"type:text" json:"commentaire"`

	Panne               *Panne              `gorm:"foreignKey:PanneID" json:"panne,omitempty"`
	Ville               *Ville              `gorm:"foreignKey:VilleID" json:"ville,omitempty"`
	Technicien          *Technicien         `gorm:"foreignKey:TechnicienID" json:"technicien,omitempty"`
	MissionsTechniciens []MissionTechnicien `gorm:"foreignKey:OrdreMissionID" json:"missions_techniciens,omitempty"`
	Interventions       []Intervention      `gorm:"foreignKey:OrdreMissionID" json:"interventions,omitempty"`
}

func (OrdreMission) TableName() string {
	return "ordres_mission"
}
