package models

import "time"

// StatutIntervention is the state of a repair visit.
type StatutIntervention string

const (
	InterventionAssignee StatutIntervention = "assignee"
	InterventionEnCours  StatutIntervention = "en_cours"
	InterventionTerminee StatutIntervention = "terminee"
)

var interventionTransitions = map[StatutIntervention][]StatutIntervention{
	InterventionAssignee: {InterventionEnCours},
	InterventionEnCours:  {InterventionTerminee},
	InterventionTerminee: {},
}

// CanTransitionTo reports whether the transition is allowed.
func (s StatutIntervention) CanTransitionTo(next StatutIntervention) bool {
	for _, allowed := range interventionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Intervention is the repair visit created when a candidature is accepted.
type Intervention struct {
	BaseModel
	PanneID         string             `gorm:"type:varchar(36);not null;index" json:"panne_id"`
	TechnicienID    string             `gorm:"type:varchar(36);not null;index" json:"technicien_id"`
	OrdreMissionID  string             `gorm:"type:varchar(36);not null;index" json:"ordre_mission_id"`
	Statut          StatutIntervention `gorm:"type:varchar(20);default:'assignee'" json:"statut"`
	DateAssignation time.Time          `json:"date_assignation"`
	DateDebut       *time.Time         `json:"date_debut,omitempty"`
	DateFin         *time.Time         `json:"date_fin,omitempty"`
	NoteEcole       *int               `json:"note_ecole,omitempty"`
	CommentaireEcole string            `gorm:"type:text" json:"commentaire_ecole"`

	Panne        *Panne               `gorm:"foreignKey:PanneID" json:"panne,omitempty"`
	Technicien   *Technicien          `gorm:"foreignKey:TechnicienID" json:"technicien,omitempty"`
	OrdreMission *OrdreMission        `gorm:"foreignKey:OrdreMissionID" json:"ordre_mission,omitempty"`
	Rapport      *RapportIntervention `gorm:"foreignKey:InterventionID" json:"rapport,omitempty"`
}

func (Intervention) TableName() string {
	return "interventions"
}

// StatutRapport is the state of a post-repair report.
type StatutRapport string

const (
	RapportBrouillon StatutRapport = "brouillon"
	RapportValide    StatutRapport = "valide"
)

// ResultatIntervention is the outcome declared in the report.
type ResultatIntervention string

const (
	ResultatResolu              ResultatIntervention = "resolu"
	ResultatPartiellementResolu ResultatIntervention = "partiellement_resolu"
	ResultatNonResolu           ResultatIntervention = "non_resolu"
)

// Valid reports whether the outcome is one of the accepted values.
func (r ResultatIntervention) Valid() bool {
	return r == ResultatResolu || r == ResultatPartiellementResolu || r == ResultatNonResolu
}

// RapportIntervention is the report filed by the technician, one per
// completed intervention.
type RapportIntervention struct {
	BaseModel
	InterventionID   string               `gorm:"type:varchar(36);not null;uniqueIndex" json:"intervention_id"`
	Diagnostic       string               `gorm:"type:text" json:"diagnostic"`
	TravauxEffectues string               `gorm:"type:text" json:"travaux_effectues"`
	PiecesUtilisees  string               `gorm:"type:text" json:"pieces_utilisees"`
	Recommandations  string               `gorm:"type:text" json:"recommandations"`
	Resultat         ResultatIntervention `gorm:"type:varchar(30)" json:"resultat"`
	Statut           StatutRapport        `gorm:"type:varchar(20);default:'brouillon'" json:"statut"`
	DateRapport      time.Time            `json:"date_rapport"`
	ReviewAdmin      string               `gorm:"type:text" json:"review_admin"`
	ReviewNote       *int                 `json:"review_note,omitempty"`

	Intervention *Intervention `gorm:"foreignKey:InterventionID" json:"intervention,omitempty"`
}

func (RapportIntervention) TableName() string {
	return "rapports_intervention"
}
